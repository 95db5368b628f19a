package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"encyc-sync/pkg/docstore"
	"encyc-sync/pkg/domain"
	"encyc-sync/pkg/reconcile"
)

// Sources syncs primary-source records from the PSMS into the document
// store. Unlike articles and authors this run needs no wiki session;
// the PSMS sitemap is the source listing.
func (p *Publisher) Sources(ctx context.Context, opts Options) (*domain.RunReport, error) {
	report := &domain.RunReport{
		DocType: "sources",
		Started: time.Now().UTC(),
		DryRun:  opts.DryRun,
	}

	sitemap, err := p.psms.Sitemap(ctx)
	if err != nil {
		return nil, err
	}
	var sourceItems []reconcile.Item
	for _, entry := range sitemap {
		lastmod, err := entry.LastMod()
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"source %s: bad modified %q, skipped", entry.EncyclopediaID, entry.Modified))
			continue
		}
		sourceItems = append(sourceItems, reconcile.Item{
			Key:     entry.EncyclopediaID,
			LastMod: lastmod,
		})
	}

	indexed, err := p.store.Sources(ctx)
	if err != nil {
		return nil, err
	}
	p.log.Info("source listings",
		zap.Int("psms", len(sourceItems)), zap.Int("indexed", len(indexed)))

	plan := buildPlan(opts, sourceItems, indexed)
	report.Considered = len(plan.Update) + len(plan.Delete)
	if opts.Title == "" && len(sourceItems) == 0 && len(indexed) > 0 {
		report.Warnings = append(report.Warnings,
			p.warnEmptySource("sources", len(sourceItems), len(indexed)))
	}
	if opts.Report {
		report.Finished = time.Now().UTC()
		return report, nil
	}

	p.deleteKeys(ctx, plan.Delete, opts.DryRun, report, p.store.DeleteSource)

	indexedSet := keySet(indexed)
	p.runPool(ctx, plan.Update, p.cfg.Workers, func(ctx context.Context, key string) result {
		return p.processSource(ctx, key, indexedSet[key], opts.DryRun)
	}, report)

	report.Finished = time.Now().UTC()
	p.archiveRun(ctx, report)
	p.log.Info("sources run complete",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("deleted", report.Deleted),
		zap.Int("unpublishable", report.Unpublishable),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.Elapsed()))
	return report, nil
}

func (p *Publisher) processSource(ctx context.Context, key string, existed, dryRun bool) result {
	rec, err := p.psms.Source(ctx, key)
	if err != nil {
		return result{key: key, stage: domain.StageFetch, err: err}
	}
	if rec == nil || !rec.Published {
		if existed && !dryRun {
			if err := p.store.DeleteSource(ctx, key); err != nil && !errors.Is(err, docstore.ErrNotFound) {
				return result{key: key, stage: domain.StageDelete, err: err}
			}
		}
		return result{key: key, outcome: outcomeUnpublished}
	}

	src, err := p.psms.ToSource(*rec)
	if err != nil {
		return result{key: key, stage: domain.StageTransform, err: err}
	}

	outcome := outcomeCreated
	if existed {
		outcome = outcomeUpdated
	}
	if dryRun {
		return result{key: key, outcome: outcome}
	}
	if err := p.store.SaveSource(ctx, src); err != nil {
		return result{key: key, stage: domain.StageWrite, err: err}
	}
	if _, err := p.store.GetSource(ctx, key); err != nil {
		return result{key: key, stage: domain.StageVerify, err: err}
	}
	p.log.Debug("source saved", zap.String("key", key))
	return result{key: key, outcome: outcome}
}
