package publish

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"encyc-sync/pkg/docstore"
	"encyc-sync/pkg/domain"
	"encyc-sync/pkg/reconcile"
	"encyc-sync/pkg/wiki"
)

// Authors syncs author pages from the wiki into the document store.
func (p *Publisher) Authors(ctx context.Context, opts Options) (*domain.RunReport, error) {
	report := &domain.RunReport{
		DocType: "authors",
		Started: time.Now().UTC(),
		DryRun:  opts.DryRun,
	}

	if err := p.wiki.Login(ctx); err != nil {
		return nil, err
	}
	defer p.wiki.Logout(ctx)

	published, err := p.wiki.PublishedPages(ctx)
	if err != nil {
		return nil, err
	}
	authorTitles, err := p.wiki.AuthorTitles(ctx)
	if err != nil {
		return nil, err
	}
	_, authorItems := reconcile.Partition(pageItems(published), authorTitles)

	indexed, err := p.store.Authors(ctx)
	if err != nil {
		return nil, err
	}
	p.log.Info("author listings",
		zap.Int("wiki", len(authorItems)), zap.Int("indexed", len(indexed)))

	plan := buildPlan(opts, authorItems, indexed)
	report.Considered = len(plan.Update) + len(plan.Delete)
	if opts.Title == "" && len(authorItems) == 0 && len(indexed) > 0 {
		report.Warnings = append(report.Warnings,
			p.warnEmptySource("authors", len(authorItems), len(indexed)))
	}
	if opts.Report {
		report.Finished = time.Now().UTC()
		return report, nil
	}

	p.deleteKeys(ctx, plan.Delete, opts.DryRun, report, p.store.DeleteAuthor)

	indexedSet := keySet(indexed)
	p.runPool(ctx, plan.Update, p.cfg.Workers, func(ctx context.Context, key string) result {
		return p.processAuthor(ctx, key, indexedSet[key], opts.DryRun)
	}, report)

	report.Finished = time.Now().UTC()
	p.archiveRun(ctx, report)
	p.log.Info("authors run complete",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("deleted", report.Deleted),
		zap.Int("unpublishable", report.Unpublishable),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.Elapsed()))
	return report, nil
}

func (p *Publisher) processAuthor(ctx context.Context, key string, existed, dryRun bool) result {
	page, err := p.wiki.GetPage(ctx, key)
	if err != nil {
		return result{key: key, stage: domain.StageFetch, err: err}
	}
	if page.Missing || (!page.Published && !p.cfg.ShowUnpublished) {
		if existed && !dryRun {
			if err := p.store.DeleteAuthor(ctx, key); err != nil && !errors.Is(err, docstore.ErrNotFound) {
				return result{key: key, stage: domain.StageDelete, err: err}
			}
		}
		return result{key: key, outcome: outcomeUnpublished}
	}

	articleTitles, err := p.wiki.Backlinks(ctx, key)
	if err != nil {
		return result{key: key, stage: domain.StageFetch, err: err}
	}
	author, err := BuildAuthor(page, articleTitles, p.cfg)
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
	if err := p.store.SaveAuthor(ctx, author); err != nil {
		return result{key: key, stage: domain.StageWrite, err: err}
	}
	// read the document back so a silent save failure surfaces here
	if _, err := p.store.GetAuthor(ctx, key); err != nil {
		return result{key: key, stage: domain.StageVerify, err: err}
	}
	p.log.Debug("author saved", zap.String("key", key))
	return result{key: key, outcome: outcome}
}

func buildPlan(opts Options, source, indexed []reconcile.Item) reconcile.Plan {
	switch {
	case opts.Title != "":
		return reconcile.Single(opts.Title)
	case opts.Force:
		return reconcile.Force(indexed)
	case opts.Rebuild:
		return reconcile.Rebuild(source)
	default:
		return reconcile.Diff(source, indexed)
	}
}

func (p *Publisher) deleteKeys(
	ctx context.Context,
	keys []string,
	dryRun bool,
	report *domain.RunReport,
	del func(context.Context, string) error,
) {
	for _, key := range keys {
		if dryRun {
			report.Deleted++
			continue
		}
		if err := del(ctx, key); err != nil && !errors.Is(err, docstore.ErrNotFound) {
			p.log.Error("delete failed", zap.String("key", key), zap.Error(err))
			report.AddFailure(key, domain.StageDelete, err)
			continue
		}
		report.Deleted++
		p.log.Info("deleted", zap.String("key", key))
	}
}

func pageItems(pages []wiki.PageInfo) []reconcile.Item {
	items := make([]reconcile.Item, 0, len(pages))
	for _, page := range pages {
		items = append(items, reconcile.Item{Key: page.Title, LastMod: page.LastMod})
	}
	return items
}

func keySet(items []reconcile.Item) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item.Key] = true
	}
	return set
}
