package publish

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"encyc-sync/pkg/classify"
	"encyc-sync/pkg/docstore"
	"encyc-sync/pkg/domain"
	"encyc-sync/pkg/reconcile"
)

// Articles syncs article pages from the wiki into the document store.
// Each article's primary sources are fetched from the PSMS and written
// alongside it, matching what readers of the article expect to see.
func (p *Publisher) Articles(ctx context.Context, opts Options) (*domain.RunReport, error) {
	report := &domain.RunReport{
		DocType: "articles",
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
	whitelist, err := p.wiki.ArticleTypeCategories(ctx)
	if err != nil {
		return nil, err
	}
	articleItems, _ := reconcile.Partition(pageItems(published), authorTitles)

	cls := classify.New(classify.Config{
		PublishedTitles:   itemKeys(articleItems),
		AuthorTitles:      authorTitles,
		NonArticlePages:   p.cfg.NonArticlePages,
		CategoryWhitelist: whitelist,
		HiddenCategories:  p.cfg.HiddenCategories,
	})

	// Resource Guide titles drive link marking. The previous run's set
	// is close enough; a page newly restricted in this run is picked up
	// the next time its linkers change.
	rgTitles, err := p.store.RestrictedTitles(ctx)
	if err != nil {
		p.log.Warn("could not list restricted titles", zap.Error(err))
	}

	indexed, err := p.store.Articles(ctx)
	if err != nil {
		return nil, err
	}
	p.log.Info("article listings",
		zap.Int("wiki", len(articleItems)), zap.Int("indexed", len(indexed)))

	plan := buildPlan(opts, articleItems, indexed)
	report.Considered = len(plan.Update) + len(plan.Delete)
	if opts.Title == "" && len(articleItems) == 0 && len(indexed) > 0 {
		report.Warnings = append(report.Warnings,
			p.warnEmptySource("articles", len(articleItems), len(indexed)))
	}
	if opts.Report {
		report.Finished = time.Now().UTC()
		return report, nil
	}

	p.deleteKeys(ctx, plan.Delete, opts.DryRun, report, p.store.DeleteArticle)

	indexedSet := keySet(indexed)
	p.runPool(ctx, plan.Update, p.cfg.Workers, func(ctx context.Context, key string) result {
		return p.processArticle(ctx, key, cls, rgTitles, indexedSet[key], opts.DryRun)
	}, report)

	report.Finished = time.Now().UTC()
	p.archiveRun(ctx, report)
	p.log.Info("articles run complete",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("deleted", report.Deleted),
		zap.Int("unpublishable", report.Unpublishable),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.Elapsed()))
	return report, nil
}

func (p *Publisher) processArticle(
	ctx context.Context,
	key string,
	cls *classify.Classifier,
	rgTitles []string,
	existed, dryRun bool,
) result {
	page, err := p.wiki.GetPage(ctx, key)
	if err != nil {
		return result{key: key, stage: domain.StageFetch, err: err}
	}
	publishable := page.Published || p.cfg.ShowUnpublished
	if page.Missing || !publishable || cls.Classify(key) != domain.DocArticle {
		if existed && !dryRun {
			if err := p.store.DeleteArticle(ctx, key); err != nil && !errors.Is(err, docstore.ErrNotFound) {
				return result{key: key, stage: domain.StageDelete, err: err}
			}
		}
		return result{key: key, outcome: outcomeUnpublished}
	}

	// the page's primary sources, saved alongside the article
	records, err := p.psms.Sources(ctx, sourceIDsFromImages(page.Images))
	if err != nil {
		return result{key: key, stage: domain.StageFetch, err: err}
	}
	sourceIDs := make([]string, 0, len(records))
	for _, rec := range records {
		src, err := p.psms.ToSource(rec)
		if err != nil {
			return result{key: key, stage: domain.StageTransform, err: err}
		}
		sourceIDs = append(sourceIDs, src.EncyclopediaID)
		if dryRun {
			continue
		}
		if err := p.store.SaveSource(ctx, src); err != nil {
			return result{key: key, stage: domain.StageWrite, err: err}
		}
	}

	article, err := BuildArticle(page, cls, sourceIDs, rgTitles, p.cfg)
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
	if err := p.store.SaveArticle(ctx, article); err != nil {
		return result{key: key, stage: domain.StageWrite, err: err}
	}
	if _, err := p.store.GetArticle(ctx, key); err != nil {
		return result{key: key, stage: domain.StageVerify, err: err}
	}
	p.log.Debug("article saved",
		zap.String("key", key), zap.Int("sources", len(sourceIDs)))
	return result{key: key, outcome: outcome}
}

func itemKeys(items []reconcile.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Key)
	}
	return out
}
