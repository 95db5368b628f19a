// Package publish orchestrates sync runs: it lists pages on the wiki
// and sources in the PSMS, reconciles them against the document store,
// and pushes the differences through fetch, transform, write and
// verify.
package publish

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"encyc-sync/pkg/config"
	"encyc-sync/pkg/docstore"
	"encyc-sync/pkg/domain"
	"encyc-sync/pkg/psms"
	"encyc-sync/pkg/reports"
	"encyc-sync/pkg/wiki"
)

// Options selects what a run does.
type Options struct {
	// Report plans the run and returns counts without touching anything.
	Report bool
	// DryRun fetches and builds every document but skips all writes.
	DryRun bool
	// Force updates every document already in the store, skipping the
	// timestamp comparison. No deletes.
	Force bool
	// Rebuild updates every key in the source listing, skipping the
	// timestamp comparison. No deletes. Used to populate an empty store.
	Rebuild bool
	// Title restricts the run to a single page or source.
	Title string
}

// Publisher wires the upstream clients, the document store and the
// optional report archive together.
type Publisher struct {
	wiki    *wiki.Client
	psms    *psms.Client
	store   *docstore.Store
	archive *reports.Store // nil when no DSN configured
	cfg     config.Publish
	log     *zap.Logger
}

func New(
	wikiClient *wiki.Client,
	psmsClient *psms.Client,
	store *docstore.Store,
	archive *reports.Store,
	cfg config.Publish,
	logger *zap.Logger,
) *Publisher {
	return &Publisher{
		wiki:    wikiClient,
		psms:    psmsClient,
		store:   store,
		archive: archive,
		cfg:     cfg,
		log:     logger,
	}
}

// Status reports how the document store compares to the upstreams.
type Status struct {
	WikiPublished int
	WikiAuthors   int
	PSMSSources   int

	StoredArticles int64
	StoredAuthors  int64
	StoredSources  int64
}

// Status gathers counts from the wiki, the PSMS and the docstore.
func (p *Publisher) Status(ctx context.Context) (*Status, error) {
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
	sitemap, err := p.psms.Sitemap(ctx)
	if err != nil {
		return nil, err
	}
	articles, authors, sources, err := p.store.Counts(ctx)
	if err != nil {
		return nil, err
	}

	authorSet := make(map[string]bool, len(authorTitles))
	for _, t := range authorTitles {
		authorSet[t] = true
	}
	publishedAuthors := 0
	for _, page := range published {
		if authorSet[page.Title] {
			publishedAuthors++
		}
	}

	return &Status{
		WikiPublished:  len(published) - publishedAuthors,
		WikiAuthors:    publishedAuthors,
		PSMSSources:    len(sitemap),
		StoredArticles: articles,
		StoredAuthors:  authors,
		StoredSources:  sources,
	}, nil
}

// archiveRun saves the run report when an archive is configured.
// Archive failures are logged, never fatal: the sync itself happened.
func (p *Publisher) archiveRun(ctx context.Context, report *domain.RunReport) {
	if p.archive == nil {
		return
	}
	if err := p.archive.Save(ctx, report); err != nil {
		p.log.Warn("failed to archive run report",
			zap.String("doc_type", report.DocType), zap.Error(err))
	}
}

func (p *Publisher) warnEmptySource(docType string, sourceCount, indexedCount int) string {
	warning := fmt.Sprintf(
		"%s: source listing is empty but %d documents are indexed; continuing, every indexed %s would be deleted by a non-force run",
		docType, indexedCount, docType,
	)
	p.log.Warn("empty source listing",
		zap.String("doc_type", docType),
		zap.Int("indexed", indexedCount),
		zap.Int("source", sourceCount),
	)
	return warning
}
