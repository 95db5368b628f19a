package publish

import (
	"fmt"

	"encyc-sync/pkg/classify"
	"encyc-sync/pkg/config"
	"encyc-sync/pkg/domain"
	"encyc-sync/pkg/transform"
	"encyc-sync/pkg/wiki"
)

// rgCoreDatabox is the databox that marks a page as published to the
// restricted Resource Guide.
const rgCoreDatabox = "rgdatabox-Core"

// BuildArticle turns a fetched wiki page into an article document.
// sourceIDs are the encyclopedia IDs of the page's primary sources;
// rgTitles is the set of Resource Guide titles used for link marking.
func BuildArticle(
	page *wiki.Page,
	cls *classify.Classifier,
	sourceIDs []string,
	rgTitles []string,
	cfg config.Publish,
) (*domain.Article, error) {
	raw := page.RawHTML

	databoxIDs := make([]string, 0, len(cfg.Databoxes))
	for id := range cfg.Databoxes {
		databoxIDs = append(databoxIDs, id)
	}
	databoxes, err := transform.ExtractDataboxes(raw, databoxIDs)
	if err != nil {
		return nil, fmt.Errorf("databoxes for %s: %w", page.URLTitle, err)
	}

	body, err := transform.Body(raw, transform.Options{
		HiddenSelectors: cfg.HiddenTags,
		HiddenComments:  cfg.HiddenTagComments,
		RGTitles:        rgTitles,
		RGArticleBase:   cfg.RGArticleBase,
		SourceIDs:       sourceIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("transforming %s: %w", page.URLTitle, err)
	}

	prev, next := cls.PrevNext(page.URLTitle)

	article := &domain.Article{
		URLTitle:            page.URLTitle,
		Title:               page.Title,
		TitleSort:           transform.MakeTitleSort(page.TitleSortProp, page.Title),
		Description:         transform.ExtractDescription(body),
		Body:                body,
		BodyText:            transform.BodyText(body),
		Published:           page.Published,
		PublishedFront:      !transform.NotPublishedFront(raw),
		PublishedRestricted: restrictedByDatabox(databoxes),
		Modified:            page.LastMod,
		Categories:          cls.Categories(page.Categories),
		Coordinates:         transform.FindCoordinates(raw),
		Authors:             transform.ParseAuthors(raw),
		SourceIDs:           sourceIDs,
		PrevPage:            prev,
		NextPage:            next,
	}

	if len(databoxes) > 0 {
		article.Databoxes = map[string]map[string][]string{}
		article.DataboxFields = map[string][]string{}
		for divID, box := range databoxes {
			article.Databoxes[divID] = box.Map()
			prefix := cfg.Databoxes[divID]
			if prefix == "" {
				continue
			}
			for _, key := range box.Keys() {
				article.DataboxFields[prefix+"_"+key] = box.Get(key)
			}
		}
	}
	return article, nil
}

// restrictedByDatabox reports whether the rgdatabox-Core databox
// declares a media type, which marks the page as published to the
// restricted Resource Guide.
func restrictedByDatabox(databoxes map[string]*domain.Databox) bool {
	box, ok := databoxes[rgCoreDatabox]
	if !ok {
		return false
	}
	for _, v := range box.Get("rgmediatype") {
		if v != "" {
			return true
		}
	}
	return false
}

// BuildAuthor turns a fetched wiki page into an author document.
// articleTitles are the pages linking back to the author's page.
func BuildAuthor(
	page *wiki.Page,
	articleTitles []string,
	cfg config.Publish,
) (*domain.Author, error) {
	body, err := transform.Body(page.RawHTML, transform.Options{
		HiddenSelectors: cfg.HiddenTags,
		HiddenComments:  cfg.HiddenTagComments,
		RGArticleBase:   cfg.RGArticleBase,
	})
	if err != nil {
		return nil, fmt.Errorf("transforming %s: %w", page.URLTitle, err)
	}
	return &domain.Author{
		URLTitle:      page.URLTitle,
		Title:         page.Title,
		TitleSort:     transform.MakeTitleSort(page.TitleSortProp, page.Title),
		Body:          body,
		BodyText:      transform.BodyText(body),
		Published:     page.Published,
		Modified:      page.LastMod,
		ArticleTitles: articleTitles,
	}, nil
}

// sourceIDsFromImages maps a page's image filenames to candidate
// encyclopedia IDs.
func sourceIDsFromImages(images []string) []string {
	var ids []string
	for _, img := range images {
		if id := transform.ExtractEncyclopediaID(img); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
