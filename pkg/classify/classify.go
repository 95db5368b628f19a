// Package classify decides what kind of document a wiki page becomes
// and which of its categories are publishable.
package classify

import (
	"sort"
	"strings"

	"encyc-sync/pkg/domain"
)

// DefaultNonArticlePages are site-chrome pages that live in the
// Published category but are not encyclopedia articles.
var DefaultNonArticlePages = []string{
	"about", "categories", "contact", "contents", "search",
}

// Classifier holds the page listings a classification run needs:
// published page titles, author page titles, the article-type category
// whitelist, and the hidden-category denylist.
type Classifier struct {
	published  map[string]bool
	authors    map[string]bool
	nonArticle map[string]bool
	whitelist  map[string]bool
	hidden     map[string]bool
	articlesAZ []string
}

// Config collects the listings used to build a Classifier.
type Config struct {
	// PublishedTitles are the members of Category:Published.
	PublishedTitles []string
	// AuthorTitles are the members of Category:Authors.
	AuthorTitles []string
	// NonArticlePages overrides DefaultNonArticlePages when non-nil.
	NonArticlePages []string
	// CategoryWhitelist are the subcategories of Category:Articles,
	// with or without the "Category:" prefix.
	CategoryWhitelist []string
	// HiddenCategories are categories stripped from articles even when
	// whitelisted.
	HiddenCategories []string
}

func New(cfg Config) *Classifier {
	nonArticle := cfg.NonArticlePages
	if nonArticle == nil {
		nonArticle = DefaultNonArticlePages
	}
	c := &Classifier{
		published:  map[string]bool{},
		authors:    map[string]bool{},
		nonArticle: map[string]bool{},
		whitelist:  map[string]bool{},
		hidden:     map[string]bool{},
	}
	for _, t := range cfg.PublishedTitles {
		c.published[t] = true
	}
	for _, t := range cfg.AuthorTitles {
		c.authors[t] = true
	}
	for _, t := range nonArticle {
		c.nonArticle[strings.ToLower(t)] = true
	}
	for _, t := range cfg.CategoryWhitelist {
		c.whitelist[strings.TrimPrefix(t, "Category:")] = true
	}
	for _, t := range cfg.HiddenCategories {
		c.hidden[strings.TrimPrefix(t, "Category:")] = true
	}
	// published articles A-Z, authors excluded
	for _, t := range cfg.PublishedTitles {
		if !c.authors[t] && !c.nonArticle[strings.ToLower(t)] {
			c.articlesAZ = append(c.articlesAZ, t)
		}
	}
	sort.Strings(c.articlesAZ)
	return c
}

// Classify maps a page title to a document type. Author status wins
// over article status; a page that is neither is not publishable.
func (c *Classifier) Classify(title string) domain.DocType {
	switch {
	case c.authors[title]:
		return domain.DocAuthor
	case c.published[title] && !c.nonArticle[strings.ToLower(title)]:
		return domain.DocArticle
	default:
		return domain.DocNone
	}
}

// IsAuthor reports whether the title is an author page.
func (c *Classifier) IsAuthor(title string) bool { return c.authors[title] }

// IsArticle reports whether the title is a published article page.
func (c *Classifier) IsArticle(title string) bool {
	return c.published[title] && !c.authors[title] && !c.nonArticle[strings.ToLower(title)]
}

// Categories filters a page's category list down to the whitelisted
// article-type subcategories, minus any hidden categories. The
// "Category:" prefix is stripped from the results.
func (c *Classifier) Categories(pageCategories []string) []string {
	var out []string
	for _, cat := range pageCategories {
		cat = strings.TrimPrefix(cat, "Category:")
		if c.whitelist[cat] && !c.hidden[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// ArticlesAZ returns the published article titles sorted A-Z.
func (c *Classifier) ArticlesAZ() []string {
	out := make([]string, len(c.articlesAZ))
	copy(out, c.articlesAZ)
	return out
}

// PrevNext returns the neighboring titles of an article in the A-Z
// list. The first article has no previous and the last has no next.
func (c *Classifier) PrevNext(title string) (prev, next string) {
	i := sort.SearchStrings(c.articlesAZ, title)
	if i >= len(c.articlesAZ) || c.articlesAZ[i] != title {
		return "", ""
	}
	if i > 0 {
		prev = c.articlesAZ[i-1]
	}
	if i < len(c.articlesAZ)-1 {
		next = c.articlesAZ[i+1]
	}
	return prev, next
}
