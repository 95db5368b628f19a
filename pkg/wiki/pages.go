package wiki

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// PageInfo is one row of a page listing: a title plus the timestamp of
// the latest revision.
type PageInfo struct {
	Title   string
	LastMod time.Time
}

// Page is a parsed wiki page as returned by the action=parse API.
type Page struct {
	URLTitle string
	Title    string
	// TitleSortProp is the page's DEFAULTSORT property, "" when unset.
	TitleSortProp string
	// RawHTML is the unprocessed body straight from MediaWiki.
	RawHTML    string
	Categories []string
	Images     []string
	// Published reports membership in Category:Published.
	Published bool
	// Missing is set when the page does not exist on the wiki.
	Missing bool
	LastMod time.Time
}

const categoryNamespace = 14

type revisionInfo struct {
	Timestamp string `json:"timestamp"`
}

type queryResponse struct {
	Continue map[string]string `json:"continue"`
	Query    struct {
		Pages map[string]struct {
			NS        int            `json:"ns"`
			Title     string         `json:"title"`
			Revisions []revisionInfo `json:"revisions"`
		} `json:"pages"`
		CategoryMembers []struct {
			NS    int    `json:"ns"`
			Title string `json:"title"`
		} `json:"categorymembers"`
		Backlinks []struct {
			NS    int    `json:"ns"`
			Title string `json:"title"`
		} `json:"backlinks"`
	} `json:"query"`
}

// PublishedPages lists the members of Category:Published with the
// timestamp of each page's latest revision. Subcategory entries are
// skipped.
func (c *Client) PublishedPages(ctx context.Context) ([]PageInfo, error) {
	return c.categoryMembersWithMod(ctx, "Category:Published")
}

// categoryMembersWithMod walks a category with the categorymembers
// generator so titles and revision timestamps come back in one call
// per batch.
func (c *Client) categoryMembersWithMod(ctx context.Context, category string) ([]PageInfo, error) {
	params := url.Values{
		"action":    {"query"},
		"format":    {"json"},
		"generator": {"categorymembers"},
		"gcmtitle":  {category},
		"gcmlimit":  {"500"},
		"prop":      {"revisions"},
		"rvprop":    {"timestamp"},
	}
	var pages []PageInfo
	for {
		var resp queryResponse
		if err := c.http.GetJSON(ctx, c.apiURL+"?"+params.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("listing %s: %w", category, err)
		}
		for _, page := range resp.Query.Pages {
			if page.NS == categoryNamespace || len(page.Revisions) == 0 {
				continue
			}
			lastmod, err := time.Parse(timestampLayout, page.Revisions[0].Timestamp)
			if err != nil {
				c.log.Warn("bad revision timestamp",
					zap.String("title", page.Title),
					zap.String("timestamp", page.Revisions[0].Timestamp))
				continue
			}
			pages = append(pages, PageInfo{Title: page.Title, LastMod: lastmod})
		}
		if len(resp.Continue) == 0 {
			break
		}
		for k, v := range resp.Continue {
			params.Set(k, v)
		}
	}
	c.log.Debug("category listed",
		zap.String("category", category), zap.Int("pages", len(pages)))
	return pages, nil
}

// CategoryMembers lists the titles of a category's members, including
// subcategories.
func (c *Client) CategoryMembers(ctx context.Context, category string) ([]string, error) {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"list":    {"categorymembers"},
		"cmtitle": {category},
		"cmlimit": {"500"},
	}
	var titles []string
	for {
		var resp queryResponse
		if err := c.http.GetJSON(ctx, c.apiURL+"?"+params.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("listing %s: %w", category, err)
		}
		for _, member := range resp.Query.CategoryMembers {
			titles = append(titles, member.Title)
		}
		if len(resp.Continue) == 0 {
			break
		}
		for k, v := range resp.Continue {
			params.Set(k, v)
		}
	}
	return titles, nil
}

// AuthorTitles lists the members of Category:Authors.
func (c *Client) AuthorTitles(ctx context.Context) ([]string, error) {
	return c.CategoryMembers(ctx, "Category:Authors")
}

// ArticleTypeCategories lists the subcategories of Category:Articles,
// which serve as the whitelist of article categories.
func (c *Client) ArticleTypeCategories(ctx context.Context) ([]string, error) {
	return c.CategoryMembers(ctx, "Category:Articles")
}

// Backlinks lists the titles of pages linking to the given page. Author
// pages use this to find the articles an author wrote.
func (c *Client) Backlinks(ctx context.Context, title string) ([]string, error) {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"list":    {"backlinks"},
		"bltitle": {title},
		"bllimit": {"500"},
	}
	var titles []string
	for {
		var resp queryResponse
		if err := c.http.GetJSON(ctx, c.apiURL+"?"+params.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("backlinks for %s: %w", title, err)
		}
		for _, bl := range resp.Query.Backlinks {
			titles = append(titles, bl.Title)
		}
		if len(resp.Continue) == 0 {
			break
		}
		for k, v := range resp.Continue {
			params.Set(k, v)
		}
	}
	return titles, nil
}

// PageLastMod returns the timestamp of a page's latest revision.
func (c *Client) PageLastMod(ctx context.Context, title string) (time.Time, error) {
	params := url.Values{
		"action": {"query"},
		"format": {"json"},
		"prop":   {"revisions"},
		"rvprop": {"ids|timestamp"},
		"titles": {title},
	}
	var resp queryResponse
	if err := c.http.GetJSON(ctx, c.apiURL+"?"+params.Encode(), &resp); err != nil {
		return time.Time{}, fmt.Errorf("lastmod for %s: %w", title, err)
	}
	for _, page := range resp.Query.Pages {
		if len(page.Revisions) > 0 {
			return time.Parse(timestampLayout, page.Revisions[0].Timestamp)
		}
	}
	return time.Time{}, fmt.Errorf("no revisions for %s", title)
}

type parseResponse struct {
	Parse struct {
		Title        string `json:"title"`
		DisplayTitle string `json:"displaytitle"`
		Text         struct {
			Content string `json:"*"`
		} `json:"text"`
		Categories []struct {
			Name string `json:"*"`
		} `json:"categories"`
		Images     []string `json:"images"`
		Properties []struct {
			Name    string `json:"name"`
			Content string `json:"*"`
		} `json:"properties"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// GetPage fetches a page through the action=parse API and the timestamp
// of its latest revision. A page that does not exist comes back with
// Missing set rather than an error, so callers can treat it as deleted.
func (c *Client) GetPage(ctx context.Context, title string) (*Page, error) {
	params := url.Values{
		"action": {"parse"},
		"format": {"json"},
		"page":   {title},
	}
	var resp parseResponse
	if err := c.http.GetJSON(ctx, c.apiURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", title, err)
	}
	if resp.Error != nil {
		if resp.Error.Code == "missingtitle" {
			return &Page{URLTitle: title, Missing: true}, nil
		}
		return nil, fmt.Errorf("fetching %s: %s (%s)", title, resp.Error.Info, resp.Error.Code)
	}

	page := &Page{
		URLTitle: title,
		Title:    resp.Parse.DisplayTitle,
		RawHTML:  resp.Parse.Text.Content,
		Images:   resp.Parse.Images,
	}
	if page.Title == "" {
		page.Title = resp.Parse.Title
	}
	for _, cat := range resp.Parse.Categories {
		page.Categories = append(page.Categories, cat.Name)
		if cat.Name == "Published" {
			page.Published = true
		}
	}
	for _, prop := range resp.Parse.Properties {
		if prop.Name == "defaultsort" {
			page.TitleSortProp = prop.Content
		}
	}

	lastmod, err := c.PageLastMod(ctx, title)
	if err != nil {
		c.log.Warn("no lastmod for page", zap.String("title", title), zap.Error(err))
	} else {
		page.LastMod = lastmod
	}
	return page, nil
}
