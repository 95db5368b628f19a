package transform

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options controls the transformation of a MediaWiki page body.
type Options struct {
	// Printed suppresses the ^Top navigation links.
	Printed bool

	// HiddenSelectors lists "attr=value" pairs of tags to strip from the
	// public encyclopedia, e.g. "id=rgdatabox-CoreDisplay".
	HiddenSelectors []string

	// HiddenComments leaves an HTML comment in place of each stripped tag.
	HiddenComments bool

	// RGTitles is the set of url_titles published in the Resource Guide.
	// Internal links to these pages get a "rg" class, all others "notrg".
	RGTitles []string

	// RGArticleBase is the Resource Guide article URL prefix stripped from
	// hrefs before comparing against RGTitles.
	RGArticleBase string

	// SourceIDs lists the encyclopedia IDs of the page's primary sources.
	// Thumbnails linking to these are removed from the body; the sources
	// are displayed separately by the consuming site.
	SourceIDs []string
}

var sectionHeaders = map[string]bool{"h2": true, "h3": true, "h4": true}

// Body transforms the HTML body of a MediaWiki page for publication.
// The transformation is idempotent: feeding the output back in again
// produces the same result.
func Body(rawHTML string, opts Options) (string, error) {
	// MediaWiki emits empty paragraphs between template blocks.
	rawHTML = strings.ReplaceAll(rawHTML, "<p><br />\n</p>", "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse page body: %w", err)
	}

	markLinks(doc, toSet(opts.RGTitles), opts.RGArticleBase)

	// "Static" pages carry an extra <h1> in the body; the title is taken
	// from page metadata so the duplicate goes away.
	doc.Find("h1").Remove()

	// [edit] links must never reach the public site.
	doc.Find("span.mw-editsection").Remove()

	wrapSections(doc)
	rewriteNewPageLinks(doc)
	rewritePrevNextLinks(doc)

	// "Published" / "Needs Primary Sources" status tables.
	doc.Find("div.alert.published").Remove()

	if !opts.Printed {
		addTopLinks(doc)
	}

	removeHiddenTags(doc, opts.HiddenSelectors, opts.HiddenComments)

	// Content inserted by the {{ publish-rgonly }} template.
	doc.Find("div.nopublish-encycfront").Remove()

	removeSourceThumbnails(doc, toSet(opts.SourceIDs))

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize page body: %w", err)
	}
	return stripDocumentTags(rewriteMediaWikiURLs(out)), nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// markLinks adds class markers distinguishing offsite links, links to
// Resource Guide articles, and links to encyclopedia-only articles.
// Existing markers are stripped first so the pass can run repeatedly.
// The href itself is never rewritten; the consuming site decides where
// each class of link should point.
func markLinks(doc *goquery.Document, rgTitles map[string]bool, rgBase string) {
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		a.RemoveClass("offsite")
		a.RemoveClass("encyc")
		a.RemoveClass("rg")
		a.RemoveClass("notrg")

		title := hrefTitle(href, rgBase)
		if strings.Contains(title, "http") {
			title = ""
		}
		titleSpaced := strings.ReplaceAll(title, "_", " ")

		switch {
		case strings.HasPrefix(href, "#") || strings.Contains(href, "File"):
			// page nav and image links
		case strings.Contains(href, "http:") || strings.Contains(href, "https:"):
			a.AddClass("offsite")
		case title != "" && (rgTitles[title] || rgTitles[titleSpaced]):
			a.AddClass("encyc")
			a.AddClass("rg")
		default:
			a.AddClass("encyc")
			a.AddClass("notrg")
		}
	})
}

// hrefTitle extracts a page title from an href. Titles can contain
// slashes so only the outermost ones are trimmed.
func hrefTitle(href, base string) string {
	href = strings.TrimSuffix(href, "/")
	if base != "" {
		href = strings.ReplaceAll(href, base, "")
	}
	return strings.TrimPrefix(href, "/")
}

// wrapSections wraps each h2/h3/h4 and the content that follows it in
//
//	<div class="section" id="...">
//	  <h2>...</h2>
//	  <div class="section_content">...</div>
//	</div>
//
// so the consuming site can collapse sections. Headers already inside a
// section div are left alone.
func wrapSections(doc *goquery.Document) {
	doc.Find("span.mw-headline").Each(func(_ int, s *goquery.Selection) {
		h := s.Parent()
		if !sectionHeaders[goquery.NodeName(h)] {
			return
		}
		if h.Parent().Is("div.section") {
			return
		}
		id, _ := h.Find("span").First().Attr("id")

		hNode := h.Get(0)
		parent := hNode.Parent
		if parent == nil {
			return
		}

		var contents []*html.Node
		for n := hNode.NextSibling; n != nil; n = n.NextSibling {
			if n.Type == html.ElementNode && sectionHeaders[n.Data] {
				break
			}
			contents = append(contents, n)
		}

		section := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Div,
			Data:     "div",
			Attr: []html.Attribute{
				{Key: "class", Val: "section"},
				{Key: "id", Val: id},
			},
		}
		content := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Div,
			Data:     "div",
			Attr:     []html.Attribute{{Key: "class", Val: "section_content"}},
		}

		parent.InsertBefore(section, hNode)
		parent.RemoveChild(hNode)
		section.AppendChild(hNode)
		for _, n := range contents {
			parent.RemoveChild(n)
			content.AppendChild(n)
		}
		section.AppendChild(content)
	})
}

// rewriteNewPageLinks turns red "create this page" links into plain
// article links.
// ex: /mediawiki/index.php?title=Nisei&action=edit&redlink=1
func rewriteNewPageLinks(doc *goquery.Document) {
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, "action=edit") {
			return
		}
		href = strings.ReplaceAll(href, "?title=", "/")
		href = strings.ReplaceAll(href, "&action=edit", "")
		href = strings.ReplaceAll(href, "&redlink=1", "")
		a.SetAttr("href", href)
	})
}

// rewritePrevNextLinks rewrites category paging links.
// ex: /mediawiki/index.php?title=Category:Articles&pagefrom=Mary+Oyama
func rewritePrevNextLinks(doc *goquery.Document) {
	for _, param := range []string{"pagefrom=", "pageuntil="} {
		doc.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || !strings.Contains(href, param) {
				return
			}
			href = strings.ReplaceAll(href, "?title=", "/")
			href = strings.ReplaceAll(href, "&"+param, "?"+param)
			a.SetAttr("href", href)
		})
	}
}

const topLinkHTML = `<div class="toplink"><a href="#top"><i class="icon-chevron-up"></i> Top</a></div>`

// addTopLinks inserts ^Top links before each h2 after the second one and
// at the end of the page. Pages that already carry toplinks are skipped.
func addTopLinks(doc *goquery.Document) {
	if doc.Find("div.toplink").Length() > 0 {
		return
	}
	doc.Find("h2").Each(func(i int, h *goquery.Selection) {
		if i > 1 {
			h.BeforeHtml(topLinkHTML)
		}
	})
	doc.Find("body").AppendHtml(topLinkHTML)
}

// removeHiddenTags strips tags matched by "attr=value" selectors.
// Designed to remove the rgdatabox-CoreDisplay databox from the main
// public encyclopedia. When comments is true each stripped tag leaves an
// HTML comment behind so editors can see what happened.
func removeHiddenTags(doc *goquery.Document, selectors []string, comments bool) {
	for _, selector := range selectors {
		attr, val, ok := strings.Cut(selector, "=")
		if !ok {
			continue
		}
		doc.Find(fmt.Sprintf("[%s=%q]", attr, val)).Each(func(_ int, s *goquery.Selection) {
			if comments {
				node := s.Get(0)
				if node.Parent != nil {
					node.Parent.InsertBefore(&html.Node{
						Type: html.CommentNode,
						Data: fmt.Sprintf("%q removed", val),
					}, node)
				}
			}
			s.Remove()
		})
	}
}

// removeSourceThumbnails strips primary-source thumbnails from the page
// body. Sources are displayed in the right sidebar by the consuming
// site, not inline.
func removeSourceThumbnails(doc *goquery.Document, sourceIDs map[string]bool) {
	if len(sourceIDs) == 0 {
		return
	}
	doc.Find("a.image").Each(func(_ int, a *goquery.Selection) {
		src, ok := a.Find("img").First().Attr("src")
		if !ok {
			return
		}
		if id := ExtractEncyclopediaID(src); id != "" && sourceIDs[id] {
			a.Remove()
		}
	})
}

// rewriteMediaWikiURLs removes the /mediawiki/index.php stub from URLs.
func rewriteMediaWikiURLs(htmlStr string) string {
	htmlStr = strings.ReplaceAll(htmlStr, "/mediawiki/index.php", "")
	htmlStr = strings.ReplaceAll(htmlStr, "/mediawiki", "")
	return htmlStr
}

// stripDocumentTags removes the document scaffolding the parser adds
// around a fragment.
func stripDocumentTags(htmlStr string) string {
	for _, tag := range []string{"<html>", "</html>", "<head></head>", "<body>", "</body>"} {
		htmlStr = strings.ReplaceAll(htmlStr, tag, "")
	}
	return htmlStr
}
