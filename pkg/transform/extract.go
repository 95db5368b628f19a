package transform

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"encyc-sync/pkg/domain"
)

// ExtractDataboxes finds the hidden databox divs in a raw page body and
// extracts their key/value data. Field order within each databox is
// preserved.
//
//	<div id="databox-Books" style="display:none;">
//	<p>Title:A Bridge Between Us;
//	Author:Julie Shigekuni;
//	Illustrator:;
//	</p>
//	</div>
func ExtractDataboxes(rawHTML string, divIDs []string) (map[string]*domain.Databox, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	databoxes := map[string]*domain.Databox{}
	for _, divID := range divIDs {
		tag := doc.Find("#" + divID).First()
		if tag.Length() == 0 {
			continue
		}
		inner, err := tag.Find("p").First().Html()
		if err != nil {
			continue
		}
		box := &domain.Databox{}
		for _, line := range strings.Split(inner, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			// many field values contain colons, split on the first one
			key, val, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			var values []string
			if strings.Contains(val, ";") {
				for _, v := range strings.Split(val, ";") {
					if v = strings.TrimSpace(v); v != "" {
						values = append(values, v)
					}
				}
			} else {
				values = []string{val}
			}
			box.Set(strings.ToLower(key), values)
		}
		databoxes[divID] = box
	}
	return databoxes, nil
}

// ExtractDescription returns the first real paragraph of an article
// body. Paragraphs of ";"-separated lines are databox remnants, not
// prose, and are skipped.
func ExtractDescription(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	description := ""
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := p.Text()
		if text != "" && !strings.Contains(text, ";\n") {
			description = strings.TrimSpace(text)
			return false
		}
		return true
	})
	return description
}

// NotPublishedFront reports whether the raw body carries the marker div
// inserted by the {{ publish-rgonly }} template, which excludes the page
// from the main public encyclopedia.
func NotPublishedFront(rawHTML string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return false
	}
	return doc.Find("div.nopublish-encycfront").Length() > 0
}

var (
	gisLngPattern = regexp.MustCompile(`GISLo*ng: (-*[0-9]+.[0-9]+)`)
	gisLatPattern = regexp.MustCompile(`GISLat: (-*[0-9]+.[0-9]+)`)
)

// FindCoordinates searches raw camp-article HTML for the GIS coordinates
// in the databox-Camps div. Returns [lng, lat] or nil. Assumes a single
// lng/lat pair per page; if the databox somehow carries several the last
// one wins.
func FindCoordinates(rawHTML string) []float64 {
	if !strings.Contains(rawHTML, "databox-Camps") {
		return nil
	}
	var lng, lat float64
	for _, m := range gisLngPattern.FindAllStringSubmatch(rawHTML, -1) {
		lng, _ = strconv.ParseFloat(m[1], 64)
	}
	for _, m := range gisLatPattern.FindAllStringSubmatch(rawHTML, -1) {
		lat, _ = strconv.ParseFloat(m[1], 64)
	}
	if lng == 0 || lat == 0 {
		return nil
	}
	return []float64{lng, lat}
}

// ParseAuthors extracts author names from a raw article body.
//
// Display names come from the authorByline div:
//
//	<div id="authorByline"><b>Authored by
//	<a href="/Tom_Coffman" title="Tom Coffman">Tom Coffman</a></b></div>
//
// Parsed [surname, given-name] pairs come from the citationAuthor div:
//
//	<div id="citationAuthor" style="display:none;">Coffman, Tom</div>
//
// Multiple authors are separated by ";" or "and".
func ParseAuthors(rawHTML string) domain.AuthorInfo {
	authors := domain.AuthorInfo{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		strings.ReplaceAll(rawHTML, "<p><br />\n</p>", ""),
	))
	if err != nil {
		return authors
	}
	doc.Find("div#authorByline a").Each(func(_ int, a *goquery.Selection) {
		if name := strings.TrimSpace(a.Text()); name != "" {
			authors.Display = append(authors.Display, name)
		}
	})
	doc.Find("div#citationAuthor").Each(func(_ int, div *goquery.Selection) {
		text := strings.TrimSpace(div.Text())
		if text == "" {
			return
		}
		var names []string
		for _, n := range strings.Split(text, ";") {
			if strings.Contains(n, "and") {
				names = append(names, strings.Split(n, "and")...)
			} else {
				names = append(names, n)
			}
		}
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			parts := strings.Split(n, ",")
			if len(parts) == 2 {
				authors.Parsed = append(authors.Parsed, []string{
					strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]),
				})
			} else {
				authors.Parsed = append(authors.Parsed, []string{n})
			}
		}
	})
	return authors
}

// ExtractEncyclopediaID attempts to extract a Densho encyclopedia ID
// from an image URI. Thumbnail URIs nest the original filename one
// directory up:
//
//	.../thumb/a/a1/en-denshopd-i37-00239-1.jpg/200px-en-denshopd....jpg
func ExtractEncyclopediaID(uri string) string {
	filename := path.Base(uri)
	if strings.Contains(uri, "thumb") {
		filename = path.Base(path.Dir(uri))
	}
	return strings.TrimSuffix(filename, path.Ext(filename))
}
