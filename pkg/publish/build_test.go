package publish

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"encyc-sync/pkg/classify"
	"encyc-sync/pkg/config"
	"encyc-sync/pkg/wiki"
)

const articleHTML = `<div id="databox-Camps" style="display:none;">
<p>
SoSUID: w-manz;
DenshoName: Manzanar;
GISLat: 36.7280;
GISLng: -118.1540;
</p>
</div>
<div id="authorByline"><b>Authored by
<a href="/mediawiki/index.php/Brian_Niiya" title="Brian Niiya">Brian Niiya</a></b></div>
<div id="citationAuthor" style="display:none;">Niiya, Brian</div>
<p>Incarceration camp in the Owens Valley of California.</p>
<h2><span id="s0" class="mw-headline">Before the war</span></h2>
<p>blah blah blah</p>`

func testPublishConfig() config.Publish {
	return config.Publish{
		Databoxes: map[string]string{
			"databox-Camps": "camp",
		},
		HiddenTags:        []string{"id=rgdatabox-CoreDisplay"},
		HiddenTagComments: true,
	}
}

func testArticlePage() *wiki.Page {
	return &wiki.Page{
		URLTitle:   "Manzanar",
		Title:      "Manzanar",
		RawHTML:    articleHTML,
		Categories: []string{"Camps", "Published"},
		Published:  true,
		LastMod:    time.Date(2013, 4, 16, 15, 22, 34, 0, time.UTC),
	}
}

func testArticleClassifier() *classify.Classifier {
	return classify.New(classify.Config{
		PublishedTitles:   []string{"December 7, 1941", "Manzanar", "Nisei"},
		CategoryWhitelist: []string{"Camps", "People"},
	})
}

func TestBuildArticle(t *testing.T) {
	article, err := BuildArticle(
		testArticlePage(), testArticleClassifier(),
		[]string{"en-denshopd-i37-00239-1"}, nil, testPublishConfig())
	if err != nil {
		t.Fatalf("BuildArticle() failed: %v", err)
	}

	if article.URLTitle != "Manzanar" || article.TitleSort != "manzanar" {
		t.Errorf("titles = %q %q", article.URLTitle, article.TitleSort)
	}
	if want := "Incarceration camp in the Owens Valley of California."; article.Description != want {
		t.Errorf("Description = %q", article.Description)
	}
	if !strings.Contains(article.Body, `<div class="section" id="s0">`) {
		t.Errorf("body not transformed: %q", article.Body)
	}
	if !article.Published || !article.PublishedFront {
		t.Errorf("publication flags = %v %v", article.Published, article.PublishedFront)
	}
	if article.PublishedRestricted {
		t.Errorf("page without rgdatabox-Core should not be restricted")
	}
	if want := []float64{-118.1540, 36.7280}; !reflect.DeepEqual(article.Coordinates, want) {
		t.Errorf("Coordinates = %v, want %v", article.Coordinates, want)
	}
	if want := []string{"Brian Niiya"}; !reflect.DeepEqual(article.Authors.Display, want) {
		t.Errorf("Authors.Display = %v, want %v", article.Authors.Display, want)
	}
	if want := []string{"Camps"}; !reflect.DeepEqual(article.Categories, want) {
		t.Errorf("Categories = %v, want %v", article.Categories, want)
	}
	if article.PrevPage != "December 7, 1941" || article.NextPage != "Nisei" {
		t.Errorf("prev/next = %q %q", article.PrevPage, article.NextPage)
	}

	if got := article.DataboxFields["camp_denshoname"]; !reflect.DeepEqual(got, []string{"Manzanar"}) {
		t.Errorf("camp_denshoname = %v", got)
	}
	if got := article.Databoxes["databox-Camps"]["sosuid"]; !reflect.DeepEqual(got, []string{"w-manz"}) {
		t.Errorf("raw databox sosuid = %v", got)
	}
}

func TestBuildArticleRestricted(t *testing.T) {
	page := testArticlePage()
	page.RawHTML += `
<div id="rgdatabox-Core" style="display:none;">
<p>
RGMediaType: books;
Title: Manzanar;
</p>
</div>
<div class="nopublish-encycfront"><p>RG only</p></div>`
	cfg := testPublishConfig()
	cfg.Databoxes["rgdatabox-Core"] = "rg"

	article, err := BuildArticle(page, testArticleClassifier(), nil, nil, cfg)
	if err != nil {
		t.Fatalf("BuildArticle() failed: %v", err)
	}
	if !article.PublishedRestricted {
		t.Errorf("rgmediatype should mark the article restricted")
	}
	if article.PublishedFront {
		t.Errorf("nopublish-encycfront should unset PublishedFront")
	}
}

func TestBuildAuthor(t *testing.T) {
	page := &wiki.Page{
		URLTitle:  "Brian Niiya",
		Title:     "Brian Niiya",
		RawHTML:   "<h1>Brian Niiya</h1><p>Content director of Densho.</p>",
		Published: true,
		LastMod:   time.Date(2013, 4, 16, 15, 22, 34, 0, time.UTC),
	}
	author, err := BuildAuthor(page, []string{"Manzanar", "Nisei"}, testPublishConfig())
	if err != nil {
		t.Fatalf("BuildAuthor() failed: %v", err)
	}
	if author.URLTitle != "Brian Niiya" || author.TitleSort != "brianniiya" {
		t.Errorf("titles = %q %q", author.URLTitle, author.TitleSort)
	}
	if strings.Contains(author.Body, "<h1>") {
		t.Errorf("page title not stripped from body: %q", author.Body)
	}
	if want := []string{"Manzanar", "Nisei"}; !reflect.DeepEqual(author.ArticleTitles, want) {
		t.Errorf("ArticleTitles = %v, want %v", author.ArticleTitles, want)
	}
}

func TestSourceIDsFromImages(t *testing.T) {
	ids := sourceIDsFromImages([]string{
		"En-denshopd-i37-00239-1.jpg",
		"/mediawiki/images/thumb/a/a1/en-denshovh-ffrank-01-0025-1.jpg/200px-en-denshovh-ffrank-01-0025-1.jpg",
	})
	want := []string{"En-denshopd-i37-00239-1", "en-denshovh-ffrank-01-0025-1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}
