package transform

import (
	"strings"
	"testing"
)

func mustBody(t *testing.T, rawHTML string, opts Options) string {
	t.Helper()
	out, err := Body(rawHTML, opts)
	if err != nil {
		t.Fatalf("Body() failed: %v", err)
	}
	return out
}

func TestBodyRemovesPageTitles(t *testing.T) {
	in := "<p>BEFORE</p>\n<h1>HEADER</h1>\n<p>AFTER</p>"
	out := mustBody(t, in, Options{})
	if strings.Contains(out, "<h1>") {
		t.Errorf("h1 not removed: %q", out)
	}
	if !strings.Contains(out, "<p>BEFORE</p>") || !strings.Contains(out, "<p>AFTER</p>") {
		t.Errorf("content lost: %q", out)
	}
}

func TestBodyRemovesEditLinks(t *testing.T) {
	in := `<h2>HEADER<span class="mw-editsection">[edit]</span></h2>`
	out := mustBody(t, in, Options{})
	if strings.Contains(out, "mw-editsection") {
		t.Errorf("edit link not removed: %q", out)
	}
}

func TestBodyWrapsSections(t *testing.T) {
	in := `<p>BEFORE</p>
<h2><span id="0" class="mw-headline">HEADER0</span></h2>
<p>blah blah blah</p>
<p>blah blah blah</p>
<h2><span id="1" class="mw-headline">HEADER1</span></h2>
<p>more text</p>
<h2>HEADER2</h2>
<p>AFTER</p>`
	out := mustBody(t, in, Options{Printed: true})

	for _, want := range []string{
		`<div class="section" id="0">`,
		`<div class="section" id="1">`,
		`<div class="section_content">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	// header without a mw-headline span stays unwrapped
	if strings.Contains(out, `<div class="section" id="">`) {
		t.Errorf("plain h2 should not be wrapped: %q", out)
	}
	// section content follows its header inside the wrapper
	if !strings.Contains(strings.ReplaceAll(out, "\n", ""),
		`HEADER0</span></h2><div class="section_content">`) {
		t.Errorf("section content not attached to header: %q", out)
	}
}

func TestBodyRewritesNewPageLinks(t *testing.T) {
	in := `<a href="/mediawiki/index.php?title=Nisei&amp;action=edit&amp;redlink=1">LINK</a>`
	out := mustBody(t, in, Options{})
	if !strings.Contains(out, `href="/Nisei"`) {
		t.Errorf("newpage link not rewritten: %q", out)
	}
	if strings.Contains(out, "action=edit") || strings.Contains(out, "redlink") {
		t.Errorf("edit params survived: %q", out)
	}
}

func TestBodyRewritesPrevNextLinks(t *testing.T) {
	in := `<a href="/mediawiki/index.php?title=Category:Articles&amp;pagefrom=Mary+Oyama">prev</a>` +
		`<a href="/mediawiki/index.php?title=Category:Articles&amp;pageuntil=Mary+Oyama">next</a>`
	out := mustBody(t, in, Options{})
	if !strings.Contains(out, `href="/Category:Articles?pagefrom=Mary+Oyama"`) {
		t.Errorf("pagefrom link not rewritten: %q", out)
	}
	if !strings.Contains(out, `href="/Category:Articles?pageuntil=Mary+Oyama"`) {
		t.Errorf("pageuntil link not rewritten: %q", out)
	}
}

func TestBodyRemovesStatusMarkers(t *testing.T) {
	in := `<p>BEFORE</p>
<div class="alert alert-success published">
<p>This page is complete and will be published to the production Encyclopedia.</p>
</div>
<p>AFTER</p>`
	out := mustBody(t, in, Options{})
	if strings.Contains(out, "alert") || strings.Contains(out, "production Encyclopedia") {
		t.Errorf("status marker not removed: %q", out)
	}
}

func TestBodyAddsTopLinks(t *testing.T) {
	in := `<p>PARAGRAPH0</p>
<h2>HEADER1</h2>
<p>PARAGRAPH1</p>
<h2>HEADER2</h2>
<p>PARAGRAPH2</p>
<h2>HEADER3</h2>
<p>PARAGRAPH3</p>`
	out := mustBody(t, in, Options{})
	// one before the third header, one at the very end
	if got := strings.Count(out, `class="toplink"`); got != 2 {
		t.Errorf("expected 2 toplinks, got %d: %q", got, out)
	}
	if !strings.Contains(out, `<a href="#top">`) {
		t.Errorf("toplink anchor missing: %q", out)
	}
}

func TestBodyPrintedSkipsTopLinks(t *testing.T) {
	in := `<h2>A</h2><p>x</p><h2>B</h2><p>y</p><h2>C</h2><p>z</p>`
	out := mustBody(t, in, Options{Printed: true})
	if strings.Contains(out, "toplink") {
		t.Errorf("printed output should have no toplinks: %q", out)
	}
}

func TestBodyRemovesHiddenTags(t *testing.T) {
	in := `<p>BEFORE</p><div id="rgdatabox-CoreDisplay"><p>Media type: vid</p></div><p>AFTER</p>`
	opts := Options{
		HiddenSelectors: []string{"id=rgdatabox-CoreDisplay"},
		HiddenComments:  true,
	}
	out := mustBody(t, in, opts)
	if strings.Contains(out, "rgdatabox-CoreDisplay") {
		t.Errorf("hidden tag not removed: %q", out)
	}
	if !strings.Contains(out, `<!--"rgdatabox-CoreDisplay" removed-->`) {
		t.Errorf("removal comment missing: %q", out)
	}

	out = mustBody(t, in, Options{HiddenSelectors: []string{"id=rgdatabox-CoreDisplay"}})
	if strings.Contains(out, "removed") {
		t.Errorf("comment should be absent without HiddenComments: %q", out)
	}
}

func TestBodyRemovesNonFrontDivs(t *testing.T) {
	in := `<p>KEEP</p><div class="nopublish-encycfront"><p>RG ONLY</p></div>`
	out := mustBody(t, in, Options{})
	if strings.Contains(out, "RG ONLY") {
		t.Errorf("nopublish div survived: %q", out)
	}
}

func TestBodyRemovesSourceThumbnails(t *testing.T) {
	in := `<p>BEFORE</p>
<div><a href="/mediawiki/File:en-denshopd-i37-00239-1.jpg" class="image"><img src="/mediawiki/images/thumb/a/a1/en-denshopd-i37-00239-1.jpg/200px-en-denshopd-i37-00239-1.jpg"/></a></div>
<div><a href="/mediawiki/File:en-denshovh-ffrank-01-0025-1.jpg" class="image"><img src="/mediawiki/images/thumb/8/86/en-denshovh-ffrank-01-0025-1.jpg/200px-en-denshovh-ffrank-01-0025-1.jpg"/></a></div>
<p>AFTER</p>`
	opts := Options{SourceIDs: []string{
		"en-denshopd-i37-00239-1",
		"en-denshovh-ffrank-01-0025-1",
	}}
	out := mustBody(t, in, opts)
	if strings.Contains(out, "en-denshopd-i37-00239-1") {
		t.Errorf("source thumbnail survived: %q", out)
	}
	if strings.Contains(out, "en-denshovh-ffrank-01-0025-1") {
		t.Errorf("source thumbnail survived: %q", out)
	}
	if !strings.Contains(out, "<p>BEFORE</p>") || !strings.Contains(out, "<p>AFTER</p>") {
		t.Errorf("content lost: %q", out)
	}
}

func TestBodyKeepsUnlistedThumbnails(t *testing.T) {
	in := `<div><a href="/mediawiki/File:x.jpg" class="image"><img src="/mediawiki/images/thumb/a/a1/en-denshopd-i37-00239-1.jpg/200px-en-denshopd-i37-00239-1.jpg"/></a></div>`
	out := mustBody(t, in, Options{SourceIDs: []string{"some-other-id"}})
	if !strings.Contains(out, "en-denshopd-i37-00239-1") {
		t.Errorf("unlisted thumbnail should survive: %q", out)
	}
}

func TestBodyMarksLinks(t *testing.T) {
	in := `<a href="https://example.com/elsewhere">offsite</a>` +
		`<a href="/Nisei">rg article</a>` +
		`<a href="/Some_Other_Page">encyc only</a>` +
		`<a href="#cite_note-1">footnote</a>` +
		`<a href="/mediawiki/File:photo.jpg">image</a>`
	out := mustBody(t, in, Options{RGTitles: []string{"Nisei"}})

	if !strings.Contains(out, `href="https://example.com/elsewhere" class="offsite"`) {
		t.Errorf("offsite link not marked: %q", out)
	}
	if !strings.Contains(out, `href="/Nisei" class="encyc rg"`) {
		t.Errorf("rg link not marked: %q", out)
	}
	if !strings.Contains(out, `href="/Some_Other_Page" class="encyc notrg"`) {
		t.Errorf("notrg link not marked: %q", out)
	}
	if strings.Contains(out, `href="#cite_note-1" class=`) {
		t.Errorf("footnote link should stay unmarked: %q", out)
	}
	if strings.Contains(out, `File:photo.jpg" class=`) {
		t.Errorf("file link should stay unmarked: %q", out)
	}
}

func TestBodyStripsMediaWikiURLs(t *testing.T) {
	in := `<a href="http://example.com/mediawiki/index.php/Page_Title">a</a>` +
		`<a href="http://example.com/mediawiki/Page_Title">b</a>`
	out := mustBody(t, in, Options{})
	if strings.Contains(out, "/mediawiki") {
		t.Errorf("mediawiki stub survived: %q", out)
	}
	if got := strings.Count(out, `href="http://example.com/Page_Title"`); got != 2 {
		t.Errorf("expected both hrefs rewritten, got %d: %q", got, out)
	}
}

func TestBodyStripsDocumentTags(t *testing.T) {
	out := mustBody(t, "<p>Some text here.</p>", Options{})
	for _, tag := range []string{"<html>", "</html>", "<head>", "<body>", "</body>"} {
		if strings.Contains(out, tag) {
			t.Errorf("document tag %q in output: %q", tag, out)
		}
	}
}

func TestBodyRemovesEmptyParagraphs(t *testing.T) {
	out := mustBody(t, "<p>KEEP</p><p><br />\n</p>", Options{})
	if strings.Contains(out, "<br") {
		t.Errorf("empty paragraph survived: %q", out)
	}
}

func TestBodyIdempotent(t *testing.T) {
	in := `<h1>Title</h1>
<div class="alert published"><p>status</p></div>
<h2><span id="s0" class="mw-headline">HEADER0</span></h2>
<p>Some text with a <a href="/Nisei">link</a> and an <a href="http://example.com/">offsite link</a>.</p>
<h2><span id="s1" class="mw-headline">HEADER1</span></h2>
<p>more</p>
<h2><span id="s2" class="mw-headline">HEADER2</span></h2>
<p>even more</p>
<div id="rgdatabox-CoreDisplay"><p>hidden</p></div>`
	opts := Options{
		HiddenSelectors: []string{"id=rgdatabox-CoreDisplay"},
		HiddenComments:  true,
		RGTitles:        []string{"Nisei"},
	}
	once := mustBody(t, in, opts)
	twice := mustBody(t, once, opts)
	if once != twice {
		t.Errorf("transform not idempotent:\nfirst:  %q\nsecond: %q", once, twice)
	}
}
