package psms

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func testClient() *Client {
	return NewClient(Config{
		APIURL:       "http://psms.example.com/api/v1",
		SourcesURL:   "http://psms.example.com/media/sources/",
		MediaBucket:  "sources",
		RTMPStreamer: "rtmp://streaming.example.com/vod",
	}, zap.NewNop())
}

func testRecord() Record {
	return Record{
		ID:             12345,
		EncyclopediaID: "en-denshopd-i37-00239-1",
		DenshoID:       "denshopd-i37-00239",
		ResourceURI:    "/api/v1/primarysource/12345/",
		Created:        "2013-03-01 10:00:00",
		Modified:       "2013-04-16 15:22:34",
		Published:      true,
		Headword:       "Manzanar",
		Original:       "http://psms.example.com/media/sources/en-denshopd-i37-00239-1.jpg",
		Display:        "http://psms.example.com/media/sources/en-denshopd-i37-00239-1-display.jpg",
		StreamingURL:   "rtmp://streaming.example.com/vod/ns/whatever.mp4",
		ExternalURL:    "http://ddr.densho.org/ddr/densho/37/239/",
		MediaFormat:    "photo",
		Caption:        "  A caption.  ",
	}
}

func TestToSource(t *testing.T) {
	src, err := testClient().ToSource(testRecord())
	if err != nil {
		t.Fatalf("ToSource() failed: %v", err)
	}

	if src.EncyclopediaID != "en-denshopd-i37-00239-1" {
		t.Errorf("EncyclopediaID = %q", src.EncyclopediaID)
	}
	if src.PSMSID != 12345 || src.PSMSAPIURI != "/api/v1/primarysource/12345/" {
		t.Errorf("PSMS identifiers wrong: %d %q", src.PSMSID, src.PSMSAPIURI)
	}
	if want := time.Date(2013, 4, 16, 15, 22, 34, 0, time.UTC); !src.Modified.Equal(want) {
		t.Errorf("Modified = %v, want %v", src.Modified, want)
	}

	if src.Original != "en-denshopd-i37-00239-1.jpg" {
		t.Errorf("Original = %q", src.Original)
	}
	if src.OriginalPath != "en-denshopd-i37-00239-1.jpg" {
		t.Errorf("OriginalPath = %q", src.OriginalPath)
	}
	if src.Display != "en-denshopd-i37-00239-1-display.jpg" {
		t.Errorf("Display = %q", src.Display)
	}

	// display variant preferred for the thumbnail image
	if src.Filename != "en-denshopd-i37-00239-1-display.jpg" {
		t.Errorf("Filename = %q", src.Filename)
	}
	if src.ImgPath != "sources/en-denshopd-i37-00239-1-display.jpg" {
		t.Errorf("ImgPath = %q", src.ImgPath)
	}

	if src.StreamingURL != "/ns/whatever.mp4" {
		t.Errorf("StreamingURL = %q", src.StreamingURL)
	}
	if src.ExternalURL != "http://ddr.densho.org/ddr-densho-37-239/" {
		t.Errorf("ExternalURL = %q", src.ExternalURL)
	}
	if src.Caption != "A caption." {
		t.Errorf("Caption = %q", src.Caption)
	}
}

func TestToSourceOriginalOnly(t *testing.T) {
	rec := testRecord()
	rec.Display = ""
	src, err := testClient().ToSource(rec)
	if err != nil {
		t.Fatalf("ToSource() failed: %v", err)
	}
	if src.Display != "" || src.DisplayPath != "" {
		t.Errorf("Display fields should be empty: %q %q", src.Display, src.DisplayPath)
	}
	if src.Filename != "en-denshopd-i37-00239-1.jpg" {
		t.Errorf("Filename = %q", src.Filename)
	}
	if src.ImgPath != "sources/en-denshopd-i37-00239-1.jpg" {
		t.Errorf("ImgPath = %q", src.ImgPath)
	}
}

func TestToSourceBadTimestamp(t *testing.T) {
	rec := testRecord()
	rec.Modified = "not a timestamp"
	if _, err := testClient().ToSource(rec); err == nil {
		t.Fatalf("expected error for bad timestamp")
	}
}

func TestSitemapEntryLastMod(t *testing.T) {
	e := SitemapEntry{EncyclopediaID: "x", Modified: "2013-04-16 15:22:34"}
	got, err := e.LastMod()
	if err != nil {
		t.Fatalf("LastMod() failed: %v", err)
	}
	if want := time.Date(2013, 4, 16, 15, 22, 34, 0, time.UTC); !got.Equal(want) {
		t.Errorf("LastMod() = %v, want %v", got, want)
	}
	if _, err := (SitemapEntry{Modified: "bad"}).LastMod(); err == nil {
		t.Errorf("expected error for bad timestamp")
	}
}
