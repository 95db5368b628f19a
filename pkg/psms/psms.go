// Package psms is a client for the primary-source management system
// (PSMS), the service holding metadata for the encyclopedia's photos,
// documents and video clips.
package psms

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"encyc-sync/pkg/domain"
	"encyc-sync/pkg/httpclient"
	"encyc-sync/pkg/transform"
)

// Timestamp layout used by the PSMS API.
const timestampLayout = "2006-01-02 15:04:05"

// Config holds connection settings for the PSMS API.
type Config struct {
	// APIURL is the API base, e.g. https://psms.example.org/api/v1.0
	APIURL string `yaml:"api_url"`
	// SourcesURL is the public media base stripped from original/display
	// URLs to produce relative paths.
	SourcesURL string `yaml:"sources_url"`
	// MediaBucket is joined with filenames to produce img paths.
	MediaBucket string `yaml:"media_bucket"`
	// RTMPStreamer is stripped from streaming URLs; the consuming site
	// adds its own streamer prefix back.
	RTMPStreamer string        `yaml:"rtmp_streamer"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Client talks to one PSMS instance.
type Client struct {
	cfg  Config
	http *httpclient.Client
	log  *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: httpclient.New(cfg.Timeout),
		log:  logger,
	}
}

// SitemapEntry is one row of the published-sources listing.
type SitemapEntry struct {
	EncyclopediaID string `json:"encyclopedia_id"`
	Modified       string `json:"modified"`
}

// LastMod parses the entry's modification timestamp.
func (e SitemapEntry) LastMod() (time.Time, error) {
	return time.Parse(timestampLayout, e.Modified)
}

// Record is a primary source as returned by the PSMS API.
type Record struct {
	ID             int    `json:"id"`
	EncyclopediaID string `json:"encyclopedia_id"`
	DenshoID       string `json:"densho_id"`
	ResourceURI    string `json:"resource_uri"`
	InstitutionID  string `json:"institution_id"`
	CollectionName string `json:"collection_name"`

	Created  string `json:"created"`
	Modified string `json:"modified"`

	Published       bool   `json:"published"`
	CreativeCommons bool   `json:"creative_commons"`
	Headword        string `json:"headword"`

	Original     string `json:"original"`
	OriginalSize int    `json:"original_size"`
	Display      string `json:"display"`
	DisplaySize  int    `json:"display_size"`

	StreamingURL string `json:"streaming_url"`
	ExternalURL  string `json:"external_url"`

	MediaFormat string `json:"media_format"`
	AspectRatio string `json:"aspect_ratio"`

	Caption         string `json:"caption"`
	CaptionExtended string `json:"caption_extended"`
	Transcript      string `json:"transcript"`
	Courtesy        string `json:"courtesy"`
}

// Sitemap lists every published source with its modification time.
func (c *Client) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	var resp struct {
		Objects []SitemapEntry `json:"objects"`
	}
	u := c.cfg.APIURL + "/primarysource/sitemap/"
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("psms sitemap: %w", err)
	}
	c.log.Debug("psms sitemap", zap.Int("sources", len(resp.Objects)))
	return resp.Objects, nil
}

// Sources fetches the records for the given encyclopedia IDs. IDs the
// PSMS does not know are silently absent from the result.
func (c *Client) Sources(ctx context.Context, encyclopediaIDs []string) ([]Record, error) {
	if len(encyclopediaIDs) == 0 {
		return nil, nil
	}
	var records []Record
	u := c.cfg.APIURL + "/sources/" + url.PathEscape(strings.Join(encyclopediaIDs, ","))
	if err := c.http.GetJSON(ctx, u, &records); err != nil {
		return nil, fmt.Errorf("psms sources: %w", err)
	}
	return records, nil
}

// Source fetches a single source by encyclopedia ID. Returns nil when
// the PSMS does not know the ID.
func (c *Client) Source(ctx context.Context, encyclopediaID string) (*Record, error) {
	var resp struct {
		Meta struct {
			TotalCount int `json:"total_count"`
		} `json:"meta"`
		Objects []Record `json:"objects"`
	}
	u := fmt.Sprintf("%s/primarysource/?encyclopedia_id=%s",
		c.cfg.APIURL, url.QueryEscape(encyclopediaID))
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("psms source %s: %w", encyclopediaID, err)
	}
	if resp.Meta.TotalCount != 1 || len(resp.Objects) == 0 {
		return nil, nil
	}
	return &resp.Objects[0], nil
}

// ToSource converts an API record into a store document: timestamps are
// parsed, media URLs become basenames plus relative paths, the
// streaming URL loses its streamer prefix, and legacy external URLs are
// rewritten.
func (c *Client) ToSource(rec Record) (*domain.PrimarySource, error) {
	created, err := time.Parse(timestampLayout, rec.Created)
	if err != nil {
		return nil, fmt.Errorf("source %s: bad created %q", rec.EncyclopediaID, rec.Created)
	}
	modified, err := time.Parse(timestampLayout, rec.Modified)
	if err != nil {
		return nil, fmt.Errorf("source %s: bad modified %q", rec.EncyclopediaID, rec.Modified)
	}

	src := &domain.PrimarySource{
		EncyclopediaID:  rec.EncyclopediaID,
		DenshoID:        rec.DenshoID,
		PSMSID:          rec.ID,
		PSMSAPIURI:      rec.ResourceURI,
		InstitutionID:   rec.InstitutionID,
		CollectionName:  rec.CollectionName,
		Created:         created,
		Modified:        modified,
		Published:       rec.Published,
		CreativeCommons: rec.CreativeCommons,
		Headword:        rec.Headword,
		OriginalSize:    rec.OriginalSize,
		DisplaySize:     rec.DisplaySize,
		StreamingURL:    strings.Replace(rec.StreamingURL, c.cfg.RTMPStreamer, "", 1),
		ExternalURL:     transform.FixExternalURL(rec.ExternalURL),
		MediaFormat:     rec.MediaFormat,
		AspectRatio:     rec.AspectRatio,
		Caption:         strings.TrimSpace(rec.Caption),
		CaptionExtended: strings.TrimSpace(rec.CaptionExtended),
		Transcript:      strings.TrimSpace(rec.Transcript),
		Courtesy:        strings.TrimSpace(rec.Courtesy),
	}

	if rec.Original != "" {
		src.OriginalURL = rec.Original
		src.Original = path.Base(rec.Original)
		src.OriginalPath = strings.Replace(rec.Original, c.cfg.SourcesURL, "", 1)
	}
	if rec.Display != "" {
		src.DisplayURL = rec.Display
		src.Display = path.Base(rec.Display)
		src.DisplayPath = strings.Replace(rec.Display, c.cfg.SourcesURL, "", 1)
	}

	// fullsize image for thumbnails, display variant preferred
	switch {
	case src.Display != "":
		src.Filename = src.Display
	case src.Original != "":
		src.Filename = src.Original
	}
	if src.Filename != "" {
		src.ImgPath = path.Join(c.cfg.MediaBucket, src.Filename)
	}
	return src, nil
}
