package domain

import "time"

// Article is an encyclopedia article as stored in the document store.
// The wiki URL title is the primary key, so re-publishing the same page
// overwrites rather than duplicates.
type Article struct {
	URLTitle  string `bson:"_id" json:"url_title"`
	Title     string `bson:"title" json:"title"`
	TitleSort string `bson:"title_sort" json:"title_sort"`

	Description string `bson:"description" json:"description"`
	Body        string `bson:"body" json:"body"`
	// BodyText is the plain-text rendering of Body, indexed for search.
	BodyText string `bson:"body_text" json:"body_text"`

	Published           bool `bson:"published" json:"published"`
	PublishedFront      bool `bson:"published_front" json:"published_front"`
	PublishedRestricted bool `bson:"published_restricted" json:"published_restricted"`

	Modified time.Time `bson:"modified" json:"modified"`

	Categories  []string  `bson:"categories" json:"categories"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`

	Authors   AuthorInfo `bson:"authors" json:"authors"`
	SourceIDs []string   `bson:"source_ids" json:"source_ids"`

	PrevPage string `bson:"prev_page" json:"prev_page"`
	NextPage string `bson:"next_page" json:"next_page"`

	// Databoxes carries the raw databox payloads, keyed by marker div id.
	// Kept separate from the typed fields above; see DataboxFields for
	// the flattened, prefixed form used for faceting.
	Databoxes map[string]map[string][]string `bson:"databoxes,omitempty" json:"databoxes,omitempty"`

	// DataboxFields is the flattened "prefix_field" -> values projection
	// of the configured databoxes.
	DataboxFields map[string][]string `bson:"databox_fields,omitempty" json:"databox_fields,omitempty"`
}
