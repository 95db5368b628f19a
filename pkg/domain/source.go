package domain

import "time"

// PrimarySource is a primary-source media record from the sources
// metadata service, keyed by its stable encyclopedia id.
type PrimarySource struct {
	EncyclopediaID string `bson:"_id" json:"encyclopedia_id"`
	DenshoID       string `bson:"densho_id" json:"densho_id"`
	PSMSID         int    `bson:"psms_id" json:"psms_id"`
	PSMSAPIURI     string `bson:"psms_api_uri" json:"psms_api_uri"`

	InstitutionID  string `bson:"institution_id" json:"institution_id"`
	CollectionName string `bson:"collection_name" json:"collection_name"`

	Created  time.Time `bson:"created" json:"created"`
	Modified time.Time `bson:"modified" json:"modified"`

	Published       bool   `bson:"published" json:"published"`
	CreativeCommons bool   `bson:"creative_commons" json:"creative_commons"`
	Headword        string `bson:"headword" json:"headword"`

	Original     string `bson:"original" json:"original"`
	OriginalSize int    `bson:"original_size" json:"original_size"`
	OriginalURL  string `bson:"original_url" json:"original_url"`
	OriginalPath string `bson:"original_path" json:"original_path"`
	Display      string `bson:"display" json:"display"`
	DisplaySize  int    `bson:"display_size" json:"display_size"`
	DisplayURL   string `bson:"display_url" json:"display_url"`
	DisplayPath  string `bson:"display_path" json:"display_path"`

	// StreamingURL is stored relative to the streaming host.
	StreamingURL string `bson:"streaming_url" json:"streaming_url"`
	ExternalURL  string `bson:"external_url" json:"external_url"`

	MediaFormat string `bson:"media_format" json:"media_format"`
	AspectRatio string `bson:"aspect_ratio" json:"aspect_ratio"`

	Caption         string `bson:"caption" json:"caption"`
	CaptionExtended string `bson:"caption_extended" json:"caption_extended"`
	Transcript      string `bson:"transcript" json:"transcript"`
	Courtesy        string `bson:"courtesy" json:"courtesy"`

	// Filename and ImgPath point at the fullsize image used for
	// thumbnails (display variant when present, else original).
	Filename string `bson:"filename" json:"filename"`
	ImgPath  string `bson:"img_path" json:"img_path"`
}
