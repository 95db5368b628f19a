package domain

import "time"

// Author is an author-biography document. Keyed by wiki URL title,
// same as articles; the two live in separate collections.
type Author struct {
	URLTitle  string `bson:"_id" json:"url_title"`
	Title     string `bson:"title" json:"title"`
	TitleSort string `bson:"title_sort" json:"title_sort"`

	Body     string `bson:"body" json:"body"`
	BodyText string `bson:"body_text" json:"body_text"`

	Published bool      `bson:"published" json:"published"`
	Modified  time.Time `bson:"modified" json:"modified"`

	// ArticleTitles lists articles attributed to this author, found via
	// wiki backlinks.
	ArticleTitles []string `bson:"article_titles" json:"article_titles"`
}
