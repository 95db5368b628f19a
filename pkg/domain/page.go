package domain

// DocType identifies which kind of document a wiki page becomes.
type DocType int

const (
	DocNone DocType = iota
	DocArticle
	DocAuthor
)

func (t DocType) String() string {
	switch t {
	case DocArticle:
		return "article"
	case DocAuthor:
		return "author"
	}
	return "none"
}

// AuthorInfo holds the byline data extracted from a page body.
type AuthorInfo struct {
	// Display is the list of author names as shown in the byline.
	Display []string `bson:"display" json:"display"`
	// Parsed is the list of [surname, givenname] pairs from the citation
	// block; entries that could not be split are single-element.
	Parsed [][]string `bson:"parsed" json:"parsed"`
}
