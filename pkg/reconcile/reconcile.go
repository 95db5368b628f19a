// Package reconcile decides which documents need to be written to or
// removed from the document store by comparing source listings against
// what is already indexed.
package reconcile

import (
	"sort"
	"time"
)

// Item is one entry of a listing: a document key plus the time the
// underlying content last changed.
type Item struct {
	Key     string
	LastMod time.Time
}

// Plan is the outcome of a reconciliation: keys to fetch and write, and
// keys to remove from the store.
type Plan struct {
	Update []string
	Delete []string
}

// Empty reports whether the plan requires no work.
func (p Plan) Empty() bool {
	return len(p.Update) == 0 && len(p.Delete) == 0
}

// Diff compares a source listing against the indexed listing.
//
// Keys present in source but not indexed are new; keys present in both
// where the source copy is strictly newer are stale. Both go in Update.
// Keys indexed but gone from the source go in Delete. Equal timestamps
// mean no work, so running the same diff twice yields an empty plan.
func Diff(source, indexed []Item) Plan {
	srcMods := itemMap(source)
	idxMods := itemMap(indexed)

	var plan Plan
	for _, item := range source {
		if _, ok := idxMods[item.Key]; !ok {
			plan.Update = append(plan.Update, item.Key)
		}
	}
	for _, item := range indexed {
		srcMod, ok := srcMods[item.Key]
		if !ok {
			plan.Delete = append(plan.Delete, item.Key)
		} else if srcMod.After(item.LastMod) {
			plan.Update = append(plan.Update, item.Key)
		}
	}
	sort.Strings(plan.Update)
	sort.Strings(plan.Delete)
	return plan
}

// Force plans an update of every indexed key and no deletes. Used to
// re-run the full pipeline over documents already in the store.
func Force(indexed []Item) Plan {
	return Plan{Update: keys(indexed)}
}

// Rebuild plans an update of every source key and no deletes. Used to
// populate an empty store from scratch.
func Rebuild(source []Item) Plan {
	return Plan{Update: keys(source)}
}

// Single plans an update of one key only.
func Single(key string) Plan {
	return Plan{Update: []string{key}}
}

// Partition splits published wiki pages into author pages and article
// pages. Membership in the author-title set decides; the two halves
// never overlap.
func Partition(pages []Item, authorTitles []string) (articles, authors []Item) {
	isAuthor := make(map[string]bool, len(authorTitles))
	for _, title := range authorTitles {
		isAuthor[title] = true
	}
	for _, page := range pages {
		if isAuthor[page.Key] {
			authors = append(authors, page)
		} else {
			articles = append(articles, page)
		}
	}
	return articles, authors
}

func itemMap(items []Item) map[string]time.Time {
	m := make(map[string]time.Time, len(items))
	for _, item := range items {
		m[item.Key] = item.LastMod
	}
	return m
}

func keys(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Key)
	}
	sort.Strings(out)
	return out
}
