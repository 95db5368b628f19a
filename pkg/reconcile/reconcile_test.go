package reconcile

import (
	"reflect"
	"testing"
	"time"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func items(pairs map[string]time.Time) []Item {
	out := make([]Item, 0, len(pairs))
	for k, t := range pairs {
		out = append(out, Item{Key: k, LastMod: t})
	}
	return out
}

func TestDiff(t *testing.T) {
	source := items(map[string]time.Time{
		"A": base.Add(10 * time.Minute),
		"B": base.Add(5 * time.Minute),
	})
	indexed := items(map[string]time.Time{
		"A": base.Add(5 * time.Minute),
		"C": base.Add(1 * time.Minute),
	})
	plan := Diff(source, indexed)
	if want := []string{"A", "B"}; !reflect.DeepEqual(plan.Update, want) {
		t.Errorf("Update = %v, want %v", plan.Update, want)
	}
	if want := []string{"C"}; !reflect.DeepEqual(plan.Delete, want) {
		t.Errorf("Delete = %v, want %v", plan.Delete, want)
	}
}

func TestDiffEqualTimestampsIsNoop(t *testing.T) {
	listing := items(map[string]time.Time{
		"A": base,
		"B": base.Add(time.Hour),
	})
	plan := Diff(listing, listing)
	if !plan.Empty() {
		t.Errorf("identical listings should yield an empty plan, got %+v", plan)
	}
}

func TestDiffOlderSourceIsNoop(t *testing.T) {
	source := items(map[string]time.Time{"A": base})
	indexed := items(map[string]time.Time{"A": base.Add(time.Minute)})
	plan := Diff(source, indexed)
	if !plan.Empty() {
		t.Errorf("indexed copy newer than source should yield an empty plan, got %+v", plan)
	}
}

func TestForce(t *testing.T) {
	indexed := items(map[string]time.Time{"B": base, "A": base})
	plan := Force(indexed)
	if want := []string{"A", "B"}; !reflect.DeepEqual(plan.Update, want) {
		t.Errorf("Update = %v, want %v", plan.Update, want)
	}
	if len(plan.Delete) != 0 {
		t.Errorf("Force should never delete, got %v", plan.Delete)
	}
}

func TestRebuild(t *testing.T) {
	source := items(map[string]time.Time{"B": base, "A": base, "C": base})
	plan := Rebuild(source)
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(plan.Update, want) {
		t.Errorf("Update = %v, want %v", plan.Update, want)
	}
	if len(plan.Delete) != 0 {
		t.Errorf("Rebuild should never delete, got %v", plan.Delete)
	}
}

func TestSingle(t *testing.T) {
	plan := Single("Manzanar")
	if want := []string{"Manzanar"}; !reflect.DeepEqual(plan.Update, want) {
		t.Errorf("Update = %v, want %v", plan.Update, want)
	}
	if len(plan.Delete) != 0 {
		t.Errorf("Single should never delete, got %v", plan.Delete)
	}
}

func TestPartition(t *testing.T) {
	pages := []Item{
		{Key: "Manzanar", LastMod: base},
		{Key: "Brian Niiya", LastMod: base},
		{Key: "Nisei", LastMod: base},
	}
	articles, authors := Partition(pages, []string{"Brian Niiya", "Someone Else"})

	if want := []string{"Manzanar", "Nisei"}; !reflect.DeepEqual(planKeys(articles), want) {
		t.Errorf("articles = %v, want %v", planKeys(articles), want)
	}
	if want := []string{"Brian Niiya"}; !reflect.DeepEqual(planKeys(authors), want) {
		t.Errorf("authors = %v, want %v", planKeys(authors), want)
	}
}

func planKeys(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key)
	}
	return out
}
