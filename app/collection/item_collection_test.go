package collection

import (
	"errors"
	"testing"

	"github.com/lysyi3m/feedmux/app/feed"
)

func strPtr(s string) *string {
	return &s
}

func newItem(title, description, pubDate string) *feed.Item {
	it := &feed.Item{}
	if title != "" {
		it.Title = strPtr(title)
	}
	if description != "" {
		it.Description = strPtr(description)
	}
	if pubDate != "" {
		it.PubDate = strPtr(pubDate)
	}
	return it
}

func titles(items []*feed.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		if it.Title != nil {
			out[i] = *it.Title
		}
	}
	return out
}

func assertOrder(t *testing.T, items []*feed.Item, want []string) {
	t.Helper()
	if len(items) != len(want) {
		t.Fatalf("Expected %d items, got %d", len(want), len(items))
	}
	for i, title := range titles(items) {
		if title != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], title)
		}
	}
}

func TestItemCollection_Push(t *testing.T) {
	c := NewItemCollection()
	if c.Len() != 0 {
		t.Errorf("Expected empty collection, got %d items", c.Len())
	}

	c.Push(newItem("first", "", ""))
	if c.Len() != 1 {
		t.Errorf("Expected 1 item, got %d", c.Len())
	}
}

func TestItemCollection_ItemsSnapshot(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("a", "", ""))
	c.Push(newItem("b", "", ""))

	snapshot := c.Items()
	snapshot[0], snapshot[1] = snapshot[1], snapshot[0]

	// Reordering the returned slice must not affect the stored order
	assertOrder(t, c.Items(), []string{"a", "b"})
}

func TestItemCollection_SortByTitle(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("c", "", ""))
	c.Push(newItem("a", "", ""))
	c.Push(newItem("b", "", ""))

	sorted, err := c.Sort(SortByTitle)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertOrder(t, sorted, []string{"a", "b", "c"})
}

func TestItemCollection_SortByTitle_MissingTitleFirst(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("b", "", ""))
	c.Push(newItem("", "untitled entry", ""))
	c.Push(newItem("a", "", ""))

	sorted, err := c.Sort(SortByTitle)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if sorted[0].Title != nil {
		t.Errorf("Expected untitled item first, got %q", *sorted[0].Title)
	}
	assertOrder(t, sorted[1:], []string{"a", "b"})
}

func TestItemCollection_SortByDate(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("third", "", "Fri, 03 Jan 2020 09:00:00 +0000"))
	c.Push(newItem("first", "", "Wed, 01 Jan 2020 09:00:00 +0000"))
	c.Push(newItem("second", "", "Thu, 02 Jan 2020 09:00:00 +0000"))

	sorted, err := c.Sort(SortByDate)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertOrder(t, sorted, []string{"first", "second", "third"})
}

func TestItemCollection_SortByDate_MissingDateFails(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("dated", "", "Wed, 01 Jan 2020 09:00:00 +0000"))
	c.Push(newItem("undated", "", ""))

	if _, err := c.Sort(SortByDate); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}
}

func TestItemCollection_SortByDate_MalformedDateFailsWithoutReordering(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("b", "", "Thu, 02 Jan 2020 09:00:00 +0000"))
	c.Push(newItem("a", "", "not a date at all"))

	if _, err := c.Sort(SortByDate); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}

	// A failed sort must leave the stored order untouched
	assertOrder(t, c.Items(), []string{"b", "a"})
}

func TestItemCollection_SortByLength(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("long", "a much longer description", ""))
	c.Push(newItem("short", "brief", ""))
	c.Push(newItem("medium", "middle sized", ""))

	sorted, err := c.Sort(SortByLength)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertOrder(t, sorted, []string{"short", "medium", "long"})
}

func TestItemCollection_SortByLength_DescribedBeforeUndescribed(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("bare", "", ""))
	empty := &feed.Item{Title: strPtr("empty"), Description: strPtr("")}
	c.Push(empty)

	sorted, err := c.Sort(SortByLength)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// An empty description still counts as content and sorts before a
	// missing one
	assertOrder(t, sorted, []string{"empty", "bare"})
}

func TestItemCollection_SortByLength_Stability(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("first", "equal", ""))
	c.Push(newItem("second", "equal", ""))
	c.Push(newItem("tiny", "x", ""))

	sorted, err := c.Sort(SortByLength)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Equal lengths keep their insertion order
	assertOrder(t, sorted, []string{"tiny", "first", "second"})
}

func TestItemCollection_SortIdempotence(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("c", "ccc", ""))
	c.Push(newItem("a", "a", ""))
	c.Push(newItem("b", "bb", ""))

	once, err := c.Sort(SortByLength)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	twice, err := c.Sort(SortByLength)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("Position %d changed between identical sorts", i)
		}
	}
}

func TestItemCollection_SortBySource(t *testing.T) {
	c := NewItemCollection()

	sourced := func(title, source string) *feed.Item {
		return &feed.Item{
			Title:  strPtr(title),
			Source: &feed.Source{Title: strPtr(source)},
		}
	}

	c.Push(sourced("from-b", "b News"))
	c.Push(newItem("unsourced", "", ""))
	c.Push(sourced("from-a", "a Times"))

	sorted, err := c.Sort(SortBySource)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Absent source sorts before any present source
	assertOrder(t, sorted, []string{"unsourced", "from-a", "from-b"})
}

func TestItemCollection_FilterByTitle(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("a Item 1", "", ""))
	c.Push(newItem("b Item 3", "", ""))
	c.Push(newItem("c Item 2", "", ""))
	c.Push(newItem("", "untitled", ""))

	filtered, err := c.Filter(TitleContains("b"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertOrder(t, filtered.Items(), []string{"b Item 3"})
}

func TestItemCollection_FilterByTitle_CaseSensitive(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("Breaking", "", ""))
	c.Push(newItem("breaking", "", ""))

	filtered, err := c.Filter(TitleContains("Break"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertOrder(t, filtered.Items(), []string{"Breaking"})
}

func TestItemCollection_FilterByDate(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("early", "", "Wed, 01 Jan 2020 09:00:00 +0000"))
	c.Push(newItem("cutoff", "", "Thu, 02 Jan 2020 09:00:00 +0000"))
	c.Push(newItem("late", "", "Sat, 04 Jan 2020 09:00:00 +0000"))
	c.Push(newItem("undated", "", ""))

	filtered, err := c.Filter(PublishedOnOrBefore("Thu, 02 Jan 2020 09:00:00 +0000"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// On-or-before is inclusive; undated items are excluded, not errors
	assertOrder(t, filtered.Items(), []string{"early", "cutoff"})
}

func TestItemCollection_FilterByDate_MalformedItemDateFails(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("bad", "", "yesterday-ish"))

	if _, err := c.Filter(PublishedOnOrBefore("Thu, 02 Jan 2020 09:00:00 +0000")); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}
}

func TestItemCollection_FilterByDate_MalformedTargetFails(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("fine", "", "Wed, 01 Jan 2020 09:00:00 +0000"))

	if _, err := c.Filter(PublishedOnOrBefore("not a date")); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}
}

func TestItemCollection_FilterByLength_StrictBoundary(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("under", "1234", ""))
	c.Push(newItem("exact", "12345", ""))
	c.Push(newItem("over", "123456", ""))
	c.Push(newItem("bare", "", ""))

	filtered, err := c.Filter(DescriptionShorterThan(5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Strictly less than the threshold: the exact-length item is excluded
	assertOrder(t, filtered.Items(), []string{"under"})
}

func TestItemCollection_FilterBySource(t *testing.T) {
	c := NewItemCollection()
	c.Push(&feed.Item{Title: strPtr("match"), Source: &feed.Source{Title: strPtr("b News")}})
	c.Push(&feed.Item{Title: strPtr("other"), Source: &feed.Source{Title: strPtr("a Times")}})
	c.Push(newItem("unsourced", "", ""))

	filtered, err := c.Filter(SourceContains("b"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertOrder(t, filtered.Items(), []string{"match"})
}

func TestItemCollection_FilterLeavesReceiverUnchanged(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("a", "", ""))
	c.Push(newItem("b", "", ""))
	c.Push(newItem("c", "", ""))

	for i := 0; i < 3; i++ {
		if _, err := c.Filter(TitleContains("b")); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	assertOrder(t, c.Items(), []string{"a", "b", "c"})
}

func TestItemCollection_FilterComposes(t *testing.T) {
	c := NewItemCollection()
	c.Push(newItem("alpha post", "12", ""))
	c.Push(newItem("alpha note", "123456", ""))
	c.Push(newItem("beta post", "1", ""))

	byTitle, err := c.Filter(TitleContains("alpha"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	byBoth, err := byTitle.Filter(DescriptionShorterThan(5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assertOrder(t, byBoth.Items(), []string{"alpha post"})
}

func TestParseItemSort(t *testing.T) {
	for name, want := range map[string]ItemSort{
		"title":  SortByTitle,
		"date":   SortByDate,
		"length": SortByLength,
		"source": SortBySource,
	} {
		got, err := ParseItemSort(name)
		if err != nil {
			t.Errorf("ParseItemSort(%q): unexpected error: %v", name, err)
		}
		if got != want {
			t.Errorf("ParseItemSort(%q): expected %v, got %v", name, want, got)
		}
	}

	if _, err := ParseItemSort("popularity"); err == nil {
		t.Error("Expected error for unknown criterion")
	}
}
