package collection

import (
	"fmt"
	"sort"
	"time"

	"github.com/lysyi3m/feedmux/app/feed"
)

// ItemCollection holds an ordered sequence of references to items that live
// in their channels. Sorting permutes the stored order in place; filtering
// returns a new collection and leaves the receiver untouched. The items
// themselves are never copied or modified.
type ItemCollection struct {
	items []*feed.Item
}

func NewItemCollection() *ItemCollection {
	return &ItemCollection{}
}

func (c *ItemCollection) Push(item *feed.Item) {
	c.items = append(c.items, item)
}

func (c *ItemCollection) Len() int {
	return len(c.items)
}

// Items returns the current ordering. The slice is a fresh copy, the item
// pointers are shared with the collection's channels.
func (c *ItemCollection) Items() []*feed.Item {
	out := make([]*feed.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Sort reorders the collection in place and returns the new order. All
// sorts are stable: ties keep their insertion order. A date sort validates
// every item's date before touching the stored order, so a failed sort
// leaves the collection exactly as it was.
func (c *ItemCollection) Sort(criterion ItemSort) ([]*feed.Item, error) {
	switch criterion {
	case SortByTitle:
		sort.SliceStable(c.items, func(i, j int) bool {
			return compareOptional(c.items[i].Title, c.items[j].Title) < 0
		})
	case SortByDate:
		if err := c.sortByDate(); err != nil {
			return nil, err
		}
	case SortByLength:
		sort.SliceStable(c.items, func(i, j int) bool {
			return lengthLess(c.items[i], c.items[j])
		})
	case SortBySource:
		sort.SliceStable(c.items, func(i, j int) bool {
			return compareOptional(sourceTitle(c.items[i]), sourceTitle(c.items[j])) < 0
		})
	default:
		return nil, fmt.Errorf("unknown item sort criterion: %d", criterion)
	}
	return c.Items(), nil
}

func (c *ItemCollection) sortByDate() error {
	type keyed struct {
		item *feed.Item
		at   time.Time
	}

	keys := make([]keyed, 0, len(c.items))
	for _, it := range c.items {
		if it.PubDate == nil {
			return fmt.Errorf("%w: item has no publication date", ErrInvalidDate)
		}
		at, err := parseDate(*it.PubDate)
		if err != nil {
			return err
		}
		keys = append(keys, keyed{item: it, at: at})
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].at.Before(keys[j].at)
	})
	for i, k := range keys {
		c.items[i] = k.item
	}
	return nil
}

// Filter returns a new collection holding the matching item references in
// their current order. The receiver is unchanged, so filters compose.
func (c *ItemCollection) Filter(criterion ItemFilter) (*ItemCollection, error) {
	match, err := criterion.predicate()
	if err != nil {
		return nil, err
	}

	filtered := NewItemCollection()
	for _, it := range c.items {
		ok, err := match(it)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered.Push(it)
		}
	}
	return filtered, nil
}
