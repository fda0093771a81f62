package collection

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lysyi3m/feedmux/app/feed"
)

// ChannelCollection aggregates parsed channels together with a derived,
// flattened view of their items. A single mutex guards both sequences as
// one composite state: Push appends the channel and extends the item view
// inside the same critical section, so readers can never observe a channel
// list and item view that disagree. Channels are append-only; queries
// reorder or select but never remove.
//
// Fetching and parsing are I/O bound and must happen before Push is called,
// never while holding the collection's lock.
type ChannelCollection struct {
	mu       sync.Mutex
	channels []*feed.Channel
	items    *ItemCollection
}

func NewChannelCollection() *ChannelCollection {
	return &ChannelCollection{items: NewItemCollection()}
}

// Push appends a channel and folds its items into the derived view.
func (c *ChannelCollection) Push(ch *feed.Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.channels = append(c.channels, ch)
	for _, it := range ch.Items {
		c.items.Push(it)
	}
}

// Channels returns a snapshot of the channel list in its current order.
func (c *ChannelCollection) Channels() []*feed.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*feed.Channel, len(c.channels))
	copy(out, c.channels)
	return out
}

// Items returns a snapshot of the flattened item view: channel order, then
// item order within each channel, unless a sort has permuted it since.
func (c *ChannelCollection) Items() []*feed.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Items()
}

// Sort reorders the collection and returns the resulting item view.
// Item-level criteria permute only the derived view; the publisher
// criterion reorders the channels themselves and reflattens the view to
// match the new channel order.
func (c *ChannelCollection) Sort(criterion ChannelSort) ([]*feed.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch criterion.kind {
	case channelSortByItems:
		return c.items.Sort(criterion.items)
	case channelSortByPublisher:
		sort.SliceStable(c.channels, func(i, j int) bool {
			return c.channels[i].Title < c.channels[j].Title
		})
		c.rebuildItems()
		return c.items.Items(), nil
	}
	return nil, fmt.Errorf("unknown channel sort criterion: %d", criterion.kind)
}

// rebuildItems reflattens the derived view in current channel order.
// Caller must hold mu.
func (c *ChannelCollection) rebuildItems() {
	rebuilt := NewItemCollection()
	for _, ch := range c.channels {
		for _, it := range ch.Items {
			rebuilt.Push(it)
		}
	}
	c.items = rebuilt
}

// Filter answers a read-only query: the stored channel list and item view
// are left exactly as they were, however often Filter is called.
func (c *ChannelCollection) Filter(criterion ChannelFilter) ([]*feed.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch criterion.kind {
	case channelFilterByItems:
		filtered, err := c.items.Filter(criterion.items)
		if err != nil {
			return nil, err
		}
		return filtered.Items(), nil
	case channelFilterByName:
		items := []*feed.Item{}
		for _, ch := range c.channels {
			if !strings.Contains(ch.Title, criterion.name) {
				continue
			}
			items = append(items, ch.Items...)
		}
		return items, nil
	}
	return nil, fmt.Errorf("unknown channel filter criterion: %d", criterion.kind)
}
