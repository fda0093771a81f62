package feed

import (
	"time"
)

// Item is a single entry from a syndication feed. Elements a feed may omit
// are pointers; nil means the element was absent from the source document,
// which is distinct from an element that was present but empty. Once an
// Item enters a collection it is treated as read-only.
type Item struct {
	Title       *string
	Link        *string
	Description *string
	PubDate     *string // raw RFC 2822-style date string, parsed on demand
	Author      *string
	Source      *Source
}

// Source identifies the publisher an item originated from.
type Source struct {
	Title *string
}

// Channel is a parsed feed: its metadata plus items in original feed order.
// Item membership is fixed once the channel is built; collections reorder
// and select items but never add to or remove from a channel.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	ImageURL    string
	FetchedAt   time.Time
	Items       []*Item
}
