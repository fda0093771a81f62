// Package collection implements the in-memory aggregation model: an ordered
// channel collection with a derived, flattened item view, and closed sets of
// sort/filter criteria over both.
package collection

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/feedmux/app/feed"
)

// ItemSort selects the comparator used when ordering an item collection.
type ItemSort int

const (
	SortByTitle ItemSort = iota
	SortByDate
	SortByLength
	SortBySource
)

func (s ItemSort) String() string {
	switch s {
	case SortByTitle:
		return "title"
	case SortByDate:
		return "date"
	case SortByLength:
		return "length"
	case SortBySource:
		return "source"
	}
	return fmt.Sprintf("ItemSort(%d)", int(s))
}

// ParseItemSort maps an API-facing criterion name to an ItemSort.
func ParseItemSort(name string) (ItemSort, error) {
	switch name {
	case "title":
		return SortByTitle, nil
	case "date":
		return SortByDate, nil
	case "length":
		return SortByLength, nil
	case "source":
		return SortBySource, nil
	}
	return 0, fmt.Errorf("unknown sort criterion: %q", name)
}

type itemFilterKind int

const (
	filterByTitle itemFilterKind = iota
	filterByDate
	filterByLength
	filterBySource
)

// ItemFilter is a predicate over items, built with one of the constructor
// functions below. The set of kinds is closed; every query dispatches
// through an exhaustive switch.
type ItemFilter struct {
	kind   itemFilterKind
	substr string
	target string
	limit  int
}

// TitleContains keeps items whose title contains substr (case-sensitive).
// Items without a title never match.
func TitleContains(substr string) ItemFilter {
	return ItemFilter{kind: filterByTitle, substr: substr}
}

// PublishedOnOrBefore keeps items whose publication date, parsed, is on or
// before the given date. Items without a date never match; an item date or
// target date that is present but unparsable fails the whole query.
func PublishedOnOrBefore(date string) ItemFilter {
	return ItemFilter{kind: filterByDate, target: date}
}

// DescriptionShorterThan keeps items whose description is strictly shorter
// than limit characters. Items without a description never match.
func DescriptionShorterThan(limit int) ItemFilter {
	return ItemFilter{kind: filterByLength, limit: limit}
}

// SourceContains keeps items whose source title contains substr. Items
// without a source never match.
func SourceContains(substr string) ItemFilter {
	return ItemFilter{kind: filterBySource, substr: substr}
}

// predicate compiles the filter into a match function. Target date parsing
// happens once here so a bad target fails before any item is inspected.
func (f ItemFilter) predicate() (func(*feed.Item) (bool, error), error) {
	switch f.kind {
	case filterByTitle:
		return func(it *feed.Item) (bool, error) {
			return it.Title != nil && strings.Contains(*it.Title, f.substr), nil
		}, nil
	case filterByDate:
		cutoff, err := parseDate(f.target)
		if err != nil {
			return nil, err
		}
		return func(it *feed.Item) (bool, error) {
			if it.PubDate == nil {
				return false, nil
			}
			at, err := parseDate(*it.PubDate)
			if err != nil {
				return false, err
			}
			return !at.After(cutoff), nil
		}, nil
	case filterByLength:
		return func(it *feed.Item) (bool, error) {
			return it.Description != nil && utf8.RuneCountInString(*it.Description) < f.limit, nil
		}, nil
	case filterBySource:
		return func(it *feed.Item) (bool, error) {
			title := sourceTitle(it)
			return title != nil && strings.Contains(*title, f.substr), nil
		}, nil
	}
	return nil, fmt.Errorf("unknown item filter criterion: %d", f.kind)
}

type channelSortKind int

const (
	channelSortByItems channelSortKind = iota
	channelSortByPublisher
)

// ChannelSort selects how a channel collection is sorted: either by a
// property of its items (delegated to the derived item view) or by the
// channels' own publisher titles.
type ChannelSort struct {
	kind  channelSortKind
	items ItemSort
}

// ByItems sorts the derived item view; channel order is untouched.
func ByItems(s ItemSort) ChannelSort {
	return ChannelSort{kind: channelSortByItems, items: s}
}

// ByPublisher reorders the channels themselves by title.
func ByPublisher() ChannelSort {
	return ChannelSort{kind: channelSortByPublisher}
}

type channelFilterKind int

const (
	channelFilterByItems channelFilterKind = iota
	channelFilterByName
)

// ChannelFilter selects either an item-level filter applied across all
// channels or a selection of whole channels by name.
type ChannelFilter struct {
	kind  channelFilterKind
	items ItemFilter
	name  string
}

// ByItemFilter applies an item filter across the items of every channel.
func ByItemFilter(f ItemFilter) ChannelFilter {
	return ChannelFilter{kind: channelFilterByItems, items: f}
}

// ByChannelName selects the channels whose title contains substr and
// returns their items.
func ByChannelName(substr string) ChannelFilter {
	return ChannelFilter{kind: channelFilterByName, name: substr}
}
