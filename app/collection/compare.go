package collection

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"

	"github.com/lysyi3m/feedmux/app/feed"
)

// ErrInvalidDate marks a date-based sort or filter that hit a publication
// date it could not parse. The whole operation fails; there is no silent
// fallback to string comparison.
var ErrInvalidDate = errors.New("invalid publication date")

func parseDate(raw string) (time.Time, error) {
	at, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return at, nil
}

// compareOptional orders optional strings with absent before present,
// then lexicographically.
func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return strings.Compare(*a, *b)
}

// lengthLess orders items by description length, with the asymmetric rule
// that an item carrying a description always sorts before one without.
// An empty description still counts as content.
func lengthLess(a, b *feed.Item) bool {
	switch {
	case a.Description == nil:
		return false
	case b.Description == nil:
		return true
	}
	return utf8.RuneCountInString(*a.Description) < utf8.RuneCountInString(*b.Description)
}

func sourceTitle(it *feed.Item) *string {
	if it.Source == nil {
		return nil
	}
	return it.Source.Title
}
