package feed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/language"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed data into a Channel. Elements the source document
// omits become nil pointers on the items, so downstream queries can tell
// an absent field from an empty one.
func (p *Parser) Run(data []byte) (*Channel, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	channel := &Channel{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Language:    normalizeLanguage(parsed.Language),
		FetchedAt:   time.Now().UTC(),
	}

	if parsed.Image != nil {
		channel.ImageURL = parsed.Image.URL
	}

	// All items of one document share the publishing feed as their source
	var source *Source
	if parsed.Title != "" {
		source = &Source{Title: optString(parsed.Title)}
	}

	channel.Items = make([]*Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		channel.Items = append(channel.Items, p.normalizeItem(item, source))
	}

	return channel, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, source *Source) *Item {
	normalized := &Item{
		Title:       optString(item.Title),
		Link:        optString(item.Link),
		Description: optString(item.Description),
		PubDate:     optString(item.Published),
		Source:      source,
	}

	if item.Author != nil {
		normalized.Author = optString(item.Author.Name)
	}

	return normalized
}

// optString maps gofeed's empty-string absence convention to a nil pointer.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// normalizeLanguage canonicalizes a feed's language declaration ("EN-us"
// becomes "en-US"); declarations that do not parse pass through untouched.
func normalizeLanguage(lang string) string {
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return tag.String()
}
