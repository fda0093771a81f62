package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/feedmux/app/cfg"
)

// Generator renders the aggregated item view as a single RSS 2.0 document.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(channels []*Channel, items []*Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", fmt.Sprintf("feedmux aggregate (%d feeds)", len(channels)), 4)
	g.writeElement(&buf, "description", "Aggregated view of all configured feeds", 4)

	var selfLink string
	if cfg.Get().BaseUrl != "" {
		selfLink = fmt.Sprintf("%s/feed", cfg.Get().BaseUrl)
	} else {
		selfLink = fmt.Sprintf("http://localhost:%s/feed", cfg.Get().Port)
	}
	g.writeElement(&buf, "link", selfLink, 4)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	g.writeElement(&buf, "lastBuildDate", time.Now().In(time.Local).Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("feedmux/%s", cfg.Get().Version), 4)

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item *Item) {
	buf.WriteString("    <item>\n")

	if item.Link != nil {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(*item.Link)))
		xml.EscapeText(buf, []byte(*item.Link))
		buf.WriteString("</guid>\n")
	}

	g.writeOptElement(buf, "title", item.Title, 6)
	g.writeOptElement(buf, "link", item.Link, 6)

	description := "No description available"
	if item.Description != nil {
		description = *item.Description
	}
	g.writeElement(buf, "description", description, 6)

	// The raw publication date string passes through as the feed supplied it
	g.writeOptElement(buf, "pubDate", item.PubDate, 6)
	g.writeOptElement(buf, "author", item.Author, 6)

	if item.Source != nil && item.Source.Title != nil {
		g.writeElement(buf, "source", *item.Source.Title, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeOptElement(buf *bytes.Buffer, tag string, content *string, indent int) {
	if content == nil {
		return
	}
	g.writeElement(buf, tag, *content, indent)
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
