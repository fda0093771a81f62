package api

import (
	"github.com/lysyi3m/feedmux/app/feed"
)

type GeneratorInterface interface {
	Run(channels []*feed.Channel, items []*feed.Item) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

// ItemResponse is the owned copy of an item handed to external callers;
// collection internals never leak across the API boundary.
type ItemResponse struct {
	Title       *string `json:"title,omitempty"`
	Link        *string `json:"link,omitempty"`
	Description *string `json:"description,omitempty"`
	PubDate     *string `json:"pub_date,omitempty"`
	Author      *string `json:"author,omitempty"`
	Source      *string `json:"source,omitempty"`
}

type ChannelResponse struct {
	Title     string `json:"title"`
	Link      string `json:"link,omitempty"`
	Language  string `json:"language,omitempty"`
	ItemCount int    `json:"item_count"`
}
