package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/lysyi3m/feedmux/app/collection"
	"github.com/lysyi3m/feedmux/app/feed"
)

type Handler struct {
	channels  *collection.ChannelCollection
	generator GeneratorInterface
	startedAt time.Time
}

func NewHandler(channels *collection.ChannelCollection) *Handler {
	return &Handler{
		channels:  channels,
		generator: feed.NewGenerator(),
		startedAt: time.Now(),
	}
}

// GetItems answers the flattened item view, optionally sorted by one
// criterion or narrowed by one filter. Sort and filter are separate
// queries; combining them in one request is rejected.
func (h *Handler) GetItems(c *gin.Context) {
	filter, filterCount, err := itemFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filterCount > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most one filter parameter may be given"})
		return
	}

	sortParam := c.Query("sort")
	if sortParam != "" && filterCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort and filter cannot be combined in one request"})
		return
	}

	var items []*feed.Item
	switch {
	case filterCount == 1:
		items, err = h.channels.Filter(filter)
	case sortParam != "":
		var criterion collection.ItemSort
		criterion, err = collection.ParseItemSort(sortParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items, err = h.channels.Sort(collection.ByItems(criterion))
	default:
		items = h.channels.Items()
	}

	if err != nil {
		h.queryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": lo.Map(items, func(it *feed.Item, _ int) ItemResponse {
			return itemResponse(it)
		}),
	})
}

// GetChannels lists the aggregated channels, optionally reordered by
// publisher title.
func (h *Handler) GetChannels(c *gin.Context) {
	switch c.Query("sort") {
	case "":
	case "publisher":
		if _, err := h.channels.Sort(collection.ByPublisher()); err != nil {
			h.queryError(c, err)
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown channel sort criterion"})
		return
	}

	channels := h.channels.Channels()
	c.JSON(http.StatusOK, gin.H{
		"count": len(channels),
		"channels": lo.Map(channels, func(ch *feed.Channel, _ int) ChannelResponse {
			return ChannelResponse{
				Title:     ch.Title,
				Link:      ch.Link,
				Language:  ch.Language,
				ItemCount: len(ch.Items),
			}
		}),
	})
}

// GetFeed serves the aggregate item view as a single RSS document.
func (h *Handler) GetFeed(c *gin.Context) {
	rss, err := h.generator.Run(h.channels.Channels(), h.channels.Items())
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(h.channels.Items())))
	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"channels":  len(h.channels.Channels()),
		"items":     len(h.channels.Items()),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	channels := h.channels.Channels()

	c.JSON(http.StatusOK, gin.H{
		"uptime":   time.Since(h.startedAt).Truncate(time.Second).String(),
		"channels": len(channels),
		"items":    len(h.channels.Items()),
		"per_channel": lo.Map(channels, func(ch *feed.Channel, _ int) gin.H {
			return gin.H{"title": ch.Title, "items": len(ch.Items)}
		}),
	})
}

// itemFilterFromQuery builds a channel-level filter from the query
// parameters and reports how many filter parameters were present.
func itemFilterFromQuery(c *gin.Context) (collection.ChannelFilter, int, error) {
	var filter collection.ChannelFilter
	count := 0

	if s, ok := c.GetQuery("title"); ok {
		filter = collection.ByItemFilter(collection.TitleContains(s))
		count++
	}
	if s, ok := c.GetQuery("published_before"); ok {
		filter = collection.ByItemFilter(collection.PublishedOnOrBefore(s))
		count++
	}
	if s, ok := c.GetQuery("max_length"); ok {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return filter, count, errors.New("max_length must be an integer")
		}
		filter = collection.ByItemFilter(collection.DescriptionShorterThan(limit))
		count++
	}
	if s, ok := c.GetQuery("source"); ok {
		filter = collection.ByItemFilter(collection.SourceContains(s))
		count++
	}
	if s, ok := c.GetQuery("channel"); ok {
		filter = collection.ByChannelName(s)
		count++
	}

	return filter, count, nil
}

// queryError maps a failed query to a status: strict-date violations are
// the caller's data problem, everything else is a bad request.
func (h *Handler) queryError(c *gin.Context, err error) {
	if errors.Is(err, collection.ErrInvalidDate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func itemResponse(it *feed.Item) ItemResponse {
	resp := ItemResponse{
		Title:       it.Title,
		Link:        it.Link,
		Description: it.Description,
		PubDate:     it.PubDate,
		Author:      it.Author,
	}
	if it.Source != nil {
		resp.Source = it.Source.Title
	}
	return resp
}
