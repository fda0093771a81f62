package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/lysyi3m/feedmux/app/collection"
	"github.com/lysyi3m/feedmux/app/config"
	"github.com/lysyi3m/feedmux/app/feed"
)

// FetchFeedTask downloads one configured feed, runs it through the
// sanitizer and parser, and pushes the resulting channel into the shared
// collection. All network and parse work happens before Push; the
// collection's lock is never held across I/O.
type FetchFeedTask struct {
	Task
	FeedConfig *config.FeedConfig
	httpClient *http.Client
	sanitizer  *feed.Sanitizer
	parser     *feed.Parser
	extractor  *feed.ContentExtractor
	channels   *collection.ChannelCollection
	userAgent  string
}

func NewFetchFeedTask(feedConfig *config.FeedConfig, httpClient *http.Client,
	sanitizer *feed.Sanitizer, parser *feed.Parser, extractor *feed.ContentExtractor,
	channels *collection.ChannelCollection, userAgent string) *FetchFeedTask {
	return &FetchFeedTask{
		Task:       NewTask(TaskTypeFetchFeed, feedConfig.Name),
		FeedConfig: feedConfig,
		httpClient: httpClient,
		sanitizer:  sanitizer,
		parser:     parser,
		extractor:  extractor,
		channels:   channels,
		userAgent:  userAgent,
	}
}

func (t *FetchFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.FeedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping", "feed", t.FeedName)
		return nil
	}

	data, err := t.fetch(ctx, t.FeedConfig.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	data = t.sanitizer.Run(data)

	channel, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}
	if channel.Title == "" {
		channel.Title = t.FeedConfig.Name
	}

	if t.FeedConfig.Settings.ExtractContent {
		t.backfillDescriptions(ctx, channel)
	}

	t.channels.Push(channel)

	slog.Info("Task completed",
		"type", "FetchFeed",
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"items", len(channel.Items))

	return nil
}

// backfillDescriptions fills in missing item descriptions from the linked
// article pages. Extraction failures only cost the backfill; the item stays
// in the channel without a description.
func (t *FetchFeedTask) backfillDescriptions(ctx context.Context, channel *feed.Channel) {
	for _, item := range channel.Items {
		if item.Description != nil || item.Link == nil {
			continue
		}

		data, err := t.fetch(ctx, *item.Link)
		if err != nil {
			slog.Warn("Failed to fetch article page", "feed", t.FeedName, "url", *item.Link, "error", err)
			continue
		}

		text, err := t.extractor.Run(data, *item.Link)
		if err != nil {
			slog.Warn("Failed to extract content", "feed", t.FeedName, "url", *item.Link, "error", err)
			continue
		}

		item.Description = &text
	}
}

func (t *FetchFeedTask) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.FeedConfig.Settings.GetTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
