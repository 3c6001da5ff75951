package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

const channelURLPrefix = "https://www.youtube.com/channel/"

// Channel represents a YouTube channel snapshot
type Channel struct {
	id              string
	Title           string
	Description     string
	URL             string
	SubscriberCount int64
	VideoCount      int64
	ViewCount       int64

	raw json.RawMessage
}

// ChannelExport is the flat form a channel is persisted and served in
type ChannelExport struct {
	ChannelID       string `json:"channelId"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	SubscriberCount int64  `json:"subscriberCount"`
	VideoCount      int64  `json:"videoCount"`
	ViewCount       int64  `json:"viewCount"`
}

// ChannelResponse represents the response from YouTube API
type ChannelResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			ViewCount       string `json:"viewCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// NewChannel fetches the channel with the given id and builds its snapshot.
// No channel is returned unless every field was extracted.
func NewChannel(ctx context.Context, f Fetcher, channelID string) (*Channel, error) {
	raw, err := f.FetchChannel(ctx, channelID, ChannelParts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}

	var response ChannelResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("%w: channel %s: %v", ErrMalformedPayload, channelID, err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}

	item := response.Items[0]
	subscribers, err := parseCount("subscriberCount", item.Statistics.SubscriberCount)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, err)
	}
	videos, err := parseCount("videoCount", item.Statistics.VideoCount)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, err)
	}
	views, err := parseCount("viewCount", item.Statistics.ViewCount)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, err)
	}

	return &Channel{
		id:              channelID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		URL:             channelURLPrefix + item.ID,
		SubscriberCount: subscribers,
		VideoCount:      videos,
		ViewCount:       views,
		raw:             json.RawMessage(raw),
	}, nil
}

// ChannelID returns the id the channel was requested with
func (c *Channel) ChannelID() string {
	return c.id
}

func (c *Channel) String() string {
	return fmt.Sprintf("%s (%s)", c.Title, c.URL)
}

func (c *Channel) CombinedSubscribers(other *Channel) int64 {
	return c.SubscriberCount + other.SubscriberCount
}

func (c *Channel) SubscriberDelta(other *Channel) int64 {
	return c.SubscriberCount - other.SubscriberCount
}

// Compare orders channels by subscriber count alone and returns -1, 0 or +1.
// Channels with the same count compare equal whatever their ids.
func (c *Channel) Compare(other *Channel) int {
	switch {
	case c.SubscriberCount < other.SubscriberCount:
		return -1
	case c.SubscriberCount > other.SubscriberCount:
		return 1
	default:
		return 0
	}
}

func (c *Channel) Equal(other *Channel) bool          { return c.Compare(other) == 0 }
func (c *Channel) Less(other *Channel) bool           { return c.Compare(other) < 0 }
func (c *Channel) LessOrEqual(other *Channel) bool    { return c.Compare(other) <= 0 }
func (c *Channel) Greater(other *Channel) bool        { return c.Compare(other) > 0 }
func (c *Channel) GreaterOrEqual(other *Channel) bool { return c.Compare(other) >= 0 }

// SortBySubscribers orders channels from most to fewest subscribers
func SortBySubscribers(channels []*Channel) {
	sort.SliceStable(channels, func(i, j int) bool {
		return channels[i].Greater(channels[j])
	})
}

// Export returns the flat representation of the channel
func (c *Channel) Export() ChannelExport {
	return ChannelExport{
		ChannelID:       c.id,
		Title:           c.Title,
		Description:     c.Description,
		URL:             c.URL,
		SubscriberCount: c.SubscriberCount,
		VideoCount:      c.VideoCount,
		ViewCount:       c.ViewCount,
	}
}

// ExportToFile writes the channel as a JSON object to path, replacing any
// existing content
func (c *Channel) ExportToFile(path string) error {
	if err := writeJSONFile(path, c.Export()); err != nil {
		return fmt.Errorf("failed to export channel %s: %w", c.id, err)
	}
	return nil
}

// RawSnapshot returns the API payload the channel was built from
func (c *Channel) RawSnapshot() json.RawMessage {
	return c.raw
}

// PrintInfo writes the raw API payload as indented JSON
func (c *Channel) PrintInfo(w io.Writer) error {
	return printIndented(w, c.raw)
}

func printIndented(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
