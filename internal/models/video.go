package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

const videoURLPrefix = "https://www.youtube.com/watch?v="

// Video represents a YouTube video snapshot
type Video struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ChannelID       string   `json:"channelId"`
	URL             string   `json:"url"`
	Duration        string   `json:"duration"`
	TopicCategories []string `json:"topicCategories"`
	ViewCount       int64    `json:"viewCount"`
	LikeCount       int64    `json:"likeCount"`

	raw json.RawMessage
}

// PlaylistVideo is a video tagged with the playlist it was listed from
type PlaylistVideo struct {
	Video
	PlaylistID string `json:"playlistId"`
}

// VideoListResponse represents the response from YouTube API for video list
type VideoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ChannelID   string `json:"channelId"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		TopicDetails struct {
			TopicCategories []string `json:"topicCategories"`
		} `json:"topicDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// NewVideo fetches the video with the given id and builds its snapshot
func NewVideo(ctx context.Context, f Fetcher, videoID string) (*Video, error) {
	raw, err := f.FetchVideo(ctx, videoID, VideoParts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video %s: %w", videoID, err)
	}

	var response VideoListResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("%w: video %s: %v", ErrMalformedPayload, videoID, err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
	}

	item := response.Items[0]
	views, err := parseCount("viewCount", item.Statistics.ViewCount)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", videoID, err)
	}
	likes, err := parseCount("likeCount", item.Statistics.LikeCount)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", videoID, err)
	}

	return &Video{
		ID:              videoID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		ChannelID:       item.Snippet.ChannelID,
		URL:             videoURLPrefix + item.ID,
		Duration:        item.ContentDetails.Duration,
		TopicCategories: item.TopicDetails.TopicCategories,
		ViewCount:       views,
		LikeCount:       likes,
		raw:             json.RawMessage(raw),
	}, nil
}

// NewPlaylistVideo fetches a video and tags it with playlistID
func NewPlaylistVideo(ctx context.Context, f Fetcher, videoID, playlistID string) (*PlaylistVideo, error) {
	video, err := NewVideo(ctx, f, videoID)
	if err != nil {
		return nil, err
	}
	return &PlaylistVideo{Video: *video, PlaylistID: playlistID}, nil
}

func (v *Video) String() string {
	return v.Title
}

// RawSnapshot returns the API payload the video was built from
func (v *Video) RawSnapshot() json.RawMessage {
	return v.raw
}

// PrintInfo writes the raw API payload as indented JSON
func (v *Video) PrintInfo(w io.Writer) error {
	return printIndented(w, v.raw)
}
