package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	youtubeAPIBaseURL = "https://www.googleapis.com"
)

// YouTubeAPI fetches records through the official YouTube Data API client
type YouTubeAPI struct {
	service *youtube.Service
}

// NewYouTubeAPI creates a YouTube service authenticated with apiKey
func NewYouTubeAPI(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeAPI, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &YouTubeAPI{service: service}, nil
}

// FetchChannel lists the channel with the given id
func (y *YouTubeAPI) FetchChannel(ctx context.Context, id string, parts []string) ([]byte, error) {
	response, err := y.service.Channels.List(parts).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	// the generated types keep statistics string-encoded when marshalled
	return json.Marshal(response)
}

// FetchVideo lists the video with the given id
func (y *YouTubeAPI) FetchVideo(ctx context.Context, id string, parts []string) ([]byte, error) {
	response, err := y.service.Videos.List(parts).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return json.Marshal(response)
}

// StatusError is returned when the YouTube API answers with a non-200 status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("YouTube API returned status code: %d", e.StatusCode)
}

// YouTubeClient handles direct HTTP requests to YouTube API
type YouTubeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewYouTubeClient creates a new YouTube client. baseURL is the API root the
// youtube/v3 paths are resolved against; empty selects the public endpoint.
func NewYouTubeClient(apiKey, baseURL string) *YouTubeClient {
	if baseURL == "" {
		baseURL = youtubeAPIBaseURL
	}
	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// FetchChannel fetches the raw channel list payload for id
func (c *YouTubeClient) FetchChannel(ctx context.Context, id string, parts []string) ([]byte, error) {
	return c.list(ctx, "channels", id, parts)
}

// FetchVideo fetches the raw video list payload for id
func (c *YouTubeClient) FetchVideo(ctx context.Context, id string, parts []string) ([]byte, error) {
	return c.list(ctx, "videos", id, parts)
}

func (c *YouTubeClient) list(ctx context.Context, resource, id string, parts []string) ([]byte, error) {
	query := url.Values{}
	query.Set("part", strings.Join(parts, ","))
	query.Set("id", id)
	query.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/youtube/v3/%s?%s", c.baseURL, resource, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", resource, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
