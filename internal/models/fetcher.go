package models

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrMalformedPayload   = errors.New("malformed API payload")
	ErrMalformedStatistic = errors.New("malformed statistic")
)

// Parts requested from the YouTube Data API for each entity
var (
	ChannelParts = []string{"snippet", "statistics"}
	VideoParts   = []string{"snippet", "statistics", "contentDetails", "topicDetails"}
)

// Fetcher is the API access layer the records are built from.
// Implementations return the raw JSON payload of a list call; an unknown id
// yields a payload with an empty items array, not an error.
type Fetcher interface {
	FetchChannel(ctx context.Context, id string, parts []string) ([]byte, error)
	FetchVideo(ctx context.Context, id string, parts []string) ([]byte, error)
}

// parseCount coerces a statistic transmitted as text into an integer.
// Hidden or absent statistics arrive as an empty string and count as zero.
func parseCount(field, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedStatistic, field, value)
	}
	return n, nil
}
