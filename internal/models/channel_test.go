package models

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeFetcher serves canned payloads keyed by id
type fakeFetcher struct {
	channels map[string]string
	videos   map[string]string
	err      error
	parts    []string
}

func (f *fakeFetcher) FetchChannel(_ context.Context, id string, parts []string) ([]byte, error) {
	f.parts = parts
	if f.err != nil {
		return nil, f.err
	}
	if payload, ok := f.channels[id]; ok {
		return []byte(payload), nil
	}
	return []byte(`{"items":[]}`), nil
}

func (f *fakeFetcher) FetchVideo(_ context.Context, id string, parts []string) ([]byte, error) {
	f.parts = parts
	if f.err != nil {
		return nil, f.err
	}
	if payload, ok := f.videos[id]; ok {
		return []byte(payload), nil
	}
	return []byte(`{"items":[]}`), nil
}

func channelPayload(id, title, subscribers string) string {
	return `{"kind":"youtube#channelListResponse","items":[{"id":"` + id + `",` +
		`"snippet":{"title":"` + title + `","description":"Канал о программировании <Go> & co"},` +
		`"statistics":{"subscriberCount":"` + subscribers + `","videoCount":"42","viewCount":"987654"}}]}`
}

func newTestChannel(t *testing.T, id, subscribers string) *Channel {
	t.Helper()
	f := &fakeFetcher{channels: map[string]string{id: channelPayload(id, "Channel "+id, subscribers)}}
	channel, err := NewChannel(context.Background(), f, id)
	if err != nil {
		t.Fatalf("NewChannel(%q) error = %v", id, err)
	}
	return channel
}

func TestNewChannel(t *testing.T) {
	f := &fakeFetcher{channels: map[string]string{
		"UC1": channelPayload("UC1", "MoscowPython", "1500"),
	}}

	channel, err := NewChannel(context.Background(), f, "UC1")
	if err != nil {
		t.Fatalf("NewChannel() error = %v", err)
	}

	if channel.ChannelID() != "UC1" {
		t.Errorf("ChannelID() = %q, want UC1", channel.ChannelID())
	}
	if channel.Title != "MoscowPython" {
		t.Errorf("Title = %q, want MoscowPython", channel.Title)
	}
	if channel.URL != "https://www.youtube.com/channel/UC1" {
		t.Errorf("URL = %q", channel.URL)
	}
	if channel.SubscriberCount != 1500 {
		t.Errorf("SubscriberCount = %d, want 1500", channel.SubscriberCount)
	}
	if channel.VideoCount != 42 {
		t.Errorf("VideoCount = %d, want 42", channel.VideoCount)
	}
	if channel.ViewCount != 987654 {
		t.Errorf("ViewCount = %d, want 987654", channel.ViewCount)
	}
	if strings.Join(f.parts, ",") != "snippet,statistics" {
		t.Errorf("requested parts = %v", f.parts)
	}
}

func TestNewChannelNotFound(t *testing.T) {
	channel, err := NewChannel(context.Background(), &fakeFetcher{}, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if channel != nil {
		t.Errorf("channel = %+v, want nil", channel)
	}
}

func TestNewChannelErrors(t *testing.T) {
	transportErr := errors.New("connection refused")

	tests := []struct {
		name    string
		fetcher *fakeFetcher
		want    error
	}{
		{
			name:    "transport failure",
			fetcher: &fakeFetcher{err: transportErr},
			want:    transportErr,
		},
		{
			name:    "invalid json",
			fetcher: &fakeFetcher{channels: map[string]string{"UC1": `{"items":`}},
			want:    ErrMalformedPayload,
		},
		{
			name:    "non-numeric statistic",
			fetcher: &fakeFetcher{channels: map[string]string{"UC1": channelPayload("UC1", "x", "lots")}},
			want:    ErrMalformedStatistic,
		},
		{
			name:    "negative statistic",
			fetcher: &fakeFetcher{channels: map[string]string{"UC1": channelPayload("UC1", "x", "-5")}},
			want:    ErrMalformedStatistic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, err := NewChannel(context.Background(), tt.fetcher, "UC1")
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if channel != nil {
				t.Errorf("channel = %+v, want nil", channel)
			}
		})
	}
}

func TestNewChannelHiddenSubscribers(t *testing.T) {
	payload := `{"items":[{"id":"UC1","snippet":{"title":"Hidden"},"statistics":{"hiddenSubscriberCount":true,"videoCount":"3","viewCount":"10"}}]}`
	f := &fakeFetcher{channels: map[string]string{"UC1": payload}}

	channel, err := NewChannel(context.Background(), f, "UC1")
	if err != nil {
		t.Fatalf("NewChannel() error = %v", err)
	}
	if channel.SubscriberCount != 0 {
		t.Errorf("SubscriberCount = %d, want 0", channel.SubscriberCount)
	}
}

func TestChannelString(t *testing.T) {
	channel := newTestChannel(t, "UC1", "10")
	want := "Channel UC1 (https://www.youtube.com/channel/UC1)"
	if got := channel.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestChannelArithmetic(t *testing.T) {
	counts := []string{"0", "1", "1000", "1000", "2500000"}

	for i, a := range counts {
		for j, b := range counts {
			ca := newTestChannel(t, "A", a)
			cb := newTestChannel(t, "B", b)

			if got, want := ca.CombinedSubscribers(cb), ca.SubscriberCount+cb.SubscriberCount; got != want {
				t.Errorf("[%d,%d] CombinedSubscribers() = %d, want %d", i, j, got, want)
			}
			if ca.SubscriberDelta(cb) != -cb.SubscriberDelta(ca) {
				t.Errorf("[%d,%d] SubscriberDelta() is not antisymmetric: %d vs %d",
					i, j, ca.SubscriberDelta(cb), cb.SubscriberDelta(ca))
			}
		}
	}
}

func TestChannelCompareTotalOrder(t *testing.T) {
	counts := []string{"0", "7", "1000", "1000", "99999"}

	for _, a := range counts {
		for _, b := range counts {
			ca := newTestChannel(t, "A", a)
			cb := newTestChannel(t, "B", b)

			holds := 0
			if ca.Less(cb) {
				holds++
			}
			if ca.Equal(cb) {
				holds++
			}
			if ca.Greater(cb) {
				holds++
			}
			if holds != 1 {
				t.Errorf("%s vs %s: %d of <, ==, > hold, want exactly 1", a, b, holds)
			}
			if ca.Compare(cb) != -cb.Compare(ca) {
				t.Errorf("%s vs %s: Compare() is not antisymmetric", a, b)
			}
			if ca.LessOrEqual(cb) != (ca.Less(cb) || ca.Equal(cb)) {
				t.Errorf("%s vs %s: LessOrEqual() inconsistent", a, b)
			}
			if ca.GreaterOrEqual(cb) != (ca.Greater(cb) || ca.Equal(cb)) {
				t.Errorf("%s vs %s: GreaterOrEqual() inconsistent", a, b)
			}
		}
	}
}

func TestChannelEqualIgnoresIdentity(t *testing.T) {
	a := newTestChannel(t, "UCa", "1000")
	b := newTestChannel(t, "UCb", "1000")

	if !a.Equal(b) {
		t.Error("channels with equal subscriber counts should compare equal")
	}
	if a.Compare(b) != 0 {
		t.Errorf("Compare() = %d, want 0", a.Compare(b))
	}
}

func TestSortBySubscribers(t *testing.T) {
	channels := []*Channel{
		newTestChannel(t, "small", "10"),
		newTestChannel(t, "big", "5000"),
		newTestChannel(t, "mid", "300"),
	}

	SortBySubscribers(channels)

	want := []string{"big", "mid", "small"}
	for i, c := range channels {
		if c.ChannelID() != want[i] {
			t.Errorf("channels[%d] = %s, want %s", i, c.ChannelID(), want[i])
		}
	}
}

func TestExportToFile(t *testing.T) {
	f := &fakeFetcher{channels: map[string]string{
		"UC1": channelPayload("UC1", "Пайтон", "1500"),
	}}
	channel, err := NewChannel(context.Background(), f, "UC1")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "channel.json")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale content ", 100)), 0644); err != nil {
		t.Fatal(err)
	}

	if err := channel.ExportToFile(path); err != nil {
		t.Fatalf("ExportToFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Contains(data, []byte("Пайтон")) {
		t.Errorf("non-ASCII title was escaped: %s", data)
	}
	if !bytes.Contains(data, []byte("<Go> & co")) {
		t.Errorf("HTML characters were escaped: %s", data)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported file is not a JSON object: %v", err)
	}

	wantKeys := []string{"channelId", "title", "description", "url", "subscriberCount", "videoCount", "viewCount"}
	if len(decoded) != len(wantKeys) {
		t.Errorf("exported %d keys, want %d: %v", len(decoded), len(wantKeys), decoded)
	}
	for _, key := range wantKeys {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	var export ChannelExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatal(err)
	}
	if export.SubscriberCount != channel.SubscriberCount {
		t.Errorf("subscriberCount = %d, want %d", export.SubscriberCount, channel.SubscriberCount)
	}
	if export.ChannelID != "UC1" {
		t.Errorf("channelId = %q, want UC1", export.ChannelID)
	}
}

func TestExportToFileUnwritable(t *testing.T) {
	channel := newTestChannel(t, "UC1", "10")

	path := filepath.Join(t.TempDir(), "missing-dir", "channel.json")
	err := channel.ExportToFile(path)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want it to wrap os.ErrNotExist", err)
	}
}

func TestPrintInfo(t *testing.T) {
	channel := newTestChannel(t, "UC1", "1500")

	var buf bytes.Buffer
	if err := channel.PrintInfo(&buf); err != nil {
		t.Fatalf("PrintInfo() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\n  \"items\": [") {
		t.Errorf("output is not indented with two spaces:\n%s", out)
	}
	if !strings.Contains(out, "Канал о программировании") {
		t.Errorf("output lost non-ASCII text:\n%s", out)
	}

	var payload map[string]any
	if err := json.Unmarshal(channel.RawSnapshot(), &payload); err != nil {
		t.Fatalf("RawSnapshot() is not JSON: %v", err)
	}
	if payload["kind"] != "youtube#channelListResponse" {
		t.Errorf("RawSnapshot() kind = %v", payload["kind"])
	}
}
