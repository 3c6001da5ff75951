package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/ytrecords/internal/api"
	"github.com/ytrecords/internal/config"
	"github.com/ytrecords/internal/models"
	"golang.org/x/exp/slog"
)

const usage = `usage:
  ytrecord channel [-o file] [-raw] <channel-id>
  ytrecord video [-playlist id] <video-id>
  ytrecord compare <channel-id> <channel-id>`

var errUsage = errors.New(usage)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	client := api.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.APIBaseURL)
	if err := run(context.Background(), os.Args[1:], client, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, f models.Fetcher, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "channel":
		return runChannel(ctx, args[1:], f, out)
	case "video":
		return runVideo(ctx, args[1:], f, out)
	case "compare":
		return runCompare(ctx, args[1:], f, out)
	default:
		return errUsage
	}
}

func runChannel(ctx context.Context, args []string, f models.Fetcher, out io.Writer) error {
	fs := flag.NewFlagSet("channel", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	output := fs.String("o", "", "export the channel as JSON to this file")
	raw := fs.Bool("raw", false, "print the raw API payload")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}

	channel, err := models.NewChannel(ctx, f, fs.Arg(0))
	if err != nil {
		return err
	}

	if *raw {
		if err := channel.PrintInfo(out); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, channel)
		fmt.Fprintf(out, "subscribers: %s\nvideos: %s\nviews: %s\n",
			humanize.Comma(channel.SubscriberCount),
			humanize.Comma(channel.VideoCount),
			humanize.Comma(channel.ViewCount))
	}

	if *output != "" {
		return channel.ExportToFile(*output)
	}
	return nil
}

func runVideo(ctx context.Context, args []string, f models.Fetcher, out io.Writer) error {
	fs := flag.NewFlagSet("video", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	playlist := fs.String("playlist", "", "playlist the video belongs to")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}

	var video *models.Video
	if *playlist != "" {
		pv, err := models.NewPlaylistVideo(ctx, f, fs.Arg(0), *playlist)
		if err != nil {
			return err
		}
		video = &pv.Video
	} else {
		v, err := models.NewVideo(ctx, f, fs.Arg(0))
		if err != nil {
			return err
		}
		video = v
	}

	fmt.Fprintln(out, video)
	fmt.Fprintf(out, "%s\nviews: %s\nlikes: %s\n",
		video.URL,
		humanize.Comma(video.ViewCount),
		humanize.Comma(video.LikeCount))
	if *playlist != "" {
		fmt.Fprintf(out, "playlist: %s\n", *playlist)
	}
	return nil
}

func runCompare(ctx context.Context, args []string, f models.Fetcher, out io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}

	a, err := models.NewChannel(ctx, f, args[0])
	if err != nil {
		return err
	}
	b, err := models.NewChannel(ctx, f, args[1])
	if err != nil {
		return err
	}

	relation := "=="
	switch a.Compare(b) {
	case -1:
		relation = "<"
	case 1:
		relation = ">"
	}

	fmt.Fprintf(out, "%s %s %s\n", a.Title, relation, b.Title)
	fmt.Fprintf(out, "combined subscribers: %s\n", humanize.Comma(a.CombinedSubscribers(b)))
	fmt.Fprintf(out, "subscriber delta: %s\n", humanize.Comma(a.SubscriberDelta(b)))
	return nil
}
