// Command tubegrab is a terminal front end for the mocked lookup and
// download flow. Files land in DOWNLOAD_DIR and are not cleaned up.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"tubegrab/config"
	"tubegrab/internal/model"
	"tubegrab/internal/service"
	"tubegrab/internal/session"
	"tubegrab/internal/storage"
	"tubegrab/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	cfg.Logging.FileOnly = true

	if err := logger.Init(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store := storage.NewManager(&cfg.Storage)
	videos := service.NewVideoService(time.Duration(cfg.Mock.InfoLatencyMs) * time.Millisecond)
	downloads := service.NewDownloadService(store,
		time.Duration(cfg.Mock.DownloadLatencyMs)*time.Millisecond,
		service.MultiNotifier{}) // the session's notifier already logs

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := session.New(videos, downloads, service.MultiNotifier{terminalNotifier{w: os.Stdout}, service.LogNotifier{}})
	if err := run(ctx, os.Stdin, os.Stdout, sess); err != nil {
		logger.LogError("Terminal session ended with error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type terminalNotifier struct {
	w io.Writer
}

func (n terminalNotifier) Notify(notice model.Notice) {
	fmt.Fprintf(n.w, "[%s] %s\n", notice.Level, notice.Message)
}

// run reads a URL, shows the card, then reads a format choice, until the
// input ends, ctx is cancelled, or the user enters a blank line or "q"
func run(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session) error {
	done := make(chan struct{})
	defer close(done)
	lines, errc := readLines(in, done)

	// next blocks for the next trimmed line. ok is false once the input
	// ends or ctx is cancelled.
	next := func(prompt string) (string, bool, error) {
		fmt.Fprint(out, prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return "", false, nil
		case line, ok := <-lines:
			if !ok {
				return "", false, <-errc
			}
			return strings.TrimSpace(line), true, nil
		}
	}

	for ctx.Err() == nil {
		line, ok, err := next("URL> ")
		if !ok || line == "" || line == "q" {
			return err
		}

		fmt.Fprintln(out, "Loading...")
		sess.Submit(ctx, line)
		info := sess.Metadata()
		if sess.State() != model.StateSuccess || info == nil {
			continue
		}
		printCard(out, info)

		choice, ok, err := next("Format> ")
		if !ok {
			return err
		}
		if choice == "" {
			continue
		}

		formatID := resolveFormat(info.Formats, choice)
		logger.LogDebug("Format chosen", zap.String("choice", choice), zap.String("format_id", formatID))
		if file := sess.Download(ctx, formatID); file != nil {
			fmt.Fprintf(out, "Saved %s\n", file.FilePath)
		}
	}
	return nil
}

// readLines scans in on its own goroutine so a prompt can give up on
// cancellation. lines is closed when the input ends, after the scan error
// has been sent on errc.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func printCard(out io.Writer, info *model.VideoMetadata) {
	fmt.Fprintf(out, "\n%s\n", info.Title)
	fmt.Fprintf(out, "  by %s, %s\n", info.Author, info.Duration)
	fmt.Fprintf(out, "  thumbnail: %s\n", info.Thumbnail)
	if info.HighestQuality != "" {
		fmt.Fprintf(out, "  best: %s\n", info.HighestQuality)
	}
	for i, f := range info.Formats {
		fmt.Fprintf(out, "  %d) %-6s %-10s %dfps  [%s]\n", i+1, f.Quality, f.Resolution, f.FPS, f.FormatID)
	}
}

// resolveFormat maps a 1-based menu number to its format ID; anything else
// is taken as a format ID
func resolveFormat(formats []model.FormatDescriptor, choice string) string {
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(formats) {
		return formats[n-1].FormatID
	}
	return choice
}
