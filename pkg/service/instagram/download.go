package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
	"github.com/clearpath-fin/clearpath/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Downloader fetches post media with bounded concurrency
type Downloader struct {
	client      *http.Client
	concurrency int
}

type DownloaderOption func(*Downloader)

// WithHTTPClient overrides the HTTP client used for fetches
func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithConcurrency sets the number of parallel fetches
func WithConcurrency(n int) DownloaderOption {
	return func(d *Downloader) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client:      &http.Client{Timeout: 30 * time.Second},
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadResult summarizes a download run
type DownloadResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Download fetches media for every resolved post into destDir. Posts still
// flagged for review are skipped. Individual fetch failures are logged and
// counted, not fatal.
func (d *Downloader) Download(ctx context.Context, extraction *Extraction, destDir string) (*DownloadResult, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create download dir", goerr.V("dir", destDir))
	}

	var downloaded, skipped, failed atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.concurrency)

	for _, post := range extraction.Posts {
		if post.NeedsReview || post.Shortcode == "" {
			skipped.Add(1)
			continue
		}

		eg.Go(func() error {
			if err := d.fetchPost(ctx, post, destDir); err != nil {
				failed.Add(1)
				logging.From(ctx).Warn("media download failed",
					"shortcode", post.Shortcode,
					"error", err.Error(),
				)
				return nil
			}
			downloaded.Add(1)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &DownloadResult{
		Downloaded: int(downloaded.Load()),
		Skipped:    int(skipped.Load()),
		Failed:     int(failed.Load()),
	}, nil
}

// mediaURL returns the direct media endpoint for a post
func mediaURL(shortcode string) string {
	return fmt.Sprintf("https://www.instagram.com/p/%s/media/?size=l", shortcode)
}

func (d *Downloader) fetchPost(ctx context.Context, post Post, destDir string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL(post.Shortcode), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build media request", goerr.V("shortcode", post.Shortcode))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return goerr.Wrap(err, "media request failed", goerr.V("shortcode", post.Shortcode))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected media response status",
			goerr.V("shortcode", post.Shortcode), goerr.V("status", resp.StatusCode))
	}

	path := filepath.Join(destDir, post.Shortcode+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create media file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	if _, err := io.Copy(f, resp.Body); err != nil {
		return goerr.Wrap(err, "failed to write media file", goerr.V("path", path))
	}
	return nil
}
