package instagram

import (
	"context"
	"os"
	"path/filepath"

	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ProcessResult summarizes a full-process run
type ProcessResult struct {
	Extraction     *Extraction
	ExtractionPath string
	ReviewPath     string // empty when nothing needs review
	Download       *DownloadResult
}

// FullProcess runs the whole pipeline against a note folder: validate,
// extract, write the JSON intermediate, emit a review file for uncertain
// entries, and download media for everything already resolved. Entries
// left for review are picked up by a later import-manual plus download.
func FullProcess(ctx context.Context, noteDir, outDir string, downloader *Downloader) (*ProcessResult, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output dir", goerr.V("dir", outDir))
	}

	extraction, err := ExtractFolder(noteDir)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{
		Extraction:     extraction,
		ExtractionPath: filepath.Join(outDir, "extraction.json"),
	}
	if err := extraction.Save(result.ExtractionPath); err != nil {
		return nil, err
	}

	review := BuildReview(extraction)
	if len(review.Entries) > 0 {
		result.ReviewPath = filepath.Join(outDir, "review.json")
		if err := review.Save(result.ReviewPath); err != nil {
			return nil, err
		}
		logging.From(ctx).Info("entries flagged for manual review",
			"count", len(review.Entries),
			"review_file", result.ReviewPath,
		)
	}

	download, err := downloader.Download(ctx, extraction, filepath.Join(outDir, "media"))
	if err != nil {
		return nil, err
	}
	result.Download = download

	logging.From(ctx).Info("note folder processed",
		"posts", len(extraction.Posts),
		"downloaded", download.Downloaded,
		"skipped", download.Skipped,
		"failed", download.Failed,
	)
	return result, nil
}
