package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/clearpath-fin/clearpath/pkg/service/instagram"
	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
)

func cmdInstagram() *cli.Command {
	return &cli.Command{
		Name:  "instagram",
		Usage: "Extract and download content referenced by note files",
		Commands: []*cli.Command{
			cmdInstagramValidateFolder(),
			cmdInstagramExtract(),
			cmdInstagramManualReview(),
			cmdInstagramImportManual(),
			cmdInstagramDownload(),
			cmdInstagramFullProcess(),
		},
	}
}

func cmdInstagramValidateFolder() *cli.Command {
	var dir string

	return &cli.Command{
		Name:  "validate-folder",
		Usage: "Check a note folder for usable note files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "Note folder path",
				Required:    true,
				Destination: &dir,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			report, err := instagram.ValidateFolder(dir)
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d note files, %d skipped, %d empty\n",
				report.Dir, len(report.NoteFiles), len(report.Skipped), len(report.Empty))
			for _, name := range report.Skipped {
				fmt.Printf("  skipped: %s\n", name)
			}
			for _, name := range report.Empty {
				fmt.Printf("  empty: %s\n", name)
			}

			if !report.Valid() {
				return goerr.New("folder contains no usable note files", goerr.V("dir", dir))
			}
			return nil
		},
	}
}

func cmdInstagramExtract() *cli.Command {
	var dir string
	var outPath string

	return &cli.Command{
		Name:  "extract-content",
		Usage: "Parse note files into the JSON intermediate",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "Note folder path",
				Required:    true,
				Destination: &dir,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Extraction JSON output path",
				Value:       "extraction.json",
				Destination: &outPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			extraction, err := instagram.ExtractFolder(dir)
			if err != nil {
				return err
			}
			if err := extraction.Save(outPath); err != nil {
				return err
			}

			review := 0
			for _, post := range extraction.Posts {
				if post.NeedsReview {
					review++
				}
			}
			logging.From(ctx).Info("content extracted",
				"posts", len(extraction.Posts),
				"needs_review", review,
				"output", outPath,
			)
			return nil
		},
	}
}

func cmdInstagramManualReview() *cli.Command {
	var extractionPath string
	var reviewPath string

	return &cli.Command{
		Name:  "manual-review",
		Usage: "Emit a review file for entries the extractor could not resolve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "extraction",
				Usage:       "Extraction JSON path",
				Value:       "extraction.json",
				Destination: &extractionPath,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Review JSON output path",
				Value:       "review.json",
				Destination: &reviewPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			extraction, err := instagram.LoadExtraction(extractionPath)
			if err != nil {
				return err
			}

			review := instagram.BuildReview(extraction)
			if len(review.Entries) == 0 {
				fmt.Println("nothing needs review")
				return nil
			}
			if err := review.Save(reviewPath); err != nil {
				return err
			}

			fmt.Printf("%d entries written to %s; edit and run import-manual\n",
				len(review.Entries), reviewPath)
			return nil
		},
	}
}

func cmdInstagramImportManual() *cli.Command {
	var extractionPath string
	var reviewPath string

	return &cli.Command{
		Name:  "import-manual",
		Usage: "Merge a reviewed file back into the extraction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "extraction",
				Usage:       "Extraction JSON path",
				Value:       "extraction.json",
				Destination: &extractionPath,
			},
			&cli.StringFlag{
				Name:        "review",
				Usage:       "Edited review JSON path",
				Value:       "review.json",
				Destination: &reviewPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			extraction, err := instagram.LoadExtraction(extractionPath)
			if err != nil {
				return err
			}
			review, err := instagram.LoadReview(reviewPath)
			if err != nil {
				return err
			}

			updated, err := instagram.ImportManual(extraction, review)
			if err != nil {
				return err
			}
			if err := extraction.Save(extractionPath); err != nil {
				return err
			}

			logging.From(ctx).Info("manual review imported",
				"updated", updated,
				"entries", len(review.Entries),
			)
			return nil
		},
	}
}

func cmdInstagramDownload() *cli.Command {
	var extractionPath string
	var destDir string
	var concurrency int

	return &cli.Command{
		Name:  "download",
		Usage: "Download media for resolved posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "extraction",
				Usage:       "Extraction JSON path",
				Value:       "extraction.json",
				Destination: &extractionPath,
			},
			&cli.StringFlag{
				Name:        "dest",
				Usage:       "Media destination directory",
				Value:       "media",
				Destination: &destDir,
			},
			&cli.IntFlag{
				Name:        "concurrency",
				Aliases:     []string{"c"},
				Usage:       "Number of parallel downloads",
				Value:       4,
				Destination: &concurrency,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			extraction, err := instagram.LoadExtraction(extractionPath)
			if err != nil {
				return err
			}

			downloader := instagram.NewDownloader(instagram.WithConcurrency(concurrency))
			result, err := downloader.Download(ctx, extraction, destDir)
			if err != nil {
				return err
			}

			fmt.Printf("downloaded %d, skipped %d, failed %d\n",
				result.Downloaded, result.Skipped, result.Failed)
			if result.Failed > 0 {
				return goerr.New("some downloads failed", goerr.V("failed", result.Failed))
			}
			return nil
		},
	}
}

func cmdInstagramFullProcess() *cli.Command {
	var dir string
	var outDir string
	var concurrency int

	return &cli.Command{
		Name:  "full-process",
		Usage: "Validate, extract and download in one run",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "Note folder path",
				Required:    true,
				Destination: &dir,
			},
			&cli.StringFlag{
				Name:        "out",
				Usage:       "Output directory for the intermediate files and media",
				Value:       "out",
				Destination: &outDir,
			},
			&cli.IntFlag{
				Name:        "concurrency",
				Aliases:     []string{"c"},
				Usage:       "Number of parallel downloads",
				Value:       4,
				Destination: &concurrency,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			downloader := instagram.NewDownloader(instagram.WithConcurrency(concurrency))
			result, err := instagram.FullProcess(ctx, dir, outDir, downloader)
			if err != nil {
				return err
			}

			fmt.Printf("posts %d, downloaded %d, skipped %d, failed %d\n",
				len(result.Extraction.Posts),
				result.Download.Downloaded,
				result.Download.Skipped,
				result.Download.Failed,
			)
			if result.ReviewPath != "" {
				fmt.Printf("review needed: %s\n", result.ReviewPath)
			}
			return nil
		},
	}
}
