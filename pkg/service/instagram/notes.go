package instagram

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// note files are plain text exports; anything else in the folder is skipped
var noteExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// FolderReport summarizes a validate-folder run
type FolderReport struct {
	Dir       string   `json:"dir"`
	NoteFiles []string `json:"note_files"`
	Skipped   []string `json:"skipped,omitempty"`
	Empty     []string `json:"empty,omitempty"`
}

// Valid reports whether the folder contains at least one usable note file
func (r *FolderReport) Valid() bool {
	return len(r.NoteFiles) > 0
}

// ValidateFolder inspects a note folder without extracting anything
func ValidateFolder(dir string) (*FolderReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read note folder", goerr.V("dir", dir))
	}

	report := &FolderReport{Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !noteExtensions[strings.ToLower(filepath.Ext(name))] {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat note file", goerr.V("file", name))
		}
		if info.Size() == 0 {
			report.Empty = append(report.Empty, name)
			continue
		}
		report.NoteFiles = append(report.NoteFiles, name)
	}

	sort.Strings(report.NoteFiles)
	sort.Strings(report.Skipped)
	sort.Strings(report.Empty)
	return report, nil
}

// ExtractFolder parses every note file in the folder into posts
func ExtractFolder(dir string) (*Extraction, error) {
	report, err := ValidateFolder(dir)
	if err != nil {
		return nil, err
	}
	if !report.Valid() {
		return nil, goerr.New("folder contains no note files", goerr.V("dir", dir))
	}

	extraction := &Extraction{
		GeneratedAt: time.Now().UTC(),
		SourceDir:   dir,
	}
	for _, name := range report.NoteFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read note file", goerr.V("file", name))
		}
		extraction.Posts = append(extraction.Posts, ParseNote(name, string(data))...)
	}

	return extraction, nil
}

// ParseNote extracts posts from a single note's text. Notes are split into
// blank-line separated blocks; each block with a post URL becomes one post,
// with the rest of the block as its caption.
func ParseNote(sourceFile, text string) []Post {
	var posts []Post
	for _, block := range splitBlocks(text) {
		urls := postURLPattern.FindAllString(block, -1)
		if len(urls) == 0 {
			continue
		}

		caption := captionOf(block)
		tags := ExtractTags(block)

		for _, url := range urls {
			post := Post{
				URL:        url,
				Shortcode:  ExtractShortcode(url),
				Caption:    caption,
				Tags:       tags,
				SourceFile: sourceFile,
			}
			if post.Shortcode == "" {
				post.NeedsReview = true
				post.ReviewNote = "could not determine shortcode from URL"
			} else if post.Caption == "" {
				post.NeedsReview = true
				post.ReviewNote = "no caption text found in note"
			}
			posts = append(posts, post)
		}
	}
	return posts
}

func splitBlocks(text string) []string {
	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// captionOf strips URL lines from a block and returns the remaining text
func captionOf(block string) string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		stripped := strings.TrimSpace(postURLPattern.ReplaceAllString(line, ""))
		if stripped == "" {
			continue
		}
		lines = append(lines, stripped)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Save writes the extraction as a JSON intermediate file
func (e *Extraction) Save(path string) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode extraction")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write extraction file", goerr.V("path", path))
	}
	return nil
}

// LoadExtraction reads a JSON intermediate file
func LoadExtraction(path string) (*Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read extraction file", goerr.V("path", path))
	}
	var extraction Extraction
	if err := json.Unmarshal(data, &extraction); err != nil {
		return nil, goerr.Wrap(err, "failed to decode extraction file", goerr.V("path", path))
	}
	return &extraction, nil
}
