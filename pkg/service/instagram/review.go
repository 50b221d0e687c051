package instagram

import (
	"encoding/json"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// ReviewEntry is one uncertain post presented for manual correction. The
// reviewer edits Shortcode and Caption in place and sets Resolved.
type ReviewEntry struct {
	Index      int    `json:"index"` // position in the extraction's post list
	URL        string `json:"url"`
	Shortcode  string `json:"shortcode"`
	Caption    string `json:"caption"`
	SourceFile string `json:"source_file"`
	Note       string `json:"note"`
	Resolved   bool   `json:"resolved"`
}

// ReviewFile is the JSON document exchanged with the reviewer
type ReviewFile struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Entries     []ReviewEntry `json:"entries"`
}

// BuildReview collects the posts flagged for manual review
func BuildReview(extraction *Extraction) *ReviewFile {
	review := &ReviewFile{GeneratedAt: time.Now().UTC()}
	for i, post := range extraction.Posts {
		if !post.NeedsReview {
			continue
		}
		review.Entries = append(review.Entries, ReviewEntry{
			Index:      i,
			URL:        post.URL,
			Shortcode:  post.Shortcode,
			Caption:    post.Caption,
			SourceFile: post.SourceFile,
			Note:       post.ReviewNote,
		})
	}
	return review
}

// Save writes the review file for the reviewer to edit
func (r *ReviewFile) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode review file")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write review file", goerr.V("path", path))
	}
	return nil
}

// LoadReview reads an edited review file
func LoadReview(path string) (*ReviewFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read review file", goerr.V("path", path))
	}
	var review ReviewFile
	if err := json.Unmarshal(data, &review); err != nil {
		return nil, goerr.Wrap(err, "failed to decode review file", goerr.V("path", path))
	}
	return &review, nil
}

// ImportManual merges resolved review entries back into the extraction.
// Unresolved entries keep their review flag. Returns the number of posts
// updated.
func ImportManual(extraction *Extraction, review *ReviewFile) (int, error) {
	updated := 0
	for _, entry := range review.Entries {
		if entry.Index < 0 || entry.Index >= len(extraction.Posts) {
			return updated, goerr.New("review entry index out of range",
				goerr.V("index", entry.Index), goerr.V("posts", len(extraction.Posts)))
		}
		if !entry.Resolved {
			continue
		}

		post := &extraction.Posts[entry.Index]
		if post.URL != entry.URL {
			return updated, goerr.New("review entry does not match extraction post",
				goerr.V("index", entry.Index), goerr.V("entry_url", entry.URL), goerr.V("post_url", post.URL))
		}

		post.Shortcode = entry.Shortcode
		post.Caption = entry.Caption
		post.NeedsReview = false
		post.ReviewNote = ""
		updated++
	}
	return updated, nil
}
