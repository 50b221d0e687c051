package instagram

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Post is a single piece of content extracted from a note file
type Post struct {
	URL        string   `json:"url"`
	Shortcode  string   `json:"shortcode"`
	Caption    string   `json:"caption"`
	Tags       []string `json:"tags,omitempty"`
	SourceFile string   `json:"source_file"`

	// NeedsReview marks entries the extractor could not fully resolve.
	// They are routed through the manual review flow.
	NeedsReview bool   `json:"needs_review,omitempty"`
	ReviewNote  string `json:"review_note,omitempty"`
}

// Extraction is the JSON intermediate produced by extract-content and
// consumed by the review, import and download steps.
type Extraction struct {
	GeneratedAt time.Time `json:"generated_at"`
	SourceDir   string    `json:"source_dir"`
	Posts       []Post    `json:"posts"`
}

var (
	postURLPattern = regexp.MustCompile(`https?://(?:www\.)?instagram\.com/(?:p|reel|reels|tv)/([A-Za-z0-9_-]+)`)
	hashtagPattern = regexp.MustCompile(`#([\p{L}0-9_]+)`)
)

// ExtractShortcode returns the shortcode of an instagram post URL, or an
// empty string when the URL is not a post link.
func ExtractShortcode(url string) string {
	m := postURLPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractTags collects hashtags from text, lowercased and deduplicated
func ExtractTags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	var tags []string
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
