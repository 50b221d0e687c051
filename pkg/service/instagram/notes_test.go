package instagram_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clearpath-fin/clearpath/pkg/service/instagram"
	"github.com/m-mizutani/gt"
)

func TestExtractShortcode(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "post URL",
			url:      "https://www.instagram.com/p/Cxy123_ab/",
			expected: "Cxy123_ab",
		},
		{
			name:     "reel URL",
			url:      "https://instagram.com/reel/AbC-9xYz/",
			expected: "AbC-9xYz",
		},
		{
			name:     "reels URL",
			url:      "https://www.instagram.com/reels/Qwe456/",
			expected: "Qwe456",
		},
		{
			name:     "tv URL",
			url:      "http://www.instagram.com/tv/Zxc789/",
			expected: "Zxc789",
		},
		{
			name:     "profile URL is not a post",
			url:      "https://www.instagram.com/someuser/",
			expected: "",
		},
		{
			name:     "unrelated URL",
			url:      "https://example.com/p/abc",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, instagram.ExtractShortcode(tt.url)).Equal(tt.expected)
		})
	}
}

func TestExtractTags(t *testing.T) {
	t.Run("lowercases, dedupes and sorts", func(t *testing.T) {
		tags := instagram.ExtractTags("Save more! #Budgeting #savings #budgeting #Tips")
		gt.A(t, tags).Equal([]string{"budgeting", "savings", "tips"})
	})

	t.Run("no hashtags yields nil", func(t *testing.T) {
		gt.Value(t, instagram.ExtractTags("plain text")).Nil()
	})
}

func TestParseNote(t *testing.T) {
	t.Run("block with URL and caption", func(t *testing.T) {
		text := "Great explainer on emergency funds #savings\nhttps://www.instagram.com/p/Abc123/\n"

		posts := instagram.ParseNote("money.txt", text)
		gt.A(t, posts).Length(1).Required()

		gt.Value(t, posts[0].Shortcode).Equal("Abc123")
		gt.Value(t, posts[0].Caption).Equal("Great explainer on emergency funds #savings")
		gt.A(t, posts[0].Tags).Equal([]string{"savings"})
		gt.Value(t, posts[0].SourceFile).Equal("money.txt")
		gt.B(t, posts[0].NeedsReview).False()
	})

	t.Run("multiple URLs in one block share the caption", func(t *testing.T) {
		text := "Two parts of the same series\n" +
			"https://www.instagram.com/p/Part1/\n" +
			"https://www.instagram.com/p/Part2/\n"

		posts := instagram.ParseNote("series.md", text)
		gt.A(t, posts).Length(2).Required()

		gt.Value(t, posts[0].Shortcode).Equal("Part1")
		gt.Value(t, posts[1].Shortcode).Equal("Part2")
		gt.Value(t, posts[0].Caption).Equal(posts[1].Caption)
	})

	t.Run("blank lines separate blocks", func(t *testing.T) {
		text := "First caption\nhttps://www.instagram.com/p/AAA/\n" +
			"\n" +
			"Second caption\nhttps://www.instagram.com/p/BBB/\n"

		posts := instagram.ParseNote("multi.txt", text)
		gt.A(t, posts).Length(2).Required()

		gt.Value(t, posts[0].Caption).Equal("First caption")
		gt.Value(t, posts[1].Caption).Equal("Second caption")
	})

	t.Run("URL without caption is flagged for review", func(t *testing.T) {
		posts := instagram.ParseNote("bare.txt", "https://www.instagram.com/p/NoCap1/\n")
		gt.A(t, posts).Length(1).Required()

		gt.B(t, posts[0].NeedsReview).True()
		gt.Value(t, posts[0].ReviewNote).NotEqual("")
	})

	t.Run("blocks without URLs are ignored", func(t *testing.T) {
		posts := instagram.ParseNote("prose.txt", "just some thoughts\n\nmore thoughts\n")
		gt.A(t, posts).Length(0)
	})
}

func TestValidateFolder(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) {
		t.Helper()
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)
		gt.NoError(t, err).Required()
	}

	writeFile("notes.txt", "https://www.instagram.com/p/AAA/\ncaption\n")
	writeFile("more.md", "caption\nhttps://www.instagram.com/p/BBB/\n")
	writeFile("empty.txt", "")
	writeFile("photo.jpg", "binary")
	gt.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755)).Required()

	report, err := instagram.ValidateFolder(dir)
	gt.NoError(t, err).Required()

	gt.B(t, report.Valid()).True()
	gt.A(t, report.NoteFiles).Equal([]string{"more.md", "notes.txt"})
	gt.A(t, report.Skipped).Equal([]string{"photo.jpg"})
	gt.A(t, report.Empty).Equal([]string{"empty.txt"})
}

func TestExtractFolder(t *testing.T) {
	t.Run("extracts posts from every note file", func(t *testing.T) {
		dir := t.TempDir()
		err := os.WriteFile(filepath.Join(dir, "a.txt"),
			[]byte("caption a\nhttps://www.instagram.com/p/AAA/\n"), 0o600)
		gt.NoError(t, err).Required()
		err = os.WriteFile(filepath.Join(dir, "b.md"),
			[]byte("caption b\nhttps://www.instagram.com/p/BBB/\n"), 0o600)
		gt.NoError(t, err).Required()

		extraction, err := instagram.ExtractFolder(dir)
		gt.NoError(t, err).Required()

		gt.Value(t, extraction.SourceDir).Equal(dir)
		gt.A(t, extraction.Posts).Length(2)
		gt.B(t, extraction.GeneratedAt.IsZero()).False()
	})

	t.Run("folder without notes is rejected", func(t *testing.T) {
		dir := t.TempDir()
		err := os.WriteFile(filepath.Join(dir, "image.png"), []byte("x"), 0o600)
		gt.NoError(t, err).Required()

		_, err = instagram.ExtractFolder(dir)
		gt.Value(t, err).NotNil()
	})

	t.Run("missing folder is rejected", func(t *testing.T) {
		_, err := instagram.ExtractFolder(filepath.Join(t.TempDir(), "missing"))
		gt.Value(t, err).NotNil()
	})
}

func TestExtractionSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extraction.json")

	original := &instagram.Extraction{
		SourceDir: "/notes",
		Posts: []instagram.Post{
			{URL: "https://www.instagram.com/p/AAA/", Shortcode: "AAA", Caption: "c"},
		},
	}
	gt.NoError(t, original.Save(path)).Required()

	loaded, err := instagram.LoadExtraction(path)
	gt.NoError(t, err).Required()

	gt.Value(t, loaded.SourceDir).Equal("/notes")
	gt.A(t, loaded.Posts).Length(1)
	gt.Value(t, loaded.Posts[0].Shortcode).Equal("AAA")
}
