package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mordheim-tracker/internal/config"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ErrBadSlug marks slugs that fail the lowercase-kebab check.
var ErrBadSlug = errors.New("invalid scenario slug")

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Store reads markdown scenario files from a directory by slug and renders
// them to HTML.
type Store struct {
	dir    string
	md     goldmark.Markdown
	logger zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) *Store {
	return NewStore(cfg.ScenarioDir, logger)
}

func NewStore(dir string, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger: logger,
	}
}

// Scenario is one rendered scenario page.
type Scenario struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Render loads <slug>.md and renders it. Slugs are restricted to
// lowercase-kebab form, so path traversal never reaches the filesystem.
func (s *Store) Render(slug string) (*Scenario, error) {
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("scenario slug %q: %w", slug, ErrBadSlug)
	}

	path := filepath.Join(s.dir, slug+".md")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario %s: %w", slug, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", slug, err)
	}

	var buf bytes.Buffer
	if err := s.md.Convert(raw, &buf); err != nil {
		return nil, fmt.Errorf("failed to render scenario %s: %w", slug, err)
	}

	return &Scenario{
		Slug:  slug,
		Title: titleFrom(raw, slug),
		HTML:  buf.String(),
	}, nil
}

// List returns the slugs of every scenario file in the directory.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	slugs := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		if slugPattern.MatchString(slug) {
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}

// titleFrom pulls the first level-one heading, falling back to the slug.
func titleFrom(raw []byte, slug string) string {
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return slug
}
