package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(dir, zerolog.Nop()), dir
}

func writeScenario(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write scenario file: %v", err)
	}
}

func TestRenderScenario(t *testing.T) {
	store, dir := newTestStore(t)
	writeScenario(t, dir, "wyrdstone-hunt.md", "# Wyrdstone Hunt\n\nCollect the *shards* before dusk.\n")

	sc, err := store.Render("wyrdstone-hunt")
	if err != nil {
		t.Fatalf("failed to render scenario: %v", err)
	}
	if sc.Title != "Wyrdstone Hunt" {
		t.Fatalf("expected title from the first heading, got %q", sc.Title)
	}
	if !strings.Contains(sc.HTML, "<em>shards</em>") {
		t.Fatalf("expected markdown emphasis rendered to HTML, got %q", sc.HTML)
	}
}

func TestRenderFallsBackToSlugTitle(t *testing.T) {
	store, dir := newTestStore(t)
	writeScenario(t, dir, "street-fight.md", "No heading here.\n")

	sc, err := store.Render("street-fight")
	if err != nil {
		t.Fatalf("failed to render scenario: %v", err)
	}
	if sc.Title != "street-fight" {
		t.Fatalf("expected slug fallback title, got %q", sc.Title)
	}
}

func TestRenderRejectsBadSlugs(t *testing.T) {
	store, dir := newTestStore(t)
	writeScenario(t, dir, "wyrdstone-hunt.md", "# Wyrdstone Hunt\n")

	for _, slug := range []string{"../secrets", "Wyrdstone-Hunt", "a b", "", "hunt.md"} {
		if _, err := store.Render(slug); !errors.Is(err, ErrBadSlug) {
			t.Fatalf("expected ErrBadSlug for %q, got %v", slug, err)
		}
	}
}

func TestRenderMissingScenario(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Render("no-such-scenario")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSkipsNonScenarioFiles(t *testing.T) {
	store, dir := newTestStore(t)
	writeScenario(t, dir, "wyrdstone-hunt.md", "# Wyrdstone Hunt\n")
	writeScenario(t, dir, "street-fight.md", "# Street Fight\n")
	writeScenario(t, dir, "NOTES.txt", "not a scenario")
	writeScenario(t, dir, "Bad_Name.md", "wrong slug shape")

	slugs, err := store.List()
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(slugs) != 2 {
		t.Fatalf("expected 2 slugs, got %v", slugs)
	}
}

func TestListMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())

	slugs, err := store.List()
	if err != nil {
		t.Fatalf("expected missing directory to yield empty list, got %v", err)
	}
	if len(slugs) != 0 {
		t.Fatalf("expected no slugs, got %v", slugs)
	}
}
