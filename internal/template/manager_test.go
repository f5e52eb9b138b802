package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelplan/internal/domain"
)

func TestRenderSubstitutesBindings(t *testing.T) {
	m := NewManager()
	out, err := m.Render("hook", domain.PlatformTikTok, map[string]string{
		"topic":    "meal prep",
		"platform": "tiktok",
		"tone":     "casual",
		"audience": "students",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out, `"meal prep"`) {
		t.Fatalf("rendered prompt missing topic: %q", out)
	}
	if strings.Contains(out, "{") {
		t.Fatalf("rendered prompt has unreplaced placeholder: %q", out)
	}
}

func TestRenderMissingBinding(t *testing.T) {
	m := NewManager()
	_, err := m.Render("hook", domain.PlatformTikTok, map[string]string{"topic": "meal prep"})
	if !errors.Is(err, domain.ErrMissingBinding) {
		t.Fatalf("Render error = %v, want ErrMissingBinding", err)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	m := NewManager()
	_, err := m.Render("thumbnail", domain.PlatformTikTok, nil)
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("Render error = %v, want ErrTemplateNotFound", err)
	}
}

func TestRenderVersionPinsOldVersion(t *testing.T) {
	m := NewManager()
	if err := m.Register(Template{Name: "hook", Version: 2, Text: "v2 hook about \"{topic}\" opening hook"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	latest, err := m.LatestVersion("hook", domain.PlatformTikTok)
	if err != nil {
		t.Fatalf("LatestVersion returned error: %v", err)
	}
	if latest != 2 {
		t.Fatalf("LatestVersion = %d, want 2", latest)
	}

	out, err := m.RenderVersion("hook", domain.PlatformTikTok, 2, map[string]string{"topic": "meal prep"})
	if err != nil {
		t.Fatalf("RenderVersion returned error: %v", err)
	}
	if !strings.HasPrefix(out, "v2 hook") {
		t.Fatalf("RenderVersion did not use pinned version: %q", out)
	}

	if _, err := m.RenderVersion("hook", domain.PlatformTikTok, 9, nil); !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("RenderVersion error = %v, want ErrTemplateNotFound", err)
	}
}

func TestPlatformVariantPreferred(t *testing.T) {
	m := NewManager()
	if err := m.Register(Template{Name: "hook_tiktok", Version: 1, Text: "tiktok-only hook for \"{topic}\""}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	out, err := m.Render("hook", domain.PlatformTikTok, map[string]string{"topic": "meal prep"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.HasPrefix(out, "tiktok-only") {
		t.Fatalf("platform variant not preferred: %q", out)
	}

	// Other platforms still resolve the plain name.
	out, err = m.Render("hook", domain.PlatformInstagram, map[string]string{
		"topic": "meal prep", "platform": "instagram", "tone": "casual", "audience": "students",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.HasPrefix(out, "tiktok-only") {
		t.Fatalf("plain name not used for other platform: %q", out)
	}
}

func TestLoadDirRegistersOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `templates:
  - name: hook
    version: 3
    text: 'from-file hook about "{topic}"'
`
	if err := os.WriteFile(filepath.Join(dir, "overrides.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write template file: %v", err)
	}

	m := NewManager()
	if err := m.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir returned error: %v", err)
	}

	out, err := m.Render("hook", domain.PlatformTikTok, map[string]string{"topic": "meal prep"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.HasPrefix(out, "from-file") {
		t.Fatalf("file override not used: %q", out)
	}

	// Built-ins the directory does not cover stay available.
	if _, err := m.LatestVersion("script", domain.PlatformTikTok); err != nil {
		t.Fatalf("builtin lost after LoadDir: %v", err)
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	m := NewManager()
	if err := m.Register(Template{Name: "", Version: 1, Text: "x"}); err == nil {
		t.Fatal("Register accepted empty name")
	}
	if err := m.Register(Template{Name: "hook", Version: 0, Text: "x"}); err == nil {
		t.Fatal("Register accepted non-positive version")
	}
}
