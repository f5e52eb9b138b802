package template

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"reelplan/internal/domain"
)

// Template is one versioned prompt template. Placeholders use {name} syntax
// and every placeholder must be bound at render time.
type Template struct {
	Name    string `yaml:"name"`
	Version int    `yaml:"version"`
	Text    string `yaml:"text"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Manager resolves template names to prompt text. Registered templates are
// versioned; Render always uses the latest version while RenderVersion pins
// one for reproducible sessions. Lookup tries "<name>_<platform>" before the
// plain name, mirroring the platform-specific template convention.
type Manager struct {
	mu        sync.RWMutex
	templates map[string][]Template // sorted by version ascending
}

// NewManager returns a manager preloaded with the built-in step templates.
func NewManager() *Manager {
	m := &Manager{templates: make(map[string][]Template)}
	for _, t := range builtinTemplates {
		m.register(t)
	}
	return m
}

func (m *Manager) register(t Template) {
	versions := m.templates[t.Name]
	for i, existing := range versions {
		if existing.Version == t.Version {
			versions[i] = t
			m.templates[t.Name] = versions
			return
		}
	}
	versions = append(versions, t)
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version < versions[j].Version })
	m.templates[t.Name] = versions
}

// Register adds or replaces a template version.
func (m *Manager) Register(t Template) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name is required")
	}
	if t.Version <= 0 {
		return fmt.Errorf("template %s: version must be positive", t.Name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.register(t)
	return nil
}

// LoadDir reads every *.yaml / *.yml file in dir and registers its templates.
// Files are optional overrides; the built-in defaults stay available for any
// name the directory does not cover.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read template dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read template file %s: %w", entry.Name(), err)
		}
		var file templateFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return fmt.Errorf("parse template file %s: %w", entry.Name(), err)
		}
		for _, t := range file.Templates {
			if err := m.Register(t); err != nil {
				return fmt.Errorf("template file %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

// LatestVersion reports the newest registered version for a name, trying the
// platform-specific variant first.
func (m *Manager) LatestVersion(name string, platform domain.Platform) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.resolve(name, platform, 0)
	if err != nil {
		return 0, err
	}
	return t.Version, nil
}

// Render resolves name (preferring the platform-specific variant) at its
// latest version and substitutes bindings.
func (m *Manager) Render(name string, platform domain.Platform, bindings map[string]string) (string, error) {
	return m.RenderVersion(name, platform, 0, bindings)
}

// RenderVersion renders a pinned template version; version 0 means latest.
func (m *Manager) RenderVersion(name string, platform domain.Platform, version int, bindings map[string]string) (string, error) {
	m.mu.RLock()
	t, err := m.resolve(name, platform, version)
	m.mu.RUnlock()
	if err != nil {
		return "", err
	}
	return substitute(t, bindings)
}

func (m *Manager) resolve(name string, platform domain.Platform, version int) (Template, error) {
	candidates := []string{name}
	if platform != "" {
		candidates = []string{name + "_" + string(platform), name}
	}
	for _, candidate := range candidates {
		versions, ok := m.templates[candidate]
		if !ok || len(versions) == 0 {
			continue
		}
		if version == 0 {
			return versions[len(versions)-1], nil
		}
		for _, t := range versions {
			if t.Version == version {
				return t, nil
			}
		}
	}
	if version != 0 {
		return Template{}, fmt.Errorf("%w: %s v%d", domain.ErrTemplateNotFound, name, version)
	}
	return Template{}, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
}

func substitute(t Template, bindings map[string]string) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(t.Text, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := bindings[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return value
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %s requires {%s}", domain.ErrMissingBinding, t.Name, missing)
	}
	return strings.TrimSpace(out), nil
}
