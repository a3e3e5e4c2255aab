// Package prompt assembles LLM prompt text from templates and parts.
package prompt

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

// Template is a named text/template used for prompt text.
type Template struct {
	Name     string
	Content  string
	template *template.Template
}

// NewTemplate parses content. Missing keys render as errors.
func NewTemplate(name, content string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("prompt: parse template %s: %w", name, err)
	}
	return &Template{
		Name:     name,
		Content:  content,
		template: tmpl,
	}, nil
}

// Render executes the template with data.
func (t *Template) Render(data any) (string, error) {
	var buf strings.Builder
	if err := t.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("prompt: render %s: %w", t.Name, err)
	}
	return buf.String(), nil
}

// Manager is a concurrency-safe registry of templates.
type Manager struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		templates: make(map[string]*Template),
	}
}

// Register adds a template. Names must be unique.
func (m *Manager) Register(tmpl *Template) error {
	if tmpl == nil || tmpl.Name == "" {
		return fmt.Errorf("prompt: template name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.templates[tmpl.Name]; exists {
		return fmt.Errorf("prompt: template %s already registered", tmpl.Name)
	}
	m.templates[tmpl.Name] = tmpl
	return nil
}

// RegisterString parses and registers content under name.
func (m *Manager) RegisterString(name, content string) error {
	tmpl, err := NewTemplate(name, content)
	if err != nil {
		return err
	}
	return m.Register(tmpl)
}

// MustRegister is RegisterString that panics, for package-level prompt tables.
func (m *Manager) MustRegister(name, content string) *Manager {
	if err := m.RegisterString(name, content); err != nil {
		panic(err)
	}
	return m
}

// Get retrieves a template by name.
func (m *Manager) Get(name string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tmpl, ok := m.templates[name]
	if !ok {
		return nil, fmt.Errorf("prompt: template %s not found", name)
	}
	return tmpl, nil
}

// Render renders the named template with data.
func (m *Manager) Render(name string, data any) (string, error) {
	tmpl, err := m.Get(name)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}

// List returns the registered names in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builder concatenates prompt parts.
type Builder struct {
	parts []string
}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{
		parts: make([]string, 0),
	}
}

// Add adds a part to the prompt
func (b *Builder) Add(part string) *Builder {
	b.parts = append(b.parts, part)
	return b
}

// AddFormat adds a formatted part to the prompt
func (b *Builder) AddFormat(format string, args ...any) *Builder {
	b.parts = append(b.parts, fmt.Sprintf(format, args...))
	return b
}

// AddLine adds a part with a newline
func (b *Builder) AddLine(part string) *Builder {
	b.parts = append(b.parts, part+"\n")
	return b
}

// AddSection adds a markdown section with title and content
func (b *Builder) AddSection(title, content string) *Builder {
	b.parts = append(b.parts, fmt.Sprintf("## %s\n%s\n", title, content))
	return b
}

// AddBold adds a "**label**: value" line.
func (b *Builder) AddBold(label, value string) *Builder {
	b.parts = append(b.parts, fmt.Sprintf("**%s**: %s\n", label, value))
	return b
}

// AddTagged wraps content in <tag> and </tag> lines.
func (b *Builder) AddTagged(tag, content string) *Builder {
	b.parts = append(b.parts, fmt.Sprintf("<%s>\n%s\n</%s>\n", tag, content, tag))
	return b
}

// Len reports the number of parts added so far.
func (b *Builder) Len() int { return len(b.parts) }

// Build returns the final prompt string
func (b *Builder) Build() string {
	return strings.Join(b.parts, "")
}

// Reset clears all parts
func (b *Builder) Reset() *Builder {
	b.parts = make([]string, 0)
	return b
}
