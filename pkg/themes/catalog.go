package themes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

var (
	// ErrThemeNotFound is returned when no manifest is registered under a name.
	ErrThemeNotFound = errors.New("themes: theme not found")
	// ErrVariantNotFound is returned when a manifest has no such variant.
	ErrVariantNotFound = errors.New("themes: variant not found")
)

type manifestRegistry interface {
	Register(*theme.Manifest) error
}

// Catalog keeps the registered manifests and resolves selections. Every
// manifest is also registered with a go-theme registry, which rejects
// malformed manifests.
type Catalog struct {
	mu             sync.RWMutex
	registry       manifestRegistry
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithDefaults sets the theme and variant used when a selection names none.
func WithDefaults(name, variant string) CatalogOption {
	return func(c *Catalog) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			c.defaultTheme = trimmed
		}
		c.defaultVariant = strings.TrimSpace(variant)
	}
}

// NewCatalog returns an empty catalog defaulting to DefaultName.
func NewCatalog(options ...CatalogOption) *Catalog {
	c := &Catalog{
		registry:     theme.NewRegistry(),
		manifests:    make(map[string]*theme.Manifest),
		defaultTheme: DefaultName,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// NewDefaultCatalog returns a catalog with DefaultManifest registered.
func NewDefaultCatalog(assetPrefix string, options ...CatalogOption) (*Catalog, error) {
	c := NewCatalog(options...)
	if err := c.Register(DefaultManifest(assetPrefix)); err != nil {
		return nil, err
	}
	return c, nil
}

// Register adds a manifest. Names are unique.
func (c *Catalog) Register(m *theme.Manifest) error {
	if m == nil {
		return errors.New("themes: manifest is nil")
	}
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return errors.New("themes: manifest name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.manifests[name]; exists {
		return fmt.Errorf("themes: theme %q already registered", name)
	}
	if err := c.registry.Register(m); err != nil {
		return fmt.Errorf("themes: register %q: %w", name, err)
	}
	c.manifests[name] = m
	return nil
}

// Names lists the registered themes in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves a theme and variant. Empty arguments fall back to the
// catalog defaults.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" && name == c.defaultTheme {
		variant = c.defaultVariant
	}

	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q in theme %q", ErrVariantNotFound, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
