// Package capability describes which catalog categories are searchable, under
// which named scopes, and over which fields.
package capability

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/catalogd/internal/domain"
)

// DefaultScope is used when a caller names no scope or an unknown one.
const DefaultScope = "basic"

// Scope is a named set of searchable fields.
type Scope struct {
	Label  string   `yaml:"label" json:"label"`
	Fields []string `yaml:"fields" json:"fields"`
}

// Category is a searchable content type with its scopes.
type Category struct {
	Label  string         `yaml:"label" json:"label"`
	Scopes Ordered[Scope] `yaml:"scopes" json:"scopes"`
}

// ResolveScope looks up a scope by name, falling back to DefaultScope.
// Returns the name of the scope actually used.
func (c Category) ResolveScope(name string) (Scope, string, bool) {
	if name == "" {
		name = DefaultScope
	}
	if s, ok := c.Scopes.Get(name); ok {
		return s, name, true
	}
	if s, ok := c.Scopes.Get(DefaultScope); ok {
		return s, DefaultScope, true
	}
	return Scope{}, "", false
}

// Config is the full capability document.
type Config struct {
	Version    int               `yaml:"version" json:"version"`
	Categories Ordered[Category] `yaml:"categories" json:"categories"`
}

// Category returns a configured category.
func (c Config) Category(name string) (Category, bool) {
	return c.Categories.Get(name)
}

// Validate checks that every category has at least one scope and every scope
// at least one non-blank field.
func (c Config) Validate() error {
	if c.Categories.Len() == 0 {
		return fmt.Errorf("%w: no categories configured", domain.ErrInvalidCapabilities)
	}
	for _, name := range c.Categories.Keys() {
		cat, _ := c.Categories.Get(name)
		if cat.Scopes.Len() == 0 {
			return fmt.Errorf("%w: category %q has no scopes", domain.ErrInvalidCapabilities, name)
		}
		for _, scopeName := range cat.Scopes.Keys() {
			scope, _ := cat.Scopes.Get(scopeName)
			if len(scope.Fields) == 0 {
				return fmt.Errorf("%w: scope %s.%s has no fields",
					domain.ErrInvalidCapabilities, name, scopeName)
			}
			for _, f := range scope.Fields {
				if strings.TrimSpace(f) == "" {
					return fmt.Errorf("%w: scope %s.%s has a blank field name",
						domain.ErrInvalidCapabilities, name, scopeName)
				}
			}
		}
	}
	return nil
}
