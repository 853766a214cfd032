package assoc

import (
	"maps"
	"slices"

	"github.com/teranos/assocparse/ixgest/curie"
)

// Config is the immutable parse configuration. Build it once with
// NewConfig and share it freely, including across goroutines.
type Config struct {
	removeDoublePrefixes bool
	entityMap            map[string]string
	classMap             map[string]string
	validTaxa            []string
	classIdspaces        []string

	validator *curie.Validator
}

// ConfigOption sets one Config field during construction
type ConfigOption func(*Config)

// WithRemoveDoublePrefixes turns MGI + MGI:101 into MGI:101
func WithRemoveDoublePrefixes(enabled bool) ConfigOption {
	return func(c *Config) {
		c.removeDoublePrefixes = enabled
	}
}

// WithEntityMap remaps subject ids, e.g. UniProtKB to a model organism id.
// The map is copied.
func WithEntityMap(m map[string]string) ConfigOption {
	return func(c *Config) {
		c.entityMap = maps.Clone(m)
	}
}

// WithClassMap remaps object ids, e.g. for map2slim. The map is copied.
func WithClassMap(m map[string]string) ConfigOption {
	return func(c *Config) {
		c.classMap = maps.Clone(m)
	}
}

// WithValidTaxa sets the taxa a primary taxon is expected to be in.
// Taxa are normalized to NCBITaxon form.
func WithValidTaxa(taxa []string) ConfigOption {
	return func(c *Config) {
		if taxa == nil {
			c.validTaxa = nil
			return
		}
		c.validTaxa = make([]string, 0, len(taxa))
		for _, t := range taxa {
			c.validTaxa = append(c.validTaxa, curie.NormalizeTaxon(t))
		}
	}
}

// WithClassIdspaces restricts object ids to the given prefixes
func WithClassIdspaces(idspaces []string) ConfigOption {
	return func(c *Config) {
		c.classIdspaces = slices.Clone(idspaces)
	}
}

// NewConfig builds a Config. With no options nothing is remapped or
// restricted and double prefixes are kept. Decoders treat a nil *Config
// like NewConfig().
func NewConfig(opts ...ConfigOption) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	c.validator = curie.NewValidator(c.classIdspaces, c.validTaxa)
	return c
}

// RemoveDoublePrefixes reports whether MGI:MGI:n is collapsed to MGI:n
func (c *Config) RemoveDoublePrefixes() bool { return c != nil && c.removeDoublePrefixes }

// ValidTaxa returns a copy of the taxon allowlist, nil when unset
func (c *Config) ValidTaxa() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.validTaxa)
}

// ClassIdspaces returns a copy of the object idspace allowlist, nil when unset
func (c *Config) ClassIdspaces() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.classIdspaces)
}

// HasEntityMap reports whether subject ids are remapped
func (c *Config) HasEntityMap() bool { return c != nil && c.entityMap != nil }

// HasClassMap reports whether object ids are remapped
func (c *Config) HasClassMap() bool { return c != nil && c.classMap != nil }

// Validator returns the identifier validator for this configuration.
// A nil Config has a nil validator, which checks shape only.
func (c *Config) Validator() *curie.Validator {
	if c == nil {
		return nil
	}
	return c.validator
}

// MapEntity returns the remapped subject id. Unknown ids map to themselves.
func (c *Config) MapEntity(id string) string {
	if c == nil {
		return id
	}
	return mapID(c.entityMap, id)
}

// MapClass returns the remapped object id. Unknown ids map to themselves.
func (c *Config) MapClass(id string) string {
	if c == nil {
		return id
	}
	return mapID(c.classMap, id)
}

func mapID(m map[string]string, id string) string {
	if mapped, ok := m[id]; ok {
		return mapped
	}
	return id
}
