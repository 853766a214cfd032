package am

import (
	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/assoc"
)

// BuildParserConfig builds the immutable parser configuration, loading any
// remap tables named in [parser]
func (c *Config) BuildParserConfig() (*assoc.Config, error) {
	opts := []assoc.ConfigOption{
		assoc.WithRemoveDoublePrefixes(c.Parser.RemoveDoublePrefixes),
	}

	if c.Parser.EntityMapFile != "" {
		m, err := assoc.LoadIDMap(c.Parser.EntityMapFile)
		if err != nil {
			return nil, errors.Wrap(err, "parser.entity_map_file")
		}
		opts = append(opts, assoc.WithEntityMap(m))
	}
	if c.Parser.ClassMapFile != "" {
		m, err := assoc.LoadIDMap(c.Parser.ClassMapFile)
		if err != nil {
			return nil, errors.Wrap(err, "parser.class_map_file")
		}
		opts = append(opts, assoc.WithClassMap(m))
	}

	// an empty list means "no restriction", which the parser expresses as nil
	if len(c.Parser.ValidTaxa) > 0 {
		opts = append(opts, assoc.WithValidTaxa(c.Parser.ValidTaxa))
	}
	if len(c.Parser.ClassIdspaces) > 0 {
		opts = append(opts, assoc.WithClassIdspaces(c.Parser.ClassIdspaces))
	}

	return assoc.NewConfig(opts...), nil
}

// Decoder returns the decoder for parser.format
func (c *Config) Decoder() (assoc.Decoder, error) {
	format := c.Parser.Format
	if format == "" {
		format = DefaultFormat
	}
	return assoc.NewDecoder(format)
}
