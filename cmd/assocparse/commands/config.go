package commands

import (
	"github.com/teranos/assocparse/am"
	"github.com/teranos/assocparse/errors"
)

// loadConfig returns a copy of the loaded configuration with non-empty
// flag values applied on top, validated again
func loadConfig(format, reportFormat string) (*am.Config, error) {
	loaded, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	cfg := *loaded
	if format != "" {
		cfg.Parser.Format = format
	}
	if reportFormat != "" {
		cfg.Report.Format = reportFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
