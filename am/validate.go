package am

import (
	"slices"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/assoc"
)

// Validate checks that the configuration is valid. Failures are marked
// errors.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Parser.Format != "" {
		if _, err := assoc.NewDecoder(c.Parser.Format); err != nil {
			return errors.NewInvalidConfigError("parser.format must be gaf, gpad or hpoa, got %q", c.Parser.Format)
		}
	}

	// 0 means the built-in sample size
	if c.Report.SampleSize < 0 {
		return errors.NewInvalidConfigError("report.sample_size must be >= 0, got %d", c.Report.SampleSize)
	}
	if c.Report.Format != "" && !slices.Contains(ReportFormats(), c.Report.Format) {
		return errors.NewInvalidConfigError("report.format must be md, json or yaml, got %q", c.Report.Format)
	}

	if c.Database.Persist && c.Database.Path == "" {
		return errors.NewInvalidConfigError("database.path cannot be empty when database.persist is set")
	}

	if c.Source.FetchTimeoutSeconds < 0 {
		return errors.NewInvalidConfigError("source.fetch_timeout_seconds must be >= 0, got %d", c.Source.FetchTimeoutSeconds)
	}

	return nil
}

// ReportFormats lists the accepted report.format values
func ReportFormats() []string {
	return []string{ReportFormatMarkdown, ReportFormatJSON, ReportFormatYAML}
}
