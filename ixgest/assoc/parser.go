package assoc

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/report"
	"github.com/teranos/assocparse/ixgest/types"
	"github.com/teranos/assocparse/logger"
	"github.com/teranos/assocparse/metrics"
)

// Parser drives a Decoder over line streams.
//
// The Report accumulates over every Parse call until ResetReport. A Parser
// runs one parse at a time; the Config may be shared between parsers.
type Parser struct {
	decoder Decoder
	config  *Config
	report  *report.Report
	logger  *zap.SugaredLogger
	metrics *metrics.ParserMetrics
}

// NewParser creates a parser. A nil cfg means NewConfig(), a nil logger
// logs nothing.
func NewParser(decoder Decoder, cfg *Config, log *zap.SugaredLogger) *Parser {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Parser{
		decoder: decoder,
		config:  cfg,
		report:  report.New(),
		logger:  logger.OrNop(log),
	}
}

// SetMetrics enables Prometheus counters for subsequent runs
func (p *Parser) SetMetrics(m *metrics.ParserMetrics) {
	p.metrics = m
}

// Decoder returns the decoder this parser drives
func (p *Parser) Decoder() Decoder { return p.decoder }

// Config returns the parse configuration
func (p *Parser) Config() *Config { return p.config }

// Report returns the session report
func (p *Parser) Report() *report.Report { return p.report }

// ResetReport starts a fresh session
func (p *Parser) ResetReport() { p.report.Reset() }

// Parse decodes every line of src and closes it.
//
// Header lines go to mirror verbatim. Each data line that yields records
// is written to mirror once, as rewritten by the decoder. Bad data never
// fails the run; only read or mirror write failures return an error, with
// the associations decoded so far.
func (p *Parser) Parse(src io.ReadCloser, mirror io.Writer) ([]types.Association, error) {
	defer src.Close()

	format := string(p.decoder.Format())
	start := time.Now()
	firstMsg := len(p.report.Messages())

	var (
		assocs  []types.Association
		lines   int
		skipped int
		runErr  error
	)

	r := bufio.NewReader(src)
	for {
		raw, readErr := r.ReadString('\n')
		if raw != "" {
			lines++
			n, err := p.handleLine(raw, lines, mirror, &assocs)
			if err != nil {
				runErr = err
				break
			}
			skipped += n
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			runErr = errors.Wrapf(readErr, "read line %d", lines+1)
			break
		}
	}

	p.report.AddLines(lines)
	p.report.AddAssociations(len(assocs))

	elapsed := time.Since(start)
	p.metrics.ObserveRun(format, lines, len(assocs), skipped, elapsed)
	p.metrics.ObserveMessages(format, p.report.Messages()[firstMsg:])

	p.logger.Infow("Parsed associations",
		logger.FieldFormat, format,
		logger.FieldAssociations, len(assocs),
		logger.FieldLines, lines,
		logger.FieldSkipped, skipped,
		logger.FieldDurationMS, elapsed.Milliseconds(),
	)
	return assocs, runErr
}

// handleLine processes one raw line and returns 1 if it was skipped
func (p *Parser) handleLine(raw string, lineNo int, mirror io.Writer, assocs *[]types.Association) (int, error) {
	if IsHeader(raw) {
		if mirror != nil {
			if _, err := io.WriteString(mirror, raw); err != nil {
				return 0, errors.Wrap(err, "write header to mirror")
			}
		}
		checkVersionHeader(trimEOL(raw), p.decoder, p.report)
		return 0, nil
	}

	line := trimEOL(raw)
	if line == "" {
		return 0, nil
	}

	text, recs := p.decoder.DecodeLine(line, p.config, p.report)
	if len(recs) == 0 {
		p.report.AddSkipped(line)
		p.logger.Warnw("SKIPPING", logger.FieldLineNo, lineNo, logger.FieldLine, line)
		return 1, nil
	}

	for _, a := range recs {
		p.report.ObserveAssociation(a)
	}
	*assocs = append(*assocs, recs...)

	if mirror != nil {
		if _, err := io.WriteString(mirror, text+"\n"); err != nil {
			return 0, errors.Wrap(err, "write line to mirror")
		}
	}
	return 0, nil
}

// ParseFile opens a local file and parses it
func (p *Parser) ParseFile(path string, mirror io.Writer) ([]types.Association, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapSourceUnavailable(err, path)
	}
	return p.Parse(f, mirror)
}

// Skim lazily projects src to (subject id, label, object id) tuples,
// skipping headers, blank lines, negated lines and lines whose ids fail
// validation. Evidence and extensions are never parsed. Validation
// messages go to the session report; line counters are not touched.
//
// src is closed when iteration ends, including when the caller breaks
// out early. A sequence that is never ranged over leaves src open.
func (p *Parser) Skim(src io.ReadCloser) iter.Seq[types.SkimTuple] {
	return func(yield func(types.SkimTuple) bool) {
		defer src.Close()

		r := bufio.NewReader(src)
		lineNo := 0
		for {
			raw, err := r.ReadString('\n')
			if raw != "" {
				lineNo++
				line := trimEOL(raw)
				if line != "" && !IsHeader(line) {
					if t, ok := p.decoder.SkimLine(line, p.config, p.report); ok {
						if !yield(t) {
							return
						}
					}
				}
			}
			if err != nil {
				if err != io.EOF {
					p.logger.Errorw("Skim stopped on read error",
						logger.FieldLineNo, lineNo+1,
						logger.FieldError, err,
					)
				}
				return
			}
		}
	}
}

// trimEOL drops one trailing \n and then one trailing \r
func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
