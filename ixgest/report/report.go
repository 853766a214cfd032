// Package report collects diagnostics and statistics for association parses.
//
// A Report is session scoped: it accumulates across every parse run on the
// parser that owns it until Reset is called. It has a single writer; read
// it between runs, not during one.
package report

import (
	"fmt"
	"strings"

	"github.com/teranos/assocparse/ixgest/types"
)

// Severity of a diagnostic message. No severity stops a parse.
type Severity string

const (
	SeverityFatal   Severity = "FATAL"
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Levels is the fixed order in which message groups are reported
var Levels = []Severity{SeverityFatal, SeverityError, SeverityWarning}

// Category classifies a diagnostic message
type Category string

const (
	InvalidID            Category = "Invalid identifier"
	InvalidIdspace       Category = "Invalid identifier prefix"
	InvalidTaxon         Category = "Invalid taxon"
	WrongNumberOfColumns Category = "Wrong number of columns"
	InvalidExtension     Category = "Invalid extension expression"
	UnsupportedVersion   Category = "Unsupported format version"
)

// DefaultSampleSize caps each sample list in a Summary
const DefaultSampleSize = 10

// Message is one diagnostic entry
type Message struct {
	Level   Severity `json:"level" yaml:"level"`
	Line    string   `json:"line" yaml:"line"`
	Type    Category `json:"type" yaml:"type"`
	Subject string   `json:"obj" yaml:"obj"`
	Message string   `json:"message" yaml:"message"`
	// Seq is the position in the report's log, across all severities
	Seq int `json:"-" yaml:"-"`
}

// Report is the diagnostic aggregator for one parser instance
type Report struct {
	messages       []Message
	severityCounts map[Severity]int
	lineCount      int
	assocCount     int
	skipped        []string
	subjects       *orderedSet
	objects        *orderedSet
	taxa           *orderedSet
	references     *orderedSet
	formatVersion  string
	sampleSize     int
}

// New creates an empty report
func New() *Report {
	r := &Report{sampleSize: DefaultSampleSize}
	r.Reset()
	return r
}

// Reset discards every message, counter and set.
// The sample size setting is kept.
func (r *Report) Reset() {
	r.messages = nil
	r.severityCounts = make(map[Severity]int, len(Levels))
	r.lineCount = 0
	r.assocCount = 0
	r.skipped = nil
	r.subjects = newOrderedSet()
	r.objects = newOrderedSet()
	r.taxa = newOrderedSet()
	r.references = newOrderedSet()
	r.formatVersion = ""
}

// SetSampleSize changes how many entries each Summary sample list keeps.
// Values <= 0 restore DefaultSampleSize.
func (r *Report) SetSampleSize(n int) {
	if n <= 0 {
		n = DefaultSampleSize
	}
	r.sampleSize = n
}

// Record appends a message to the log
func (r *Report) Record(level Severity, line string, category Category, subject, message string) {
	r.messages = append(r.messages, Message{
		Level:   level,
		Line:    line,
		Type:    category,
		Subject: subject,
		Message: message,
		Seq:     len(r.messages),
	})
	r.severityCounts[level]++
}

// Fatal records a FATAL message
func (r *Report) Fatal(line string, category Category, subject, message string) {
	r.Record(SeverityFatal, line, category, subject, message)
}

// Error records an ERROR message
func (r *Report) Error(line string, category Category, subject, message string) {
	r.Record(SeverityError, line, category, subject, message)
}

// Warning records a WARNING message
func (r *Report) Warning(line string, category Category, subject, message string) {
	r.Record(SeverityWarning, line, category, subject, message)
}

// ObserveAssociation adds the association's subject, object, references and
// subject taxon to the deduplicated sets
func (r *Report) ObserveAssociation(a types.Association) {
	r.subjects.add(a.Subject.ID)
	r.objects.add(a.Object.ID)
	for _, ref := range a.Evidence.HasSupportingReference {
		r.references.add(ref)
	}
	if a.Subject.Taxon != nil {
		r.taxa.add(a.Subject.Taxon.ID)
	}
}

// AddSkipped records a raw line that produced no associations
func (r *Report) AddSkipped(line string) {
	r.skipped = append(r.skipped, line)
}

// AddLines increments the line counter
func (r *Report) AddLines(n int) {
	r.lineCount += n
}

// AddAssociations increments the accepted association counter
func (r *Report) AddAssociations(n int) {
	r.assocCount += n
}

// SetFormatVersion records the version declared in the file header
func (r *Report) SetFormatVersion(v string) {
	r.formatVersion = v
}

// FormatVersion returns the declared header version, or ""
func (r *Report) FormatVersion() string {
	return r.formatVersion
}

// Messages returns a copy of the message log in insertion order
func (r *Report) Messages() []Message {
	return append([]Message(nil), r.messages...)
}

// Count returns how many messages of the given severity were recorded
func (r *Report) Count(level Severity) int {
	return r.severityCounts[level]
}

// LineCount returns the total number of lines read, headers included
func (r *Report) LineCount() int {
	return r.lineCount
}

// AssociationCount returns the total number of associations emitted
func (r *Report) AssociationCount() int {
	return r.assocCount
}

// SkippedLines returns a copy of the raw lines that produced no associations
func (r *Report) SkippedLines() []string {
	return append([]string(nil), r.skipped...)
}

// Summary is the structured form of a report
type Summary struct {
	Counts        Counts     `json:"summary" yaml:"summary"`
	Statistics    Statistics `json:"aggregate_statistics" yaml:"aggregate_statistics"`
	Groups        []Group    `json:"groups" yaml:"groups"`
	FormatVersion string     `json:"format_version,omitempty" yaml:"format_version,omitempty"`
}

// Counts are the top-level run counters
type Counts struct {
	AssociationCount int `json:"association_count" yaml:"association_count"`
	LineCount        int `json:"line_count" yaml:"line_count"`
	SkippedLineCount int `json:"skipped_line_count" yaml:"skipped_line_count"`
}

// Statistics summarises the deduplicated sets
type Statistics struct {
	SubjectCount    int      `json:"subject_count" yaml:"subject_count"`
	ObjectCount     int      `json:"object_count" yaml:"object_count"`
	TaxonCount      int      `json:"taxon_count" yaml:"taxon_count"`
	ReferenceCount  int      `json:"reference_count" yaml:"reference_count"`
	TaxonSample     []string `json:"taxon_sample" yaml:"taxon_sample"`
	SubjectSample   []string `json:"subject_sample" yaml:"subject_sample"`
	ObjectSample    []string `json:"object_sample" yaml:"object_sample"`
	ReferenceSample []string `json:"reference_sample" yaml:"reference_sample"`
}

// Group holds the messages of one severity
type Group struct {
	Level    Severity  `json:"level" yaml:"level"`
	Count    int       `json:"count" yaml:"count"`
	Messages []Message `json:"messages" yaml:"messages"`
}

// Summary builds the structured report. Groups always contain every
// severity in Levels order, empty or not.
func (r *Report) Summary() Summary {
	n := r.sampleSize
	s := Summary{
		Counts: Counts{
			AssociationCount: r.assocCount,
			LineCount:        r.lineCount,
			SkippedLineCount: len(r.skipped),
		},
		Statistics: Statistics{
			SubjectCount:    r.subjects.len(),
			ObjectCount:     r.objects.len(),
			TaxonCount:      r.taxa.len(),
			ReferenceCount:  r.references.len(),
			TaxonSample:     r.taxa.sample(n),
			SubjectSample:   r.subjects.sample(n),
			ObjectSample:    r.objects.sample(n),
			ReferenceSample: r.references.sample(n),
		},
		FormatVersion: r.formatVersion,
	}

	grouped := make(map[Severity][]Message, len(Levels))
	for _, m := range r.messages {
		grouped[m.Level] = append(grouped[m.Level], m)
	}
	for _, level := range Levels {
		msgs := grouped[level]
		if msgs == nil {
			msgs = []Message{}
		}
		s.Groups = append(s.Groups, Group{Level: level, Count: len(msgs), Messages: msgs})
	}
	return s
}

// Render produces a markdown digest of Summary
func (r *Report) Render() string {
	return RenderMarkdown(r.Summary())
}

// RenderMarkdown renders a summary as markdown
func RenderMarkdown(s Summary) string {
	var b strings.Builder

	b.WriteString("\n## SUMMARY\n\n")
	fmt.Fprintf(&b, " * Associations: %d\n", s.Counts.AssociationCount)
	fmt.Fprintf(&b, " * Lines in file (incl headers): %d\n", s.Counts.LineCount)
	fmt.Fprintf(&b, " * Lines skipped: %d\n", s.Counts.SkippedLineCount)
	if s.FormatVersion != "" {
		fmt.Fprintf(&b, " * Declared format version: %s\n", s.FormatVersion)
	}

	st := s.Statistics
	b.WriteString("\n## STATISTICS\n\n")
	fmt.Fprintf(&b, " * subject_count: %d\n", st.SubjectCount)
	fmt.Fprintf(&b, " * object_count: %d\n", st.ObjectCount)
	fmt.Fprintf(&b, " * taxon_count: %d\n", st.TaxonCount)
	fmt.Fprintf(&b, " * reference_count: %d\n", st.ReferenceCount)
	fmt.Fprintf(&b, " * taxon_sample: %s\n", strings.Join(st.TaxonSample, ", "))
	fmt.Fprintf(&b, " * subject_sample: %s\n", strings.Join(st.SubjectSample, ", "))
	fmt.Fprintf(&b, " * object_sample: %s\n", strings.Join(st.ObjectSample, ", "))
	fmt.Fprintf(&b, " * reference_sample: %s\n", strings.Join(st.ReferenceSample, ", "))

	b.WriteString("\n## MESSAGES\n\n")
	for _, g := range s.Groups {
		fmt.Fprintf(&b, " * %s: %d\n", g.Level, g.Count)
	}
	b.WriteString("\n\n")
	for _, g := range s.Groups {
		if len(g.Messages) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", g.Level)
		for _, m := range g.Messages {
			fmt.Fprintf(&b, " * %s %s `%s`\n", m.Type, m.Message, m.Line)
		}
	}
	return b.String()
}

// orderedSet keeps insertion order so samples are deterministic
type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) len() int {
	return len(s.order)
}

func (s *orderedSet) sample(n int) []string {
	if n > len(s.order) {
		n = len(s.order)
	}
	return append([]string{}, s.order[:n]...)
}
