// Package assoc decodes GAF, GPAD and HPOA association files.
//
// A Decoder turns one tab separated line into zero or more associations.
// Decoders are pure: they never return errors for bad data, they write
// diagnostics to the supplied Recorder and return no records instead.
// The Parser drives a decoder over a stream and owns the session Report.
package assoc

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/curie"
	"github.com/teranos/assocparse/ixgest/extension"
	"github.com/teranos/assocparse/ixgest/report"
	"github.com/teranos/assocparse/ixgest/types"
)

// Recorder receives per-line diagnostics. *report.Report satisfies it.
type Recorder = curie.Recorder

// Decoder is one association file dialect
type Decoder interface {
	// Format names the dialect
	Format() types.Format

	// VersionConstraint is the semver range of header versions this
	// decoder understands, "" when the dialect declares none
	VersionConstraint() string

	// DecodeLine returns the line text after id remapping and the
	// associations it yields. No records means the line was dropped.
	DecodeLine(line string, cfg *Config, rec Recorder) (string, []types.Association)

	// SkimLine projects a line to (subject id, label, object id) with the
	// same id handling as DecodeLine. ok is false when the line is dropped.
	SkimLine(line string, cfg *Config, rec Recorder) (types.SkimTuple, bool)
}

// NewDecoder returns the decoder for a format name (gaf, gpad, hpoa)
func NewDecoder(format string) (Decoder, error) {
	switch types.Format(strings.ToLower(strings.TrimSpace(format))) {
	case types.FormatGAF:
		return GafDecoder{}, nil
	case types.FormatGPAD:
		return GpadDecoder{}, nil
	case types.FormatHPOA:
		return HpoaDecoder{}, nil
	}
	return nil, errors.WithHint(
		errors.Mark(errors.Newf("unknown association format %q", format), errors.ErrUnknownFormat),
		"supported formats: gaf, gpad, hpoa",
	)
}

// idColumns locates the id columns a decoder remaps
type idColumns struct {
	db    int
	local int
	term  int
}

// columns is a split line. n is the column count of the input, which may
// be less than len(vals) after padding.
type columns struct {
	vals    []string
	n       int
	changed bool
}

func splitColumns(line string, width int) *columns {
	vals := strings.Split(line, "\t")
	n := len(vals)
	for len(vals) < width {
		vals = append(vals, "")
	}
	return &columns{vals: vals, n: n}
}

func (c *columns) get(i int) string {
	if i < len(c.vals) {
		return c.vals[i]
	}
	return ""
}

func (c *columns) set(i int, v string) {
	if c.vals[i] != v {
		c.vals[i] = v
		c.changed = true
	}
}

// text regenerates the line from the input columns. Unchanged lines come
// back byte for byte.
func (c *columns) text(original string) string {
	if !c.changed {
		return original
	}
	return strings.Join(c.vals[:c.n], "\t")
}

// checkWidth warns when the column count is not one of allowed. Decoding
// continues with missing columns read as empty.
func checkWidth(c *columns, format types.Format, line string, rec Recorder, allowed ...int) {
	if slices.Contains(allowed, c.n) {
		return
	}
	want := make([]string, len(allowed))
	for i, a := range allowed {
		want[i] = fmt.Sprint(a)
	}
	rec.Warning(line, report.WrongNumberOfColumns, "",
		fmt.Sprintf("found %d columns, %s expects %s", c.n, strings.ToUpper(string(format)), strings.Join(want, " or ")))
}

// resolveIDs builds, validates and remaps the subject and object ids.
// Remapped values are written back into c so the regenerated line
// reflects them.
func resolveIDs(c *columns, ic idColumns, cfg *Config, line string, rec Recorder) (entity, term string, ok bool) {
	v := cfg.Validator()

	entity = curie.PairToID(c.get(ic.db), c.get(ic.local), cfg.RemoveDoublePrefixes())
	if !v.Validate(entity, curie.RoleEntity, line, rec) {
		return "", "", false
	}
	term = c.get(ic.term)
	if !v.Validate(term, curie.RoleTerm, line, rec) {
		return "", "", false
	}

	if cfg.HasClassMap() {
		if mapped := cfg.MapClass(term); mapped != term {
			if !v.Validate(mapped, curie.RoleTerm, line, rec) {
				return "", "", false
			}
			term = mapped
			c.set(ic.term, mapped)
		}
	}
	if cfg.HasEntityMap() {
		if mapped := cfg.MapEntity(entity); mapped != entity {
			if !v.Validate(mapped, curie.RoleEntity, line, rec) {
				return "", "", false
			}
			entity = mapped
			db, local := curie.SplitPrefix(mapped)
			c.set(ic.db, db)
			c.set(ic.local, local)
		}
	}
	return entity, term, true
}

// parseQualifiers splits a pipe separated qualifier column. The negation
// token sets negated and is left out of the returned qualifiers.
func parseQualifiers(column string) (negated bool, qualifiers []string) {
	qualifiers = []string{}
	if column == "" {
		return false, qualifiers
	}
	for _, q := range strings.Split(column, "|") {
		if q == types.NegationQualifier {
			negated = true
			continue
		}
		if q != "" {
			qualifiers = append(qualifiers, q)
		}
	}
	return negated, qualifiers
}

// relationFor picks the first qualifier, or the aspect default
func relationFor(qualifiers []string, aspect string, defaults map[string]string) string {
	if len(qualifiers) > 0 {
		return qualifiers[0]
	}
	return defaults[aspect]
}

// resolveTaxa normalizes a taxon column of one or two pipe joined tokens:
// the subject organism, then the interacting organism. Problems are
// WARNINGs and never drop the line; a malformed token is left out of the
// record.
func resolveTaxa(column string, cfg *Config, line string, rec Recorder) (primary, interacting *types.Taxon) {
	first, second := curie.SplitTaxa(column)
	if wellFormedTaxon(first, line, rec) {
		cfg.Validator().ValidateTaxon(first, line, rec)
		primary = &types.Taxon{ID: first}
	}
	if wellFormedTaxon(second, line, rec) {
		interacting = &types.Taxon{ID: second}
	}
	return primary, interacting
}

// wellFormedTaxon rejects tokens with whitespace, and a pipe left over
// from a third token
func wellFormedTaxon(id, line string, rec Recorder) bool {
	if id == "" {
		return false
	}
	if strings.ContainsFunc(id, unicode.IsSpace) || strings.Contains(id, "|") {
		rec.Warning(line, report.InvalidTaxon, id, "malformed taxon")
		return false
	}
	return true
}

func splitSynonyms(column string) []string {
	if column == "" {
		return []string{}
	}
	return strings.Split(column, "|")
}

func buildEvidence(code, refs, withFrom string, cfg *Config, line string, rec Recorder) types.Evidence {
	v := cfg.Validator()
	return types.Evidence{
		Type:                   code,
		HasSupportingReference: v.SplitPipeList(refs, line, rec),
		WithSupportFrom:        v.SplitPipeList(withFrom, line, rec),
	}
}

// parseExtensions reports atom failures and returns the disjuncts. A line
// without extensions yields one nil disjunct so it still emits one record.
func parseExtensions(column, line string, rec Recorder) []types.Disjunct {
	disjuncts, errs := extension.ParseExpression(column)
	for _, e := range errs {
		rec.Warning(line, report.InvalidExtension, e.Input, e.FormatError(extension.ErrorContextPlain))
	}
	if len(disjuncts) == 0 {
		return []types.Disjunct{nil}
	}
	return disjuncts
}

// fanOut emits one association per disjunct. Slices are copied so no two
// records share backing arrays.
func fanOut(base types.Association, disjuncts []types.Disjunct) []types.Association {
	out := make([]types.Association, 0, len(disjuncts))
	for _, d := range disjuncts {
		a := base
		a.Qualifiers = slices.Clone(base.Qualifiers)
		a.Subject.Synonyms = slices.Clone(base.Subject.Synonyms)
		a.SubjectExtensions = slices.Clone(base.SubjectExtensions)
		a.Evidence.HasSupportingReference = slices.Clone(base.Evidence.HasSupportingReference)
		a.Evidence.WithSupportFrom = slices.Clone(base.Evidence.WithSupportFrom)
		a.Subject.Taxon = cloneTaxon(base.Subject.Taxon)
		a.Object.Taxon = cloneTaxon(base.Object.Taxon)
		a.InteractingTaxon = cloneTaxon(base.InteractingTaxon)
		a.Properties = maps.Clone(base.Properties)
		if len(d) > 0 {
			a.ObjectExtensions = slices.Clone(d)
		}
		out = append(out, a)
	}
	return out
}

func cloneTaxon(t *types.Taxon) *types.Taxon {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
