// Package curie validates and normalizes the compact identifiers
// (prefix:local) found in association files.
//
// Validation never returns errors for bad data. Findings are written to a
// Recorder and the caller decides whether the line survives.
package curie

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/teranos/assocparse/ixgest/report"
)

const (
	// TaxonPrefix is the canonical idspace for organisms
	TaxonPrefix = "NCBITaxon"

	informalTaxonPrefix = "taxon"
)

// Role says what an identifier is used for. Only RoleTerm is subject to
// the idspace allowlist.
type Role int

const (
	RoleEntity Role = iota
	RoleTerm
	RoleTaxon
)

func (r Role) String() string {
	switch r {
	case RoleEntity:
		return "entity"
	case RoleTerm:
		return "term"
	case RoleTaxon:
		return "taxon"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Recorder receives validation findings. *report.Report satisfies it.
type Recorder interface {
	Error(line string, category report.Category, subject, message string)
	Warning(line string, category report.Category, subject, message string)
}

// SplitPrefix splits id at its first colon. An id without a colon is all
// idspace.
func SplitPrefix(id string) (idspace, local string) {
	idspace, local, _ = strings.Cut(id, ":")
	return idspace, local
}

// PairToID joins a database column and a local id column. With
// removeDoublePrefix set, MGI + MGI:101 gives MGI:101 instead of MGI:MGI:101.
func PairToID(db, local string, removeDoublePrefix bool) string {
	if removeDoublePrefix {
		local = strings.TrimPrefix(local, db+":")
	}
	return db + ":" + local
}

// NormalizeTaxon rewrites a taxon token to NCBITaxon form.
// taxon:9606 and 9606 both become NCBITaxon:9606.
func NormalizeTaxon(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	idspace, local := SplitPrefix(token)
	switch {
	case idspace == informalTaxonPrefix && strings.Contains(token, ":"):
		return TaxonPrefix + ":" + local
	case isDigits(token):
		return TaxonPrefix + ":" + token
	}
	return token
}

// SplitTaxa normalizes a taxon column holding one or two pipe joined
// tokens. The second token, if any, is the interacting organism.
func SplitTaxa(column string) (primary, interacting string) {
	first, second, _ := strings.Cut(column, "|")
	return NormalizeTaxon(first), NormalizeTaxon(second)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Validator applies identifier rules. The zero value accepts any idspace
// and any taxon.
type Validator struct {
	idspaces map[string]struct{}
	taxa     map[string]struct{}
}

// NewValidator builds a validator. A nil idspaces or taxa slice disables
// that check; an empty non-nil slice allows nothing.
func NewValidator(idspaces, taxa []string) *Validator {
	return &Validator{
		idspaces: toSet(idspaces),
		taxa:     toSet(taxa),
	}
}

func toSet(values []string) map[string]struct{} {
	if values == nil {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Validate checks id for the given role and reports what it finds.
// Whitespace (or an empty id) fails. A pipe is reported but passes.
// For RoleTerm an idspace outside the allowlist fails.
func (v *Validator) Validate(id string, role Role, line string, rec Recorder) bool {
	if strings.TrimSpace(id) == "" || strings.ContainsFunc(id, unicode.IsSpace) {
		rec.Error(line, report.InvalidID, id, "")
		return false
	}
	if strings.Contains(id, "|") {
		// reported without the line text, the line is kept
		rec.Warning("", report.InvalidID, id, "")
	}
	if role == RoleTerm && v != nil && v.idspaces != nil {
		idspace, _ := SplitPrefix(id)
		if _, ok := v.idspaces[idspace]; !ok {
			rec.Error(line, report.InvalidIdspace, id, "allowed: "+v.allowedIdspaces())
			return false
		}
	}
	return true
}

// ValidateTaxon warns when taxon is not in the configured set. It never
// fails the line.
func (v *Validator) ValidateTaxon(taxon, line string, rec Recorder) bool {
	if v == nil || v.taxa == nil {
		return true
	}
	if _, ok := v.taxa[taxon]; ok {
		return true
	}
	rec.Warning(line, report.InvalidTaxon, taxon, "not in valid taxa")
	return false
}

func (v *Validator) allowedIdspaces() string {
	names := make([]string, 0, len(v.idspaces))
	for k := range v.idspaces {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// SplitPipeList splits a pipe separated column into ids and drops the ones
// that fail validation. An empty column gives an empty list and empty
// segments are ignored.
func (v *Validator) SplitPipeList(value, line string, rec Recorder) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, "|")
	ids := make([]string, 0, len(parts))
	for _, id := range parts {
		if id == "" {
			continue
		}
		if v.Validate(id, RoleEntity, line, rec) {
			ids = append(ids, id)
		}
	}
	return ids
}
