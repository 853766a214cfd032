package assoc

import (
	"strings"

	"github.com/teranos/assocparse/ixgest/types"
)

// GPAD 1.x column layout
const (
	gpadDB = iota
	gpadDBObjectID
	gpadRelation
	gpadTerm
	gpadReference
	gpadEvidence
	gpadWithFrom
	gpadTaxon
	gpadDate
	gpadAssignedBy
	gpadExtension
	gpadProperties

	gpadWidth = gpadProperties + 1
)

var gpadIDs = idColumns{db: gpadDB, local: gpadDBObjectID, term: gpadTerm}

// GpadDecoder decodes GO Gene Product Association Data 1.x lines.
//
// The relation column carries the relation itself, optionally together
// with NOT (e.g. NOT|enables). There is no aspect column, so nothing is
// defaulted. The taxon column follows the GAF rule: subject organism, then
// an optional interacting organism.
type GpadDecoder struct{}

func (GpadDecoder) Format() types.Format { return types.FormatGPAD }

func (GpadDecoder) VersionConstraint() string { return ">= 1.1, < 2.0" }

func (GpadDecoder) DecodeLine(line string, cfg *Config, rec Recorder) (string, []types.Association) {
	c := splitColumns(line, gpadWidth)
	checkWidth(c, types.FormatGPAD, line, rec, gpadWidth)

	entity, term, ok := resolveIDs(c, gpadIDs, cfg, line, rec)
	if !ok {
		return line, nil
	}
	text := c.text(line)

	negated, qualifiers := parseQualifiers(c.get(gpadRelation))

	taxon, interacting := resolveTaxa(c.get(gpadTaxon), cfg, text, rec)

	base := types.Association{
		Format:           types.FormatGPAD,
		SourceLine:       text,
		Subject:          types.Subject{ID: entity, Taxon: taxon},
		Object:           types.Object{ID: term, Taxon: cloneTaxon(taxon)},
		Negated:          negated,
		Qualifiers:       qualifiers,
		Relation:         types.Relation{ID: relationFor(qualifiers, "", nil)},
		Evidence:         buildEvidence(c.get(gpadEvidence), c.get(gpadReference), c.get(gpadWithFrom), cfg, text, rec),
		ProvidedBy:       c.get(gpadAssignedBy),
		Date:             c.get(gpadDate),
		InteractingTaxon: interacting,
		Properties:       parseProperties(c.get(gpadProperties)),
	}

	return text, fanOut(base, parseExtensions(c.get(gpadExtension), text, rec))
}

// SkimLine skips negated lines. GPAD has no label column.
func (GpadDecoder) SkimLine(line string, cfg *Config, rec Recorder) (types.SkimTuple, bool) {
	c := splitColumns(line, gpadWidth)
	if negated, _ := parseQualifiers(c.get(gpadRelation)); negated {
		return types.SkimTuple{}, false
	}
	entity, term, ok := resolveIDs(c, gpadIDs, cfg, line, rec)
	if !ok {
		return types.SkimTuple{}, false
	}
	return types.SkimTuple{SubjectID: entity, ObjectID: term}, true
}

// parseProperties reads key=value|key=value. Repeated keys keep every
// value, pipe joined in column order.
func parseProperties(column string) map[string]string {
	if column == "" {
		return nil
	}
	props := make(map[string]string)
	for _, pair := range strings.Split(column, "|") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if prev, ok := props[key]; ok {
			value = prev + "|" + value
		}
		props[key] = value
	}
	return props
}
