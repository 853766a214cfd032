package assoc

import (
	"github.com/teranos/assocparse/ixgest/types"
)

// HPOA (phenotype_annotation.tab) column layout
const (
	hpoaDB = iota
	hpoaDBObjectID
	hpoaSymbol
	hpoaQualifier
	hpoaTerm
	hpoaReference
	hpoaEvidence
	hpoaOnset
	hpoaFrequency
	hpoaWithFrom
	hpoaAspect
	hpoaSynonym
	hpoaDate
	hpoaAssignedBy

	hpoaWidth = hpoaAssignedBy + 1
)

// hpoaSubjectType is the type of every HPOA subject
const hpoaSubjectType = "disease"

var hpoaIDs = idColumns{db: hpoaDB, local: hpoaDBObjectID, term: hpoaTerm}

var hpoaRelations = map[string]string{
	"O": "has_phenotype",
	"I": "has_inheritance",
	"M": "mortality",
	"C": "has_onset",
}

// HpoaDecoder decodes Human Phenotype Ontology annotation lines. Subjects
// are always human diseases and there is no extension column, so a line
// yields at most one association.
type HpoaDecoder struct{}

func (HpoaDecoder) Format() types.Format { return types.FormatHPOA }

func (HpoaDecoder) VersionConstraint() string { return "" }

func (HpoaDecoder) DecodeLine(line string, cfg *Config, rec Recorder) (string, []types.Association) {
	c := splitColumns(line, hpoaWidth)
	checkWidth(c, types.FormatHPOA, line, rec, hpoaWidth)

	entity, term, ok := resolveIDs(c, hpoaIDs, cfg, line, rec)
	if !ok {
		return line, nil
	}
	text := c.text(line)

	negated, qualifiers := parseQualifiers(c.get(hpoaQualifier))
	aspect := c.get(hpoaAspect)

	a := types.Association{
		Format:     types.FormatHPOA,
		SourceLine: text,
		Subject: types.Subject{
			ID:       entity,
			Label:    c.get(hpoaSymbol),
			Type:     hpoaSubjectType,
			Synonyms: splitSynonyms(c.get(hpoaSynonym)),
			Taxon:    &types.Taxon{ID: types.HumanTaxon},
		},
		Object:     types.Object{ID: term, Taxon: &types.Taxon{ID: types.HumanTaxon}},
		Negated:    negated,
		Qualifiers: qualifiers,
		Relation:   types.Relation{ID: relationFor(qualifiers, aspect, hpoaRelations)},
		Evidence:   buildEvidence(c.get(hpoaEvidence), c.get(hpoaReference), c.get(hpoaWithFrom), cfg, text, rec),
		ProvidedBy: c.get(hpoaAssignedBy),
		Date:       c.get(hpoaDate),
		Aspect:     aspect,
		Onset:      c.get(hpoaOnset),
		Frequency:  c.get(hpoaFrequency),
	}
	return text, []types.Association{a}
}

func (HpoaDecoder) SkimLine(line string, cfg *Config, rec Recorder) (types.SkimTuple, bool) {
	c := splitColumns(line, hpoaWidth)
	if negated, _ := parseQualifiers(c.get(hpoaQualifier)); negated {
		return types.SkimTuple{}, false
	}
	entity, term, ok := resolveIDs(c, hpoaIDs, cfg, line, rec)
	if !ok {
		return types.SkimTuple{}, false
	}
	return types.SkimTuple{SubjectID: entity, SubjectLabel: c.get(hpoaSymbol), ObjectID: term}, true
}
