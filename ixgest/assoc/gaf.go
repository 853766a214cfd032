package assoc

import (
	"github.com/teranos/assocparse/ixgest/types"
)

// GAF 2.x column layout. GAF 1.0 stops after assigned_by.
const (
	gafDB = iota
	gafDBObjectID
	gafSymbol
	gafQualifier
	gafTerm
	gafReference
	gafEvidence
	gafWithFrom
	gafAspect
	gafName
	gafSynonym
	gafType
	gafTaxon
	gafDate
	gafAssignedBy
	gafExtension
	gafIsoform

	gafWidth   = gafIsoform + 1
	gafV1Width = gafAssignedBy + 1
)

var gafIDs = idColumns{db: gafDB, local: gafDBObjectID, term: gafTerm}

// gafRelations are the GO aspect defaults when no qualifier names a relation
var gafRelations = map[string]string{
	"C": "part_of",
	"P": "involved_in",
	"F": "enables",
}

// GafDecoder decodes GO Gene Association Format lines (1.0 and 2.x)
type GafDecoder struct{}

func (GafDecoder) Format() types.Format { return types.FormatGAF }

func (GafDecoder) VersionConstraint() string { return ">= 1.0, < 3.0" }

// DecodeLine decodes one GAF line. A 15 column line is read as if it had
// two empty trailing columns; the returned text keeps the input width.
func (GafDecoder) DecodeLine(line string, cfg *Config, rec Recorder) (string, []types.Association) {
	c := splitColumns(line, gafWidth)
	checkWidth(c, types.FormatGAF, line, rec, gafV1Width, gafWidth)

	entity, term, ok := resolveIDs(c, gafIDs, cfg, line, rec)
	if !ok {
		return line, nil
	}
	text := c.text(line)

	taxon, interacting := resolveTaxa(c.get(gafTaxon), cfg, text, rec)
	negated, qualifiers := parseQualifiers(c.get(gafQualifier))
	aspect := c.get(gafAspect)

	base := types.Association{
		Format:     types.FormatGAF,
		SourceLine: text,
		Subject: types.Subject{
			ID:       entity,
			Label:    c.get(gafSymbol),
			Type:     c.get(gafType),
			FullName: c.get(gafName),
			Synonyms: splitSynonyms(c.get(gafSynonym)),
			Taxon:    taxon,
		},
		Object:           types.Object{ID: term, Taxon: cloneTaxon(taxon)},
		Negated:          negated,
		Qualifiers:       qualifiers,
		Relation:         types.Relation{ID: relationFor(qualifiers, aspect, gafRelations)},
		Evidence:         buildEvidence(c.get(gafEvidence), c.get(gafReference), c.get(gafWithFrom), cfg, text, rec),
		ProvidedBy:       c.get(gafAssignedBy),
		Date:             c.get(gafDate),
		Aspect:           aspect,
		InteractingTaxon: interacting,
	}
	if isoform := c.get(gafIsoform); isoform != "" {
		base.SubjectExtensions = []types.ExtensionAtom{{Property: "isoform", Filler: isoform}}
	}

	return text, fanOut(base, parseExtensions(c.get(gafExtension), text, rec))
}

// SkimLine skips negated lines
func (GafDecoder) SkimLine(line string, cfg *Config, rec Recorder) (types.SkimTuple, bool) {
	c := splitColumns(line, gafWidth)
	if negated, _ := parseQualifiers(c.get(gafQualifier)); negated {
		return types.SkimTuple{}, false
	}
	entity, term, ok := resolveIDs(c, gafIDs, cfg, line, rec)
	if !ok {
		return types.SkimTuple{}, false
	}
	return types.SkimTuple{SubjectID: entity, SubjectLabel: c.get(gafSymbol), ObjectID: term}, true
}
