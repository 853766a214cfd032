// Package types holds the association model produced by every decoder.
//
// JSON tags follow the key names used by existing association tooling
// (source_line, provided_by, has_supporting_reference...) so that parsed
// output can be diffed against it.
package types

// Format names an association file dialect
type Format string

const (
	FormatGAF  Format = "gaf"
	FormatGPAD Format = "gpad"
	FormatHPOA Format = "hpoa"
)

// NegationQualifier is the qualifier token that sets Association.Negated.
// It never appears in Association.Qualifiers.
const NegationQualifier = "NOT"

// HumanTaxon is the taxon every HPOA subject carries.
const HumanTaxon = "NCBITaxon:9606"

// Taxon references an organism by canonical NCBITaxon id
type Taxon struct {
	ID string `json:"id"`
}

// Subject is the annotated entity: a gene product for GAF/GPAD, a disease for HPOA
type Subject struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Type     string   `json:"type,omitempty"`
	FullName string   `json:"fullname,omitempty"`
	Synonyms []string `json:"synonyms,omitempty"`
	Taxon    *Taxon   `json:"taxon,omitempty"`
}

// Object is the ontology term the subject is associated with
type Object struct {
	ID    string `json:"id"`
	Taxon *Taxon `json:"taxon,omitempty"`
}

// Relation is the predicate linking subject and object
type Relation struct {
	ID string `json:"id"`
}

// Evidence backs an association
type Evidence struct {
	Type                   string   `json:"type"`
	HasSupportingReference []string `json:"has_supporting_reference"`
	WithSupportFrom        []string `json:"with_support_from"`
}

// ExtensionAtom is one property(filler) conjunct of an annotation extension
type ExtensionAtom struct {
	Property string `json:"property"`
	Filler   string `json:"filler"`
}

// Disjunct is a conjunction of extension atoms. Each disjunct of an
// extension column yields its own Association.
type Disjunct []ExtensionAtom

// Association is one decoded association record.
//
// SourceLine is the text of exactly one input line (after identifier
// remapping); records fanned out from the same line share it.
type Association struct {
	Format            Format            `json:"format"`
	SourceLine        string            `json:"source_line"`
	Subject           Subject           `json:"subject"`
	Object            Object            `json:"object"`
	Negated           bool              `json:"negated"`
	Qualifiers        []string          `json:"qualifiers"`
	Relation          Relation          `json:"relation"`
	Evidence          Evidence          `json:"evidence"`
	ProvidedBy        string            `json:"provided_by"`
	Date              string            `json:"date"`
	Aspect            string            `json:"aspect,omitempty"`
	InteractingTaxon  *Taxon            `json:"interacting_taxon,omitempty"`
	Onset             string            `json:"onset,omitempty"`
	Frequency         string            `json:"frequency,omitempty"`
	Properties        map[string]string `json:"properties,omitempty"`
	SubjectExtensions []ExtensionAtom   `json:"subject_extensions,omitempty"`
	ObjectExtensions  []ExtensionAtom   `json:"object_extensions,omitempty"`
}

// SkimTuple is the cheap projection returned by skimming a file.
// SubjectLabel is empty for formats without a label column (GPAD).
type SkimTuple struct {
	SubjectID    string `json:"subject_id"`
	SubjectLabel string `json:"subject_label,omitempty"`
	ObjectID     string `json:"object_id"`
}
