package assoc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/assocparse/ixgest/report"
	"github.com/teranos/assocparse/ixgest/types"
)

func TestGafConcreteLine(t *testing.T) {
	line := "MGI\tMGI:101\tSymb\t\tGO:0001\tPMID:1\tIEA\t\tP\t\t\tgene\ttaxon:10090\t20200101\tMGI\t\t"
	rpt := report.New()
	cfg := NewConfig(WithRemoveDoublePrefixes(true))

	text, recs := GafDecoder{}.DecodeLine(line, cfg, rpt)

	require.Len(t, recs, 1)
	a := recs[0]
	assert.Equal(t, line, text)
	assert.Equal(t, line, a.SourceLine)
	assert.Equal(t, "MGI:101", a.Subject.ID)
	assert.Equal(t, "Symb", a.Subject.Label)
	assert.Equal(t, "gene", a.Subject.Type)
	assert.Equal(t, "GO:0001", a.Object.ID)
	assert.Equal(t, "involved_in", a.Relation.ID)
	assert.Equal(t, "IEA", a.Evidence.Type)
	assert.Equal(t, []string{"PMID:1"}, a.Evidence.HasSupportingReference)
	assert.Empty(t, a.Evidence.WithSupportFrom)
	require.NotNil(t, a.Subject.Taxon)
	assert.Equal(t, "NCBITaxon:10090", a.Subject.Taxon.ID)
	require.NotNil(t, a.Object.Taxon)
	assert.Equal(t, "NCBITaxon:10090", a.Object.Taxon.ID)
	assert.Equal(t, "MGI", a.ProvidedBy)
	assert.Equal(t, "20200101", a.Date)
	assert.False(t, a.Negated)
	assert.Empty(t, a.Qualifiers)
	assert.Nil(t, a.ObjectExtensions)
	assert.Nil(t, a.SubjectExtensions)
	assert.Empty(t, rpt.Messages())
}

func TestGafDoublePrefixKeptByDefault(t *testing.T) {
	_, recs := GafDecoder{}.DecodeLine(gafWith(nil), NewConfig(), report.New())
	require.Len(t, recs, 1)
	assert.Equal(t, "MGI:MGI:101", recs[0].Subject.ID)
}

func TestGafFifteenColumnsMatchSeventeen(t *testing.T) {
	cols := gafLine()
	v1 := tsv(cols[:15]...)
	v2 := tsv(append(cols[:15:15], "", "")...)
	cfg := NewConfig(WithRemoveDoublePrefixes(true))

	rpt := report.New()
	text1, recs1 := GafDecoder{}.DecodeLine(v1, cfg, rpt)
	text2, recs2 := GafDecoder{}.DecodeLine(v2, cfg, rpt)

	assert.Equal(t, v1, text1, "short line is returned unpadded")
	assert.Equal(t, v2, text2)
	assert.Empty(t, rpt.Messages(), "15 and 17 columns are both valid")

	require.Len(t, recs1, 1)
	require.Len(t, recs2, 1)
	recs1[0].SourceLine, recs2[0].SourceLine = "", ""
	if diff := cmp.Diff(recs2[0], recs1[0]); diff != "" {
		t.Errorf("15 column record differs (-17 +15):\n%s", diff)
	}
}

func TestGafWhitespaceInEntityDropsLine(t *testing.T) {
	line := gafWith(map[int]string{gafDBObjectID: "MGI:1 01"})
	rpt := report.New()

	text, recs := GafDecoder{}.DecodeLine(line, NewConfig(), rpt)

	assert.Equal(t, line, text)
	assert.Empty(t, recs)
	msgs := rpt.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, report.SeverityError, msgs[0].Level)
	assert.Equal(t, report.InvalidID, msgs[0].Type)
	assert.Equal(t, line, msgs[0].Line)
}

func TestGafPipeInTermWarns(t *testing.T) {
	rpt := report.New()
	_, recs := GafDecoder{}.DecodeLine(gafWith(map[int]string{gafTerm: "GO:1|GO:2"}), NewConfig(), rpt)

	require.Len(t, recs, 1)
	assert.Equal(t, "GO:1|GO:2", recs[0].Object.ID)
	assert.Equal(t, 1, rpt.Count(report.SeverityWarning))
	assert.Equal(t, 0, rpt.Count(report.SeverityError))
}

func TestGafDisallowedIdspaceDropsLine(t *testing.T) {
	rpt := report.New()
	cfg := NewConfig(WithClassIdspaces([]string{"GO"}))

	_, recs := GafDecoder{}.DecodeLine(gafWith(map[int]string{gafTerm: "CHEBI:1"}), cfg, rpt)
	assert.Empty(t, recs)
	require.Len(t, rpt.Messages(), 1)
	assert.Equal(t, report.InvalidIdspace, rpt.Messages()[0].Type)

	_, recs = GafDecoder{}.DecodeLine(gafWith(nil), cfg, rpt)
	assert.Len(t, recs, 1)
}

func TestGafExtensionFanOut(t *testing.T) {
	line := gafWith(map[int]string{gafExtension: "A(1)|B(2),C(3)"})
	rpt := report.New()

	text, recs := GafDecoder{}.DecodeLine(line, NewConfig(), rpt)

	require.Len(t, recs, 2)
	assert.Equal(t, line, text)
	assert.Equal(t, []types.ExtensionAtom{{Property: "A", Filler: "1"}}, recs[0].ObjectExtensions)
	assert.Equal(t, []types.ExtensionAtom{
		{Property: "B", Filler: "2"},
		{Property: "C", Filler: "3"},
	}, recs[1].ObjectExtensions)
	for _, a := range recs {
		assert.Equal(t, line, a.SourceLine, "every fanned out record points at the same line")
	}

	// records must not share mutable state
	recs[0].Evidence.HasSupportingReference[0] = "changed"
	assert.Equal(t, "PMID:1", recs[1].Evidence.HasSupportingReference[0])
}

func TestGafMalformedExtensionAtomIsOmitted(t *testing.T) {
	rpt := report.New()
	_, recs := GafDecoder{}.DecodeLine(gafWith(map[int]string{gafExtension: "A(1),bogus"}), NewConfig(), rpt)

	require.Len(t, recs, 1)
	assert.Equal(t, []types.ExtensionAtom{{Property: "A", Filler: "1"}}, recs[0].ObjectExtensions)
	msgs := rpt.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, report.InvalidExtension, msgs[0].Type)
	assert.Equal(t, "bogus", msgs[0].Subject)
}

func TestGafNegationOnly(t *testing.T) {
	_, recs := GafDecoder{}.DecodeLine(
		gafWith(map[int]string{gafQualifier: "NOT", gafAspect: "F"}), NewConfig(), report.New())

	require.Len(t, recs, 1)
	assert.True(t, recs[0].Negated)
	assert.Empty(t, recs[0].Qualifiers)
	assert.NotContains(t, recs[0].Qualifiers, types.NegationQualifier)
	assert.Equal(t, "enables", recs[0].Relation.ID)
}

func TestGafQualifierSetsRelation(t *testing.T) {
	_, recs := GafDecoder{}.DecodeLine(
		gafWith(map[int]string{gafQualifier: "NOT|contributes_to", gafAspect: "F"}), NewConfig(), report.New())

	require.Len(t, recs, 1)
	assert.True(t, recs[0].Negated)
	assert.Equal(t, []string{"contributes_to"}, recs[0].Qualifiers)
	assert.Equal(t, "contributes_to", recs[0].Relation.ID)
}

func TestGafAspectDefaults(t *testing.T) {
	tests := map[string]string{"C": "part_of", "P": "involved_in", "F": "enables", "X": ""}
	for aspect, want := range tests {
		_, recs := GafDecoder{}.DecodeLine(gafWith(map[int]string{gafAspect: aspect}), NewConfig(), report.New())
		require.Len(t, recs, 1)
		assert.Equal(t, want, recs[0].Relation.ID, "aspect %s", aspect)
	}
}

func TestGafTaxa(t *testing.T) {
	rpt := report.New()
	cfg := NewConfig(WithValidTaxa([]string{"taxon:9606"}))

	_, recs := GafDecoder{}.DecodeLine(gafWith(map[int]string{gafTaxon: "taxon:10090|taxon:9606"}), cfg, rpt)

	require.Len(t, recs, 1, "invalid taxon never drops the line")
	assert.Equal(t, "NCBITaxon:10090", recs[0].Subject.Taxon.ID)
	require.NotNil(t, recs[0].InteractingTaxon)
	assert.Equal(t, "NCBITaxon:9606", recs[0].InteractingTaxon.ID)

	msgs := rpt.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, report.SeverityWarning, msgs[0].Level)
	assert.Equal(t, report.InvalidTaxon, msgs[0].Type)
	assert.Equal(t, "NCBITaxon:10090", msgs[0].Subject)
}

func TestGafMalformedTaxonIsWarning(t *testing.T) {
	rpt := report.New()

	_, recs := GafDecoder{}.DecodeLine(gafWith(map[int]string{gafTaxon: "taxon:10 090|taxon:9606|taxon:7227"}), NewConfig(), rpt)

	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Subject.Taxon, "malformed token left out")
	assert.Nil(t, recs[0].InteractingTaxon, "third token makes the second malformed")

	msgs := rpt.Messages()
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, report.SeverityWarning, m.Level)
		assert.Equal(t, report.InvalidTaxon, m.Type)
	}
	assert.Equal(t, "NCBITaxon:10 090", msgs[0].Subject)
	assert.Equal(t, "NCBITaxon:9606|taxon:7227", msgs[1].Subject)
}

func TestGafSubjectFields(t *testing.T) {
	_, recs := GafDecoder{}.DecodeLine(gafWith(map[int]string{
		gafName:     "some gene",
		gafSynonym:  "s1|s2",
		gafWithFrom: "MGI:2|MGI:3",
		gafIsoform:  "UniProtKB:P1-2",
	}), NewConfig(), report.New())

	require.Len(t, recs, 1)
	a := recs[0]
	assert.Equal(t, "some gene", a.Subject.FullName)
	assert.Equal(t, []string{"s1", "s2"}, a.Subject.Synonyms)
	assert.Equal(t, []string{"MGI:2", "MGI:3"}, a.Evidence.WithSupportFrom)
	assert.Equal(t, []types.ExtensionAtom{{Property: "isoform", Filler: "UniProtKB:P1-2"}}, a.SubjectExtensions)
}

func TestGafWrongColumnCountIsBestEffort(t *testing.T) {
	rpt := report.New()
	line := tsv(gafLine()[:12]...)

	text, recs := GafDecoder{}.DecodeLine(line, NewConfig(), rpt)

	require.Len(t, recs, 1)
	assert.Equal(t, line, text)
	assert.Nil(t, recs[0].Subject.Taxon)
	assert.Empty(t, recs[0].ProvidedBy)
	msgs := rpt.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, report.WrongNumberOfColumns, msgs[0].Type)
	assert.Equal(t, report.SeverityWarning, msgs[0].Level)
	assert.Equal(t, "found 12 columns, GAF expects 15 or 17", msgs[0].Message)
}

func TestGafRemapRewritesLine(t *testing.T) {
	cfg := NewConfig(
		WithRemoveDoublePrefixes(true),
		WithClassMap(map[string]string{"GO:0001": "GO:9999"}),
		WithEntityMap(map[string]string{"MGI:101": "UniProtKB:Q1"}),
	)
	rpt := report.New()

	text, recs := GafDecoder{}.DecodeLine(gafWith(nil), cfg, rpt)

	require.Len(t, recs, 1)
	want := gafWith(map[int]string{gafDB: "UniProtKB", gafDBObjectID: "Q1", gafTerm: "GO:9999"})
	assert.Equal(t, want, text)
	assert.Equal(t, want, recs[0].SourceLine)
	assert.Equal(t, "UniProtKB:Q1", recs[0].Subject.ID)
	assert.Equal(t, "GO:9999", recs[0].Object.ID)
}

func TestGafRemapToInvalidIDDropsLine(t *testing.T) {
	cfg := NewConfig(WithClassMap(map[string]string{"GO:0001": "GO:bad id"}))
	rpt := report.New()

	_, recs := GafDecoder{}.DecodeLine(gafWith(nil), cfg, rpt)

	assert.Empty(t, recs)
	assert.Equal(t, 1, rpt.Count(report.SeverityError))
}

func TestGafRemapMissLeavesLineUntouched(t *testing.T) {
	cfg := NewConfig(WithClassMap(map[string]string{"GO:7": "GO:8"}))
	line := gafWith(nil)

	text, recs := GafDecoder{}.DecodeLine(line, cfg, report.New())

	require.Len(t, recs, 1)
	assert.Equal(t, line, text)
	assert.Equal(t, "GO:0001", recs[0].Object.ID)
}

func TestGafSkimLine(t *testing.T) {
	cfg := NewConfig(WithRemoveDoublePrefixes(true))
	rpt := report.New()

	tuple, ok := GafDecoder{}.SkimLine(gafWith(nil), cfg, rpt)
	require.True(t, ok)
	assert.Equal(t, types.SkimTuple{SubjectID: "MGI:101", SubjectLabel: "Symb", ObjectID: "GO:0001"}, tuple)

	_, ok = GafDecoder{}.SkimLine(gafWith(map[int]string{gafQualifier: "NOT"}), cfg, rpt)
	assert.False(t, ok)

	_, ok = GafDecoder{}.SkimLine(gafWith(map[int]string{gafDBObjectID: "a b"}), cfg, rpt)
	assert.False(t, ok)
}

func TestDecodeWithNilConfig(t *testing.T) {
	_, recs := GafDecoder{}.DecodeLine(gafWith(nil), nil, report.New())
	require.Len(t, recs, 1)
	assert.Equal(t, "MGI:MGI:101", recs[0].Subject.ID)
}
