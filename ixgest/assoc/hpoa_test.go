package assoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/report"
	"github.com/teranos/assocparse/ixgest/types"
)

func hpoaWith(overrides map[int]string) string {
	cols := []string{
		"OMIM", "100050", "AARSKOG SYNDROME", "", "HP:0000175", "OMIM:100050", "IEA",
		"HP:0003577", "HP:0040283", "", "O", "", "2009.02.17", "HPO:iea",
	}
	for i, v := range overrides {
		cols[i] = v
	}
	return tsv(cols...)
}

func TestHpoaLine(t *testing.T) {
	line := hpoaWith(nil)
	rpt := report.New()

	text, recs := HpoaDecoder{}.DecodeLine(line, NewConfig(), rpt)

	require.Len(t, recs, 1)
	a := recs[0]
	assert.Equal(t, line, text)
	assert.Equal(t, "OMIM:100050", a.Subject.ID)
	assert.Equal(t, "AARSKOG SYNDROME", a.Subject.Label)
	assert.Equal(t, "disease", a.Subject.Type)
	require.NotNil(t, a.Subject.Taxon)
	assert.Equal(t, types.HumanTaxon, a.Subject.Taxon.ID)
	assert.Equal(t, "HP:0000175", a.Object.ID)
	assert.Equal(t, types.HumanTaxon, a.Object.Taxon.ID)
	assert.Equal(t, "has_phenotype", a.Relation.ID)
	assert.Equal(t, "HP:0003577", a.Onset)
	assert.Equal(t, "HP:0040283", a.Frequency)
	assert.Equal(t, "HPO:iea", a.ProvidedBy)
	assert.Equal(t, []string{"OMIM:100050"}, a.Evidence.HasSupportingReference)
	assert.Empty(t, rpt.Messages())
}

func TestHpoaAspectDefaults(t *testing.T) {
	tests := map[string]string{
		"O": "has_phenotype",
		"I": "has_inheritance",
		"M": "mortality",
		"C": "has_onset",
		"P": "",
	}
	for aspect, want := range tests {
		_, recs := HpoaDecoder{}.DecodeLine(hpoaWith(map[int]string{hpoaAspect: aspect}), NewConfig(), report.New())
		require.Len(t, recs, 1)
		assert.Equal(t, want, recs[0].Relation.ID, "aspect %s", aspect)
	}
}

func TestHpoaNeverFansOut(t *testing.T) {
	// pipes and parens anywhere in the line must not create extra records
	line := hpoaWith(map[int]string{hpoaSynonym: "a(1)|b(2)", hpoaWithFrom: "X:1|X:2"})

	_, recs := HpoaDecoder{}.DecodeLine(line, NewConfig(), report.New())

	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].ObjectExtensions)
	assert.Equal(t, []string{"a(1)", "b(2)"}, recs[0].Subject.Synonyms)
}

func TestHpoaNegated(t *testing.T) {
	_, recs := HpoaDecoder{}.DecodeLine(hpoaWith(map[int]string{hpoaQualifier: "NOT"}), NewConfig(), report.New())

	require.Len(t, recs, 1)
	assert.True(t, recs[0].Negated)
	assert.Empty(t, recs[0].Qualifiers)
	assert.Equal(t, "has_phenotype", recs[0].Relation.ID)
}

func TestHpoaIgnoresTaxonAllowlist(t *testing.T) {
	rpt := report.New()
	cfg := NewConfig(WithValidTaxa([]string{"NCBITaxon:10090"}))

	_, recs := HpoaDecoder{}.DecodeLine(hpoaWith(nil), cfg, rpt)

	require.Len(t, recs, 1)
	assert.Equal(t, types.HumanTaxon, recs[0].Subject.Taxon.ID)
	assert.Empty(t, rpt.Messages())
}

func TestHpoaBadIDDrops(t *testing.T) {
	rpt := report.New()
	_, recs := HpoaDecoder{}.DecodeLine(hpoaWith(map[int]string{hpoaTerm: "HP 1"}), NewConfig(), rpt)

	assert.Empty(t, recs)
	assert.Equal(t, 1, rpt.Count(report.SeverityError))
}

func TestHpoaSkim(t *testing.T) {
	tuple, ok := HpoaDecoder{}.SkimLine(hpoaWith(nil), NewConfig(), report.New())
	require.True(t, ok)
	assert.Equal(t, types.SkimTuple{SubjectID: "OMIM:100050", SubjectLabel: "AARSKOG SYNDROME", ObjectID: "HP:0000175"}, tuple)
}

func TestNewDecoder(t *testing.T) {
	for _, name := range []string{"gaf", "GPAD", " hpoa "} {
		d, err := NewDecoder(name)
		require.NoError(t, err, name)
		assert.NotNil(t, d)
	}

	d, err := NewDecoder("gaf")
	require.NoError(t, err)
	assert.Equal(t, types.FormatGAF, d.Format())

	_, err = NewDecoder("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"csv"`)
	assert.True(t, errors.Is(err, errors.ErrUnknownFormat))
}
