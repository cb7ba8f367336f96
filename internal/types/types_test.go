package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialDateSpecificity(t *testing.T) {
	tests := []struct {
		date  PartialDate
		level string
		str   string
	}{
		{PartialDate{}, "", ""},
		{PartialDate{Year: 2019}, "y", "2019"},
		{PartialDate{Year: 2019, Month: 5}, "ym", "2019-05"},
		{PartialDate{Year: 2019, Month: 5, Day: 7}, "ymd", "2019-05-07"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, tt.date.Specificity())
		assert.Equal(t, tt.str, tt.date.String())
	}
}

func TestPartialDateUnix(t *testing.T) {
	_, ok := PartialDate{}.Unix()
	assert.False(t, ok)

	sec, ok := PartialDate{Year: 1970}.Unix()
	assert.True(t, ok)
	assert.Equal(t, int64(0), sec)

	sec, ok = PartialDate{Year: 1970, Month: 1, Day: 2}.Unix()
	assert.True(t, ok)
	assert.Equal(t, int64(86400), sec)
}

func TestCreatorFullName(t *testing.T) {
	assert.Equal(t, "Jane Smith", Creator{FirstName: "Jane", LastName: "Smith"}.FullName())
	assert.Equal(t, "World Health Organization", Creator{LastName: "World Health Organization"}.FullName())
}

func TestPublicationTypeRank(t *testing.T) {
	order := CanonicalOrder()
	for i, pt := range order {
		assert.Equal(t, i, pt.Rank())
		assert.True(t, pt.Valid())
	}
	assert.Equal(t, Other.Rank(), PublicationType("magazineArticle").Rank())
	assert.False(t, PublicationType("magazineArticle").Valid())
	assert.Equal(t, "Other", PublicationType("magazineArticle").Label())
}

func TestRawRowValue(t *testing.T) {
	row := RawRow{Fields: map[string]string{"Title": ""}}
	v, ok := row.Value("Title")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = row.Value("Author")
	assert.False(t, ok)
}
