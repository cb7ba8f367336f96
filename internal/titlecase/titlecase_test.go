package titlecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var smallWords = []string{
	"a", "an", "and", "as", "at", "but", "by", "en", "for", "if", "in",
	"nor", "of", "on", "or", "per", "the", "to", "v", "v.", "via", "vs", "vs.",
}

func TestTitle(t *testing.T) {
	c := New(smallWords)

	tests := []struct {
		in   string
		want string
	}{
		{"the ethics of care", "The Ethics of Care"},
		{"a tale of two cities: the sequel", "A Tale of Two Cities: The Sequel"},
		{"THE ETHICS OF CARE", "The Ethics of Care"},
		{"DNA repair in the cell", "DNA Repair in the Cell"},
		{"iPhone use among teens", "iPhone Use Among Teens"},
		{"self-care and over-the-counter drugs", "Self-Care and Over-the-Counter Drugs"},
		{"roe v. wade revisited", "Roe v. Wade Revisited"},
		{"what it stands for", "What It Stands For"},
		{"care — a history", "Care — A History"},
		{"ethics, e.g. in practice", "Ethics, e.g. in Practice"},
		{"  spaced   out  ", "Spaced Out"},
		{"research at www.example.org", "Research at www.example.org"},
		{"is it ethical? a review", "Is It Ethical? A Review"},
		{"mrs. smith and the dr. of law", "Mrs. Smith and the Dr. of Law"},
		{"no. of cases in st. louis", "No. of Cases in St. Louis"},
		{"the end. of days", "The End. Of Days"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Title(tt.in), tt.in)
	}
}

func TestTitleCustomWordList(t *testing.T) {
	c := New([]string{"Among"})
	assert.Equal(t, "Use among Teens", c.Title("use among teens"))
	assert.Equal(t, "Of The Care", c.Title("of the care"))
}

func TestTitleIdempotent(t *testing.T) {
	c := New(smallWords)
	once := c.Title("the ethics of care: a view from the bench")
	assert.Equal(t, once, c.Title(once))
}
