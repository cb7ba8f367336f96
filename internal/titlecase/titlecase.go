// Package titlecase converts headline text to title case.
//
// Small words (articles, short conjunctions and prepositions) stay lowercase
// unless they open or close the title or follow sentence punctuation. Words
// that already carry deliberate capitalization (iPhone, mRNA, DNA inside a
// mixed-case title), words with digits, URLs and dotted initialisms are
// left untouched. A title written entirely in capitals is lowered first.
package titlecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Caser applies title-casing with a fixed small-word list.
// A Caser is not safe for concurrent use.
type Caser struct {
	small map[string]bool
	upper cases.Caser
	lower cases.Caser
}

// New builds a Caser. Small words are matched case-insensitively.
func New(smallWords []string) *Caser {
	small := make(map[string]bool, len(smallWords))
	for _, w := range smallWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			small[w] = true
		}
	}
	return &Caser{
		small: small,
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// Title returns s in title case. Inner whitespace runs collapse to one space.
func (c *Caser) Title(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	if isAllUpper(s) {
		for i, w := range words {
			words[i] = c.lower.String(w)
		}
	}

	out := make([]string, len(words))
	for i, w := range words {
		first := i == 0 || c.endsClause(words[i-1])
		last := i == len(words)-1
		out[i] = c.word(w, first, last)
	}
	return strings.Join(out, " ")
}

// word cases a single whitespace-delimited token.
func (c *Caser) word(w string, first, last bool) string {
	lead, core, trail := splitPunct(w)
	if core == "" {
		return w
	}

	switch {
	case keepAsIs(core):
		return w
	case c.small[strings.ToLower(core)] && !first && !last && !strings.ContainsAny(lead, "\"'“‘(["):
		return lead + c.lower.String(core) + trail
	case strings.ContainsAny(core, "-/"):
		return lead + c.compound(core) + trail
	default:
		return lead + c.capitalize(core) + trail
	}
}

// compound cases hyphenated and slashed words part by part. Small words
// inside a compound stay lowercase except at its start ("Over-the-Counter"
// keeps "the" lower; "Self-Care" capitalizes both).
func (c *Caser) compound(w string) string {
	var b, part strings.Builder
	idx := 0

	flush := func(isLast bool) {
		p := part.String()
		part.Reset()
		switch {
		case p == "":
		case keepAsIs(p):
			b.WriteString(p)
		case idx > 0 && !isLast && c.small[strings.ToLower(p)]:
			b.WriteString(c.lower.String(p))
		default:
			b.WriteString(c.capitalize(p))
		}
		idx++
	}

	for _, r := range w {
		if r == '-' || r == '/' {
			flush(false)
			b.WriteRune(r)
			continue
		}
		part.WriteRune(r)
	}
	flush(true)

	return b.String()
}

// capitalize upper-cases the first letter and leaves the rest alone.
func (c *Caser) capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return w
	}
	return c.upper.String(string(r)) + w[size:]
}

// keepAsIs reports tokens whose capitalization must be preserved.
func keepAsIs(w string) bool {
	if strings.Contains(w, "://") || strings.HasPrefix(strings.ToLower(w), "www.") || strings.Contains(w, "@") {
		return true
	}

	letters, dots := 0, 0
	for i, r := range w {
		switch {
		case unicode.IsDigit(r):
			return true
		case r == '.':
			dots++
		case unicode.IsLetter(r):
			letters++
			// An upper-case letter after the first position marks
			// deliberate casing: iPhone, McDonald, DNA.
			if i > 0 && unicode.IsUpper(r) {
				return true
			}
		}
	}

	// Dotted initialisms such as "e.g." or "U.S."
	return dots > 1 || (dots == 1 && letters <= 2 && !strings.HasSuffix(w, "."))
}

// splitPunct separates leading and trailing punctuation from a token.
func splitPunct(w string) (lead, core, trail string) {
	start := strings.IndexFunc(w, isWordRune)
	if start < 0 {
		return w, "", ""
	}
	end := strings.LastIndexFunc(w, isWordRune)
	_, size := utf8.DecodeRuneInString(w[end:])
	end += size

	// Keep a trailing period that belongs to an abbreviation like "vs." or "v."
	if end < len(w) && w[end] == '.' && end-start <= 2 {
		end++
	}
	return w[:start], w[start:end], w[end:]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// abbreviations end in a period without ending a clause.
var abbreviations = map[string]bool{
	"v.": true, "vs.": true, "dr.": true, "mr.": true, "mrs.": true,
	"ms.": true, "st.": true, "no.": true, "vol.": true,
}

// endsClause reports whether the previous token ends a clause, after which
// a small word is capitalized.
func (c *Caser) endsClause(prev string) bool {
	prev = strings.TrimRight(prev, "\"')]”’")
	if prev == "" {
		return false
	}
	switch prev {
	case "-", "–", "—":
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(prev)
	switch r {
	case ':', '?', '!', ';', '—', '–':
		return true
	case '.':
		// Abbreviations such as "dr." and "e.g." do not end a sentence.
		low := strings.ToLower(prev)
		return !c.small[low] && !abbreviations[low] && !strings.Contains(strings.TrimSuffix(low, "."), ".")
	}
	return false
}

// isAllUpper reports whether s has letters and none of them is lower case.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
