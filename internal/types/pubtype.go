package types

// PublicationType is the fixed set of section tags used to bucket records.
type PublicationType string

const (
	JournalArticle  PublicationType = "journalArticle"
	BookSection     PublicationType = "bookSection"
	Book            PublicationType = "book"
	Report          PublicationType = "report"
	ConferencePaper PublicationType = "conferencePaper"
	Thesis          PublicationType = "thesis"
	Other           PublicationType = "other"
)

// canonicalOrder is the order buckets appear in the output document.
var canonicalOrder = []PublicationType{
	JournalArticle,
	BookSection,
	Book,
	Report,
	ConferencePaper,
	Thesis,
	Other,
}

var labels = map[PublicationType]string{
	JournalArticle:  "Journal Articles",
	BookSection:     "Book Sections",
	Book:            "Books",
	Report:          "Reports",
	ConferencePaper: "Conference Papers",
	Thesis:          "Theses",
	Other:           "Other",
}

// CanonicalOrder returns a copy of the fixed bucket order.
func CanonicalOrder() []PublicationType {
	out := make([]PublicationType, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// Valid reports whether t is one of the enumerated tags.
func (t PublicationType) Valid() bool {
	_, ok := labels[t]
	return ok
}

// Label returns the human-readable plural section name.
func (t PublicationType) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return labels[Other]
}

// Rank returns the position of t in the canonical order. Unknown tags
// sort with Other.
func (t PublicationType) Rank() int {
	for i, c := range canonicalOrder {
		if c == t {
			return i
		}
	}
	return len(canonicalOrder) - 1
}
