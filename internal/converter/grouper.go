package converter

import (
	"fmt"

	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// Group partitions records into buckets in canonical type order. Records
// keep their input order inside a bucket and empty buckets are omitted.
func Group(records []types.CitationRecord) []types.Bucket {
	order := types.CanonicalOrder()
	slots := make([][]types.CitationRecord, len(order))
	for _, r := range records {
		i := r.Type.Rank()
		slots[i] = append(slots[i], r)
	}

	var buckets []types.Bucket
	for i, recs := range slots {
		if len(recs) > 0 {
			buckets = append(buckets, types.Bucket{Type: order[i], Records: recs})
		}
	}
	return buckets
}

// Rename records a title changed by DedupeTitles.
type Rename struct {
	Row      int
	Original string
	Renamed  string
}

// DedupeTitles makes every title unique by appending " (2)", " (3)", ... to
// repeats, in input order. Records are modified in place.
func DedupeTitles(records []types.CitationRecord) []Rename {
	taken := make(map[string]bool, len(records))
	for _, r := range records {
		taken[r.Title] = true
	}

	seen := make(map[string]int, len(records))
	var renames []Rename

	for i := range records {
		title := records[i].Title
		seen[title]++
		if seen[title] == 1 {
			continue
		}

		n := seen[title]
		candidate := fmt.Sprintf("%s (%d)", title, n)
		for taken[candidate] {
			n++
			candidate = fmt.Sprintf("%s (%d)", title, n)
		}
		seen[title] = n
		taken[candidate] = true

		records[i].Title = candidate
		renames = append(renames, Rename{Row: records[i].Row, Original: title, Renamed: candidate})
	}
	return renames
}
