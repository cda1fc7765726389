// AngelaMos | 2026
// rank.go

package genre

import (
	"cmp"
	"slices"
)

type Entry interface {
	GenreBitmap() uint64
	RankScore() float64
	RankID() int64
}

type Shelf[E Entry] struct {
	Label   string
	Entries []E
}

// byRank orders by score descending, ties broken by the lower id first.
func byRank[E Entry](a, b E) int {
	if c := cmp.Compare(b.RankScore(), a.RankScore()); c != 0 {
		return c
	}
	return cmp.Compare(a.RankID(), b.RankID())
}

// TopN returns at most n entries that carry bit, best ranked first. The input
// slice is not modified.
func TopN[E Entry](entries []E, bit uint64, n int) []E {
	if n <= 0 {
		return []E{}
	}

	matched := make([]E, 0, min(n, len(entries)))
	for _, e := range entries {
		if e.GenreBitmap()&bit != 0 {
			matched = append(matched, e)
		}
	}

	slices.SortStableFunc(matched, byRank[E])

	if len(matched) > n {
		matched = matched[:n]
	}
	return matched
}

// GroupTopN computes TopN for every label of v with one sort and one pass
// over entries. Shelves come back in vocabulary order, one per label, empty
// shelves included.
func GroupTopN[E Entry](v *Vocabulary, entries []E, n int) []Shelf[E] {
	shelves := make([]Shelf[E], v.Len())
	for i, label := range v.labels {
		shelves[i] = Shelf[E]{Label: label, Entries: []E{}}
	}
	if n <= 0 {
		return shelves
	}

	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, byRank[E])

	for _, e := range ranked {
		bitmap := e.GenreBitmap() & v.Mask()
		for i := range shelves {
			if bitmap&(uint64(1)<<uint(i)) != 0 && len(shelves[i].Entries) < n {
				shelves[i].Entries = append(shelves[i].Entries, e)
			}
		}
	}

	return shelves
}
