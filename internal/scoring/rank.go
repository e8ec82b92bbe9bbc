package scoring

import (
	"cmp"
	"slices"
)

// Pair - пара SR×OV с оценками обеих сторон.
type Pair struct {
	SourceID       string `json:"sr"`
	ObjectiveID    string `json:"ov"`
	SourceScore    Scale  `json:"sr_score"`
	ObjectiveScore Scale  `json:"ov_score"`
}

type RankedPair struct {
	Pair
	Pertinence Scale `json:"pertinence"`
	Rank       int   `json:"rank"`
}

// RankPairs сортирует пары по убыванию пертинентности, при равенстве по
// источнику и цели. Результат не зависит от порядка входа.
func RankPairs(pairs []Pair) ([]RankedPair, error) {
	out := make([]RankedPair, 0, len(pairs))
	seen := make(map[[2]string]struct{}, len(pairs))
	for _, p := range pairs {
		if p.SourceID == "" || p.ObjectiveID == "" {
			return nil, InvalidInput("pair", "empty identifier in (%q, %q)", p.SourceID, p.ObjectiveID)
		}
		key := [2]string{p.SourceID, p.ObjectiveID}
		if _, dup := seen[key]; dup {
			return nil, InvalidInput("pair", "duplicate pair %s/%s", p.SourceID, p.ObjectiveID)
		}
		seen[key] = struct{}{}

		v, err := Pertinence(p.SourceScore, p.ObjectiveScore)
		if err != nil {
			return nil, err
		}
		out = append(out, RankedPair{Pair: p, Pertinence: v})
	}
	slices.SortFunc(out, func(a, b RankedPair) int {
		if c := cmp.Compare(b.Pertinence, a.Pertinence); c != 0 {
			return c
		}
		if c := cmp.Compare(a.SourceID, b.SourceID); c != 0 {
			return c
		}
		return cmp.Compare(a.ObjectiveID, b.ObjectiveID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}
