// Package match ranks similar-part candidates by string similarity.
package match

import (
	"sort"
	"strings"

	"partdex/internal/parts"
)

const (
	// MinRatio is the minimum similarity for a candidate to be offered
	MinRatio = 0.6
	// MaxCandidates caps the number of candidates offered
	MaxCandidates = 10
)

// Ratio returns the Ratcliff/Obershelp similarity of two strings in [0, 1].
// Comparison is case-insensitive and ignores surrounding whitespace.
func Ratio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}

	matched := matchLength([]rune(a), []rune(b))
	return 2 * float64(matched) / float64(len([]rune(a))+len([]rune(b)))
}

// matchLength sums the lengths of the longest common substring and,
// recursively, of the matches in the unmatched regions on either side of it.
func matchLength(a, b []rune) int {
	bestA, bestB, bestLen := longestCommon(a, b)
	if bestLen == 0 {
		return 0
	}

	total := bestLen
	total += matchLength(a[:bestA], b[:bestB])
	total += matchLength(a[bestA+bestLen:], b[bestB+bestLen:])
	return total
}

func longestCommon(a, b []rune) (startA, startB, length int) {
	// lengths[j] holds the common-suffix length ending at a[i-1], b[j-1]
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			current := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > length {
					length = lengths[j]
					startA = i - length
					startB = j - length
				}
			} else {
				lengths[j] = 0
			}
			prev = current
		}
	}
	return startA, startB, length
}

// Candidate is a similar part with its similarity to the queried part number
type Candidate struct {
	Part  parts.Part
	Ratio float64
}

// Rank filters candidates below MinRatio, orders the rest by descending
// similarity and caps the result at MaxCandidates. Failed records never rank.
func Rank(query string, candidates []parts.Part) []Candidate {
	ranked := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Failed() {
			continue
		}
		ratio := Ratio(query, candidate.PartNumber)
		if ratio >= MinRatio {
			ranked = append(ranked, Candidate{Part: candidate, Ratio: ratio})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Ratio > ranked[j].Ratio
	})

	if len(ranked) > MaxCandidates {
		ranked = ranked[:MaxCandidates]
	}
	return ranked
}
