package matching

import "sort"

// RankWorklist orders matches for the primary worklist view: urgency score
// descending, then compliance score, then quality score, with distance
// ascending as the final tie-break (closer wins, unknown distance last).
// Urgency and compliance are gating concerns, so this lexicographic order is
// used instead of the additive final score. The sort is stable, so equal
// matches keep their input order.
func RankWorklist(matches []*Match) []*Match {
	ranked := copyMatches(matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Scores.Urgency != b.Scores.Urgency {
			return a.Scores.Urgency > b.Scores.Urgency
		}
		if a.Scores.Compliance != b.Scores.Compliance {
			return a.Scores.Compliance > b.Scores.Compliance
		}
		if a.Scores.Quality != b.Scores.Quality {
			return a.Scores.Quality > b.Scores.Quality
		}
		return closerThan(a.DistanceKM, b.DistanceKM)
	})
	return ranked
}

// RankByScore orders matches for the headline view by the weighted final
// score, with distance ascending as tie-break.
func RankByScore(matches []*Match) []*Match {
	ranked := copyMatches(matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Scores.Final != b.Scores.Final {
			return a.Scores.Final > b.Scores.Final
		}
		return closerThan(a.DistanceKM, b.DistanceKM)
	})
	return ranked
}

// closerThan treats a missing distance as farther than any known one.
func closerThan(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

func copyMatches(matches []*Match) []*Match {
	ranked := make([]*Match, len(matches))
	copy(ranked, matches)
	return ranked
}
