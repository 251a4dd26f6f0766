// Package ranking partitions a batch of scored candidates into outcome
// tiers by relative rank. Tier assignment is a pure function of the
// batch's score distribution and is recomputed from scratch on every run.
package ranking

import (
	"math"
	"sort"

	"github.com/hirestack/screening-agent/internal/models"
)

// Result holds the tier partition of one batch. AllRanked is the
// concatenation confirmed ++ waitlist ++ rejected, in that order.
type Result struct {
	Confirmed []models.RankedCandidate
	Waitlist  []models.RankedCandidate
	Rejected  []models.RankedCandidate
	AllRanked []models.RankedCandidate
}

// Rank sorts candidates by score descending and cuts the top 20% into
// confirmed and the bottom 20% into rejected. The sort is stable so ties
// keep their input order and batch runs stay reproducible.
//
// The asymmetric ceil/floor boundaries are deliberate: at small batch
// sizes they favour slightly larger confirmed and rejected tiers over the
// waitlist.
func Rank(candidates []models.ScoredCandidate) Result {
	sorted := make([]models.ScoredCandidate, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	total := len(sorted)
	top20Index := int(math.Ceil(float64(total) * 0.2))
	bottom20Index := int(math.Floor(float64(total) * 0.8))

	// At total=1 the floor boundary lands below the ceiling one. Clamp so
	// the three tiers stay a true partition: every candidate appears in
	// exactly one tier.
	if bottom20Index < top20Index {
		bottom20Index = top20Index
	}

	confirmed := tag(sorted[:top20Index], models.StatusConfirmed)
	waitlist := tag(sorted[top20Index:bottom20Index], models.StatusWaitlist)
	rejected := tag(sorted[bottom20Index:], models.StatusRejected)

	allRanked := make([]models.RankedCandidate, 0, total)
	allRanked = append(allRanked, confirmed...)
	allRanked = append(allRanked, waitlist...)
	allRanked = append(allRanked, rejected...)

	return Result{
		Confirmed: confirmed,
		Waitlist:  waitlist,
		Rejected:  rejected,
		AllRanked: allRanked,
	}
}

func tag(candidates []models.ScoredCandidate, status models.ApplicationStatus) []models.RankedCandidate {
	out := make([]models.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.RankedCandidate{
			ScoredCandidate:   c,
			ApplicationStatus: status,
		})
	}
	return out
}
