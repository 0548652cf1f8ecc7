package algo

import (
	"fmt"
	"sort"

	"github.com/huangsam/scholar/schema"
)

// RankApplicants pairs each breakdown with its record and sorts by final score
// in descending order. Ties keep their input order. Ranks start at 1.
func RankApplicants(breakdowns []schema.ScoreBreakdown, records []schema.EnhancedRecord) []schema.RankedApplicant {
	ranked := make([]schema.RankedApplicant, len(breakdowns))
	for i, b := range breakdowns {
		ranked[i] = schema.RankedApplicant{ScoreBreakdown: b}
		if i < len(records) {
			ranked[i].Record = records[i]
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// FilterByTier keeps the applicants in any of the given tiers. No tiers means no filter.
func FilterByTier(ranked []schema.RankedApplicant, tiers ...schema.Tier) []schema.RankedApplicant {
	if len(tiers) == 0 {
		return ranked
	}
	keep := make(map[schema.Tier]struct{}, len(tiers))
	for _, t := range tiers {
		keep[t] = struct{}{}
	}
	out := make([]schema.RankedApplicant, 0, len(ranked))
	for _, r := range ranked {
		if _, ok := keep[r.Tier]; ok {
			out = append(out, r)
		}
	}
	return out
}

// TopN returns the first n applicants. A non-positive n returns all of them.
func TopN(ranked []schema.RankedApplicant, n int) []schema.RankedApplicant {
	if n <= 0 || len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}

// FindByID looks up an applicant by identifier.
func FindByID(ranked []schema.RankedApplicant, id string) (schema.RankedApplicant, error) {
	for _, r := range ranked {
		if r.ApplicantID == id {
			return r, nil
		}
	}
	return schema.RankedApplicant{}, fmt.Errorf("%w: id %q", schema.ErrApplicantNotFound, id)
}

// FindByRank looks up an applicant by 1-based rank.
func FindByRank(ranked []schema.RankedApplicant, rank int) (schema.RankedApplicant, error) {
	for _, r := range ranked {
		if r.Rank == rank {
			return r, nil
		}
	}
	return schema.RankedApplicant{}, fmt.Errorf("%w: rank %d (cohort has %d applicants)", schema.ErrApplicantNotFound, rank, len(ranked))
}

// Summarize counts applicants and awards per tier.
func Summarize(ranked []schema.RankedApplicant) schema.Summary {
	s := schema.Summary{
		TotalApplicants: len(ranked),
		Tiers:           make([]schema.TierSummary, len(schema.AllTiers)),
	}
	index := make(map[schema.Tier]int, len(schema.AllTiers))
	for i, t := range schema.AllTiers {
		s.Tiers[i] = schema.TierSummary{Tier: t}
		index[t] = i
	}

	total := 0.0
	for _, r := range ranked {
		i, ok := index[r.Tier]
		if !ok {
			continue
		}
		s.Tiers[i].Count++
		s.Tiers[i].TotalAward += r.AwardAmount
		s.TotalAwarded += r.AwardAmount
		total += r.FinalScore
	}

	if len(ranked) > 0 {
		s.MeanFinalScore = total / float64(len(ranked))
		for i := range s.Tiers {
			s.Tiers[i].Percentage = float64(s.Tiers[i].Count) / float64(len(ranked)) * 100
		}
	}
	return s
}
