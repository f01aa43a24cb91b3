package milestone

import (
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
)

// CheckOutcome is the full catalog evaluation for one snapshot.
type CheckOutcome struct {
	Results []CheckResult
	// NewUnlockIDs lists catalog ids unlocked for the first time, in catalog
	// order.
	NewUnlockIDs []string
	// BonusXp sums XpReward over the new unlocks only.
	BonusXp int
}

// CheckAll evaluates every catalog entry against the cumulative snapshot.
// The whole catalog is always evaluated because one event (a match, or a
// backfill of many) can cross several thresholds at once. Pure: identical
// (snapshot, previouslyUnlocked) inputs always produce identical output,
// which is what makes reconciliation re-runs safe.
func CheckAll(catalog *Catalog, snapshot stats.Statistics, previouslyUnlocked map[string]struct{}) CheckOutcome {
	definitions := catalog.Definitions()
	out := CheckOutcome{Results: make([]CheckResult, 0, len(definitions))}

	for _, def := range definitions {
		unlocked := def.Predicate(snapshot)
		_, previously := previouslyUnlocked[def.ID]
		isNew := unlocked && !previously

		out.Results = append(out.Results, CheckResult{
			Definition:         def,
			Unlocked:           unlocked,
			PreviouslyUnlocked: previously,
			IsNewUnlock:        isNew,
		})
		if isNew {
			out.NewUnlockIDs = append(out.NewUnlockIDs, def.ID)
			out.BonusXp += def.XpReward
		}
	}

	return out
}
