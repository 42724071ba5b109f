package parcel

import (
	"sort"

	"potluck/internal/model"
)

// Plan is the outcome of reconciling an item-kind against a requested
// definition: which parcels survive, which parcel IDs are removed, and how
// many new free parcels must be created.
type Plan struct {
	Keep   []model.Parcel
	Delete []string
	Create int
}

// Reconcile computes the parcel set that must exist after editing an
// item-kind, without ever dropping a claim:
//
//   - claimed parcels are kept unconditionally, in position order
//   - name/unit/perPortion may only change while no parcel is claimed
//   - the requested total may not shrink below the claimed count
//   - free parcels are kept earliest-first; excess ones are deleted and
//     missing ones are created
//
// The result is deterministic for a given input.
func Reconcile(item model.Item, parcels []model.Parcel, req model.ItemInput) (Plan, error) {
	claimed := 0
	for _, p := range parcels {
		if p.Claimed() {
			claimed++
		}
	}

	if claimed > 0 {
		if req.Name != item.Name || req.Unit != item.Unit || req.PerPortion != item.PerPortion {
			return Plan{}, model.ErrImmutableFieldChange
		}
	}

	desired, err := Count(req.TotalQuantity, req.PerPortion)
	if err != nil {
		return Plan{}, err
	}
	if desired < claimed {
		return Plan{}, model.ErrBelowClaimedFloor
	}

	ordered := make([]model.Parcel, len(parcels))
	copy(ordered, parcels)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	plan := Plan{}
	freeToKeep := desired - claimed
	for _, p := range ordered {
		switch {
		case p.Claimed():
			plan.Keep = append(plan.Keep, p)
		case freeToKeep > 0:
			plan.Keep = append(plan.Keep, p)
			freeToKeep--
		default:
			plan.Delete = append(plan.Delete, p.ID)
		}
	}
	plan.Create = desired - len(plan.Keep)

	return plan, nil
}
