// Package parcel implements the parcel allocation core: deriving parcel
// counts from quantities, reconciling an item-kind's parcel set after an
// edit, and building read-side summaries. Everything here is pure; the
// store layer applies the results transactionally.
package parcel

import (
	"math"

	"potluck/internal/model"
)

// MaxParcels bounds how many parcels one item-kind may expand into. The
// float to int conversion overflows far above this, and a list with more
// slots than people on earth is a typo anyway.
const MaxParcels = math.MaxInt32

// Count returns the number of parcels an item-kind expands into:
// ceil(total / perPortion). A trailing partial portion still counts as one
// whole claimable parcel; remainders are not tracked.
func Count(total, perPortion float64) (int, error) {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, model.ErrInvalidQuantity
	}
	if perPortion <= 0 || math.IsNaN(perPortion) || math.IsInf(perPortion, 0) {
		return 0, model.ErrInvalidQuantity
	}
	count := math.Ceil(total / perPortion)
	if count > MaxParcels {
		return 0, model.ErrInvalidQuantity
	}
	return int(count), nil
}
