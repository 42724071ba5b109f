package parcel

import (
	"math"
	"time"

	"potluck/internal/model"
)

// ItemSummary is the per-item-kind progress view.
type ItemSummary struct {
	ItemID          string  `json:"item_id"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	PerPortion      float64 `json:"quantity_per_portion"`
	TotalQuantity   float64 `json:"total_quantity"`
	TotalParcels    int     `json:"total_parcels"`
	ClaimedCount    int     `json:"claimed_count"`
	FreeCount       int     `json:"free_count"`
	ProgressPercent int     `json:"progress_percent"`
}

// Summaries groups a list's parcels by item-kind and computes progress for
// each, in item position order.
func Summaries(items []model.Item, parcels []model.Parcel) []ItemSummary {
	claimedByItem := make(map[string]int)
	totalByItem := make(map[string]int)
	for _, p := range parcels {
		totalByItem[p.ItemID]++
		if p.Claimed() {
			claimedByItem[p.ItemID]++
		}
	}

	summaries := make([]ItemSummary, 0, len(items))
	for _, it := range items {
		total := totalByItem[it.ID]
		claimed := claimedByItem[it.ID]
		percent := 0
		if total > 0 {
			percent = int(math.Round(100 * float64(claimed) / float64(total)))
		}
		summaries = append(summaries, ItemSummary{
			ItemID:          it.ID,
			Name:            it.Name,
			Unit:            it.Unit,
			PerPortion:      it.PerPortion,
			TotalQuantity:   it.TotalQuantity,
			TotalParcels:    total,
			ClaimedCount:    claimed,
			FreeCount:       total - claimed,
			ProgressPercent: percent,
		})
	}
	return summaries
}

// ParticipantCount returns the number of distinct participant identifiers
// across claimed parcels. A participant claiming parcels of several
// item-kinds is counted once.
func ParticipantCount(parcels []model.Parcel) int {
	seen := make(map[string]struct{})
	for _, p := range parcels {
		if p.Claimed() {
			seen[p.MemberCPF] = struct{}{}
		}
	}
	return len(seen)
}

// EventAvailable reports whether registration should be offered for a list:
// the event is still ahead and the list is active. This is a presentation
// hint; RegisterMember re-checks both conditions itself.
func EventAvailable(l model.List, now time.Time) bool {
	return l.Status == model.ListStatusActive && l.EventDate.After(now)
}
