package parcel

import (
	"errors"
	"testing"
	"time"

	"potluck/internal/model"
)

func testItem() model.Item {
	return model.Item{
		ID:            "item-1",
		ListID:        "list-1",
		Name:          "Rice",
		Unit:          "kg",
		PerPortion:    2,
		TotalQuantity: 10,
	}
}

func testParcels(n, claimed int) []model.Parcel {
	now := time.Now()
	parcels := make([]model.Parcel, n)
	for i := range parcels {
		parcels[i] = model.Parcel{
			ID:       string(rune('a' + i)),
			ItemID:   "item-1",
			ListID:   "list-1",
			Position: i,
		}
		if i < claimed {
			parcels[i].MemberName = "Ana"
			parcels[i].MemberCPF = "12345678901"
			parcels[i].ClaimedAt = &now
		}
	}
	return parcels
}

func reqFor(item model.Item, total float64) model.ItemInput {
	return model.ItemInput{
		ID:            item.ID,
		Name:          item.Name,
		Unit:          item.Unit,
		PerPortion:    item.PerPortion,
		TotalQuantity: total,
	}
}

func TestReconcileGrow(t *testing.T) {
	item := testItem()
	parcels := testParcels(5, 2)

	plan, err := Reconcile(item, parcels, reqFor(item, 16))
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(plan.Keep) != 5 {
		t.Errorf("expected 5 kept parcels, got %d", len(plan.Keep))
	}
	if len(plan.Delete) != 0 {
		t.Errorf("expected no deletions, got %d", len(plan.Delete))
	}
	if plan.Create != 3 {
		t.Errorf("expected 3 new parcels, got %d", plan.Create)
	}
}

func TestReconcileShrinkKeepsClaimed(t *testing.T) {
	item := testItem()
	// Claim the last two parcels so shrink has to delete from the middle.
	parcels := testParcels(5, 0)
	now := time.Now()
	for i := 3; i < 5; i++ {
		parcels[i].MemberName = "Bruno"
		parcels[i].MemberCPF = "98765432100"
		parcels[i].ClaimedAt = &now
	}

	// 6/2 = 3 parcels desired: both claimed plus the earliest free one.
	plan, err := Reconcile(item, parcels, reqFor(item, 6))
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(plan.Keep) != 3 {
		t.Fatalf("expected 3 kept parcels, got %d", len(plan.Keep))
	}
	kept := make(map[string]bool)
	for _, p := range plan.Keep {
		kept[p.ID] = true
	}
	for i := 3; i < 5; i++ {
		if !kept[parcels[i].ID] {
			t.Errorf("claimed parcel %q was not kept", parcels[i].ID)
		}
	}
	if !kept["a"] {
		t.Error("expected earliest free parcel to be kept")
	}
	if len(plan.Delete) != 2 {
		t.Errorf("expected 2 deletions, got %d", len(plan.Delete))
	}
	if plan.Create != 0 {
		t.Errorf("expected no new parcels, got %d", plan.Create)
	}
}

func TestReconcileBelowClaimedFloor(t *testing.T) {
	item := testItem()
	parcels := testParcels(5, 3)

	// 4/2 = 2 desired parcels, but 3 are claimed.
	_, err := Reconcile(item, parcels, reqFor(item, 4))
	if !errors.Is(err, model.ErrBelowClaimedFloor) {
		t.Errorf("expected ErrBelowClaimedFloor, got %v", err)
	}
}

func TestReconcileImmutableFieldsWhileClaimed(t *testing.T) {
	item := testItem()
	parcels := testParcels(5, 1)

	req := reqFor(item, 10)
	req.PerPortion = 5
	req.TotalQuantity = 20
	if _, err := Reconcile(item, parcels, req); !errors.Is(err, model.ErrImmutableFieldChange) {
		t.Errorf("per-portion change: expected ErrImmutableFieldChange, got %v", err)
	}

	req = reqFor(item, 10)
	req.Name = "Beans"
	if _, err := Reconcile(item, parcels, req); !errors.Is(err, model.ErrImmutableFieldChange) {
		t.Errorf("name change: expected ErrImmutableFieldChange, got %v", err)
	}
}

func TestReconcileFieldsMutableWhenUnclaimed(t *testing.T) {
	item := testItem()
	parcels := testParcels(5, 0)

	req := model.ItemInput{
		ID:            item.ID,
		Name:          "Beans",
		Unit:          "g",
		PerPortion:    500,
		TotalQuantity: 1500,
	}
	plan, err := Reconcile(item, parcels, req)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(plan.Keep) != 3 || len(plan.Delete) != 2 || plan.Create != 0 {
		t.Errorf("plan = keep %d, delete %d, create %d; want 3/2/0",
			len(plan.Keep), len(plan.Delete), plan.Create)
	}
}

func TestReconcileDeterministic(t *testing.T) {
	item := testItem()
	parcels := testParcels(6, 2)
	req := reqFor(item, 8)

	first, err := Reconcile(item, parcels, req)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	for range 5 {
		again, err := Reconcile(item, parcels, req)
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		if len(again.Keep) != len(first.Keep) || again.Create != first.Create {
			t.Fatal("plan differs between runs for identical input")
		}
		for i := range again.Keep {
			if again.Keep[i].ID != first.Keep[i].ID {
				t.Fatalf("kept parcel order differs at %d: %q vs %q",
					i, again.Keep[i].ID, first.Keep[i].ID)
			}
		}
	}
}
