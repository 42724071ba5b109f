package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"potluck/internal/model"
	"potluck/internal/parcel"
)

// querier is satisfied by both *sql.DB and *sql.Tx so list reads can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ListDetail is a list with its items and parcels, the unit the read
// endpoints work with.
type ListDetail struct {
	List    model.List
	Items   []model.Item
	Parcels []model.Parcel
}

// CreateList validates the input (reporting every violated field at once),
// expands each item-kind into its free parcels, and persists the whole list
// in a single transaction.
func CreateList(ctx context.Context, db *sql.DB, userID string, in model.CreateListInput) (*model.List, error) {
	eventDate, err := in.Validate()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	listID := uuid.NewString()
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO lists (id, user_id, location, event_date, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		listID, userID, in.Location, eventDate, in.Description, model.ListStatusActive, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating list: %w", err)
	}

	for i, it := range in.Items {
		if err := insertItemWithParcels(ctx, tx, listID, it, i, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing list: %w", err)
	}

	return GetList(ctx, db, listID)
}

// CreateListFromTemplate clones a list's item-kind definitions into a fresh
// list for the same owner: event date defaults to tomorrow, every parcel
// starts free. Claim state of the template is never copied.
func CreateListFromTemplate(ctx context.Context, db *sql.DB, userID, templateID string) (*model.List, error) {
	tmpl, err := GetList(ctx, db, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, model.ErrNotFound
	}
	if tmpl.UserID != userID {
		return nil, model.ErrNotOwner
	}

	items, err := listItems(ctx, db, templateID)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	listID := uuid.NewString()
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO lists (id, user_id, location, event_date, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		listID, userID, tmpl.Location, now.Add(24*time.Hour), tmpl.Description,
		model.ListStatusActive, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating list from template: %w", err)
	}

	for i, it := range items {
		in := model.ItemInput{
			Name:          it.Name,
			Unit:          it.Unit,
			PerPortion:    it.PerPortion,
			TotalQuantity: it.TotalQuantity,
		}
		if err := insertItemWithParcels(ctx, tx, listID, in, i, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing list: %w", err)
	}

	return GetList(ctx, db, listID)
}

// UpdateList edits a list's items as one atomic mutation. Mode "continue"
// reconciles each requested item-kind against its stored parcels without
// touching existing claims; mode "reset" releases every claim first and then
// runs the same path. The request carries the full item set: a stored
// item-kind missing from it is removed, which is refused while any of its
// parcels is claimed. Any rejection rolls back the whole edit.
func UpdateList(ctx context.Context, db *sql.DB, userID, listID string, in model.UpdateListInput) (*model.List, error) {
	eventDate, err := in.Validate()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := getOwnedList(ctx, tx, listID, userID); err != nil {
		return nil, err
	}

	if in.Mode == model.ModeReset {
		_, err = tx.ExecContext(ctx,
			`UPDATE parcels SET member_name = NULL, member_cpf = NULL, claimed_at = NULL
			 WHERE list_id = ?`, listID,
		)
		if err != nil {
			return nil, fmt.Errorf("releasing claims: %w", err)
		}
	}

	items, err := listItems(ctx, tx, listID)
	if err != nil {
		return nil, err
	}
	parcels, err := listParcels(ctx, tx, listID)
	if err != nil {
		return nil, err
	}

	parcelsByItem := make(map[string][]model.Parcel)
	for _, p := range parcels {
		parcelsByItem[p.ItemID] = append(parcelsByItem[p.ItemID], p)
	}
	storedByID := make(map[string]model.Item, len(items))
	for _, it := range items {
		storedByID[it.ID] = it
	}

	requested := make(map[string]bool)
	for _, req := range in.Items {
		if req.ID == "" {
			continue
		}
		if _, ok := storedByID[req.ID]; !ok {
			return nil, fmt.Errorf("item %s: %w", req.ID, model.ErrNotFound)
		}
		requested[req.ID] = true
	}

	// Remove stored item-kinds missing from the request. Never silently:
	// a claimed parcel blocks the removal and the whole edit.
	for _, it := range items {
		if requested[it.ID] {
			continue
		}
		for _, p := range parcelsByItem[it.ID] {
			if p.Claimed() {
				return nil, fmt.Errorf("item %q: %w", it.Name, model.ErrItemRemovalDenied)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, it.ID); err != nil {
			return nil, fmt.Errorf("removing item: %w", err)
		}
	}

	now := time.Now().UTC()
	for i, req := range in.Items {
		if req.ID == "" {
			if err := insertItemWithParcels(ctx, tx, listID, req, i, now); err != nil {
				return nil, err
			}
			continue
		}

		it := storedByID[req.ID]
		plan, err := parcel.Reconcile(it, parcelsByItem[it.ID], req)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", it.Name, err)
		}
		if err := applyPlan(ctx, tx, it, req, i, plan, now); err != nil {
			return nil, err
		}
	}

	if !eventDate.IsZero() {
		if _, err := tx.ExecContext(ctx,
			`UPDATE lists SET event_date = ? WHERE id = ?`, eventDate, listID); err != nil {
			return nil, fmt.Errorf("updating event date: %w", err)
		}
	}
	if in.Description != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE lists SET description = ? WHERE id = ?`, *in.Description, listID); err != nil {
			return nil, fmt.Errorf("updating description: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE lists SET updated_at = ? WHERE id = ?`, now, listID); err != nil {
		return nil, fmt.Errorf("updating list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	return GetList(ctx, db, listID)
}

// applyPlan persists a reconciliation plan for one item-kind: updates the
// definition, deletes surplus free parcels, and appends the missing ones.
func applyPlan(ctx context.Context, tx *sql.Tx, it model.Item, req model.ItemInput, position int, plan parcel.Plan, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE items SET name = ?, unit = ?, quantity_per_portion = ?, total_quantity = ?, position = ?
		 WHERE id = ?`,
		req.Name, req.Unit, req.PerPortion, req.TotalQuantity, position, it.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	for _, id := range plan.Delete {
		if _, err := tx.ExecContext(ctx, `DELETE FROM parcels WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting parcel: %w", err)
		}
	}

	next := 0
	for _, p := range plan.Keep {
		if p.Position >= next {
			next = p.Position + 1
		}
	}
	for i := 0; i < plan.Create; i++ {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO parcels (id, item_id, list_id, position, created_at) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), it.ID, it.ListID, next+i, now,
		)
		if err != nil {
			return fmt.Errorf("creating parcel: %w", err)
		}
	}

	return nil
}

// ToggleListStatus flips a list between active and archived. Parcels are
// untouched.
func ToggleListStatus(ctx context.Context, db *sql.DB, userID, listID string) (*model.List, error) {
	list, err := getOwnedList(ctx, db, listID, userID)
	if err != nil {
		return nil, err
	}

	status := model.ListStatusArchived
	if list.Status == model.ListStatusArchived {
		status = model.ListStatusActive
	}

	_, err = db.ExecContext(ctx,
		`UPDATE lists SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), listID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggling list status: %w", err)
	}

	return GetList(ctx, db, listID)
}

// DeleteList removes a list; items and parcels go with it via FK cascade.
func DeleteList(ctx context.Context, db *sql.DB, userID, listID string) error {
	if _, err := getOwnedList(ctx, db, listID, userID); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, listID); err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}
	return nil
}

// GetList returns a list by ID.
func GetList(ctx context.Context, db querier, id string) (*model.List, error) {
	return getList(ctx, db, id)
}

// GetListDetail returns a list with its items and parcels, or nil if the
// list doesn't exist.
func GetListDetail(ctx context.Context, db *sql.DB, id string) (*ListDetail, error) {
	list, err := getList(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}

	items, err := listItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	parcels, err := listParcels(ctx, db, id)
	if err != nil {
		return nil, err
	}

	return &ListDetail{List: *list, Items: items, Parcels: parcels}, nil
}

// ListsByOwner returns all lists owned by a user, newest first.
func ListsByOwner(ctx context.Context, db *sql.DB, userID string) ([]model.List, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, location, event_date, description, status, created_at, updated_at
		 FROM lists WHERE user_id = ? ORDER BY created_at DESC, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	return lists, rows.Err()
}

func scanList(rows *sql.Rows) (*model.List, error) {
	list := &model.List{}
	var description sql.NullString
	if err := rows.Scan(&list.ID, &list.UserID, &list.Location, &list.EventDate, &description,
		&list.Status, &list.CreatedAt, &list.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning list: %w", err)
	}
	list.Description = description.String
	return list, nil
}

func getList(ctx context.Context, q querier, id string) (*model.List, error) {
	list := &model.List{}
	var description sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, location, event_date, description, status, created_at, updated_at
		 FROM lists WHERE id = ?`, id,
	).Scan(&list.ID, &list.UserID, &list.Location, &list.EventDate, &description,
		&list.Status, &list.CreatedAt, &list.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting list: %w", err)
	}
	list.Description = description.String
	return list, nil
}

// getOwnedList loads a list and verifies the caller owns it.
func getOwnedList(ctx context.Context, q querier, listID, userID string) (*model.List, error) {
	list, err := getList(ctx, q, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, model.ErrNotFound
	}
	if list.UserID != userID {
		return nil, model.ErrNotOwner
	}
	return list, nil
}

func listItems(ctx context.Context, q querier, listID string) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, list_id, name, unit, quantity_per_portion, total_quantity, position, created_at
		 FROM items WHERE list_id = ? ORDER BY position, id`, listID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.ListID, &it.Name, &it.Unit, &it.PerPortion,
			&it.TotalQuantity, &it.Position, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// insertItemWithParcels creates an item-kind row and expands it into its
// free parcels.
func insertItemWithParcels(ctx context.Context, tx *sql.Tx, listID string, in model.ItemInput, position int, now time.Time) error {
	count, err := parcel.Count(in.TotalQuantity, in.PerPortion)
	if err != nil {
		return fmt.Errorf("item %q: %w", in.Name, err)
	}

	itemID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, list_id, name, unit, quantity_per_portion, total_quantity, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		itemID, listID, in.Name, in.Unit, in.PerPortion, in.TotalQuantity, position, now,
	)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	for i := 0; i < count; i++ {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO parcels (id, item_id, list_id, position, created_at) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), itemID, listID, i, now,
		)
		if err != nil {
			return fmt.Errorf("creating parcel: %w", err)
		}
	}

	return nil
}
