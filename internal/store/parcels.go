package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"potluck/internal/model"
)

// RegisterMember claims a free parcel for a participant. Preconditions are
// checked in a fixed order so each failure is distinguishable, and the claim
// itself is a conditional update keyed on the parcel still being free: of
// two concurrent registrations for the same parcel exactly one wins, the
// other observes ErrParcelClaimed.
func RegisterMember(ctx context.Context, db *sql.DB, listID, parcelID, name, cpf string) (*model.Parcel, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	list, err := getList(ctx, tx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, model.ErrNotFound
	}
	if list.Status != model.ListStatusActive {
		return nil, model.ErrListArchived
	}
	if !list.EventDate.After(time.Now()) {
		return nil, model.ErrEventExpired
	}

	p, err := getParcel(ctx, tx, parcelID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ListID != listID {
		return nil, model.ErrNotFound
	}
	if p.Claimed() {
		return nil, model.ErrParcelClaimed
	}

	if !model.ValidCPF(cpf) {
		return nil, model.ErrInvalidIdentifier
	}
	if name == "" {
		return nil, model.ErrInvalidName
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE parcels SET member_name = ?, member_cpf = ?, claimed_at = ?
		 WHERE id = ? AND member_cpf IS NULL`,
		name, cpf, time.Now().UTC(), parcelID,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming parcel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Someone else claimed it between our read and the update.
		return nil, model.ErrParcelClaimed
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	return GetParcel(ctx, db, parcelID)
}

// UnregisterMember releases a claimed parcel. Matching the stored identifier
// is the only authorization for self-service cancellation.
func UnregisterMember(ctx context.Context, db *sql.DB, listID, parcelID, cpf string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := getParcel(ctx, tx, parcelID)
	if err != nil {
		return err
	}
	if p == nil || p.ListID != listID {
		return model.ErrNotFound
	}
	if !p.Claimed() {
		return model.ErrParcelNotClaimed
	}
	if p.MemberCPF != cpf {
		return model.ErrIdentifierMismatch
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE parcels SET member_name = NULL, member_cpf = NULL, claimed_at = NULL
		 WHERE id = ? AND member_cpf = ?`,
		parcelID, cpf,
	)
	if err != nil {
		return fmt.Errorf("releasing parcel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrIdentifierMismatch
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing release: %w", err)
	}
	return nil
}

// GetParcel returns a parcel by ID.
func GetParcel(ctx context.Context, db querier, id string) (*model.Parcel, error) {
	return getParcel(ctx, db, id)
}

// ListParcels returns all parcels of a list in item/position order.
func ListParcels(ctx context.Context, db *sql.DB, listID string) ([]model.Parcel, error) {
	return listParcels(ctx, db, listID)
}

func getParcel(ctx context.Context, q querier, id string) (*model.Parcel, error) {
	p := &model.Parcel{}
	var name, cpf sql.NullString
	var claimedAt sql.NullTime
	err := q.QueryRowContext(ctx,
		`SELECT id, item_id, list_id, position, member_name, member_cpf, claimed_at, created_at
		 FROM parcels WHERE id = ?`, id,
	).Scan(&p.ID, &p.ItemID, &p.ListID, &p.Position, &name, &cpf, &claimedAt, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting parcel: %w", err)
	}
	p.MemberName = name.String
	p.MemberCPF = cpf.String
	if claimedAt.Valid {
		t := claimedAt.Time
		p.ClaimedAt = &t
	}
	return p, nil
}

func listParcels(ctx context.Context, q querier, listID string) ([]model.Parcel, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT p.id, p.item_id, p.list_id, p.position, p.member_name, p.member_cpf, p.claimed_at, p.created_at
		 FROM parcels p
		 JOIN items i ON i.id = p.item_id
		 WHERE p.list_id = ?
		 ORDER BY i.position, p.position, p.id`, listID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing parcels: %w", err)
	}
	defer rows.Close()

	var parcels []model.Parcel
	for rows.Next() {
		var p model.Parcel
		var name, cpf sql.NullString
		var claimedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.ItemID, &p.ListID, &p.Position, &name, &cpf,
			&claimedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning parcel: %w", err)
		}
		p.MemberName = name.String
		p.MemberCPF = cpf.String
		if claimedAt.Valid {
			t := claimedAt.Time
			p.ClaimedAt = &t
		}
		parcels = append(parcels, p)
	}
	return parcels, rows.Err()
}
