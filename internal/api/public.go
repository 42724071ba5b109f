package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"potluck/internal/model"
	"potluck/internal/parcel"
	"potluck/internal/store"
)

// PublicHandler handles the participant-facing endpoints. No account or
// token: participants identify themselves with a name and an 11-digit CPF.
type PublicHandler struct {
	DB *sql.DB
}

type registerMemberRequest struct {
	ParcelID string `json:"parcel_id"`
	Name     string `json:"name"`
	CPF      string `json:"cpf"`
}

type unregisterMemberRequest struct {
	CPF string `json:"cpf"`
}

// publicParcel is one claimable slot as shown to participants. The CPF of
// whoever claimed it is never exposed.
type publicParcel struct {
	ID         string  `json:"id"`
	ItemName   string  `json:"item_name"`
	Unit       string  `json:"unit"`
	PerPortion float64 `json:"quantity_per_portion"`
	MemberName string  `json:"member_name,omitempty"`
}

type publicListResponse struct {
	ID        string         `json:"id"`
	Location  string         `json:"location"`
	EventDate time.Time      `json:"event_date"`
	Status    string         `json:"status"`
	Available bool           `json:"available"`
	Items     []publicParcel `json:"items"`
}

// Get handles GET /api/lists/public/{id}.
func (h *PublicHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := store.GetListDetail(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if detail == nil {
		writeError(w, model.ErrNotFound)
		return
	}

	itemsByID := make(map[string]model.Item, len(detail.Items))
	for _, it := range detail.Items {
		itemsByID[it.ID] = it
	}

	parcels := make([]publicParcel, 0, len(detail.Parcels))
	for _, p := range detail.Parcels {
		it := itemsByID[p.ItemID]
		parcels = append(parcels, publicParcel{
			ID:         p.ID,
			ItemName:   it.Name,
			Unit:       it.Unit,
			PerPortion: it.PerPortion,
			MemberName: p.MemberName,
		})
	}

	jsonResponse(w, http.StatusOK, publicListResponse{
		ID:        detail.List.ID,
		Location:  detail.List.Location,
		EventDate: detail.List.EventDate,
		Status:    detail.List.Status,
		Available: parcel.EventAvailable(detail.List, time.Now()),
		Items:     parcels,
	})
}

// Register handles POST /api/lists/{id}/register.
func (h *PublicHandler) Register(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")

	var req registerMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ParcelID == "" {
		jsonError(w, http.StatusBadRequest, "parcel_id required")
		return
	}

	p, err := store.RegisterMember(r.Context(), h.DB, listID, req.ParcelID, req.Name, req.CPF)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("parcel claimed", "list_id", listID, "parcel_id", p.ID)
	jsonResponse(w, http.StatusCreated, map[string]string{"message": "registered"})
}

// Unregister handles DELETE /api/lists/{id}/parcels/{parcelID}/register.
func (h *PublicHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	parcelID := r.PathValue("parcelID")

	var req unregisterMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UnregisterMember(r.Context(), h.DB, listID, parcelID, req.CPF); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("parcel released", "list_id", listID, "parcel_id", parcelID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "registration cancelled"})
}
