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

// ListsHandler handles the owner-facing list endpoints.
type ListsHandler struct {
	DB *sql.DB
}

type fromTemplateRequest struct {
	TemplateListID string `json:"template_list_id"`
}

// itemDetail is an item-kind summary with its parcels.
type itemDetail struct {
	parcel.ItemSummary
	Parcels []model.Parcel `json:"parcels"`
}

// listResponse is the owner view of a list: the list itself plus per-item
// progress and the distinct participant count.
type listResponse struct {
	model.List
	Items            []itemDetail `json:"items"`
	ParticipantCount int          `json:"participant_count"`
	Available        bool         `json:"available"`
}

func buildListResponse(d *store.ListDetail) listResponse {
	parcelsByItem := make(map[string][]model.Parcel)
	for _, p := range d.Parcels {
		parcelsByItem[p.ItemID] = append(parcelsByItem[p.ItemID], p)
	}

	summaries := parcel.Summaries(d.Items, d.Parcels)
	items := make([]itemDetail, len(summaries))
	for i, s := range summaries {
		parcels := parcelsByItem[s.ItemID]
		if parcels == nil {
			parcels = []model.Parcel{}
		}
		items[i] = itemDetail{ItemSummary: s, Parcels: parcels}
	}

	return listResponse{
		List:             d.List,
		Items:            items,
		ParticipantCount: parcel.ParticipantCount(d.Parcels),
		Available:        parcel.EventAvailable(d.List, time.Now()),
	}
}

// List handles GET /api/lists.
func (h *ListsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	lists, err := store.ListsByOwner(r.Context(), h.DB, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	responses := []listResponse{}
	for _, l := range lists {
		detail, err := store.GetListDetail(r.Context(), h.DB, l.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if detail == nil {
			continue
		}
		responses = append(responses, buildListResponse(detail))
	}

	jsonResponse(w, http.StatusOK, responses)
}

// Get handles GET /api/lists/{id}.
func (h *ListsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	detail, err := store.GetListDetail(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if detail == nil {
		writeError(w, model.ErrNotFound)
		return
	}
	if detail.List.UserID != claims.UserID {
		writeError(w, model.ErrNotOwner)
		return
	}

	jsonResponse(w, http.StatusOK, buildListResponse(detail))
}

// Create handles POST /api/lists.
func (h *ListsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var in model.CreateListInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := store.CreateList(r.Context(), h.DB, claims.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("list created", "list_id", list.ID, "owner", claims.UserID)
	h.respondDetail(w, r, http.StatusCreated, list.ID)
}

// CreateFromTemplate handles POST /api/lists/from-template.
func (h *ListsHandler) CreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req fromTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TemplateListID == "" {
		jsonError(w, http.StatusBadRequest, "template_list_id required")
		return
	}

	list, err := store.CreateListFromTemplate(r.Context(), h.DB, claims.UserID, req.TemplateListID)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("list created from template", "list_id", list.ID, "template_id", req.TemplateListID)
	h.respondDetail(w, r, http.StatusCreated, list.ID)
}

// Update handles PUT /api/lists/{id}.
func (h *ListsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	listID := r.PathValue("id")

	var in model.UpdateListInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := store.UpdateList(r.Context(), h.DB, claims.UserID, listID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("list updated", "list_id", list.ID, "mode", in.Mode)
	h.respondDetail(w, r, http.StatusOK, list.ID)
}

// ToggleStatus handles PATCH /api/lists/{id}/status.
func (h *ListsHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	list, err := store.ToggleListStatus(r.Context(), h.DB, claims.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, list)
}

// Delete handles DELETE /api/lists/{id}.
func (h *ListsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	listID := r.PathValue("id")

	if err := store.DeleteList(r.Context(), h.DB, claims.UserID, listID); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("list deleted", "list_id", listID, "owner", claims.UserID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "list deleted"})
}

func (h *ListsHandler) respondDetail(w http.ResponseWriter, r *http.Request, status int, listID string) {
	detail, err := store.GetListDetail(r.Context(), h.DB, listID)
	if err != nil || detail == nil {
		jsonError(w, http.StatusInternalServerError, "failed to load list")
		return
	}
	jsonResponse(w, status, buildListResponse(detail))
}
