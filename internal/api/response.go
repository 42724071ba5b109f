package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"potluck/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("error encoding response: %v", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// writeError maps domain error kinds to HTTP statuses. Anything not in the
// taxonomy is a storage/internal failure and surfaces as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidIdentifier),
		errors.Is(err, model.ErrInvalidName),
		errors.Is(err, model.ErrInvalidQuantity):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrNotOwner),
		errors.Is(err, model.ErrIdentifierMismatch):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrEmailTaken),
		errors.Is(err, model.ErrListArchived),
		errors.Is(err, model.ErrEventExpired),
		errors.Is(err, model.ErrParcelClaimed),
		errors.Is(err, model.ErrParcelNotClaimed),
		errors.Is(err, model.ErrBelowClaimedFloor),
		errors.Is(err, model.ErrImmutableFieldChange),
		errors.Is(err, model.ErrItemRemovalDenied):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("internal error: %v", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
