package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	listsHandler := &ListsHandler{DB: db}
	publicHandler := &PublicHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Owner routes (authenticated).
	mux.Handle("GET /api/lists", authMW(http.HandlerFunc(listsHandler.List)))
	mux.Handle("POST /api/lists", authMW(http.HandlerFunc(listsHandler.Create)))
	mux.Handle("POST /api/lists/from-template", authMW(http.HandlerFunc(listsHandler.CreateFromTemplate)))
	mux.Handle("GET /api/lists/{id}", authMW(http.HandlerFunc(listsHandler.Get)))
	mux.Handle("PUT /api/lists/{id}", authMW(http.HandlerFunc(listsHandler.Update)))
	mux.Handle("PATCH /api/lists/{id}/status", authMW(http.HandlerFunc(listsHandler.ToggleStatus)))
	mux.Handle("DELETE /api/lists/{id}", authMW(http.HandlerFunc(listsHandler.Delete)))

	// Public: shared list view and self-service registration.
	mux.HandleFunc("GET /api/lists/public/{id}", publicHandler.Get)
	mux.HandleFunc("POST /api/lists/{id}/register", publicHandler.Register)
	mux.HandleFunc("DELETE /api/lists/{id}/parcels/{parcelID}/register", publicHandler.Unregister)

	return CORSMiddleware(mux)
}
