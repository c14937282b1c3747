package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/inventory"
	"github.com/erazemk/zaloga/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sqlx.DB, svc *inventory.Service, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	labelsHandler := &LabelsHandler{DB: db}
	groupsHandler := &GroupsHandler{Service: svc}
	unitsHandler := &UnitsHandler{Service: svc}
	stockHandler := &StockHandler{Service: svc}
	binHandler := &RecycleBinHandler{Service: svc}
	eventsHandler := &EventsHandler{DB: db}
	holdingsHandler := &HoldingsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireManager := RequireRole(model.RoleManager)

	read := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	write := func(h http.HandlerFunc) http.Handler { return authMW(requireManager(h)) }

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("POST /api/auth/logout", read(authHandler.Logout))
	mux.Handle("PUT /api/auth/password", read(authHandler.ChangePassword))

	mux.Handle("GET /api/labels", read(labelsHandler.List))

	// Groups and units: read (all roles), write (manager+).
	mux.Handle("GET /api/groups", read(groupsHandler.List))
	mux.Handle("GET /api/groups/breakdown", read(groupsHandler.Breakdown))
	mux.Handle("POST /api/groups/delete", write(groupsHandler.Delete))

	mux.Handle("POST /api/units", write(unitsHandler.Create))
	mux.Handle("PUT /api/units/{id}", write(unitsHandler.Update))
	mux.Handle("DELETE /api/units/{id}", write(unitsHandler.Delete))

	mux.Handle("POST /api/stock/adjust", write(stockHandler.Adjust))
	mux.Handle("POST /api/stock/transfer", write(stockHandler.Transfer))
	mux.Handle("POST /api/stock/operations", write(stockHandler.Operation))

	mux.Handle("GET /api/recycle-bin", read(binHandler.List))
	mux.Handle("POST /api/recycle-bin/{id}/restore", write(binHandler.Restore))

	mux.Handle("GET /api/events", read(eventsHandler.List))

	// Ownership facts from the request/return workflow.
	mux.Handle("GET /api/holders", read(holdingsHandler.ListHolders))
	mux.Handle("POST /api/holders", write(holdingsHandler.CreateHolder))
	mux.Handle("POST /api/holdings", write(holdingsHandler.SetHolding))

	return mux
}
