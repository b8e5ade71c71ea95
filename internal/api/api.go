// internal/api/api.go
//
// JSON surface over the structure engine.
//
// Context
// -------
// The API layer is deliberately thin: decode, stamp the actor, call the
// core, encode.  Business rules live in the mutation protocol and the
// derivation engine; nothing here inspects the graph.
//
// Authentication is an external collaborator.  The upstream proxy
// verifies the caller and forwards the identity in X-Actor-Email; requireActor
// rejects requests that arrive without it.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/seonet/internal/actor"
	"github.com/yanizio/seonet/internal/mutation"
	"github.com/yanizio/seonet/internal/structure"
)

// API bundles the collaborators the handlers need.
type API struct {
	DB       *sqlx.DB
	Reports  *structure.ReportCache
	Protocol *mutation.Protocol
}

// Router mounts every route under /api/v1.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireActor)

		r.Get("/domains", a.listDomains)
		r.Post("/domains", a.createDomain)

		r.Get("/networks", a.listNetworks)
		r.Post("/networks", a.createNetwork)
		r.Patch("/networks/{networkID}", a.renameNetwork)
		r.Delete("/networks/{networkID}", a.deleteNetwork)

		r.Get("/networks/{networkID}/report", a.tierReport)
		r.Post("/networks/{networkID}/entries", a.createNode)
		r.Post("/networks/{networkID}/main", a.switchMain)

		r.Patch("/entries/{entryID}", a.updateNode)
		r.Delete("/entries/{entryID}", a.deleteNode)

		r.Get("/networks/{networkID}/changelog", a.listChangeLog)
		r.Get("/networks/{networkID}/notifications", a.listNotifications)
		r.Post("/networks/{networkID}/notifications/read-all", a.markAllRead)
		r.Post("/notifications/{notificationID}/read", a.markRead)
	})

	return r
}

// requireActor copies the verified identity header into the request
// context and refuses anonymous requests.
func requireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.Header.Get("X-Actor-Email")
		if email == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "missing actor identity",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(actor.WithEmail(r.Context(), email)))
	})
}

// writeJSON encodes v with status.  Encode failures are logged, not
// surfaced; the status line has already been written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}
