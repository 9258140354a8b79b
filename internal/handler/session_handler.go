package handler

import (
	"log/slog"
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"backoffice-gateway/internal/catalog"
	"backoffice-gateway/internal/middleware"
	"backoffice-gateway/internal/model"
	"backoffice-gateway/internal/resource"
	"backoffice-gateway/internal/session"
	"backoffice-gateway/internal/websocket"
)

type SessionHandler struct {
	hub      *websocket.Hub
	upgrader *gorillaws.Upgrader
	clients  *catalog.Clients
}

func NewSessionHandler(hub *websocket.Hub, upgrader *gorillaws.Upgrader, clients *catalog.Clients) *SessionHandler {
	return &SessionHandler{hub: hub, upgrader: upgrader, clients: clients}
}

// Events streams session.saved and session.cleared for the caller's own
// namespace, so other tabs of the same browser can follow login and logout.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	namespace, ok := middleware.NamespaceFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrNotLoggedIn)
		return
	}

	if err := h.hub.Serve(h.upgrader, w, r, namespace); err != nil {
		// The upgrader has already answered the request.
		slog.Warn("websocket upgrade failed", "namespace", namespace, "error", err)
	}
}

// BusinessUnit returns the business unit of the logged-in user with its
// outlets.
func (h *SessionHandler) BusinessUnit(w http.ResponseWriter, r *http.Request) {
	snap, ok := session.FromContext(r.Context())
	if !ok || !snap.IsLoggedIn() {
		writeError(w, model.ErrNotLoggedIn)
		return
	}

	user, ok := snap.CurrentUser()
	if !ok || user.BusinessUnitID == "" {
		writeError(w, model.ErrResourceNotFound)
		return
	}

	token, _ := snap.AccessToken()
	unit, err := h.clients.BusinessUnits.Get(r.Context(), token, user.BusinessUnitID, resource.Query{Include: []string{"outlets"}})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, unit, nil)
}
