package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"backoffice-gateway/internal/model"
	"backoffice-gateway/internal/resource"
	"backoffice-gateway/internal/session"
)

// ResourceHandler proxies list and detail reads for every registered
// resource. Records pass through undecoded.
type ResourceHandler struct {
	registry *resource.Registry
	clients  map[string]*resource.Client[json.RawMessage]
}

func NewResourceHandler(registry *resource.Registry, doer resource.Doer, observer resource.RejectionObserver) *ResourceHandler {
	clients := make(map[string]*resource.Client[json.RawMessage])
	for _, name := range registry.Names() {
		def, _ := registry.Lookup(name)
		clients[name] = resource.NewClient[json.RawMessage](def, doer, observer)
	}
	return &ResourceHandler{registry: registry, clients: clients}
}

func (h *ResourceHandler) Index(w http.ResponseWriter, _ *http.Request) {
	names := h.registry.Names()
	infos := make([]model.ResourceInfo, 0, len(names))
	for _, name := range names {
		def, _ := h.registry.Lookup(name)
		infos = append(infos, model.ResourceInfo{Name: def.Name(), Subject: def.Subject(), Allow: def.AllowList()})
	}
	writeSuccess(w, http.StatusOK, infos, nil)
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	client, token, err := h.authorize(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := resource.ParseQuery(client.Definition(), r.URL.Query())
	page, err := client.List(r.Context(), token, q)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page.Data, model.MetaFrom(page.Meta))
}

func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, token, err := h.authorize(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, model.ErrInvalidInput)
		return
	}

	q := resource.ParseQuery(client.Definition(), r.URL.Query())
	record, err := client.Get(r.Context(), token, id, q)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, record, nil)
}

// authorize resolves the resource and checks that the session may read it.
func (h *ResourceHandler) authorize(r *http.Request) (*resource.Client[json.RawMessage], string, error) {
	client, ok := h.clients[chi.URLParam(r, "resource")]
	if !ok {
		return nil, "", model.ErrResourceNotFound
	}

	snap, ok := session.FromContext(r.Context())
	if !ok || !snap.IsLoggedIn() {
		return nil, "", model.ErrNotLoggedIn
	}
	if !snap.Ability().Can(session.ActionRead, client.Definition().Subject()) {
		return nil, "", model.ErrForbidden
	}

	token, _ := snap.AccessToken()
	return client, token, nil
}
