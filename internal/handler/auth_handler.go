package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"backoffice-gateway/internal/model"
	"backoffice-gateway/internal/session"
	"backoffice-gateway/internal/upstream"
	"backoffice-gateway/pkg/apierror"
)

const maxLoginBody = 16 << 10

type authAPI interface {
	Login(ctx context.Context, username string, password string) (upstream.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (upstream.LoginResult, error)
	Logout(ctx context.Context, accessToken string) error
}

type AuthHandler struct {
	api      authAPI
	validate *validator.Validate
}

func NewAuthHandler(api authAPI, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{api: api, validate: validate}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	svc, ok := session.ServiceFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrNotLoggedIn)
		return
	}

	var payload model.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	payload.Username = strings.TrimSpace(payload.Username)

	if err := h.validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.api.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := svc.Save(r.Context(), result.Blob()); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.NewSessionView(svc.Load(r.Context())), nil)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	svc, ok := session.ServiceFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrNotLoggedIn)
		return
	}

	refreshToken, ok := svc.RefreshToken(r.Context())
	if !ok || refreshToken == "" {
		writeError(w, model.ErrNotLoggedIn)
		return
	}

	result, err := h.api.Refresh(r.Context(), refreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := svc.UpdateCredentials(r.Context(), result.Credentials); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.NewSessionView(svc.Load(r.Context())), nil)
}

// Logout revokes upstream on a best effort basis, then clears every stored
// key for the client.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	svc, ok := session.ServiceFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrNotLoggedIn)
		return
	}

	if token, ok := svc.AccessToken(r.Context()); ok && token != "" {
		if err := h.api.Logout(r.Context(), token); err != nil {
			slog.Warn("upstream logout failed", "namespace", svc.Namespace(), "error", err)
		}
	}

	if err := svc.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"loggedOut": true}, nil)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	snap, ok := session.FromContext(r.Context())
	if !ok {
		svc, found := session.ServiceFromContext(r.Context())
		if !found {
			writeError(w, model.ErrNotLoggedIn)
			return
		}
		snap = svc.Load(r.Context())
	}

	writeSuccess(w, http.StatusOK, model.NewSessionView(snap), nil)
}
