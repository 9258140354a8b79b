package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"backoffice-gateway/internal/session"
	"backoffice-gateway/internal/storage"
)

func serve(t *testing.T, handler http.Handler, blob string) *httptest.ResponseRecorder {
	t.Helper()

	store := storage.NewMemoryStore()
	if blob != "" {
		require.NoError(t, store.Set(context.Background(), session.BlobKey, blob))
	}
	ctx := session.WithService(context.Background(), session.NewService(store))

	rec := httptest.NewRecorder()
	LoadSession(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	return rec
}

func TestRequireLogin(t *testing.T) {
	t.Parallel()

	protected := RequireLogin(okHandler())

	cases := map[string]struct {
		blob   string
		status int
	}{
		"no session":     {blob: "", status: http.StatusUnauthorized},
		"malformed":      {blob: "{oops", status: http.StatusUnauthorized},
		"no credentials": {blob: `{"isLogin":true,"credentials":{}}`, status: http.StatusUnauthorized},
		"logged in":      {blob: `{"isLogin":true,"credentials":{"access_token":"abc"}}`, status: http.StatusOK},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.status, serve(t, protected, tc.blob).Code)
		})
	}
}

func TestRequireAbility(t *testing.T) {
	t.Parallel()

	protected := RequireAbility(session.ActionRead, "BusinessUnit")(okHandler())

	require.Equal(t, http.StatusUnauthorized, serve(t, protected, "").Code)
	require.Equal(t, http.StatusForbidden, serve(t, protected, `{"isLogin":true,"credentials":{"access_token":"abc"},"abilities":[{"action":"read","subject":"Item"}]}`).Code)
	require.Equal(t, http.StatusOK, serve(t, protected, `{"isLogin":true,"credentials":{"access_token":"abc"},"abilities":[{"action":"manage","subject":"all"}]}`).Code)
}

func TestLoadSessionWithoutServiceFails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	LoadSession(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
