package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthReportsDependencies(t *testing.T) {
	t.Parallel()

	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	cases := []struct {
		name    string
		checks  map[string]HealthCheck
		status  int
		overall string
	}{
		{name: "no dependencies", checks: nil, status: http.StatusOK, overall: "ok"},
		{name: "all healthy", checks: map[string]HealthCheck{"redis": healthy}, status: http.StatusOK, overall: "ok"},
		{name: "one down", checks: map[string]HealthCheck{"redis": healthy, "postgres": down}, status: http.StatusServiceUnavailable, overall: "degraded"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			NewHealthHandler(tc.checks).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tc.status, rec.Code)

			var body struct {
				Success bool         `json:"success"`
				Data    HealthReport `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.overall, body.Data.Status)
			require.Equal(t, tc.status == http.StatusOK, body.Success)
			require.Len(t, body.Data.Checks, len(tc.checks))
			for name := range tc.checks {
				require.Contains(t, body.Data.Checks, name)
			}
			require.NotContains(t, rec.Body.String(), "connection refused")
			if tc.overall == "degraded" {
				require.Equal(t, "unavailable", body.Data.Checks["postgres"])
				require.Equal(t, "ok", body.Data.Checks["redis"])
			}
		})
	}
}
