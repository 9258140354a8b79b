package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"backoffice-gateway/internal/model"
	"backoffice-gateway/internal/resource"
	"backoffice-gateway/internal/session"
	"backoffice-gateway/pkg/apierror"
)

func TestWriteErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "query rejected", err: &resource.QueryError{Resource: "items", Violations: []resource.Violation{{Kind: resource.KindSort, Value: "cost"}}}, status: http.StatusBadRequest, code: "QUERY_NOT_ALLOWED"},
		{name: "upstream status kept", err: fmt.Errorf("list items: %w", apierror.Upstream(http.StatusUnauthorized, "token expired")), status: http.StatusUnauthorized, code: "UPSTREAM_401"},
		{name: "no session", err: session.ErrNoSession, status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "forbidden", err: model.ErrForbidden, status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "unknown resource", err: model.ErrResourceNotFound, status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "bad id", err: fmt.Errorf("get items: %w", resource.ErrInvalidID), status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "deadline", err: fmt.Errorf("list items: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout, code: "REQUEST_TIMEOUT"},
		{name: "transport", err: &url.Error{Op: "Get", URL: "http://upstream", Err: errors.New("connection refused")}, status: http.StatusBadGateway, code: "UPSTREAM_UNAVAILABLE"},
		{name: "unclassified", err: errors.New("boom"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			require.Equal(t, tc.status, rec.Code)

			var body model.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.False(t, body.Success)
			require.Equal(t, tc.code, body.Error.Code)
		})
	}
}
