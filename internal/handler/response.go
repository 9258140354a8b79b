package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"backoffice-gateway/internal/model"
	"backoffice-gateway/internal/resource"
	"backoffice-gateway/internal/session"
	"backoffice-gateway/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, payload model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	writeJSON(w, status, model.APIResponse{Success: true, Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var (
		apiErr        *apierror.APIError
		queryErr      *resource.QueryError
		validationErr validator.ValidationErrors
		transportErr  *url.Error
	)

	switch {
	case errors.As(err, &queryErr):
		status = http.StatusBadRequest
		body.Code = "QUERY_NOT_ALLOWED"
		body.Message = "Query contains entries outside the resource allow-lists"
		body.Details = queryErr.Resource
		body.Violations = queryErr.Violations
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		body.Code = "VALIDATION_FAILED"
		body.Message = "Request body failed validation"
		body.Details = validationDetails(validationErr)
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrMalformedSession), errors.Is(err, model.ErrNotLoggedIn):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	case errors.Is(err, model.ErrResourceNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Resource not found"
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, resource.ErrInvalidID):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
		body.Details = err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		body.Code = "REQUEST_TIMEOUT"
		body.Message = "Request timed out"
	case errors.As(err, &transportErr):
		status = http.StatusBadGateway
		body.Code = "UPSTREAM_UNAVAILABLE"
		body.Message = "Back-office API is unreachable"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.APIResponse{Success: false, Error: body})
}

func validationDetails(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		parts = append(parts, strings.ToLower(fieldErr.Field())+":"+fieldErr.Tag())
	}
	return strings.Join(parts, ",")
}
