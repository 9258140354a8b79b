package model

import "backoffice-gateway/internal/resource"

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code       string               `json:"code"`
	Message    string               `json:"message"`
	Details    string               `json:"details,omitempty"`
	Violations []resource.Violation `json:"violations,omitempty"`
}

type Meta struct {
	Page     int `json:"page"`
	PerPage  int `json:"perPage"`
	Total    int `json:"total"`
	LastPage int `json:"lastPage"`
	From     int `json:"from"`
	To       int `json:"to"`
}

func MetaFrom(m resource.Meta) *Meta {
	return &Meta{
		Page:     m.Page,
		PerPage:  m.PerPage,
		Total:    m.Total,
		LastPage: m.LastPage,
		From:     m.From,
		To:       m.To,
	}
}
