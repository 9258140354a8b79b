package model

import (
	"backoffice-gateway/internal/resource"
	"backoffice-gateway/internal/session"
)

// SessionView is what the browser sees of its session. Tokens stay server side.
type SessionView struct {
	IsLoggedIn bool                 `json:"isLoggedIn"`
	Status     string               `json:"status"`
	User       *session.UserProfile `json:"user,omitempty"`
	Roles      []session.Role       `json:"roles"`
	Abilities  []session.Rule       `json:"abilities"`
}

func NewSessionView(snap session.Snapshot) SessionView {
	view := SessionView{
		IsLoggedIn: snap.IsLoggedIn(),
		Status:     string(snap.Status()),
		Roles:      []session.Role{},
		Abilities:  snap.AbilityRules(),
	}
	if user, ok := snap.CurrentUser(); ok {
		view.User = &user
	}
	if roles, ok := snap.Roles(); ok {
		view.Roles = roles
	}
	return view
}

type ResourceInfo struct {
	Name    string             `json:"name"`
	Subject string             `json:"subject"`
	Allow   resource.AllowList `json:"allow"`
}
