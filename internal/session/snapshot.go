package session

import (
	"encoding/json"
	"log/slog"
	"slices"
)

// Status tells how the stored blob was read.
type Status string

const (
	StatusPresent   Status = "present"
	StatusAbsent    Status = "absent"
	StatusMalformed Status = "malformed"
)

// Snapshot is an immutable view of the blob as it was at load time. Every
// accessor degrades to absent or empty; none of them fail.
type Snapshot struct {
	status      Status
	isLogin     bool
	credentials *storedCredentials
	user        *UserProfile
	roles       []Role
	hasRoles    bool
	abilities   json.RawMessage
}

// Parse builds a snapshot from the raw stored value. found reports whether
// the storage key existed.
func Parse(raw string, found bool) Snapshot {
	if !found {
		return Snapshot{status: StatusAbsent}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return Snapshot{status: StatusMalformed}
	}

	snap := Snapshot{status: StatusPresent}

	if value, ok := fields["isLogin"]; ok {
		var isLogin bool
		if err := json.Unmarshal(value, &isLogin); err == nil {
			snap.isLogin = isLogin
		}
	}

	if value, ok := fields["credentials"]; ok && !isNull(value) {
		var credentials storedCredentials
		if err := json.Unmarshal(value, &credentials); err == nil {
			snap.credentials = &credentials
		}
	}

	if value, ok := fields["userData"]; ok && !isNull(value) {
		var user UserProfile
		if err := json.Unmarshal(value, &user); err == nil {
			snap.user = &user
		}
	}

	if value, ok := fields["roles"]; ok && !isNull(value) {
		var roles []Role
		if err := json.Unmarshal(value, &roles); err == nil {
			snap.roles = roles
			snap.hasRoles = true
		}
	}

	if value, ok := fields["abilities"]; ok {
		snap.abilities = value
	}

	return snap
}

func (s Snapshot) Status() Status {
	if s.status == "" {
		return StatusAbsent
	}
	return s.status
}

// IsLoggedIn requires both the stored flag and a non-empty access token.
func (s Snapshot) IsLoggedIn() bool {
	token, ok := s.AccessToken()
	return s.isLogin && ok && token != ""
}

func (s Snapshot) AccessToken() (string, bool) {
	if s.credentials == nil || s.credentials.AccessToken == nil {
		return "", false
	}
	return *s.credentials.AccessToken, true
}

func (s Snapshot) RefreshToken() (string, bool) {
	if s.credentials == nil || s.credentials.RefreshToken == nil {
		return "", false
	}
	return *s.credentials.RefreshToken, true
}

func (s Snapshot) CurrentUserID() (string, bool) {
	if s.user == nil || s.user.UserID == "" {
		return "", false
	}
	return s.user.UserID, true
}

func (s Snapshot) CurrentUser() (UserProfile, bool) {
	if s.user == nil {
		return UserProfile{}, false
	}
	return cloneProfile(*s.user), true
}

func (s Snapshot) Roles() ([]Role, bool) {
	if !s.hasRoles {
		return nil, false
	}
	return slices.Clone(s.roles), true
}

// HasRole reports whether any stored role carries name.
func (s Snapshot) HasRole(name string) bool {
	for _, role := range s.roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// AbilityRules returns the stored rules. Parse failures are logged and
// yield an empty list, so a broken blob grants nothing.
func (s Snapshot) AbilityRules() []Rule {
	switch s.Status() {
	case StatusAbsent:
		return []Rule{}
	case StatusMalformed:
		slog.Warn("session blob is malformed; using empty ability rules")
		return []Rule{}
	}

	if isNull(s.abilities) {
		return []Rule{}
	}

	var rules []Rule
	if err := json.Unmarshal(s.abilities, &rules); err != nil {
		slog.Warn("failed to parse ability rules; using empty list", "error", err)
		return []Rule{}
	}
	if rules == nil {
		return []Rule{}
	}
	return rules
}

func (s Snapshot) Ability() Ability {
	return NewAbility(s.AbilityRules())
}

func cloneProfile(p UserProfile) UserProfile {
	out := p
	if p.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for key, value := range p.Extra {
			out.Extra[key] = slices.Clone(value)
		}
	}
	return out
}
