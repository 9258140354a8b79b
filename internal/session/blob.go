// Package session reads and writes the serialized auth blob that holds the
// login flag, tokens, user profile, roles and ability rules of one client.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// BlobKey is the storage key of the auth blob.
	BlobKey = "authStore"

	SchoolStoreKey       = "schoolStore"
	GuestVisitStoreKey   = "guestVisitStore"
	BusinessUnitStoreKey = "businessUnitStore"
	ItemStoreKey         = "itemStore"
	OutletStoreKey       = "outletStore"
)

// ClearedKeys lists every key removed on logout, the blob first.
var ClearedKeys = []string{
	BlobKey,
	SchoolStoreKey,
	GuestVisitStoreKey,
	BusinessUnitStoreKey,
	ItemStoreKey,
	OutletStoreKey,
}

// Blob is the persisted shape of the session.
type Blob struct {
	IsLogin     bool         `json:"isLogin"`
	Credentials Credentials  `json:"credentials"`
	UserData    *UserProfile `json:"userData,omitempty"`
	Roles       []Role       `json:"roles"`
	Abilities   []Rule       `json:"abilities"`
}

type Credentials struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// storedCredentials keeps track of which token fields were present at all.
type storedCredentials struct {
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
}

// UserProfile is the userData section. Fields other than the named ones are
// kept verbatim in Extra and written back unchanged.
type UserProfile struct {
	UserID         string
	BusinessUnitID string
	Name           string
	Email          string
	Extra          map[string]json.RawMessage
}

var profileKnownKeys = map[string]struct{}{
	"userId":         {},
	"businessUnitId": {},
	"name":           {},
	"email":          {},
}

func (p UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.Extra)+4)
	for key, value := range p.Extra {
		if _, known := profileKnownKeys[key]; known {
			continue
		}
		out[key] = value
	}

	put := func(key string, value string) error {
		if value == "" {
			return nil
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		out[key] = encoded
		return nil
	}

	for key, value := range map[string]string{
		"userId":         p.UserID,
		"businessUnitId": p.BusinessUnitID,
		"name":           p.Name,
		"email":          p.Email,
	} {
		if err := put(key, value); err != nil {
			return nil, err
		}
	}

	return json.Marshal(out)
}

func (p *UserProfile) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("userData must be an object")
	}

	var profile UserProfile
	var err error
	if profile.UserID, err = decodeID(fields["userId"]); err != nil {
		return fmt.Errorf("userId: %w", err)
	}
	if profile.BusinessUnitID, err = decodeID(fields["businessUnitId"]); err != nil {
		return fmt.Errorf("businessUnitId: %w", err)
	}
	if profile.Name, err = decodeOptionalString(fields["name"]); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	if profile.Email, err = decodeOptionalString(fields["email"]); err != nil {
		return fmt.Errorf("email: %w", err)
	}

	for key, value := range fields {
		if _, known := profileKnownKeys[key]; known {
			continue
		}
		if profile.Extra == nil {
			profile.Extra = map[string]json.RawMessage{}
		}
		profile.Extra[key] = value
	}

	*p = profile
	return nil
}

type Role struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return fmt.Errorf("role id: %w", err)
	}

	*r = Role{ID: id, Name: raw.Name}
	return nil
}

// Rule is one ability rule consumed by the permission check.
type Rule struct {
	Action     string         `json:"action"`
	Subject    string         `json:"subject"`
	Inverted   bool           `json:"inverted,omitempty"`
	Fields     []string       `json:"fields,omitempty"`
	Conditions map[string]any `json:"conditions,omitempty"`
}

// decodeID accepts a JSON string or number and returns it as a string.
// A missing or null value decodes to "".
func decodeID(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var asNumber json.Number
	if err := decoder.Decode(&asNumber); err != nil {
		return "", fmt.Errorf("expected string or number")
	}
	if _, err := strconv.ParseFloat(asNumber.String(), 64); err != nil {
		return "", fmt.Errorf("expected string or number")
	}
	return asNumber.String(), nil
}

func decodeOptionalString(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", err
	}
	return value, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
