package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"backoffice-gateway/internal/storage"
)

func TestSnapshotScenarioBlob(t *testing.T) {
	t.Parallel()

	snap := Parse(`{"isLogin":true,"credentials":{"access_token":"abc","refresh_token":"def"},"userData":{"userId":"u1"}}`, true)

	require.Equal(t, StatusPresent, snap.Status())
	require.True(t, snap.IsLoggedIn())

	access, ok := snap.AccessToken()
	require.True(t, ok)
	require.Equal(t, "abc", access)

	refresh, ok := snap.RefreshToken()
	require.True(t, ok)
	require.Equal(t, "def", refresh)

	userID, ok := snap.CurrentUserID()
	require.True(t, ok)
	require.Equal(t, "u1", userID)

	_, ok = snap.Roles()
	require.False(t, ok)
	require.Empty(t, snap.AbilityRules())
}

func TestSnapshotDegradesForMalformedOrAbsentBlobs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		raw    string
		found  bool
		status Status
	}{
		{name: "absent", raw: "", found: false, status: StatusAbsent},
		{name: "empty string", raw: "", found: true, status: StatusMalformed},
		{name: "truncated json", raw: `{"isLogin":true,"credentials":`, found: true, status: StatusMalformed},
		{name: "json null", raw: "null", found: true, status: StatusMalformed},
		{name: "json array", raw: `[1,2,3]`, found: true, status: StatusMalformed},
		{name: "json string", raw: `"authStore"`, found: true, status: StatusMalformed},
		{name: "wrong field types", raw: `{"isLogin":"yes","credentials":"abc","userData":7,"roles":{},"abilities":"all"}`, found: true, status: StatusPresent},
		{name: "empty object", raw: `{}`, found: true, status: StatusPresent},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			snap := Parse(tc.raw, tc.found)
			require.Equal(t, tc.status, snap.Status())
			require.False(t, snap.IsLoggedIn())

			_, ok := snap.AccessToken()
			require.False(t, ok)
			_, ok = snap.RefreshToken()
			require.False(t, ok)
			_, ok = snap.CurrentUserID()
			require.False(t, ok)
			_, ok = snap.CurrentUser()
			require.False(t, ok)
			_, ok = snap.Roles()
			require.False(t, ok)

			rules := snap.AbilityRules()
			require.NotNil(t, rules)
			require.Empty(t, rules)
			require.False(t, snap.Ability().Can(ActionRead, "Item"))
		})
	}
}

func TestIsLoggedInRequiresNonEmptyAccessToken(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no credentials":       `{"isLogin":true}`,
		"empty credentials":    `{"isLogin":true,"credentials":{}}`,
		"empty access token":   `{"isLogin":true,"credentials":{"access_token":""}}`,
		"null access token":    `{"isLogin":true,"credentials":{"access_token":null,"refresh_token":"r"}}`,
		"flag false":           `{"isLogin":false,"credentials":{"access_token":"abc"}}`,
		"flag missing":         `{"credentials":{"access_token":"abc"}}`,
		"null credentials":     `{"isLogin":true,"credentials":null}`,
		"numeric access token": `{"isLogin":true,"credentials":{"access_token":123}}`,
	}

	for name, raw := range cases {
		raw := raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.False(t, Parse(raw, true).IsLoggedIn())
		})
	}
}

func TestEmptyAccessTokenIsPresentButNotLoggedIn(t *testing.T) {
	t.Parallel()

	snap := Parse(`{"isLogin":true,"credentials":{"access_token":""}}`, true)
	token, ok := snap.AccessToken()
	require.True(t, ok)
	require.Equal(t, "", token)
	require.False(t, snap.IsLoggedIn())
}

func TestMalformedAbilitiesDoNotAffectOtherFields(t *testing.T) {
	t.Parallel()

	snap := Parse(`{"isLogin":true,"credentials":{"access_token":"abc"},"roles":[{"id":1,"name":"cashier"}],"abilities":[{"action":["read"],"subject":"Item"}]}`, true)

	require.True(t, snap.IsLoggedIn())
	roles, ok := snap.Roles()
	require.True(t, ok)
	require.Equal(t, []Role{{ID: "1", Name: "cashier"}}, roles)
	require.True(t, snap.HasRole("cashier"))
	require.Equal(t, []Rule{}, snap.AbilityRules())
}

func TestUserProfileAcceptsNumericIDsAndKeepsExtraFields(t *testing.T) {
	t.Parallel()

	snap := Parse(`{"userData":{"userId":42,"businessUnitId":"bu-7","name":"Sari","phone":"0812","outlets":[1,2]}}`, true)

	user, ok := snap.CurrentUser()
	require.True(t, ok)
	require.Equal(t, "42", user.UserID)
	require.Equal(t, "bu-7", user.BusinessUnitID)
	require.Equal(t, "Sari", user.Name)
	require.JSONEq(t, `"0812"`, string(user.Extra["phone"]))
	require.JSONEq(t, `[1,2]`, string(user.Extra["outlets"]))

	encoded, err := json.Marshal(user)
	require.NoError(t, err)
	require.JSONEq(t, `{"userId":"42","businessUnitId":"bu-7","name":"Sari","phone":"0812","outlets":[1,2]}`, string(encoded))
}

func TestCurrentUserReturnsCopy(t *testing.T) {
	t.Parallel()

	snap := Parse(`{"userData":{"userId":"u1","tags":["a"]}}`, true)
	user, ok := snap.CurrentUser()
	require.True(t, ok)
	user.Extra["tags"][0] = 'X'
	user.UserID = "changed"

	again, _ := snap.CurrentUser()
	require.Equal(t, "u1", again.UserID)
	require.JSONEq(t, `["a"]`, string(again.Extra["tags"]))
}

func TestSaveThenLoadRoundTripsEveryField(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(storage.NewMemoryStore())

	blob := Blob{
		IsLogin:     true,
		Credentials: Credentials{AccessToken: "access.jwt.value", RefreshToken: "refresh-opaque"},
		UserData: &UserProfile{
			UserID:         "u-1001",
			BusinessUnitID: "bu-3",
			Name:           "Dewi",
			Email:          "dewi@example.com",
			Extra:          map[string]json.RawMessage{"avatar": json.RawMessage(`"a.png"`)},
		},
		Roles: []Role{{ID: "3", Name: "supervisor"}, {ID: "1", Name: "admin"}, {ID: "2", Name: "cashier"}},
		Abilities: []Rule{
			{Action: "read", Subject: "Item"},
			{Action: "manage", Subject: "Sale"},
			{Action: "delete", Subject: "Sale", Inverted: true},
			{Action: "update", Subject: "Item", Fields: []string{"price"}, Conditions: map[string]any{"outletId": "o-1"}},
		},
	}
	require.NoError(t, svc.Save(ctx, blob))

	require.True(t, svc.IsLoggedIn(ctx))

	access, ok := svc.AccessToken(ctx)
	require.True(t, ok)
	require.Equal(t, blob.Credentials.AccessToken, access)

	refresh, ok := svc.RefreshToken(ctx)
	require.True(t, ok)
	require.Equal(t, blob.Credentials.RefreshToken, refresh)

	userID, ok := svc.CurrentUserID(ctx)
	require.True(t, ok)
	require.Equal(t, "u-1001", userID)

	user, ok := svc.CurrentUser(ctx)
	require.True(t, ok)
	require.Equal(t, *blob.UserData, user)

	roles, ok := svc.Roles(ctx)
	require.True(t, ok)
	require.Equal(t, blob.Roles, roles)

	require.Equal(t, blob.Abilities, svc.AbilityRules(ctx))
}

func TestSaveWithNoRolesStoresEmptyLists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(storage.NewMemoryStore())
	require.NoError(t, svc.Save(ctx, Blob{IsLogin: true, Credentials: Credentials{AccessToken: "t"}}))

	roles, ok := svc.Roles(ctx)
	require.True(t, ok)
	require.Empty(t, roles)
	require.Equal(t, []Rule{}, svc.AbilityRules(ctx))
}
