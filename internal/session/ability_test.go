package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbilityRules(t *testing.T) {
	t.Parallel()

	ability := NewAbility([]Rule{
		{Action: "read", Subject: "Item"},
		{Action: "manage", Subject: "Sale"},
		{Action: "delete", Subject: "Sale", Inverted: true},
		{Action: "read", Subject: "all"},
		{Action: "read", Subject: "Employee", Inverted: true},
	})

	t.Run("exact match", func(t *testing.T) {
		require.True(t, ability.Can("read", "Item"))
	})

	t.Run("manage covers every action", func(t *testing.T) {
		require.True(t, ability.Can("create", "Sale"))
		require.True(t, ability.Can("update", "Sale"))
	})

	t.Run("later inverted rule wins", func(t *testing.T) {
		require.False(t, ability.Can("delete", "Sale"))
		require.True(t, ability.Cannot("delete", "Sale"))
	})

	t.Run("all covers every subject", func(t *testing.T) {
		require.True(t, ability.Can("read", "Outlet"))
		require.False(t, ability.Can("update", "Outlet"))
	})

	t.Run("inverted after all denies", func(t *testing.T) {
		require.False(t, ability.Can("read", "Employee"))
	})

	t.Run("no rules deny", func(t *testing.T) {
		require.False(t, NewAbility(nil).Can("read", "Item"))
	})
}

func TestAbilityEarlierRuleOverriddenByLaterGrant(t *testing.T) {
	t.Parallel()

	ability := NewAbility([]Rule{
		{Action: "manage", Subject: "all", Inverted: true},
		{Action: "read", Subject: "Item"},
	})
	require.True(t, ability.Can("read", "Item"))
	require.False(t, ability.Can("read", "Sale"))
}

func TestAbilityCopiesRules(t *testing.T) {
	t.Parallel()

	rules := []Rule{{Action: "read", Subject: "Item"}}
	ability := NewAbility(rules)
	rules[0].Subject = "Sale"

	require.True(t, ability.Can("read", "Item"))
	require.Equal(t, []Rule{{Action: "read", Subject: "Item"}}, ability.Rules())
}
