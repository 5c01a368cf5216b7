package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ItemStatus
		to      ItemStatus
		allowed bool
	}{
		{ItemStatusPending, ItemStatusAvailable, true},
		{ItemStatusPending, ItemStatusRejected, true},
		{ItemStatusPending, ItemStatusSwapped, false},
		{ItemStatusAvailable, ItemStatusSwapped, true},
		{ItemStatusAvailable, ItemStatusRejected, true},
		{ItemStatusAvailable, ItemStatusPending, false},
		{ItemStatusSwapped, ItemStatusAvailable, false},
		{ItemStatusSwapped, ItemStatusRejected, false},
		{ItemStatusRejected, ItemStatusAvailable, false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestItemStatusTerminal(t *testing.T) {
	require.False(t, ItemStatusPending.IsTerminal())
	require.False(t, ItemStatusAvailable.IsTerminal())
	require.True(t, ItemStatusSwapped.IsTerminal())
	require.True(t, ItemStatusRejected.IsTerminal())
}

func TestItemEnumValidity(t *testing.T) {
	require.True(t, CategoryTops.IsValid())
	require.False(t, ItemCategory("hats").IsValid())
	require.True(t, SizeOneSize.IsValid())
	require.False(t, ItemSize("xxxl").IsValid())
	require.True(t, ConditionLikeNew.IsValid())
	require.False(t, ItemCondition("worn").IsValid())
	require.False(t, ItemStatus("archived").IsValid())
}
