package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwapRequestStatusTerminal(t *testing.T) {
	require.False(t, RequestStatusPending.IsTerminal())
	require.True(t, RequestStatusAccepted.IsTerminal())
	require.True(t, RequestStatusRejected.IsTerminal())
	require.True(t, RequestStatusCancelled.IsTerminal())
}

func TestSwapMethodValidity(t *testing.T) {
	require.True(t, MethodSwap.IsValid())
	require.True(t, MethodPoints.IsValid())
	require.False(t, SwapMethod("barter").IsValid())
}
