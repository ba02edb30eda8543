package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// All helpers must degrade gracefully when no Redis client is configured.

func TestGetJSON_NilClientIsMiss(t *testing.T) {
	var dest map[string]string
	found, err := GetJSON(context.Background(), nil, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetJSONAndInvalidate_NilClientNoOp(t *testing.T) {
	require.NoError(t, SetJSON(context.Background(), nil, "k", map[string]int{"a": 1}, time.Minute))
	Invalidate(context.Background(), nil, "k")
}

func TestAside_NilClientAlwaysFetches(t *testing.T) {
	calls := 0
	var dest string
	fetch := func() error {
		calls++
		dest = "fresh"
		return nil
	}

	require.NoError(t, Aside(context.Background(), nil, "k", &dest, time.Minute, fetch))
	require.NoError(t, Aside(context.Background(), nil, "k", &dest, time.Minute, fetch))
	assert.Equal(t, 2, calls, "no cache means every call fetches")
	assert.Equal(t, "fresh", dest)
}

func TestAside_FetchErrorPropagates(t *testing.T) {
	var dest string
	err := Aside(context.Background(), nil, "k", &dest, time.Minute, func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
