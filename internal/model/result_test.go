package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResult_Ok(t *testing.T) {
	r := Ok(42)

	require.True(t, r.IsOk())
	require.Equal(t, 42, r.Value())
	require.Nil(t, r.Err())
}

func TestResult_Fail(t *testing.T) {
	failure := NewNotFound("missing")
	r := Fail[int](failure)

	require.False(t, r.IsOk())
	require.Zero(t, r.Value())
	require.Same(t, failure, r.Err())
}

func TestResult_OkNilPointer(t *testing.T) {
	r := Ok[*string](nil)

	require.True(t, r.IsOk())
	require.Nil(t, r.Value())
	require.Nil(t, r.Err())
}
