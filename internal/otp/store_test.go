package otp_test

import (
	"context"
	"testing"
	"time"

	"backend/internal/apperr"
	"backend/internal/otp"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*otp.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return otp.NewStore(client), mr
}

func TestIssueAndVerifyConsumesCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, code, 4)

	require.NoError(t, store.Verify(ctx, "alice@example.com", code))

	// single use
	err = store.Verify(ctx, "alice@example.com", code)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	wrong := "0000"
	if wrong == code {
		wrong = "1111"
	}
	err = store.Verify(ctx, "alice@example.com", wrong)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestCodeExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	mr.FastForward(61 * time.Second) // past the TTL

	err = store.Verify(ctx, "alice@example.com", code)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestReissueReplacesCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	if first != second {
		err = store.Verify(ctx, "alice@example.com", first)
		assert.Error(t, err)
	}
	require.NoError(t, store.Verify(ctx, "alice@example.com", second))
}
