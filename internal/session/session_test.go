package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_EstablishAndRead(t *testing.T) {
	ctx := context.Background()
	sc := NewContext(NewMemoryStore(State{}))

	require.NoError(t, sc.Establish(ctx, testState()))

	assert.Equal(t, "access-1", sc.AccessToken(ctx))
	assert.Equal(t, "refresh-1", sc.RefreshToken(ctx))
	u, err := sc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "chef", u.Username)
}

func TestContext_EstablishRequiresAccessToken(t *testing.T) {
	sc := NewContext(NewMemoryStore(State{}))
	err := sc.Establish(context.Background(), State{RefreshToken: "r"})
	require.Error(t, err)
}

func TestContext_RotateKeepsRefreshWhenNotReturned(t *testing.T) {
	ctx := context.Background()
	sc := NewContext(NewMemoryStore(testState()))

	require.NoError(t, sc.Rotate(ctx, "access-2", ""))
	assert.Equal(t, "access-2", sc.AccessToken(ctx))
	assert.Equal(t, "refresh-1", sc.RefreshToken(ctx))

	require.NoError(t, sc.Rotate(ctx, "access-3", "refresh-2"))
	assert.Equal(t, "refresh-2", sc.RefreshToken(ctx))
}

func TestContext_ExpireClearsAndNotifies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testState())
	cause := errors.New("refresh rejected")

	var got error
	calls := 0
	sc := NewContext(store, WithOnExpired(func(_ context.Context, err error) {
		calls++
		got = err
	}))

	sc.Expire(ctx, cause)

	st, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, st.Empty())
	assert.Nil(t, st.User)
	assert.Equal(t, 1, calls)
	assert.Equal(t, cause, got)
}

func TestContext_CurrentUserLoggedOut(t *testing.T) {
	sc := NewContext(NewMemoryStore(State{}))
	_, err := sc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestContext_LogoutWithoutCallback(t *testing.T) {
	ctx := context.Background()
	sc := NewContext(NewMemoryStore(testState()))
	require.NoError(t, sc.Logout(ctx))
	assert.Empty(t, sc.AccessToken(ctx))
}
