package identity_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idadental/registration/pkg/identity"
)

// redisClient connects to REDIS_TEST_URL or skips the test.
func redisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)

	client := goredis.NewClient(opts)
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	store := identity.NewRedisStore(client, identity.WithKeyPrefix("test:"+uuid.NewString()+":"))

	t.Run("snapshots", func(t *testing.T) {
		_, err := store.LoadSnapshot(ctx, "missing")
		assert.ErrorIs(t, err, identity.ErrSnapshotNotFound)

		snap := &identity.Snapshot{SubjectID: "sms|42", IsAuthenticated: true, PhoneNumber: "+911234567890"}
		require.NoError(t, store.SaveSnapshot(ctx, "tok", snap, time.Minute))

		got, err := store.LoadSnapshot(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, *snap, *got)

		require.NoError(t, store.DeleteSnapshot(ctx, "tok"))
		_, err = store.LoadSnapshot(ctx, "tok")
		assert.ErrorIs(t, err, identity.ErrSnapshotNotFound)
	})

	t.Run("states are consumed once", func(t *testing.T) {
		require.NoError(t, store.SaveState(ctx, "st", "/back", time.Minute))

		returnTo, err := store.ConsumeState(ctx, "st")
		require.NoError(t, err)
		assert.Equal(t, "/back", returnTo)

		_, err = store.ConsumeState(ctx, "st")
		assert.ErrorIs(t, err, identity.ErrInvalidState)
	})

	t.Run("login flow on redis", func(t *testing.T) {
		provider := &fakeProvider{snap: &identity.Snapshot{SubjectID: "auth0|7", IsAuthenticated: true, Email: "a@b.com"}}
		login := identity.NewLogin(store, provider)

		authURL, err := login.Begin(ctx, "tok2", identity.ConnectionSocial, "/")
		require.NoError(t, err)
		_, err = login.Complete(ctx, "tok2", "code", stateFrom(t, authURL))
		require.NoError(t, err)

		snap, err := login.Snapshot(ctx, "tok2")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", snap.Email)
	})
}
