package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usersapi/users-api/internal/config"
)

// TestRedisStoreIntegration runs against the Redis described by the
// USERS_API_REDIS_* environment, skipping when it cannot be reached.
func TestRedisStoreIntegration(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	config.ApplyEnvOverrides(cfg)

	client := NewRedisClient(cfg.Common.Redis)
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not reachable, skipping integration test: %v", err)
		return
	}

	key := "users_integration_test"
	store := NewRedisStore(client, key, 4)
	t.Cleanup(func() {
		client.Del(context.Background(), key)
	})

	t.Run("GetAbsent", func(t *testing.T) {
		user, err := store.GetUser(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("PutGetDelete", func(t *testing.T) {
		require.NoError(t, store.PutUser(ctx, &User{UserID: "u1", Name: "Alice"}))

		user, err := store.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, &User{UserID: "u1", Name: "Alice"}, user)

		require.NoError(t, store.DeleteUser(ctx, "u1"))
		user, err = store.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("ScanDrainsCursor", func(t *testing.T) {
		// large enough that Redis stores the hash as a hashtable and pages HSCAN
		for i := 0; i < 600; i++ {
			require.NoError(t, store.PutUser(ctx, &User{UserID: fmt.Sprintf("u%03d", i), Name: "n"}))
		}

		users, err := store.ScanUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 600)
	})
}
