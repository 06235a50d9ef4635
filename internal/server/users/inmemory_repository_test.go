package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(email string) *User {
	return &User{
		Email:        email,
		Salt:         []byte("salt"),
		PasswordHash: []byte("hash"),
		TwoFactor:    true,
		PublicKey:    []byte("pub"),
		CreatedAt:    time.Now(),
	}
}

func TestInMemory_CreateGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("alice@example.com")))

	got, err := repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.True(t, got.TwoFactor)

	_, err = repo.Get(ctx, "bob@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInMemory_CreateDuplicate(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("alice@example.com")))
	assert.ErrorIs(t, repo.Create(ctx, testUser("alice@example.com")), common.ErrAlreadyExists)
}

func TestInMemory_UpdateMissing(t *testing.T) {
	repo := NewInMemoryRepository()
	assert.ErrorIs(t, repo.Update(context.Background(), testUser("nobody@example.com")), common.ErrNotFound)
}

func TestInMemory_GetReturnsCopy(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("alice@example.com")))

	got, err := repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	got.PasswordHash[0] = 0xFF
	got.TwoFactor = false

	again, err := repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, []byte("hash"), again.PasswordHash)
	assert.True(t, again.TwoFactor)
}

func TestInMemory_ConcurrentDistinctEmails(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", i)
			if err := repo.Create(ctx, testUser(email)); err != nil {
				t.Errorf("create %s: %v", email, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		_, err := repo.Get(ctx, fmt.Sprintf("user%d@example.com", i))
		assert.NoError(t, err)
	}
}

func TestInMemory_ConcurrentSameEmail_ExactlyOneWins(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	const workers = 50

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Create(ctx, testUser("alice@example.com"))
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflict int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrAlreadyExists):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflict)
}
