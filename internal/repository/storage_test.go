package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	value := []byte(`{"a":1}`)
	require.NoError(t, s.Set(ctx, "k", value))

	// callers mutating their slice must not reach into the store
	value[0] = 'x'
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, s.Remove(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStorageUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	called := false
	err := s.Update(ctx, "missing", func(current []byte) ([]byte, error) {
		called = true
		return current, nil
	})
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.False(t, called)

	require.NoError(t, s.Set(ctx, "k", []byte("a")))
	require.NoError(t, s.Update(ctx, "k", func(current []byte) ([]byte, error) {
		return append(current, 'b'), nil
	}))

	boom := errors.New("boom")
	err = s.Update(ctx, "k", func(current []byte) ([]byte, error) {
		return []byte("lost"), boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "ab", string(got))
}

func TestRedisStorageMapsNilToNotFound(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	s := NewRedisStorage(db)

	mock.ExpectGet("vizora_user:1").RedisNil()
	_, err := s.Get(ctx, "vizora_user:1")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	mock.ExpectSet("vizora_user:1", []byte("{}"), 0).SetVal("OK")
	require.NoError(t, s.Set(ctx, "vizora_user:1", []byte("{}")))

	mock.ExpectGet("vizora_user:1").SetVal("{}")
	got, err := s.Get(ctx, "vizora_user:1")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))

	mock.ExpectDel("vizora_user:1").SetVal(1)
	require.NoError(t, s.Remove(ctx, "vizora_user:1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoragePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	s := NewRedisStorage(db)

	boom := errors.New("connection refused")
	mock.ExpectGet("k").SetErr(boom)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)

	mock.ExpectDel("k").SetErr(boom)
	assert.ErrorIs(t, s.Remove(ctx, "k"), boom)
}
