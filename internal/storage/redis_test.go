package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_GetSet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	kv := NewRedis(client, "liftlog:")
	ctx := context.Background()

	mock.ExpectGet("liftlog:" + KeyTemplates).SetErr(redis.Nil)
	_, ok, err := kv.Get(ctx, KeyTemplates)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSet("liftlog:"+KeyTemplates, `{"Push":[]}`, 0).SetVal("OK")
	require.NoError(t, kv.Set(ctx, KeyTemplates, `{"Push":[]}`))

	mock.ExpectGet("liftlog:" + KeyTemplates).SetVal(`{"Push":[]}`)
	v, ok, err := kv.Get(ctx, KeyTemplates)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"Push":[]}`, v)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	kv := NewRedis(client, "")
	ctx := context.Background()

	mock.ExpectGet(KeyHistory).SetErr(errors.New("connection refused"))
	_, ok, err := kv.Get(ctx, KeyHistory)
	require.Error(t, err)
	assert.False(t, ok)

	mock.ExpectSet(KeyHistory, `[]`, 0).SetErr(errors.New("read only replica"))
	assert.Error(t, kv.Set(ctx, KeyHistory, `[]`))
}
