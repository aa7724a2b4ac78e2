package db

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBackendGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	backend := NewRedisBackend(client)

	mock.ExpectGet("homeBanking_users").SetVal(`[{"id":"1"}]`)
	mock.ExpectGet("homeBanking_cards").RedisNil()
	mock.ExpectGet("homeBanking_accounts").SetErr(errors.New("i/o timeout"))

	value, err := backend.Get(context.Background(), "homeBanking_users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(value))

	_, err = backend.Get(context.Background(), "homeBanking_cards")
	assert.Equal(t, ErrKeyNotFound, err)

	_, err = backend.Get(context.Background(), "homeBanking_accounts")
	assert.EqualError(t, err, "i/o timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackendPutAllUsesTransaction(t *testing.T) {
	client, mock := redismock.NewClientMock()
	backend := NewRedisBackend(client)

	mock.ExpectTxPipeline()
	mock.ExpectSet("a", `[1]`, 0).SetVal("OK")
	mock.ExpectSet("b", `[2]`, 0).SetVal("OK")
	mock.ExpectTxPipelineExec()

	err := backend.PutAll(context.Background(), map[string][]byte{
		"b": []byte(`[2]`),
		"a": []byte(`[1]`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackendDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	backend := NewRedisBackend(client)

	mock.ExpectDel("a", "b").SetVal(2)

	require.NoError(t, backend.Delete(context.Background(), "a", "b"))
	require.NoError(t, backend.PutAll(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
