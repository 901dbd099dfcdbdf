package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_Get_Found(t *testing.T) {
	ps, mock := newTestPostgresStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = $1")).
		WithArgs("default:cartItems").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

	value, found, err := ps.Get(context.Background(), "default:cartItems")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	ps, mock := newTestPostgresStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	value, found, err := ps.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func TestPostgresStore_Get_Error(t *testing.T) {
	ps, mock := newTestPostgresStore(t)

	mock.ExpectQuery("SELECT value FROM kv_store").
		WillReturnError(errors.New("connection reset"))

	_, found, err := ps.Get(context.Background(), "k")

	assert.Error(t, err)
	assert.False(t, found)
}

func TestPostgresStore_Set_Upserts(t *testing.T) {
	ps, mock := newTestPostgresStore(t)

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("k", []byte("v"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ps.Set(context.Background(), "k", []byte("v")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	ps, mock := newTestPostgresStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_store WHERE key = $1")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ps.Delete(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	ps, mock := newTestPostgresStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ps.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
