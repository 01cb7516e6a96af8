package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return gdb, mock
}

func TestStoreFindByID(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewStoreRepository(gdb)

	rows := sqlmock.NewRows([]string{"store_id", "store_name", "domain", "salla_access_token", "widget_secret", "is_active"}).
		AddRow(7, "Darb Auto Parts", "darb.example.com", "token-1", "secret-1", true)
	mock.ExpectQuery(`SELECT .* FROM "stores" WHERE store_id = .*`).
		WithArgs(7, 1).
		WillReturnRows(rows)

	store, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), store.StoreID)
	assert.Equal(t, "darb.example.com", store.Domain)
	assert.True(t, store.IsActive)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFindByIDNotFound(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewStoreRepository(gdb)

	mock.ExpectQuery(`SELECT .* FROM "stores" WHERE store_id = .*`).
		WithArgs(404, 1).
		WillReturnRows(sqlmock.NewRows([]string{"store_id"}))

	_, err := repo.FindByID(context.Background(), 404)
	assert.EqualError(t, err, "store not found")
}

func TestStoreUpdateAccessToken(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewStoreRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET "salla_access_token"=.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateAccessToken(context.Background(), 7, "fresh-token")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateAccessTokenMissingStore(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewStoreRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET "salla_access_token"=.*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateAccessToken(context.Background(), 404, "fresh-token")
	assert.EqualError(t, err, "store not found")
}

func TestStoreFindByIDCancelledContext(t *testing.T) {
	gdb, _ := setupMockDB(t)
	repo := NewStoreRepository(gdb)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindByID(ctx, 7)
	assert.ErrorIs(t, err, context.Canceled)
}
