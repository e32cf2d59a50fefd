package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/excelanalytics/internal/testutil"
	"github.com/cppla/excelanalytics/models"
)

func TestUploadRepository_RoundTripsRows(t *testing.T) {
	repo := NewUploadRepository(testutil.OpenTestDB(t))
	ctx := context.Background()

	in := &models.Upload{
		UserID:   "u1",
		FileName: "sales.xlsx",
		Columns:  models.StringList{"Region", "Revenue", "Active"},
		RawData: models.Rows{
			{"Region": models.StringCell("EU"), "Revenue": models.NumberCell(12.5), "Active": models.BoolCell(true)},
			{"Region": models.StringCell("US")},
		},
		Summary: "Parsed 2 rows from sales.xlsx",
		Size:    "1.2 KB",
	}
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Columns, got.Columns)
	require.Len(t, got.RawData, 2)
	v, ok := got.RawData[0]["Revenue"].Number()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)
	b, ok := got.RawData[0]["Active"].Bool()
	assert.True(t, ok)
	assert.True(t, b)
	assert.Equal(t, "US", got.RawData[1]["Region"].Text())
}

func TestUploadRepository_DeleteIsOwnerOnly(t *testing.T) {
	repo := NewUploadRepository(testutil.OpenTestDB(t))
	ctx := context.Background()

	up, err := repo.Create(ctx, &models.Upload{UserID: "owner", FileName: "a.csv"})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteByID(ctx, up.ID, "intruder", models.RoleUser), ErrNotOwner)
	assert.ErrorIs(t, repo.DeleteByID(ctx, up.ID, "admin-id", models.RoleAdmin), ErrNotOwner)

	_, err = repo.FindByID(ctx, up.ID)
	require.NoError(t, err, "record must survive a rejected delete")

	require.NoError(t, repo.DeleteByID(ctx, up.ID, "owner", models.RoleUser))
	assert.ErrorIs(t, repo.DeleteByID(ctx, up.ID, "owner", models.RoleUser), ErrNotFound)
}

func TestUploadRepository_ListByOwnerAndAll(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserRepository(db)
	repo := NewUploadRepository(db)
	ctx := context.Background()

	alice, err := users.Create(ctx, &models.User{Name: "Alice", Email: "alice@x.io", PasswordHash: "h"})
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	older, err := repo.Create(ctx, &models.Upload{UserID: alice.ID, FileName: "old.csv", CreatedAt: base})
	require.NoError(t, err)
	newer, err := repo.Create(ctx, &models.Upload{UserID: alice.ID, FileName: "new.csv", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	orphan, err := repo.Create(ctx, &models.Upload{UserID: "ghost", FileName: "orphan.csv", CreatedAt: base.Add(2 * time.Minute)})
	require.NoError(t, err)

	mine, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, orphan.ID, all[0].ID)
	assert.Nil(t, all[0].Owner)
	require.NotNil(t, all[1].Owner)
	assert.Equal(t, "alice@x.io", all[1].Owner.Email)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestUploadRepository_DeleteOlderThan(t *testing.T) {
	repo := NewUploadRepository(testutil.OpenTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Upload{UserID: "u", FileName: "stale.csv", CreatedAt: time.Now().Add(-48 * time.Hour)})
	require.NoError(t, err)
	fresh, err := repo.Create(ctx, &models.Upload{UserID: "u", FileName: "fresh.csv"})
	require.NoError(t, err)

	n, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := repo.ListByOwner(ctx, "u")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, fresh.ID, left[0].ID)
}
