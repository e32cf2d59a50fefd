package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/excelanalytics/internal/testutil"
	"github.com/cppla/excelanalytics/models"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(testutil.OpenTestDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "  Alice@Example.com ", PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)

	byEmail, err := repo.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)

	_, err = repo.FindByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(testutil.OpenTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Name: "A", Email: "a@x.io", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.User{Name: "B", Email: "A@X.IO", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserRepository(db)
	uploads := NewUploadRepository(db)
	charts := NewChartRepository(db)
	ctx := context.Background()

	alice, err := users.Create(ctx, &models.User{Name: "Alice", Email: "alice@x.io", PasswordHash: "h"})
	require.NoError(t, err)
	bob, err := users.Create(ctx, &models.User{Name: "Bob", Email: "bob@x.io", PasswordHash: "h"})
	require.NoError(t, err)

	for _, owner := range []string{alice.ID, alice.ID, bob.ID} {
		_, err := uploads.Create(ctx, &models.Upload{UserID: owner, FileName: "f.xlsx"})
		require.NoError(t, err)
		_, err = charts.Create(ctx, &models.Chart{UserID: owner, Title: "t", Type: models.ChartBar, Data: models.Document(`[1]`)})
		require.NoError(t, err)
	}

	require.NoError(t, users.DeleteCascade(ctx, alice.ID))

	_, err = users.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	left, err := uploads.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	leftCharts, err := charts.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, leftCharts)

	bobUploads, err := uploads.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobUploads, 1)
	bobCharts, err := charts.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobCharts, 1)

	assert.ErrorIs(t, users.DeleteCascade(ctx, alice.ID), ErrNotFound)
}

func TestUserRepository_ListNewestFirst(t *testing.T) {
	repo := NewUserRepository(testutil.OpenTestDB(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, &models.User{Name: "A", Email: "a@x.io", PasswordHash: "h"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &models.User{Name: "B", Email: "b@x.io", PasswordHash: "h",
		CreatedAt: first.CreatedAt.Add(1e9)})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
