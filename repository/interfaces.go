package repository

import (
	"context"
	"time"

	"github.com/cppla/excelanalytics/models"
)

// UserRepositoryI defines operations on User accounts.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	DeleteCascade(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// UploadRepositoryI defines operations on parsed spreadsheet uploads.
type UploadRepositoryI interface {
	Create(ctx context.Context, u *models.Upload) (*models.Upload, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Upload, error)
	FindByID(ctx context.Context, id string) (*models.Upload, error)
	DeleteByID(ctx context.Context, id, requesterID string, role models.Role) error
	ListAll(ctx context.Context) ([]models.UploadWithOwner, error)
	Count(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ChartRepositoryI defines operations on saved charts.
type ChartRepositoryI interface {
	Create(ctx context.Context, c *models.Chart) (*models.Chart, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Chart, error)
	DeleteByID(ctx context.Context, id, requesterID string, role models.Role) (*models.Chart, error)
	CountDistinctByType(ctx context.Context, ownerID string) (int64, error)
	TypesSummary(ctx context.Context, ownerID string) ([]models.ChartTypeCount, error)
	DistinctTypes(ctx context.Context, ownerID string) ([]models.ChartType, error)
	ListAll(ctx context.Context) ([]models.ChartWithOwner, error)
	Count(ctx context.Context) (int64, error)
}

var (
	_ UserRepositoryI   = (*UserRepository)(nil)
	_ UploadRepositoryI = (*UploadRepository)(nil)
	_ ChartRepositoryI  = (*ChartRepository)(nil)
)
