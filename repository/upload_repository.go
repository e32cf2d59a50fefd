package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/models"
)

type UploadRepository struct {
	db     *gorm.DB
	policy deletePolicy
}

// NewUploadRepository returns a store where only the owner may delete an upload.
func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db, policy: ownerOnly}
}

func (r *UploadRepository) Create(ctx context.Context, u *models.Upload) (*models.Upload, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// ListByOwner returns the owner's uploads, newest first.
func (r *UploadRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Upload, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := []models.Upload{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UploadRepository) FindByID(ctx context.Context, id string) (*models.Upload, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u models.Upload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// DeleteByID removes an upload if the requester owns it.
// Returns ErrNotFound when the record is gone, including when a concurrent delete won.
func (r *UploadRepository) DeleteByID(ctx context.Context, id, requesterID string, role models.Role) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u models.Upload
	if err := r.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).First(&u).Error; err != nil {
		return notFound(err)
	}
	if !r.policy(u.UserID, requesterID, role) {
		return ErrNotOwner
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Upload{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every upload with its owner, newest first.
func (r *UploadRepository) ListAll(ctx context.Context) ([]models.UploadWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var uploads []models.Upload
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&uploads).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(uploads))
	for _, u := range uploads {
		ids = append(ids, u.UserID)
	}
	owners, err := loadOwners(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.UploadWithOwner, 0, len(uploads))
	for _, u := range uploads {
		out = append(out, models.UploadWithOwner{Upload: u, Owner: owners[u.UserID]})
	}
	return out, nil
}

func (r *UploadRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Upload{}).Count(&n).Error
	return n, err
}

// DeleteOlderThan purges uploads created before cutoff and reports how many were removed.
func (r *UploadRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.Upload{})
	return res.RowsAffected, res.Error
}
