package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/models"
)

type ChartRepository struct {
	db     *gorm.DB
	policy deletePolicy
}

// NewChartRepository returns a store where the owner or an admin may delete a chart.
func NewChartRepository(db *gorm.DB) *ChartRepository {
	return &ChartRepository{db: db, policy: ownerOrAdmin}
}

func (r *ChartRepository) Create(ctx context.Context, c *models.Chart) (*models.Chart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListByOwner returns the owner's charts, newest first.
func (r *ChartRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Chart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := []models.Chart{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByID removes a chart if the requester owns it or is an admin, and returns the removed chart.
func (r *ChartRepository) DeleteByID(ctx context.Context, id, requesterID string, role models.Role) (*models.Chart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Chart
	if err := r.db.WithContext(ctx).Select("id", "user_id", "type").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	if !r.policy(c.UserID, requesterID, role) {
		return nil, ErrNotOwner
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Chart{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &c, nil
}

// CountDistinctByType reports how many different chart types the owner has saved.
func (r *ChartRepository) CountDistinctByType(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Chart{}).
		Where("user_id = ?", ownerID).
		Distinct("type").
		Count(&n).Error
	return n, err
}

// TypesSummary counts the owner's charts per type, highest count first and ties by type name.
func (r *ChartRepository) TypesSummary(ctx context.Context, ownerID string) ([]models.ChartTypeCount, error) {
	out := []models.ChartTypeCount{}
	err := r.db.WithContext(ctx).Model(&models.Chart{}).
		Select("type, COUNT(*) AS count").
		Where("user_id = ?", ownerID).
		Group("type").
		Order("count DESC, type ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DistinctTypes returns the owner's chart types in ascending order.
func (r *ChartRepository) DistinctTypes(ctx context.Context, ownerID string) ([]models.ChartType, error) {
	out := []models.ChartType{}
	err := r.db.WithContext(ctx).Model(&models.Chart{}).
		Where("user_id = ?", ownerID).
		Distinct().
		Order("type ASC").
		Pluck("type", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every chart with its owner, newest first.
func (r *ChartRepository) ListAll(ctx context.Context) ([]models.ChartWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var charts []models.Chart
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&charts).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(charts))
	for _, c := range charts {
		ids = append(ids, c.UserID)
	}
	owners, err := loadOwners(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.ChartWithOwner, 0, len(charts))
	for _, c := range charts {
		out = append(out, models.ChartWithOwner{Chart: c, Owner: owners[c.UserID]})
	}
	return out, nil
}

func (r *ChartRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Chart{}).Count(&n).Error
	return n, err
}
