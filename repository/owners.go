package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/utils"
)

// deletePolicy decides whether requester may remove a record owned by ownerID.
type deletePolicy func(ownerID, requesterID string, role models.Role) bool

func ownerOnly(ownerID, requesterID string, _ models.Role) bool {
	return ownerID == requesterID
}

func ownerOrAdmin(ownerID, requesterID string, role models.Role) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return ownerID == requesterID
	default:
		return false
	}
}

// loadOwners resolves the identity of each distinct owner id. Missing users are absent from the map.
func loadOwners(ctx context.Context, db *gorm.DB, ids []string) (map[string]*models.Owner, error) {
	ids = utils.UniqueStrings(ids)
	out := make(map[string]*models.Owner, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Owner
	if err := db.WithContext(ctx).Model(&models.User{}).
		Select("id", "name", "email").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}
