package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/repository"
	"github.com/cppla/excelanalytics/utils"
)

// StatsController provides platform-wide counts for the admin dashboard.
type StatsController struct {
	users   repository.UserRepositoryI
	uploads repository.UploadRepositoryI
	charts  repository.ChartRepositoryI
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{
		users:   repository.NewUserRepository(db),
		uploads: repository.NewUploadRepository(db),
		charts:  repository.NewChartRepository(db),
	}
}

// GetStats returns the number of users, uploads and charts.
func (s *StatsController) GetStats(ctx *gin.Context) {
	rc := ctx.Request.Context()
	userCount, err := s.users.Count(rc)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50010, err))
		return
	}
	uploadCount, err := s.uploads.Count(rc)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50011, err))
		return
	}
	chartCount, err := s.charts.Count(rc)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50012, err))
		return
	}

	utils.Success(ctx, gin.H{
		"user_count":   userCount,
		"upload_count": uploadCount,
		"chart_count":  chartCount,
	})
}
