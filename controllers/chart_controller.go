package controllers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/config"
	"github.com/cppla/excelanalytics/metrics"
	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/repository"
	"github.com/cppla/excelanalytics/utils"
)

// ChartController manages the caller's saved charts.
type ChartController struct {
	charts repository.ChartRepositoryI
}

func NewChartController(db *gorm.DB) *ChartController {
	return &ChartController{charts: repository.NewChartRepository(db)}
}

const (
	chartsCacheKey     = "charts"
	chartTypesCacheKey = "chart-types"
)

// Create stores a chart. Without a title, "<y_axis> vs <x_axis>" is used.
func (c *ChartController) Create(ctx *gin.Context, claims *utils.Claims) {
	type request struct {
		Title string          `json:"title" binding:"max=255"`
		Type  string          `json:"type" binding:"required,charttype"`
		Data  models.Document `json:"data" binding:"required"`
		XAxis string          `json:"x_axis"`
		YAxis string          `json:"y_axis"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, utils.Validation(40040, "invalid chart payload: title, a supported type and data are required"))
		return
	}
	chartType, err := models.ParseChartType(req.Type)
	if err != nil {
		utils.Fail(ctx, utils.Validation(40041, err.Error()))
		return
	}
	if err := validateChartData(req.Data, config.Get().MaxChartDataKB); err != nil {
		utils.Fail(ctx, err)
		return
	}

	title := utils.SanitizeText(req.Title)
	if title == "" {
		x, y := utils.SanitizeText(req.XAxis), utils.SanitizeText(req.YAxis)
		if x == "" || y == "" {
			utils.Fail(ctx, utils.Validation(40042, "title or both x_axis and y_axis are required"))
			return
		}
		title = y + " vs " + x
	}

	chart, err := c.charts.Create(ctx.Request.Context(), &models.Chart{
		UserID: claims.UserID,
		Title:  title,
		Type:   chartType,
		Data:   req.Data,
	})
	if err != nil {
		utils.Fail(ctx, utils.Internal(50040, err))
		return
	}

	utils.InvalidateUserCache(claims.UserID)
	metrics.RecordChartCreated(string(chart.Type))
	utils.Created(ctx, "chart created", chart)
}

func validateChartData(data models.Document, maxKB int) *utils.AppError {
	if maxKB > 0 && len(data) > maxKB*1024 {
		return utils.Validation(40043, fmt.Sprintf("chart data exceeds %dKB", maxKB))
	}
	switch data.Shape() {
	case models.ShapeArray, models.ShapeObject:
		return nil
	case models.ShapeInvalid:
		return utils.Validation(40044, "chart data is not valid JSON")
	default:
		return utils.Validation(40045, "chart data must be a JSON object or array")
	}
}

// ListMine returns the caller's charts, newest first.
func (c *ChartController) ListMine(ctx *gin.Context, claims *utils.Claims) {
	key := utils.UserCacheKey(claims.UserID, chartsCacheKey)
	var cached []models.Chart
	if utils.CacheGetJSON(key, &cached) {
		utils.Success(ctx, cached)
		return
	}

	charts, err := c.charts.ListByOwner(ctx.Request.Context(), claims.UserID)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50041, err))
		return
	}
	utils.CacheSetJSON(key, charts, 0)
	utils.Success(ctx, charts)
}

// Delete removes a chart owned by the caller, or any chart when the caller is an admin.
func (c *ChartController) Delete(ctx *gin.Context, claims *utils.Claims) {
	chart, err := c.charts.DeleteByID(ctx.Request.Context(), strings.TrimSpace(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		utils.Fail(ctx, storeError(err, "chart not found"))
		return
	}
	utils.InvalidateUserCache(chart.UserID)
	utils.Success(ctx, gin.H{"message": "chart deleted"})
}

// TypesSummary returns how many charts of each type the caller has.
func (c *ChartController) TypesSummary(ctx *gin.Context, claims *utils.Claims) {
	key := utils.UserCacheKey(claims.UserID, chartTypesCacheKey)
	var cached []models.ChartTypeCount
	if utils.CacheGetJSON(key, &cached) {
		utils.Success(ctx, cached)
		return
	}

	summary, err := c.charts.TypesSummary(ctx.Request.Context(), claims.UserID)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50042, err))
		return
	}
	utils.CacheSetJSON(key, summary, 0)
	utils.Success(ctx, summary)
}

// Count returns the number of distinct chart types the caller uses.
func (c *ChartController) Count(ctx *gin.Context, claims *utils.Claims) {
	n, err := c.charts.CountDistinctByType(ctx.Request.Context(), claims.UserID)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50043, err))
		return
	}
	utils.Success(ctx, gin.H{"count": n})
}

// Types lists the distinct chart types the caller uses.
func (c *ChartController) Types(ctx *gin.Context, claims *utils.Claims) {
	types, err := c.charts.DistinctTypes(ctx.Request.Context(), claims.UserID)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50044, err))
		return
	}
	utils.Success(ctx, gin.H{"types": types, "total": len(types)})
}
