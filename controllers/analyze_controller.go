package controllers

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/metrics"
	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/repository"
	"github.com/cppla/excelanalytics/sheet"
	"github.com/cppla/excelanalytics/utils"
)

// AnalyzeController builds charts from stored uploads.
type AnalyzeController struct {
	uploads repository.UploadRepositoryI
	charts  repository.ChartRepositoryI
}

func NewAnalyzeController(db *gorm.DB) *AnalyzeController {
	return &AnalyzeController{
		uploads: repository.NewUploadRepository(db),
		charts:  repository.NewChartRepository(db),
	}
}

// Analyze plots one column of the caller's upload against another and saves the result as a chart.
func (a *AnalyzeController) Analyze(ctx *gin.Context, claims *utils.Claims) {
	var req struct {
		XAxis string `json:"x_axis"`
		YAxis string `json:"y_axis"`
		Type  string `json:"type"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.Fail(ctx, utils.Validation(40050, "invalid request payload"))
		return
	}

	chartType := models.ChartBar
	if req.Type != "" {
		t, err := models.ParseChartType(req.Type)
		if err != nil {
			utils.Fail(ctx, utils.Validation(40051, err.Error()))
			return
		}
		chartType = t
	}

	upload, err := a.uploads.FindByID(ctx.Request.Context(), ctx.Param("uploadId"))
	if err != nil {
		utils.Fail(ctx, storeError(err, "upload not found"))
		return
	}
	if upload.UserID != claims.UserID {
		utils.Fail(ctx, utils.Unauthorized(40312, "you can only analyze your own uploads"))
		return
	}

	series, err := sheet.BuildSeries(upload.Columns, upload.RawData, req.XAxis, req.YAxis)
	if err != nil {
		utils.Fail(ctx, utils.Validation(40052, err.Error()))
		return
	}
	data, err := json.Marshal(series)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50050, err))
		return
	}

	chart, err := a.charts.Create(ctx.Request.Context(), &models.Chart{
		UserID: claims.UserID,
		Title:  series.YAxis + " vs " + series.XAxis,
		Type:   chartType,
		Data:   models.Document(data),
	})
	if err != nil {
		utils.Fail(ctx, utils.Internal(50051, err))
		return
	}

	utils.InvalidateUserCache(claims.UserID)
	metrics.RecordChartCreated(string(chart.Type))
	utils.Created(ctx, "Chart created", chart)
}
