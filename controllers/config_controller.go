package controllers

import (
	"github.com/cppla/excelanalytics/config"
	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/sheet"
	"github.com/cppla/excelanalytics/utils"
	"github.com/gin-gonic/gin"
)

// ConfigController serves the public settings the dashboard needs before login.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetCharts returns the supported chart types and upload limits.
func (c *ConfigController) GetCharts(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"chart_types":        models.ChartTypes,
		"extensions":         sheet.Extensions,
		"max_upload_size_mb": cfg.MaxUploadSizeMB,
		"max_chart_data_kb":  cfg.MaxChartDataKB,
	})
}
