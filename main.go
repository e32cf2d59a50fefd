package main

import (
	"context"
	"time"

	"github.com/cppla/excelanalytics/config"
	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/repository"
	"github.com/cppla/excelanalytics/routes"
	"github.com/cppla/excelanalytics/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(&models.User{}, &models.Upload{}, &models.Chart{})

	r := routes.SetupRouter(db)

	ctx, stop := utils.SignalContext(context.Background())
	defer stop()

	var cleanerDone <-chan struct{}
	if cfg.UploadRetentionDays > 0 {
		retention := time.Duration(cfg.UploadRetentionDays) * 24 * time.Hour
		cleanerDone = utils.StartUploadCleaner(ctx, time.Hour, retention, repository.NewUploadRepository(db))
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(ctx, ":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
	stop()
	if cleanerDone != nil {
		<-cleanerDone
	}
}
