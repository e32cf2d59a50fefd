package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/repository"
	"github.com/cppla/excelanalytics/utils"
)

// AdminController serves the user management and oversight endpoints.
type AdminController struct {
	users   repository.UserRepositoryI
	uploads repository.UploadRepositoryI
	charts  repository.ChartRepositoryI
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{
		users:   repository.NewUserRepository(db),
		uploads: repository.NewUploadRepository(db),
		charts:  repository.NewChartRepository(db),
	}
}

// ListUsers returns every account, newest first. Password hashes are never serialized.
func (a *AdminController) ListUsers(ctx *gin.Context) {
	users, err := a.users.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, utils.Internal(50020, err))
		return
	}
	utils.Success(ctx, users)
}

// DeleteUser removes an account with all of its uploads and charts.
func (a *AdminController) DeleteUser(ctx *gin.Context, claims *utils.Claims) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		utils.Fail(ctx, utils.Validation(40020, "missing user id"))
		return
	}
	if id == claims.UserID {
		utils.Fail(ctx, utils.Validation(40021, "admins cannot delete their own account"))
		return
	}
	if err := a.users.DeleteCascade(ctx.Request.Context(), id); err != nil {
		utils.Fail(ctx, storeError(err, "user not found"))
		return
	}
	utils.InvalidateUserCache(id)
	utils.Success(ctx, gin.H{"message": "user and related data deleted"})
}

// ListUploads returns every upload joined with its owner.
func (a *AdminController) ListUploads(ctx *gin.Context) {
	uploads, err := a.uploads.ListAll(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, utils.Internal(50021, err))
		return
	}
	utils.Success(ctx, uploads)
}

// ListCharts returns every chart joined with its owner.
func (a *AdminController) ListCharts(ctx *gin.Context) {
	charts, err := a.charts.ListAll(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, utils.Internal(50022, err))
		return
	}
	utils.Success(ctx, charts)
}
