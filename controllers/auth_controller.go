package controllers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/config"
	"github.com/cppla/excelanalytics/metrics"
	"github.com/cppla/excelanalytics/middleware"
	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/repository"
	"github.com/cppla/excelanalytics/utils"
)

// AuthController handles registration, login and session endpoints.
type AuthController struct {
	users repository.UserRepositoryI
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{users: repository.NewUserRepository(db)}
}

// Register creates a local account with a bcrypt-hashed password.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required,max=128"`
		Email    string `json:"email" binding:"required,email,max=255"`
		Password string `json:"password" binding:"required,max=72"`
		Role     string `json:"role"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, utils.Validation(40001, "invalid request payload"))
		return
	}

	name := utils.SanitizeText(req.Name)
	if name == "" {
		utils.Fail(ctx, utils.Validation(40002, "name is required"))
		return
	}
	if len(req.Password) < utils.MinPasswordLength {
		utils.Fail(ctx, utils.Validation(40003, "password must be at least 6 characters"))
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		utils.Fail(ctx, utils.Validation(40004, err.Error()))
		return
	}

	cfg := config.Get()
	email := repository.NormalizeEmail(req.Email)
	switch {
	case cfg.IsAdminEmail(email):
		role = models.RoleAdmin
	case role == models.RoleAdmin && !cfg.AllowAdminRegistration:
		utils.Fail(ctx, utils.Validation(40005, "admin registration is disabled"))
		return
	}

	ip := ctx.ClientIP()
	if utils.RegistrationIsBanned(ip) {
		utils.Fail(ctx, utils.NewAppError(utils.KindRateLimited, 42920, "registration temporarily blocked for this address"))
		return
	}
	if !utils.RegistrationCooldownTry(ip) {
		utils.Fail(ctx, utils.NewAppError(utils.KindRateLimited, 42910, "too many attempts, try again shortly"))
		return
	}
	if !utils.RegistrationDailyLimitCheck(ip) {
		utils.Fail(ctx, utils.NewAppError(utils.KindRateLimited, 42921, "daily registration limit reached"))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50002, err))
		return
	}

	user, err := a.users.Create(ctx.Request.Context(), &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		utils.RegistrationFailRecord(ip)
		utils.Fail(ctx, storeError(err, "user not found"))
		return
	}

	utils.RegistrationDailyIncrement(ip)
	metrics.RecordRegistration()
	utils.Created(ctx, "user registered successfully", userView(user))
}

// Login verifies credentials and issues a 24h token.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, utils.Validation(40001, "invalid request payload"))
		return
	}

	invalid := utils.Validation(40006, "invalid email or password")
	user, err := a.users.FindByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		metrics.RecordLogin("failure")
		if errors.Is(err, repository.ErrNotFound) {
			utils.Fail(ctx, invalid)
			return
		}
		utils.Fail(ctx, utils.Internal(50003, err))
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		metrics.RecordLogin("failure")
		utils.Fail(ctx, invalid)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50004, err))
		return
	}

	metrics.RecordLogin("success")
	utils.Success(ctx, gin.H{
		"token": token,
		"user":  userView(user),
	})
}

// Logout revokes the presented token until it would have expired.
func (a *AuthController) Logout(ctx *gin.Context, claims *utils.Claims) {
	token := strings.TrimSpace(ctx.GetString(middleware.ContextTokenKey))
	if token == "" || claims.ExpiresAt == nil {
		utils.Fail(ctx, utils.NewAppError(utils.KindUnauthenticated, 40107, "invalid authorization header"))
		return
	}
	utils.BlacklistToken(token, claims.ExpiresAt.Time)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current account.
func (a *AuthController) Me(ctx *gin.Context, claims *utils.Claims) {
	user, err := a.users.FindByID(ctx.Request.Context(), claims.UserID)
	if err != nil {
		utils.Fail(ctx, storeError(err, "user not found"))
		return
	}
	utils.Success(ctx, userView(user))
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}
