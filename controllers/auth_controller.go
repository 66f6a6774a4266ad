package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"roomdesk-backend/config"
	"roomdesk-backend/middleware"
	"roomdesk-backend/models"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

type AuthController struct {
	Users  *services.UserService
	Cfg    *config.AppConfig
	Logger *zap.Logger
}

func NewAuthController(users *services.UserService, cfg *config.AppConfig, logger *zap.Logger) *AuthController {
	return &AuthController{Users: users, Cfg: cfg, Logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a tenant account and issues an access token bound to
// its site.
func (ctl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := ctl.Users.Authenticate(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := utils.GenerateToken(ctl.Cfg.JWTSecret, ctl.Cfg.JWTTTL, ctl.Cfg.Now(), user.ID, user.Username, user.Role, user.SiteConfigID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ctl.Logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// OwnerLogin checks the platform owner's virtual identity, which exists only
// in configuration, and issues a token with no site binding.
func (ctl *AuthController) OwnerLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if req.Username != ctl.Cfg.OwnerUsername ||
		bcrypt.CompareHashAndPassword(ctl.Cfg.OwnerPasswordHash, []byte(req.Password)) != nil {
		respondServiceError(c, services.ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(ctl.Cfg.JWTSecret, ctl.Cfg.JWTTTL, ctl.Cfg.Now(), 0, ctl.Cfg.OwnerUsername, models.RoleOwner, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ctl.Logger.Info("owner logged in", zap.String("username", ctl.Cfg.OwnerUsername))
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"username": ctl.Cfg.OwnerUsername, "role": models.RoleOwner},
	})
}

// Me echoes the authenticated session.
func (ctl *AuthController) Me(c *gin.Context) {
	if owner, ok := middleware.OwnerFrom(c); ok {
		utils.JSONSuccess(c, http.StatusOK, gin.H{
			"username": owner.Username,
			"role":     models.RoleOwner,
		})
		return
	}
	staff, ok := middleware.StaffFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "invalid_token", "no session")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user_id":  staff.UserID,
		"username": staff.Username,
		"role":     staff.Role,
		"site_id":  staff.SiteID,
	})
}
