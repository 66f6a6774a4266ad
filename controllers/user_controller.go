package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomdesk-backend/middleware"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

// UserController manages a site's staff accounts. Everything except password
// self-service sits behind the admin gate in the router.
type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (ctl *UserController) List(c *gin.Context) {
	users, err := ctl.Users.ListUsers(middleware.SiteID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"users": users})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin staff"`
}

func (ctl *UserController) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	user, err := ctl.Users.CreateUser(middleware.SiteID(c), req.Username, req.Password, req.Role, middleware.ActorName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"user": user})
}

func (ctl *UserController) Delete(c *gin.Context) {
	userID, ok := parseUintParam(c, "userID")
	if !ok {
		return
	}
	if err := ctl.Users.DeleteUser(middleware.SiteID(c), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

type changeOwnPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ChangeOwnPassword rotates the caller's own credential. Owner tokens have no
// backing user row, so only staff sessions may call it.
func (ctl *UserController) ChangeOwnPassword(c *gin.Context) {
	staff, ok := middleware.StaffFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "only site accounts can change their password here")
		return
	}
	var req changeOwnPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	if err := ctl.Users.ChangeOwnPassword(staff.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"changed": true})
}

type newPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangeStaffPassword rotates the shared front-desk login of the site.
func (ctl *UserController) ChangeStaffPassword(c *gin.Context) {
	var req newPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	if err := ctl.Users.ChangeStaffPassword(middleware.SiteID(c), req.NewPassword, middleware.ActorName(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"changed": true})
}

// SetUserPassword sets a new password for one account of the site.
func (ctl *UserController) SetUserPassword(c *gin.Context) {
	userID, ok := parseUintParam(c, "userID")
	if !ok {
		return
	}
	var req newPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	if err := ctl.Users.UpdateUserPassword(middleware.SiteID(c), userID, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"changed": true})
}
