package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"mathlearn_backend/internal/model"
	"mathlearn_backend/internal/service"
	"mathlearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// GetProfile godoc
// @Summary Current user's profile and stats
// @Tags profile
// @Produce  json
// @Success 200 {object} util.Response{data=service.Profile}
// @Security ApiKeyAuth
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// UpdateProfile godoc
// @Summary Update the current user's editable fields
// @Tags profile
// @Accept  json
// @Produce  json
// @Param   body body UpdateProfileRequest true "fields"
// @Success 200 {object} util.Response{data=model.User}
// @Security ApiKeyAuth
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req.Name, req.Language)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary Upload an avatar image
// @Tags profile
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "avatar image"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "bad file"
// @Security ApiKeyAuth
// @Router /api/user/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	if file.Size > util.MaxAvatarSize {
		util.BadRequest(ctx, "file too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedAvatarExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "unsupported image type")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, util.MimeImage) {
		util.BadRequest(ctx, "unsupported content type")
		return
	}

	filename := fmt.Sprintf("avatars/%d/%s%s", claims.UserID, model.GenerateUUID(), ext)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.UpdateAvatar(claims.UserID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// GetLeaderboard godoc
// @Summary Top users by XP
// @Tags leaderboard
// @Produce  json
// @Param   limit query int false "number of entries (default 10, max 100)"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Security ApiKeyAuth
// @Router /api/leaderboard [get]
func (c *UserController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := c.UserService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// GetUsers godoc
// @Summary List users (admin)
// @Tags admin
// @Produce  json
// @Param   page query int false "page number"
// @Param   limit query int false "page size"
// @Param   role query string false "role filter"
// @Param   status query string false "active|disabled"
// @Param   search query string false "name/email search"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security ApiKeyAuth
// @Router /api/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	filter := service.UserFilter{
		Role:   ctx.Query("role"),
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
	}

	users, total, err := c.UserService.GetUsers(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
