package controller

import (
	"errors"

	"mathlearn_backend/internal/repository"
	"mathlearn_backend/internal/service"
	"mathlearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// GetLessons godoc
// @Summary List published lessons
// @Description Paginated list of published lessons with optional topic/difficulty filters
// @Tags lessons
// @Produce  json
// @Param   page query int false "page number"
// @Param   limit query int false "page size"
// @Param   topic query string false "topic filter"
// @Param   difficulty query string false "difficulty filter"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/lessons [get]
func (c *LessonController) GetLessons(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	filter := repository.LessonFilter{
		Topic:      ctx.Query("topic"),
		Difficulty: ctx.Query("difficulty"),
	}

	resp, err := c.LessonService.GetLessons(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// GetLessonDetail godoc
// @Summary Lesson detail
// @Description Lesson with problems and options; progress is merged in for authenticated callers
// @Tags lessons
// @Produce  json
// @Param   id path int true "lesson id"
// @Success 200 {object} util.Response{data=service.LessonDetail}
// @Failure 404 {object} util.Response "lesson not found"
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLessonDetail(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))

	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	detail, err := c.LessonService.GetLessonDetail(lessonID, userID)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// SubmitLesson godoc
// @Summary Submit lesson answers
// @Description Grades the submitted answers, records the attempt, and updates XP and streak
// @Tags lessons
// @Accept  json
// @Produce  json
// @Param   id path int true "lesson id"
// @Param   body body service.SubmitLessonRequest true "answers"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "empty submission"
// @Failure 404 {object} util.Response "lesson not found"
// @Security ApiKeyAuth
// @Router /api/lessons/{id}/submit [post]
func (c *LessonController) SubmitLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))

	var req service.SubmitLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.LessonService.SubmitLesson(claims.UserID, lessonID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEmptySubmission):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// CreateLesson godoc
// @Summary Create a lesson
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   body body service.CreateLessonRequest true "lesson"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 409 {object} util.Response "slug already in use"
// @Security ApiKeyAuth
// @Router /api/admin/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	var req service.CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.CreateLesson(req)
	if err != nil {
		if errors.Is(err, util.ErrSlugTaken) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path int true "lesson id"
// @Param   body body service.CreateLessonRequest true "lesson"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "lesson not found"
// @Security ApiKeyAuth
// @Router /api/admin/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))

	var req service.CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.UpdateLesson(lessonID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSlugTaken):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags admin
// @Produce  json
// @Param   id path int true "lesson id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "lesson not found"
// @Security ApiKeyAuth
// @Router /api/admin/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))

	if err := c.LessonService.DeleteLesson(lessonID); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
