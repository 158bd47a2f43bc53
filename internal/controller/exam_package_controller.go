package controller

import (
	"errors"
	"io"
	"strconv"

	"exam_bank_backend/internal/repository"
	"exam_bank_backend/internal/service"
	"exam_bank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamPackageController struct {
	Service *service.ExamPackageService
}

func NewExamPackageController(svc *service.ExamPackageService) *ExamPackageController {
	return &ExamPackageController{Service: svc}
}

// @Summary Ingest an exam package
// @Description Validates and atomically commits a whole exam package document
// @Tags exam-packages
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response
// @Failure 422 {object} util.Response "validation report"
// @Router /api/admin/exam-packages [post]
func (c *ExamPackageController) Ingest(ctx *gin.Context) {
	// The closed-world contract needs the raw bytes: binding into a struct
	// would silently drop unknown fields before validation sees them.
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		util.BadRequest(ctx, "unable to read request body")
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, report, err := c.Service.Ingest(ctx.Request.Context(), raw, claims)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		var insertErr *repository.InsertError
		if errors.As(err, &insertErr) {
			util.Conflict(ctx, insertErr.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	if !report.Valid() {
		util.ValidationFailed(ctx, report)
		return
	}

	util.Created(ctx, result)
}

// @Summary Validate an exam package without committing it
// @Tags exam-packages
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/exam-packages/validate [post]
func (c *ExamPackageController) Validate(ctx *gin.Context) {
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		util.BadRequest(ctx, "unable to read request body")
		return
	}

	report := c.Service.ValidateOnly(raw)
	if !report.Valid() {
		util.ValidationFailed(ctx, report)
		return
	}
	util.Success(ctx, report)
}

// @Summary Get a committed exam package
// @Tags exam-packages
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "package id"
// @Success 200 {object} util.Response
// @Router /api/exam-packages/{id} [get]
func (c *ExamPackageController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	claims := util.GetUserFromContext(ctx)

	detail, err := c.Service.GetDetail(ctx.Request.Context(), id, claims)
	if err != nil {
		if errors.Is(err, util.ErrPackageNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary List committed exam packages
// @Tags exam-packages
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} util.Response
// @Router /api/exam-packages [get]
func (c *ExamPackageController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	pkgs, total, err := c.Service.List(ctx.Request.Context(), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  pkgs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
