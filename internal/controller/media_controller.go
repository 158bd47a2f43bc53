package controller

import (
	"errors"
	"path/filepath"

	"exam_bank_backend/internal/model"
	"exam_bank_backend/internal/service"
	"exam_bank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	Storage *service.StorageService
}

func NewMediaController(storage *service.StorageService) *MediaController {
	return &MediaController{Storage: storage}
}

// @Summary Upload a media binary
// @Description Stores the image file an exam package's media asset describes
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "media file"
// @Success 201 {object} util.Response
// @Router /api/admin/media/upload [post]
func (c *MediaController) Upload(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	filename := model.GenerateUUID() + filepath.Ext(header.Filename)

	url, err := c.Storage.UploadMedia(ctx.Request.Context(), filename, file, header.Size, contentType)
	if err != nil {
		if errors.Is(err, util.ErrUnsupportedMime) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"filename": filename,
		"url":      url,
	})
}
