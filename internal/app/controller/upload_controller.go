package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/influencehub/influencehub-backend/internal/errors"
	"github.com/influencehub/influencehub-backend/internal/middleware"
	"github.com/influencehub/influencehub-backend/internal/storage"
)

// ImageStorage issues upload URLs for profile pictures
type ImageStorage interface {
	PresignProfileImage(filename, contentType string, size int64) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	storage ImageStorage
}

func NewUploadController(storage ImageStorage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignProfileImageRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size"`
}

// PresignProfileImage returns a presigned PUT URL; the client uploads the file
// itself and stores file_url in the influencer's profile_image.
// POST /api/v1/uploads/profile-image
func (ctrl *UploadController) PresignProfileImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignProfileImageRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := ctrl.storage.PresignProfileImage(req.Filename, req.ContentType, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrContentTypeNotAllowed):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		case errors.Is(err, storage.ErrFileTooLarge):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "The image is too large (5 MB maximum)")
		default:
			log.Error("Failed to generate presigned URL", err, map[string]interface{}{
				"filename":     req.Filename,
				"content_type": req.ContentType,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare the upload")
		}
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key":          response.Key,
		"content_type": req.ContentType,
	})

	c.JSON(http.StatusOK, response)
}
