package controller

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/influencehub/influencehub-backend/config"
	apperrors "github.com/influencehub/influencehub-backend/internal/errors"
	"github.com/influencehub/influencehub-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUploadControllerTest(t *testing.T) controllerFixture {
	s3, err := storage.NewS3Storage(&config.S3Config{
		Region:          "eu-west-3",
		Bucket:          "influencehub-media",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		BaseURL:         "https://cdn.influencehub.fr",
	})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/uploads/profile-image", NewUploadController(s3).PresignProfileImage)
	return controllerFixture{router: router}
}

func TestUploadController_PresignProfileImage(t *testing.T) {
	fx := setupUploadControllerTest(t)

	w := fx.do(t, http.MethodPost, "/uploads/profile-image", map[string]interface{}{
		"filename":     "marie.png",
		"content_type": "image/png",
		"size":         2048,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	key := body["key"].(string)
	assert.True(t, strings.HasPrefix(key, "profile-images/"))
	assert.Equal(t, "https://cdn.influencehub.fr/"+key, body["file_url"])
	assert.Contains(t, body["upload_url"], "X-Amz-Signature=")
}

func TestUploadController_Rejects(t *testing.T) {
	fx := setupUploadControllerTest(t)

	tests := []struct {
		name     string
		payload  map[string]interface{}
		wantCode string
	}{
		{
			name:     "missing filename",
			payload:  map[string]interface{}{"content_type": "image/png"},
			wantCode: apperrors.ValidationInvalidFormat,
		},
		{
			name:     "not an image",
			payload:  map[string]interface{}{"filename": "cv.pdf", "content_type": "application/pdf"},
			wantCode: apperrors.UploadInvalidFileType,
		},
		{
			name:     "too large",
			payload:  map[string]interface{}{"filename": "a.jpg", "content_type": "image/jpeg", "size": storage.MaxProfileImageSize + 1},
			wantCode: apperrors.ValidationInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := fx.do(t, http.MethodPost, "/uploads/profile-image", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w)["error"])
		})
	}
}
