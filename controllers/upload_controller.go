package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cpclub/clubhub/config"
	"github.com/cpclub/clubhub/permissions"
	"github.com/cpclub/clubhub/upload"
	"github.com/cpclub/clubhub/utils"
)

// UploadController hands out presigned write URLs for direct image uploads.
type UploadController struct {
	issuer *upload.Issuer
}

// NewUploadController builds the controller from the configured storage
// endpoint and signing secret.
func NewUploadController() *UploadController {
	cfg := config.Get()
	issuer := upload.NewIssuer(cfg.UploadEndpoint, cfg.UploadPublicDomain, cfg.UploadKeyPrefix, cfg.UploadSigningSecret)
	if cfg.UploadURLTTLSeconds > 0 {
		issuer.TTL = time.Duration(cfg.UploadURLTTLSeconds) * time.Second
	}
	return &UploadController{issuer: issuer}
}

// GeneratePresignedURL validates the declared file type and size, then
// returns a short-lived write URL and the final public URL. Nothing is
// persisted; the client stores the public URL on the entity it belongs to.
func (u *UploadController) GeneratePresignedURL(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.UploadFiles); !ok {
		return
	}

	var form struct {
		FileType string `json:"file_type"`
		FileSize int64  `json:"file_size"`
	}
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	presigned, err := u.issuer.Issue(form.FileType, form.FileSize)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) || errors.Is(err, upload.ErrTooLarge) {
			utils.Fail(ctx, http.StatusBadRequest, err.Error())
			return
		}
		internalError(ctx, "issue upload url", err)
		return
	}

	utils.Success(ctx, presigned)
}
