package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/infrastructure/storage"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

type objectStore interface {
	Put(ctx context.Context, bucket, objectPath string, r io.Reader, upsert bool) (*storage.Object, error)
	Open(ctx context.Context, bucket, objectPath string) (io.ReadCloser, *storage.Object, error)
	Remove(ctx context.Context, bucket, objectPath string) error
}

// StorageHandler serves /storage/v1/object. Users write below a folder named
// after their ID; superadmins write anywhere.
type StorageHandler struct {
	store  objectStore
	logger logger.Interface
}

func NewStorageHandler(store objectStore, logger logger.Interface) *StorageHandler {
	return &StorageHandler{store: store, logger: logger}
}

type UploadResponse struct {
	Key string `json:"Key"`
}

// Upload handles POST and PUT /storage/v1/object/:bucket/*path. PUT and the
// x-upsert header replace an existing object.
// @Summary Upload an object
// @Tags Storage
// @Accept octet-stream
// @Produce json
// @Param apikey header string true "Anon key"
// @Param bucket path string true "Bucket"
// @Param path path string true "Object path, first segment is the owner's user id"
// @Param x-upsert header bool false "Replace an existing object"
// @Security BearerAuth
// @Success 200 {object} UploadResponse
// @Failure 403 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody
// @Failure 413 {object} utils.ErrorBody
// @Router /storage/v1/object/{bucket}/{path} [post]
func (h *StorageHandler) Upload(c *gin.Context) {
	bucket, objectPath := objectParams(c)
	if err := authorizeWrite(middleware.CallerFrom(c), objectPath); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	upsert := c.Request.Method == http.MethodPut
	if v, err := strconv.ParseBool(c.GetHeader(constants.HeaderXUpsert)); err == nil {
		upsert = v
	}

	obj, err := h.store.Put(c.Request.Context(), bucket, objectPath, c.Request.Body, upsert)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Infow("object uploaded", "bucket", bucket, "path", objectPath, "size", obj.Size)
	c.JSON(http.StatusOK, UploadResponse{Key: bucket + "/" + objectPath})
}

// Download handles GET /storage/v1/object/:bucket/*path and the public
// variant.
// @Summary Download an object
// @Tags Storage
// @Produce octet-stream
// @Param bucket path string true "Bucket"
// @Param path path string true "Object path"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorBody
// @Router /storage/v1/object/{bucket}/{path} [get]
// @Router /storage/v1/object/public/{bucket}/{path} [get]
func (h *StorageHandler) Download(c *gin.Context) {
	bucket, objectPath := objectParams(c)
	rc, obj, err := h.store.Open(c.Request.Context(), bucket, objectPath)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, rc, nil)
}

// Remove handles DELETE /storage/v1/object/:bucket/*path.
// @Summary Delete an object
// @Tags Storage
// @Param apikey header string true "Anon key"
// @Param bucket path string true "Bucket"
// @Param path path string true "Object path"
// @Security BearerAuth
// @Success 200
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /storage/v1/object/{bucket}/{path} [delete]
func (h *StorageHandler) Remove(c *gin.Context) {
	bucket, objectPath := objectParams(c)
	if err := authorizeWrite(middleware.CallerFrom(c), objectPath); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if err := h.store.Remove(c.Request.Context(), bucket, objectPath); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully deleted"})
}

func objectParams(c *gin.Context) (string, string) {
	return c.Param("bucket"), strings.TrimPrefix(c.Param("path"), "/")
}

func authorizeWrite(caller middleware.Caller, objectPath string) error {
	if caller.Anonymous() {
		return errors.NewUnauthorizedError("authentication required")
	}
	if caller.Role == profile.RoleSuperadmin {
		return nil
	}
	owner, _, _ := strings.Cut(objectPath, "/")
	if owner != caller.UserID {
		return errors.NewForbiddenError("objects must be stored under the caller's folder")
	}
	return nil
}

func (h *StorageHandler) fail(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, storage.ErrObjectNotFound):
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("Object not found"))
	case stderrors.Is(err, storage.ErrObjectExists):
		utils.ErrorResponseWithError(c, errors.NewConflictError("The resource already exists").WithPGCode(errors.CodeUniqueViolation))
	case stderrors.Is(err, storage.ErrInvalidPath):
		utils.ErrorResponseWithError(c, errors.NewBadRequestError(err.Error()))
	case stderrors.Is(err, storage.ErrTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "The object exceeded the maximum allowed size")
	default:
		h.logger.Errorw("storage request failed", "path", c.Request.URL.Path, "error", err)
		utils.ErrorResponseWithError(c, err)
	}
}
