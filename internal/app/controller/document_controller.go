package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/crownpawn/titlepawn-backend/internal/app/service"
	apperrors "github.com/crownpawn/titlepawn-backend/internal/errors"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
	"github.com/crownpawn/titlepawn-backend/internal/storage"
)

// DocumentController issues presigned S3 upload URLs for title documents and
// vehicle photos, and records the resulting keys on the vehicle.
type DocumentController struct {
	storage        *storage.S3Storage
	vehicleService service.VehicleService
}

func NewDocumentController(s3 *storage.S3Storage, vehicleService service.VehicleService) *DocumentController {
	return &DocumentController{
		storage:        s3,
		vehicleService: vehicleService,
	}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=title photo"`
	FileSize    int64  `json:"file_size"`
}

type AttachDocumentRequest struct {
	Kind string `json:"kind" binding:"required,oneof=title photo"`
	Key  string `json:"key" binding:"required"`
}

// PresignUpload issues a presigned PUT URL for a vehicle document
// POST /api/v1/vehicles/:id/documents/presign
func (ctrl *DocumentController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid vehicle id")
		return
	}

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid upload payload")
		return
	}

	// The vehicle must exist in the caller's tenant before handing out URLs.
	if _, err := ctrl.vehicleService.GetVehicle(uint(vehicleID), companyID); err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "vehicle not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get vehicle")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, storage.AllowedDocumentTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "only images and PDFs are accepted")
		return
	}
	if req.FileSize > 0 {
		if err := ctrl.storage.ValidateFileSize(req.FileSize, storage.MaxDocumentSize); err != nil {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "file exceeds the 10MB limit")
			return
		}
	}

	folder := storage.FolderVehiclePhotos
	if req.Kind == "title" {
		folder = storage.FolderTitles
	}

	presigned, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to presign upload", err, map[string]interface{}{
			"vehicle_id": vehicleID,
			"kind":       req.Kind,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "could not prepare upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload": presigned})
}

// AttachDocument records an uploaded document's S3 key on the vehicle
// POST /api/v1/vehicles/:id/documents
func (ctrl *DocumentController) AttachDocument(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid vehicle id")
		return
	}

	var req AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid document payload")
		return
	}

	titleKey, photoKey := "", ""
	if req.Kind == "title" {
		titleKey = req.Key
	} else {
		photoKey = req.Key
	}

	vehicle, err := ctrl.vehicleService.SetDocumentKeys(uint(vehicleID), companyID, titleKey, photoKey)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "vehicle not found")
			return
		}
		log.Error("Failed to attach document", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}
