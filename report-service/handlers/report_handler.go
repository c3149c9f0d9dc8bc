package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"motri-backend/report-service/services"
	"motri-backend/shared/database/models"
	"motri-backend/shared/utils/cache"
)

// requiredReportFields lists every non-image form field, in form order.
var requiredReportFields = []string{
	"name",
	"email",
	"phone",
	"abuseType",
	"description",
	"sex",
	"workPosition",
	"educationLevel",
	"jobType",
	"incidentTime",
	"incidentPlace",
	"incidentDay",
}

// ImageStorage stores and serves optional report images.
type ImageStorage interface {
	Upload(ctx context.Context, reader io.Reader, objectKey string, size int64, contentType string) error
	Remove(ctx context.Context, objectKey string) error
	PresignedURL(ctx context.Context, objectKey string) (string, error)
}

// FeedBroadcaster pushes report lifecycle events to director dashboards.
type FeedBroadcaster interface {
	Broadcast(event *services.FeedEvent)
}

// ReportHandler serves public submission and director review of reports.
type ReportHandler struct {
	db      *gorm.DB
	storage ImageStorage
	cache   *cache.ReportCache
	feed    FeedBroadcaster
}

// NewReportHandler wires the report endpoints. storage, cache and feed may
// be nil; the handler degrades to DB-only behavior without them.
func NewReportHandler(db *gorm.DB, storage ImageStorage, reportCache *cache.ReportCache, feed FeedBroadcaster) *ReportHandler {
	return &ReportHandler{db: db, storage: storage, cache: reportCache, feed: feed}
}

// ReportResponse decorates a report with a short-lived image URL.
type ReportResponse struct {
	models.Report
	ImageURL string `json:"imageUrl,omitempty"`
}

// SubmitReport accepts an anonymous incident submission
// @Summary Submit a report
// @Description Create an incident report from a public multipart form with an optional image
// @Tags reports
// @Accept mpfd
// @Produce json
// @Success 201 {object} map[string]interface{} "Report created"
// @Failure 400 {object} map[string]string "Missing or invalid fields"
// @Failure 500 {object} map[string]string "Storage or database failure"
// @Router /reports [post]
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	values := make(map[string]string, len(requiredReportFields))
	var missing []string
	for _, field := range requiredReportFields {
		value := strings.TrimSpace(c.PostForm(field))
		if value == "" {
			missing = append(missing, field)
			continue
		}
		values[field] = value
	}

	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	if !isValidAbuseType(values["abuseType"]) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "abuseType must be one of: " + strings.Join(models.AbuseTypes(), ", "),
		})
		return
	}

	report := models.Report{
		Name:           values["name"],
		Email:          values["email"],
		Phone:          values["phone"],
		AbuseType:      values["abuseType"],
		Description:    values["description"],
		Sex:            values["sex"],
		WorkPosition:   values["workPosition"],
		EducationLevel: values["educationLevel"],
		JobType:        values["jobType"],
		IncidentTime:   values["incidentTime"],
		IncidentPlace:  values["incidentPlace"],
		IncidentDay:    values["incidentDay"],
	}

	// Optional image goes to object storage before the row is written, so
	// a failed upload never leaves a dangling reference.
	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()

		if h.storage == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Storage service unavailable"})
			return
		}

		objectKey := fmt.Sprintf("reports/%s%s", uuid.New().String(), filepath.Ext(header.Filename))
		contentType := header.Header.Get("Content-Type")
		if err := h.storage.Upload(c.Request.Context(), file, objectKey, header.Size, contentType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
			return
		}
		report.Image = objectKey
	}

	if err := h.db.Create(&report).Error; err != nil {
		if report.Image != "" && h.storage != nil {
			h.storage.Remove(context.Background(), report.Image)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save report"})
		return
	}

	h.invalidateCache(c.Request.Context())
	if h.feed != nil {
		h.feed.Broadcast(&services.FeedEvent{
			Type:      services.FeedEventReportCreated,
			Report:    &report,
			Timestamp: time.Now(),
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    report,
	})
}

// GetReports lists all reports, newest first
// @Summary List reports
// @Description Return every submitted report ordered newest-first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} handlers.ReportResponse "Reports"
// @Failure 401 {object} map[string]string "Not authorized"
// @Failure 500 {object} map[string]string "Database failure"
// @Router /reports [get]
func (h *ReportHandler) GetReports(c *gin.Context) {
	ctx := c.Request.Context()

	var reports []models.Report
	if h.cache != nil {
		if cached, ok := h.cache.GetReports(ctx); ok {
			c.JSON(http.StatusOK, h.buildResponses(ctx, cached))
			return
		}
	}

	if err := h.db.Order("created_at DESC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load reports"})
		return
	}

	if h.cache != nil {
		h.cache.SetReports(ctx, reports)
	}

	c.JSON(http.StatusOK, h.buildResponses(ctx, reports))
}

// DeleteReport permanently removes one report
// @Summary Delete a report
// @Description Delete a report and its stored image; irreversible
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]string "Report deleted"
// @Failure 401 {object} map[string]string "Not authorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Database failure"
// @Router /reports/{id} [delete]
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Report not found"})
		return
	}

	var report models.Report
	if err := h.db.Where("id = ?", id).First(&report).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Report not found"})
		return
	}

	if err := h.db.Delete(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete report"})
		return
	}

	// Image removal is best-effort; the report row is already gone.
	if report.Image != "" && h.storage != nil {
		if err := h.storage.Remove(context.Background(), report.Image); err != nil {
			c.Error(err)
		}
	}

	h.invalidateCache(c.Request.Context())
	if h.feed != nil {
		h.feed.Broadcast(&services.FeedEvent{
			Type:      services.FeedEventReportDeleted,
			ReportID:  report.ID.String(),
			Timestamp: time.Now(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}

func (h *ReportHandler) buildResponses(ctx context.Context, reports []models.Report) []ReportResponse {
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		resp := ReportResponse{Report: report}
		if report.Image != "" && h.storage != nil {
			if url, err := h.storage.PresignedURL(ctx, report.Image); err == nil {
				resp.ImageURL = url
			}
		}
		responses = append(responses, resp)
	}
	return responses
}

func (h *ReportHandler) invalidateCache(ctx context.Context) {
	if h.cache != nil {
		h.cache.Invalidate(ctx)
	}
}

func isValidAbuseType(value string) bool {
	for _, t := range models.AbuseTypes() {
		if value == t {
			return true
		}
	}
	return false
}
