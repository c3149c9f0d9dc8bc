package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"motri-backend/report-service/middleware"
	"motri-backend/report-service/services"
	"motri-backend/shared/database/models"
	"motri-backend/shared/database/models/auth"
)

const (
	testDirectorUsername = "alice"
	testDirectorEmail    = "alice@example.com"
	testDirectorPassword = "secret123"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Director{},
		&models.Report{},
		&auth.LoginAttempt{},
		&auth.PasswordResetAttempt{},
	))

	return db
}

func seedDirector(t *testing.T, db *gorm.DB) models.Director {
	t.Helper()

	director := models.Director{
		Username: testDirectorUsername,
		Email:    testDirectorEmail,
	}
	require.NoError(t, director.SetPassword(testDirectorPassword))
	require.NoError(t, db.Create(&director).Error)

	return director
}

// stubMailer captures the token that would have gone out by email.
type stubMailer struct {
	sentTo    string
	sentToken string
	fail      bool
}

func (m *stubMailer) SendPasswordResetEmail(toEmail, username, resetToken string) error {
	if m.fail {
		return io.ErrClosedPipe
	}
	m.sentTo = toEmail
	m.sentToken = resetToken
	return nil
}

// stubStorage records uploads and removals in memory.
type stubStorage struct {
	objects map[string]bool
	failUp  bool
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: make(map[string]bool)}
}

func (s *stubStorage) Upload(ctx context.Context, reader io.Reader, objectKey string, size int64, contentType string) error {
	if s.failUp {
		return io.ErrClosedPipe
	}
	s.objects[objectKey] = true
	return nil
}

func (s *stubStorage) Remove(ctx context.Context, objectKey string) error {
	delete(s.objects, objectKey)
	return nil
}

func (s *stubStorage) PresignedURL(ctx context.Context, objectKey string) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

// stubFeed collects broadcast events for assertions.
type stubFeed struct {
	events []*services.FeedEvent
}

func (f *stubFeed) Broadcast(event *services.FeedEvent) {
	f.events = append(f.events, event)
}

func newAuthRouter(h *AuthHandler, directorID interface{}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.GET("/reset-password/:token", h.VerifyResetToken)
		authGroup.POST("/reset-password/:token", h.ResetPassword)
		authGroup.PUT("/change-password", func(c *gin.Context) {
			if directorID != nil {
				c.Set(middleware.ContextDirectorID, directorID)
			}
			h.ChangePassword(c)
		})
	}

	return router
}

func newReportRouter(h *ReportHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	reportGroup := router.Group("/api/reports")
	{
		reportGroup.POST("/", h.SubmitReport)
		reportGroup.GET("/", h.GetReports)
		reportGroup.DELETE("/:id", h.DeleteReport)
	}

	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performMultipart(t *testing.T, router *gin.Engine, path string, fields map[string]string, imageName string, imageBody []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(imageBody)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validReportFields() map[string]string {
	return map[string]string{
		"name":           "Anonymous",
		"email":          "someone@example.com",
		"phone":          "+251911000000",
		"abuseType":      models.AbuseTypePhysical,
		"description":    "An incident description",
		"sex":            "Female",
		"workPosition":   "Nurse",
		"educationLevel": "Degree",
		"jobType":        "Full-time",
		"incidentTime":   "Morning",
		"incidentPlace":  "Office",
		"incidentDay":    "Monday",
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
