package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"motri-backend/report-service/middleware"
	"motri-backend/shared/database/models"
	"motri-backend/shared/database/models/auth"
	utils "motri-backend/shared/utils/auth"
)

// invalidCredentialsMessage is returned for both unknown identifiers and
// wrong passwords, so a caller cannot probe which usernames exist.
const invalidCredentialsMessage = "Invalid username/email or password"

// ResetMailer delivers the plaintext reset token out of band.
type ResetMailer interface {
	SendPasswordResetEmail(toEmail, username, resetToken string) error
}

// AuthHandler serves director authentication and password management.
type AuthHandler struct {
	db     *gorm.DB
	mailer ResetMailer
}

func NewAuthHandler(db *gorm.DB, mailer ResetMailer) *AuthHandler {
	return &AuthHandler{db: db, mailer: mailer}
}

// Login Request/Response structs
type LoginRequest struct {
	Identifier string `json:"identifier" example:"alice"`
	Password   string `json:"password" example:"secret123"`
}

type LoginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	Director  DirectorInfo `json:"director"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type DirectorInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Login authenticates a director by username or email
// @Summary Director login
// @Description Authenticate a director and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} map[string]string "Missing identifier or password"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide username/email and password"})
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide username/email and password"})
		return
	}

	clientIP := c.ClientIP()
	if err := h.checkLoginRateLimit(identifier, clientIP); err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts. Please try again later."})
		return
	}

	// Identifier may be a username or an email; emails are stored
	// lowercased.
	var director models.Director
	if err := h.db.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&director).Error; err != nil {
		h.recordLoginAttempt(identifier, clientIP, false, "Director not found")
		c.JSON(http.StatusUnauthorized, gin.H{"message": invalidCredentialsMessage})
		return
	}

	if !director.CheckPassword(req.Password) {
		h.recordLoginAttempt(identifier, clientIP, false, "Invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"message": invalidCredentialsMessage})
		return
	}

	token, err := utils.GenerateJWT(director.ID, director.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not generate token"})
		return
	}

	h.recordLoginAttempt(identifier, clientIP, true, "")

	c.JSON(http.StatusOK, LoginResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: time.Now().Add(utils.GetJWTExpireDuration()),
		Director: DirectorInfo{
			ID:       director.ID,
			Username: director.Username,
			Email:    director.Email,
		},
	})
}

// ChangePassword replaces the authenticated director's password
// @Summary Change password
// @Description Change the director's password after verifying the old one
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]string "Password changed successfully"
// @Failure 400 {object} map[string]string "Missing fields or weak password"
// @Failure 401 {object} map[string]string "Not authenticated or old password mismatch"
// @Router /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide both old and new passwords"})
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide both old and new passwords"})
		return
	}

	directorID, exists := c.Get(middleware.ContextDirectorID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	var director models.Director
	if err := h.db.Where("id = ?", directorID).First(&director).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	if !director.CheckPassword(req.OldPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Old password is incorrect"})
		return
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := director.SetPassword(req.NewPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}

	if err := h.db.Model(&director).Update("password", director.Password).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update password"})
		return
	}

	// Outstanding session tokens stay valid until expiry: tokens are
	// stateless and there is no revocation list.
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// checkLoginRateLimit rejects when too many failed attempts were recorded
// for the identifier or IP in the last 15 minutes.
func (h *AuthHandler) checkLoginRateLimit(identifier, ipAddress string) error {
	var count int64
	h.db.Model(&auth.LoginAttempt{}).
		Where("(identifier = ? OR ip_address = ?) AND successful = ? AND created_at > ?",
			identifier, ipAddress, false, time.Now().Add(-15*time.Minute)).
		Count(&count)

	if count >= 5 {
		return gin.Error{Type: gin.ErrorTypePublic}
	}
	return nil
}

func (h *AuthHandler) recordLoginAttempt(identifier, ipAddress string, successful bool, failureType string) {
	attempt := auth.LoginAttempt{
		Identifier:  identifier,
		IPAddress:   ipAddress,
		Successful:  successful,
		FailureType: failureType,
	}
	h.db.Create(&attempt)
}
