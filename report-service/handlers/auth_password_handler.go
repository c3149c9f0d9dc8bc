package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"motri-backend/shared/config"
	"motri-backend/shared/database/models"
	"motri-backend/shared/database/models/auth"
	utils "motri-backend/shared/utils/auth"
)

var errResetTokenExpired = errors.New("password reset token has expired")

type ForgotPasswordRequest struct {
	Email string `json:"email" example:"director@example.com"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// ForgotPassword issues a reset token and mails the reset link
// @Summary Forgot password
// @Description Generate a one-hour reset token and email its link to the director
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Director email"
// @Success 200 {object} map[string]string "Reset link sent"
// @Failure 400 {object} map[string]string "Missing email"
// @Failure 404 {object} map[string]string "Director not found"
// @Failure 500 {object} map[string]string "Email delivery failed"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide your email"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide your email"})
		return
	}

	clientIP := c.ClientIP()
	if err := h.checkPasswordResetRateLimit(email, clientIP); err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many password reset attempts. Please try again later."})
		return
	}

	// The 404 on unknown email reveals whether an address is registered.
	// Kept intentionally: the dashboard tells the single director whether
	// they typed their own address correctly.
	var director models.Director
	if err := h.db.Where("email = ?", email).First(&director).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
		return
	}

	token, err := utils.GenerateRandomToken(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create reset token"})
		return
	}

	// Storing a fresh hash and expiry silently invalidates any earlier
	// unconsumed token for this account.
	tokenHash := utils.HashToken(token)
	ttl := time.Duration(config.GetConfig().ResetTokenTTLMinutes) * time.Minute
	expiresAt := time.Now().Add(ttl)
	if err := h.db.Model(&director).Updates(map[string]interface{}{
		"reset_token_hash":       tokenHash,
		"reset_token_expires_at": expiresAt,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not process request"})
		return
	}

	if err := h.mailer.SendPasswordResetEmail(director.Email, director.Username, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while sending email"})
		return
	}

	h.recordPasswordResetAttempt(email, clientIP, true)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to your email"})
}

// VerifyResetToken checks whether a reset link is still usable
// @Summary Verify reset token
// @Description Read-only check that a reset token matches and has not expired
// @Tags auth
// @Produce json
// @Param token path string true "Reset token"
// @Success 200 {object} map[string]bool "Token is valid"
// @Failure 400 {object} map[string]string "Invalid or expired token"
// @Router /auth/reset-password/{token} [get]
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token is required"})
		return
	}

	if _, err := h.findDirectorByResetToken(token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResetPassword consumes a reset token and sets a new password
// @Summary Reset password
// @Description Replace the password using a valid reset token; the token is consumed
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]string "Password reset successfully"
// @Failure 400 {object} map[string]string "Invalid/expired token or weak password"
// @Router /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a new password"})
		return
	}
	if req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a new password"})
		return
	}

	// Weak passwords fail before any lookup or mutation.
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	director, err := h.findDirectorByResetToken(token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		return
	}

	if err := director.SetPassword(req.NewPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}

	// Password replacement and token consumption happen in one update so
	// the token can never survive a successful reset.
	if err := h.db.Model(director).Updates(map[string]interface{}{
		"password":               director.Password,
		"reset_token_hash":       nil,
		"reset_token_expires_at": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// findDirectorByResetToken hashes the presented token and matches it
// against an unexpired stored hash. Read-only.
func (h *AuthHandler) findDirectorByResetToken(token string) (*models.Director, error) {
	tokenHash := utils.HashToken(token)

	var director models.Director
	if err := h.db.Where("reset_token_hash = ?", tokenHash).First(&director).Error; err != nil {
		return nil, err
	}

	if director.ResetTokenExpiresAt == nil || !time.Now().Before(*director.ResetTokenExpiresAt) {
		return nil, errResetTokenExpired
	}

	return &director, nil
}

func (h *AuthHandler) checkPasswordResetRateLimit(email, ipAddress string) error {
	var count int64
	h.db.Model(&auth.PasswordResetAttempt{}).
		Where("(email = ? OR ip_address = ?) AND created_at > ?",
			email, ipAddress, time.Now().Add(-15*time.Minute)).
		Count(&count)

	if count >= 3 {
		return gin.Error{Type: gin.ErrorTypePublic}
	}
	return nil
}

func (h *AuthHandler) recordPasswordResetAttempt(email, ipAddress string, successful bool) {
	attempt := auth.PasswordResetAttempt{
		Email:      email,
		IPAddress:  ipAddress,
		Successful: successful,
	}
	h.db.Create(&attempt)
}
