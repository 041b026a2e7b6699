package devserver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bemooooooooo/coworking-client/internal/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&userRow{}).Where("username = ?", username).Count(&count).Error; err != nil {
		response.Internal(c)
		return
	}
	if count > 0 {
		response.Error(c, http.StatusConflict, "USERNAME_EXIST", "username already taken")
		return
	}
	if err := s.db.Model(&userRow{}).Where("email = ?", email).Count(&count).Error; err != nil {
		response.Internal(c)
		return
	}
	if count > 0 {
		response.Error(c, http.StatusConflict, "EMAIL_EXIST", "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Internal(c)
		return
	}

	user := userRow{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := s.db.Create(&user).Error; err != nil {
		response.Internal(c)
		return
	}

	s.respondWithTokens(c, http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var user userRow
	err := s.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		return
	}

	s.respondWithTokens(c, http.StatusOK, user)
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	hash := s.hashRefreshToken(req.RefreshToken)
	var row refreshTokenRow
	err := s.db.Where("token_hash = ?", hash).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "unknown refresh token")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}
	if row.UsedAt != nil || s.now().After(row.ExpiresAt) {
		response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "refresh token expired or already used")
		return
	}

	var user userRow
	if err := s.db.First(&user, row.UserID).Error; err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "user no longer exists")
		return
	}

	// rotate: the old token is single use
	usedAt := s.now()
	if err := s.db.Model(&row).Update("used_at", usedAt).Error; err != nil {
		response.Internal(c)
		return
	}

	access, refreshRaw, err := s.issueTokens(user)
	if err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refreshRaw,
	})
}

func (s *Server) getProfile(c *gin.Context) {
	var user userRow
	err := s.db.First(&user, c.GetInt64("user_id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "user not found")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toDomainUser(user))
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var user userRow
	err := s.db.First(&user, c.GetInt64("user_id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "user not found")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}

	if req.Username != "" {
		user.Username = strings.TrimSpace(req.Username)
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			response.Internal(c)
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := s.db.Save(&user).Error; err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toDomainUser(user))
}

func (s *Server) respondWithTokens(c *gin.Context, status int, user userRow) {
	access, refreshRaw, err := s.issueTokens(user)
	if err != nil {
		response.Internal(c)
		return
	}
	c.JSON(status, gin.H{
		"user":          toDomainUser(user),
		"access_token":  access,
		"refresh_token": refreshRaw,
	})
}

func (s *Server) issueTokens(user userRow) (access, refreshRaw string, err error) {
	access, err = s.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", "", err
	}

	refreshRaw = uuid.NewString()
	row := refreshTokenRow{
		UserID:    user.ID,
		TokenHash: s.hashRefreshToken(refreshRaw),
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err = s.db.Create(&row).Error; err != nil {
		return "", "", err
	}
	return access, refreshRaw, nil
}

func (s *Server) hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw + s.pepper))
	return hex.EncodeToString(sum[:])
}
