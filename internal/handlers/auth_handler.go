package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/pkg/jwt"
	"github.com/swiftbus/booking-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles account registration and token issuance
type AuthHandler struct {
	userRepo   *database.UserRepository
	jwtService *jwt.Service
	phones     *validator.PhoneValidator
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo *database.UserRepository, jwtService *jwt.Service, phones *validator.PhoneValidator, bcryptCost int, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		jwtService: jwtService,
		phones:     phones,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new passenger account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, models.NewValidationError("", "invalid request body: "+err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}

	phone, err := h.phones.Validate(req.Phone)
	if err != nil {
		respondError(c, h.logger, models.NewValidationError("phone", err.Error()))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.userRepo.CreateUser(req.Name, req.Email, phone, string(hash))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("User registered")
	respond(c, http.StatusCreated, "Account created", user)
}

// Login verifies credentials and issues a token pair
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, models.NewValidationError("", "email and password are required"))
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(c, h.logger, models.ErrUnauthorized)
			return
		}
		respondError(c, h.logger, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, h.logger, models.ErrUnauthorized)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Login successful", tokens)
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, models.NewValidationError("", "refresh_token is required"))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, models.ErrUnauthorized)
		return
	}

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(c, h.logger, models.ErrUnauthorized)
			return
		}
		respondError(c, h.logger, err)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Token refreshed", tokens)
}

func (h *AuthHandler) issueTokens(user *models.User) (*models.TokenPair, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
