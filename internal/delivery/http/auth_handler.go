package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"finedge/internal/delivery/http/dto"
	"finedge/internal/domain"
	"finedge/internal/middleware"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userRepo       domain.UserRepository
	portfolioRepo  domain.PortfolioRepository
	jwtSecret      string
	initialDeposit decimal.Decimal
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo domain.UserRepository, portfolioRepo domain.PortfolioRepository, jwtSecret string, initialDeposit decimal.Decimal) *AuthHandler {
	return &AuthHandler{
		userRepo:       userRepo,
		portfolioRepo:  portfolioRepo,
		jwtSecret:      jwtSecret,
		initialDeposit: initialDeposit,
	}
}

// Register handles user registration. New users get a cash portfolio
// seeded with the initial deposit; admin accounts get no portfolio.
// POST /api/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return BadRequestResponse(c, "Username already exists")
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return InternalServerErrorResponse(c, "Failed to create user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to create user")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return BadRequestResponse(c, "Username already exists")
		}
		return InternalServerErrorResponse(c, "Failed to create user")
	}

	if role == domain.RoleUser {
		now := time.Now()
		portfolio := &domain.Portfolio{
			ID:          uuid.New(),
			UserID:      user.ID,
			CashBalance: h.initialDeposit,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := h.portfolioRepo.Create(ctx, portfolio); err != nil {
			return InternalServerErrorResponse(c, "Failed to create portfolio")
		}
	}

	token, err := middleware.GenerateJWT(h.jwtSecret, user.ID, user.Role)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token")
	}
	h.setTokenCookie(c, token)

	return c.JSON(http.StatusCreated, user)
}

// Login handles user login. Admin accounts must use the admin login.
// POST /api/login
func (h *AuthHandler) Login(c echo.Context) error {
	user, err := h.authenticate(c)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		return ForbiddenResponse(c, "Please use admin login")
	}

	return h.issueToken(c, user)
}

// AdminLogin handles admin login
// POST /api/admin/login
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	user, err := h.authenticate(c)
	if err != nil {
		return err
	}

	if !user.IsAdmin() {
		return ForbiddenResponse(c, "Admin access required")
	}

	return h.issueToken(c, user)
}

// Logout clears the auth cookie
// POST /api/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me returns the authenticated user
// GET /api/user
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	return c.JSON(http.StatusOK, user)
}

// ForgotPassword acknowledges a reset request without revealing whether
// the address is registered.
// POST /api/forgot-password
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "If the email exists, a reset link has been sent"})
}

// authenticate binds and verifies login credentials. Errors are
// echo.HTTPErrors so the default handler renders the message body.
func (h *AuthHandler) authenticate(c echo.Context) (*domain.User, error) {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if req.Username == "" || req.Password == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return user, nil
}

func (h *AuthHandler) issueToken(c echo.Context, user *domain.User) error {
	token, err := middleware.GenerateJWT(h.jwtSecret, user.ID, user.Role)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token")
	}
	h.setTokenCookie(c, token)

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
