package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/docbook/docbook/internal/platform/validation"
)

type LoginRequest struct {
	Username string `json:"username" validate:"notblank,max=150"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// NewStaffInput is used by the CLI to provision accounts.
type NewStaffInput struct {
	Username string `json:"username" validate:"notblank,max=150"`
	Password string `json:"password" validate:"min=8,max=72"`
}

// LoginService authenticates staff users and manages their tokens.
type LoginService struct {
	store   StaffStore
	issuer  *Issuer
	revoker Revoker
	logger  zerolog.Logger
}

func NewLoginService(store StaffStore, issuer *Issuer, revoker Revoker, logger zerolog.Logger) *LoginService {
	return &LoginService{store: store, issuer: issuer, revoker: revoker, logger: logger}
}

// Login checks the credentials and returns a token pair. Unknown users,
// inactive users and wrong passwords all yield ErrInvalidCredentials.
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.store.GetByUsername(ctx, NormalizeUsername(req.Username))
	if errors.Is(err, ErrStaffNotFound) {
		burnCompare(req.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, req.Password) || !u.IsActive {
		s.logger.Warn().Str("username", u.Username).Msg("failed staff login")
		return nil, ErrInvalidCredentials
	}
	s.logger.Info().Str("staff_id", u.ID.String()).Msg("staff login")
	return s.issuer.Pair(u.ID.String())
}

// Refresh exchanges a valid refresh token for a new access token. The
// account must still exist and be active.
func (s *LoginService) Refresh(ctx context.Context, token string) (string, time.Time, error) {
	claims, err := s.verifyRefresh(ctx, token)
	if err != nil {
		return "", time.Time{}, err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	u, err := s.store.GetByID(ctx, id)
	if errors.Is(err, ErrStaffNotFound) || (err == nil && !u.IsActive) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return s.issuer.Access(u.ID.String())
}

// Logout revokes the refresh token until its natural expiry.
func (s *LoginService) Logout(ctx context.Context, token string) error {
	claims, err := s.verifyRefresh(ctx, token)
	if err != nil {
		return err
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *LoginService) verifyRefresh(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.issuer.ParseRefresh(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// CreateStaff provisions an active staff account.
func (s *LoginService) CreateStaff(ctx context.Context, in NewStaffInput) (*StaffUser, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &StaffUser{Username: NormalizeUsername(in.Username), PasswordHash: hash, IsActive: true}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type Handler struct {
	svc *LoginService
}

func NewHandler(svc *LoginService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(pub *echo.Group) {
	pub.POST("/auth/login", h.Login)
	pub.POST("/auth/refresh", h.Refresh)
	pub.POST("/auth/logout", h.Logout)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	pair, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *Handler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}
	access, exp, err := h.svc.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"access":            access,
		"access_expires_at": exp,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := h.svc.Logout(c.Request().Context(), req.Refresh); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrTokenRevoked):
		return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
	}
	return err
}
