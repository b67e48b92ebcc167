package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/application/auth/usecases"
	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

// Grant types of POST /auth/v1/token.
const (
	GrantPassword     = "password"
	GrantRefreshToken = "refresh_token"
)

// AuthHandler serves /auth/v1 in the hosted auth API shape.
type AuthHandler struct {
	signUpUseCase  *usecases.SignUpUseCase
	signInUseCase  *usecases.SignInUseCase
	refreshUseCase *usecases.RefreshTokenUseCase
	signOutUseCase *usecases.SignOutUseCase
	getUserUseCase *usecases.GetUserUseCase
	logger         logger.Interface
}

func NewAuthHandler(
	signUpUC *usecases.SignUpUseCase,
	signInUC *usecases.SignInUseCase,
	refreshUC *usecases.RefreshTokenUseCase,
	signOutUC *usecases.SignOutUseCase,
	getUserUC *usecases.GetUserUseCase,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		signUpUseCase:  signUpUC,
		signInUseCase:  signInUC,
		refreshUseCase: refreshUC,
		signOutUseCase: signOutUC,
		getUserUseCase: getUserUC,
		logger:         logger,
	}
}

type CredentialsRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the auth API user object.
type UserResponse struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud"`
	Role         string         `json:"role"`
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SessionResponse is the token grant answer.
type SessionResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func toUserResponse(acc *account.Account) UserResponse {
	return UserResponse{
		ID:           acc.ID,
		Aud:          "authenticated",
		Role:         "authenticated",
		Email:        acc.Email,
		AppMetadata:  map[string]any{"provider": "email", "role": acc.Role},
		UserMetadata: map[string]any{},
		LastSignInAt: acc.LastSignInAt,
		CreatedAt:    acc.CreatedAt,
		UpdatedAt:    acc.UpdatedAt,
	}
}

func toSessionResponse(res *usecases.AuthResult) SessionResponse {
	return SessionResponse{
		AccessToken:  res.Tokens.AccessToken,
		TokenType:    "bearer",
		ExpiresIn:    res.Tokens.ExpiresIn,
		ExpiresAt:    res.Tokens.ExpiresAt.Unix(),
		RefreshToken: res.Tokens.RefreshToken,
		User:         toUserResponse(res.Account),
	}
}

// SignUp handles POST /auth/v1/signup.
// @Summary Create an account
// @Description Register with email and password. data.full_name seeds the profile.
// @Tags Auth
// @Accept json
// @Produce json
// @Param apikey header string true "Anon key"
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} utils.AuthErrorBody
// @Failure 422 {object} utils.AuthErrorBody
// @Failure 429 {object} utils.ErrorBody
// @Router /auth/v1/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AuthErrorResponse(c, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	fullName, _ := req.Data["full_name"].(string)
	res, err := h.signUpUseCase.Execute(c.Request.Context(), usecases.SignUpCommand{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  fullName,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		utils.AuthErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(res))
}

// Token handles POST /auth/v1/token?grant_type=password|refresh_token.
// @Summary Issue a session
// @Description Password grant takes CredentialsRequest, refresh_token grant takes RefreshTokenRequest and rotates the refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param apikey header string true "Anon key"
// @Param grant_type query string true "password or refresh_token"
// @Param request body CredentialsRequest true "Credentials or refresh token"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} utils.AuthErrorBody
// @Failure 429 {object} utils.ErrorBody
// @Router /auth/v1/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	switch grant := c.Query("grant_type"); grant {
	case GrantPassword:
		h.passwordGrant(c)
	case GrantRefreshToken:
		h.refreshGrant(c)
	default:
		utils.AuthErrorResponse(c, errors.NewBadRequestError("unsupported grant_type", grant))
	}
}

func (h *AuthHandler) passwordGrant(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AuthErrorResponse(c, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	res, err := h.signInUseCase.Execute(c.Request.Context(), usecases.SignInCommand{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		utils.AuthErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(res))
}

func (h *AuthHandler) refreshGrant(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AuthErrorResponse(c, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.AuthErrorResponse(c, err)
		return
	}
	res, err := h.refreshUseCase.Execute(c.Request.Context(), usecases.RefreshTokenCommand{RefreshToken: req.RefreshToken})
	if err != nil {
		utils.AuthErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(res))
}

// Logout handles POST /auth/v1/logout?scope=global|local.
// @Summary Revoke the session
// @Tags Auth
// @Param apikey header string true "Anon key"
// @Param scope query string false "local (default) or global"
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} utils.AuthErrorBody
// @Router /auth/v1/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	err := h.signOutUseCase.Execute(c.Request.Context(), usecases.SignOutCommand{
		UserID:    caller.UserID,
		SessionID: caller.SessionID,
		Scope:     c.Query("scope"),
	})
	if err != nil {
		utils.AuthErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// User handles GET /auth/v1/user.
// @Summary Current user
// @Tags Auth
// @Produce json
// @Param apikey header string true "Anon key"
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} utils.AuthErrorBody
// @Router /auth/v1/user [get]
func (h *AuthHandler) User(c *gin.Context) {
	acc, err := h.getUserUseCase.Execute(c.Request.Context(), middleware.CallerFrom(c).UserID)
	if err != nil {
		utils.AuthErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(acc))
}
