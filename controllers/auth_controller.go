package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cpclub/clubhub/config"
	"github.com/cpclub/clubhub/middleware"
	"github.com/cpclub/clubhub/models"
	"github.com/cpclub/clubhub/store"
	"github.com/cpclub/clubhub/utils"
	"github.com/cpclub/clubhub/validation"
)

const (
	tokenLifetime = 72 * time.Hour

	emailDomainMessage   = "registration is restricted to institutional email addresses"
	emailTakenMessage    = "A user with this email already exists"
	badCredentialMessage = "invalid email or password"
)

// AuthController handles registration, sessions and password changes.
type AuthController struct {
	users UserDirectory

	allowedDomains []string
	issueToken     func(userID uint, name, email, role string) (string, error)
	revokeToken    func(token string, expiresAt time.Time)
}

// NewAuthController wires the controller against the configured email policy.
func NewAuthController(users UserDirectory) *AuthController {
	cfg := config.Get()
	return &AuthController{
		users:          users,
		allowedDomains: cfg.AllowedEmailDomains,
		issueToken: func(userID uint, name, email, role string) (string, error) {
			return utils.GenerateToken(userID, name, email, role, tokenLifetime)
		},
		revokeToken: utils.BlacklistToken,
	}
}

// Register creates a member account for an institutional email address.
func (a *AuthController) Register(ctx *gin.Context) {
	var form validation.RegisterForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validation.Struct(form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))
	if !validation.EmailDomainAllowed(email, a.allowedDomains) {
		utils.Fail(ctx, http.StatusBadRequest, emailDomainMessage)
		return
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		internalError(ctx, "hash password", err)
		return
	}

	user := &models.User{
		Name:         strings.TrimSpace(form.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleMember,
		StudentID:    strings.TrimSpace(form.StudentID),
		ProfileImage: form.ProfileImage,
	}
	if err := a.users.Create(ctx.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Fail(ctx, http.StatusConflict, emailTakenMessage)
			return
		}
		internalError(ctx, "register user", err)
		return
	}

	utils.SuccessMessage(ctx, user, "Account created")
}

// Login verifies credentials and issues a session token.
func (a *AuthController) Login(ctx *gin.Context) {
	var form struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))
	if email == "" || form.Password == "" {
		utils.Fail(ctx, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.users.GetByEmail(ctx.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(ctx, http.StatusUnauthorized, badCredentialMessage)
			return
		}
		internalError(ctx, "login lookup", err)
		return
	}
	if !utils.CheckPassword(user.PasswordHash, form.Password) {
		utils.Fail(ctx, http.StatusUnauthorized, badCredentialMessage)
		return
	}

	token, err := a.issueToken(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		internalError(ctx, "issue token", err)
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token for the remainder of its lifetime.
func (a *AuthController) Logout(ctx *gin.Context) {
	if _, ok := middleware.CurrentPrincipal(ctx); !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 {
		token := strings.TrimSpace(parts[1])
		expiresAt := time.Now().Add(tokenLifetime)
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		a.revokeToken(token, expiresAt)
	}

	utils.SuccessMessage(ctx, nil, "Logged out")
}

// Me returns the account record of the session principal.
func (a *AuthController) Me(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := a.users.Get(ctx.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "account not found")
			return
		}
		internalError(ctx, "load account", err)
		return
	}

	utils.Success(ctx, user)
}

// ChangePassword rotates the password of the session principal. The subject
// always comes from the token; a user id in the payload is ignored.
func (a *AuthController) ChangePassword(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var form validation.PasswordChangeForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validation.Struct(form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.Get(ctx.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "account not found")
			return
		}
		internalError(ctx, "load account", err)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, form.CurrentPassword) {
		utils.Fail(ctx, http.StatusBadRequest, "current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(form.NewPassword)
	if err != nil {
		internalError(ctx, "hash password", err)
		return
	}
	if err := a.users.UpdatePassword(ctx.Request.Context(), user.ID, hash); err != nil {
		internalError(ctx, "update password", err)
		return
	}

	utils.SuccessMessage(ctx, nil, "Password updated")
}
