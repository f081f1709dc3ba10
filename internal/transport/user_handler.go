package transport

import (
	"net/http"

	"cleancart/internal/middleware"
	"cleancart/internal/repository"
	"cleancart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignupRequest represents the registration request payload
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	UserName string `json:"userName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token   string       `json:"token"`
	IsAdmin bool         `json:"isAdmin"`
	User    *UserProfile `json:"user,omitempty"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// UserHandler handles HTTP requests for account operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes. Signup and login sit behind
// the auth rate limit.
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.With(rateLimit).Post("/signup", h.Signup)
		r.With(rateLimit).Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/profile/{id}", h.GetProfile)
			r.Delete("/{id}", h.DeleteAccount)
		})
	})
}

// Signup handles account creation
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Signup validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Signup(r.Context(), req.FullName, req.UserName, req.Email, req.Password)
	if err != nil {
		if err == repository.ErrUserAlreadyExists {
			middleware.RespondWithError(w, http.StatusBadRequest, "user with this email already exists")
			return
		}

		h.logger.Error("Signup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user created successfully",
		"userId":  user.ID,
	})
}

// Login handles authentication for both users and the admin credential pair
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	response := LoginResponse{Token: result.Token, IsAdmin: result.IsAdmin}
	if result.User != nil {
		response.User = &UserProfile{
			ID:       result.User.ID.String(),
			FullName: result.User.FullName,
			UserName: result.User.UserName,
			Email:    result.User.Email,
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetProfile returns one account's profile. Users can only read their own;
// admins can read any.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if !h.canAccess(r, id) {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error("Failed to get profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UserProfile{
		ID:       user.ID.String(),
		FullName: user.FullName,
		UserName: user.UserName,
		Email:    user.Email,
	})
}

// DeleteAccount removes an account. Carts and wishlists cascade; orders
// keep a null user reference.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if !h.canAccess(r, id) {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), id); err != nil {
		if err == repository.ErrUserNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error("Failed to delete account", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "account deleted successfully",
	})
}

func (h *UserHandler) canAccess(r *http.Request, id uuid.UUID) bool {
	if middleware.IsAdmin(r.Context()) {
		return true
	}
	userID, ok := middleware.GetUserID(r.Context())
	return ok && userID == id
}
