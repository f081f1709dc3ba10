package transport

import (
	"net/http"

	"cleancart/internal/middleware"
	"cleancart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContactRequest represents the contact-form payload
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ContactHandler handles HTTP requests for contact-form submissions
type ContactHandler struct {
	contactService service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// RegisterRoutes registers the contact routes
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/contacts", func(r chi.Router) {
		r.Post("/addContact", h.AddContact)
	})
}

// AddContact stores a contact-form submission.
func (h *ContactHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.contactService.Submit(r.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		h.logger.Error("Failed to store contact message", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store contact message")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, msg)
}
