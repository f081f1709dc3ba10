package service

import (
	"context"
	"time"

	"cleancart/internal/domain"
	"cleancart/internal/repository"

	"github.com/google/uuid"
)

// ContactService stores contact-form submissions for later review.
type ContactService interface {
	Submit(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService creates a new instance of ContactService
func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) Submit(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}
