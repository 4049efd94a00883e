package service

import (
	"context"

	"github.com/beetagged/contacts-api/internal/dto"
	"github.com/beetagged/contacts-api/internal/entity"
	"github.com/beetagged/contacts-api/internal/repository"
)

// ContactsService exposes read operations over the stored contact
// population.
type ContactsService struct {
	repo repository.ContactsRepository
}

// NewContactsService creates a new instance of ContactsService.
func NewContactsService(repo repository.ContactsRepository) *ContactsService {
	return &ContactsService{repo: repo}
}

// ListContacts returns contacts respecting pagination defaults.
func (s *ContactsService) ListContacts(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	return s.repo.List(ctx, filter)
}
