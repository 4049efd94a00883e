package dto

import "github.com/google/uuid"

// ContactFilter contains query parameters for contact listing endpoints.
type ContactFilter struct {
	OwnerID *uuid.UUID
	Q       string
	Source  string
	Company string
	Page    int
	PerPage int
}
