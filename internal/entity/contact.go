package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact source values, matching the detected CSV dialect of the import.
const (
	SourceLinkedInConnections = "linkedin_connections"
	SourceLinkedInContacts    = "linkedin_contacts"
	SourceGenericContacts     = "generic_contacts"
	SourceUnknown             = "unknown"
)

// Contact is the canonical contact record produced by an import and stored
// in the contacts table. Name is the only required field; a row that yields
// no name never becomes a Contact.
type Contact struct {
	ID      uuid.UUID  `json:"id"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`

	Name string `json:"name"`

	Email  string   `json:"email,omitempty"`
	Emails []string `json:"emails,omitempty"`

	Phone            string   `json:"phone,omitempty"`
	PhoneNumbers     []string `json:"phone_numbers,omitempty"`
	NormalizedPhones []string `json:"-"`

	Company   string   `json:"company,omitempty"`
	Companies []string `json:"companies,omitempty"`
	Position  string   `json:"position,omitempty"`
	JobTitle  string   `json:"job_title,omitempty"`

	Location  string   `json:"location,omitempty"`
	Addresses []string `json:"addresses,omitempty"`

	ProfileURL string `json:"profile_url,omitempty"`

	ConnectedOn       string     `json:"connected_on,omitempty"`
	ConnectedOnParsed *time.Time `json:"connected_on_parsed,omitempty"`
	Birthday          string     `json:"birthday,omitempty"`
	BirthdayParsed    *time.Time `json:"birthday_parsed,omitempty"`

	Notes                 string   `json:"notes,omitempty"`
	Websites              []string `json:"websites,omitempty"`
	InstantMessageHandles []string `json:"instant_message_handles,omitempty"`

	OriginalCreatedAt       string     `json:"original_created_at,omitempty"`
	OriginalCreatedAtParsed *time.Time `json:"original_created_at_parsed,omitempty"`
	BookmarkedAt            string     `json:"bookmarked_at,omitempty"`
	BookmarkedAtParsed      *time.Time `json:"bookmarked_at_parsed,omitempty"`

	SearchableText string `json:"searchable_text,omitempty"`
	Source         string `json:"source,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RebuildSearchableText regenerates the derived search blob from the current
// field values: name, every company, position, location, every email. Must be
// called after any contributing field changes; the blob is never edited
// independently.
func (c *Contact) RebuildSearchableText() {
	companies := c.Companies
	if len(companies) == 0 && c.Company != "" {
		companies = []string{c.Company}
	}
	emails := c.Emails
	if len(emails) == 0 && c.Email != "" {
		emails = []string{c.Email}
	}

	parts := make([]string, 0, 3+len(companies)+len(emails))
	parts = append(parts, c.Name)
	parts = append(parts, companies...)
	parts = append(parts, c.Position, c.Location)
	parts = append(parts, emails...)

	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	c.SearchableText = strings.ToLower(strings.Join(kept, " "))
}
