package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/beetagged/contacts-api/internal/entity"
)

func TestMergeContacts_LongerScalarWins(t *testing.T) {
	existing := entity.Contact{
		Name:     "Jane Doe",
		Company:  "Acme",
		Position: "Senior Software Engineer",
		Notes:    "met at conference",
	}
	incoming := entity.Contact{
		Name:     "Jane Doe",
		Company:  "Acme Corporation",
		Position: "Engineer",
	}

	merged := MergeContacts(existing, incoming)

	if merged.Company != "Acme Corporation" {
		t.Fatalf("expected longer incoming company to win, got %q", merged.Company)
	}
	if merged.Position != "Senior Software Engineer" {
		t.Fatalf("expected existing longer position kept, got %q", merged.Position)
	}
	if merged.Notes != "met at conference" {
		t.Fatalf("expected existing notes kept against empty incoming, got %q", merged.Notes)
	}
}

func TestMergeContacts_EqualLengthKeepsExisting(t *testing.T) {
	existing := entity.Contact{Name: "Jane", Email: "a@x.com"}
	incoming := entity.Contact{Name: "Jane", Email: "b@y.com"}

	merged := MergeContacts(existing, incoming)
	if merged.Email != "a@x.com" {
		t.Fatalf("expected existing value on equal length, got %q", merged.Email)
	}
}

func TestMergeContacts_UnionsListFields(t *testing.T) {
	existing := entity.Contact{
		Name:   "Jane",
		Emails: []string{"a@x.com", "b@x.com"},
	}
	incoming := entity.Contact{
		Name:   "Jane",
		Emails: []string{"b@x.com", "c@x.com"},
	}

	merged := MergeContacts(existing, incoming)
	expected := []string{"a@x.com", "b@x.com", "c@x.com"}
	if !reflect.DeepEqual(merged.Emails, expected) {
		t.Fatalf("expected union in first-seen order %v, got %v", expected, merged.Emails)
	}
}

func TestMergeContacts_PreservesIdentityAndCreatedAt(t *testing.T) {
	createdAt := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	existing := entity.Contact{ID: id, Name: "Jane", CreatedAt: createdAt, UpdatedAt: createdAt}
	incoming := entity.Contact{Name: "Jane", CreatedAt: time.Now().UTC()}

	merged := MergeContacts(existing, incoming)

	if merged.ID != id {
		t.Fatalf("expected stored id kept, got %s", merged.ID)
	}
	if !merged.CreatedAt.Equal(createdAt) {
		t.Fatalf("expected CreatedAt untouched, got %v", merged.CreatedAt)
	}
	if !merged.UpdatedAt.After(createdAt) {
		t.Fatalf("expected UpdatedAt refreshed, got %v", merged.UpdatedAt)
	}
}

func TestMergeContacts_BackfillsDates(t *testing.T) {
	parsed := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	existing := entity.Contact{Name: "Jane", Birthday: "01 May 1990"}
	incoming := entity.Contact{
		Name:              "Jane",
		ConnectedOn:       "01 May 2023",
		ConnectedOnParsed: &parsed,
		Birthday:          "02 Jun 1991",
	}

	merged := MergeContacts(existing, incoming)

	if merged.ConnectedOn != "01 May 2023" || merged.ConnectedOnParsed == nil {
		t.Fatalf("expected connected-on backfilled, got %q", merged.ConnectedOn)
	}
	if merged.Birthday != "01 May 1990" {
		t.Fatalf("expected existing birthday kept, got %q", merged.Birthday)
	}
}

func TestMergeContacts_RefreshesSearchableText(t *testing.T) {
	existing := entity.Contact{Name: "Jane Doe", Company: "Acme"}
	existing.RebuildSearchableText()
	incoming := entity.Contact{Name: "Jane Doe", Company: "Acme Corporation"}

	merged := MergeContacts(existing, incoming)
	if merged.SearchableText != "jane doe acme corporation" {
		t.Fatalf("expected refreshed search blob, got %q", merged.SearchableText)
	}
}
