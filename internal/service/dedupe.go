package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/beetagged/contacts-api/internal/entity"
	"github.com/beetagged/contacts-api/internal/parser"
)

// MatchType records which identifier classified a duplicate.
type MatchType string

// Duplicate match types. Email match always wins over phone when both apply.
const (
	MatchEmail MatchType = "email"
	MatchPhone MatchType = "phone"
)

// DuplicateMatch pairs an incoming record with the stored contact it
// collides with. Consumed immediately by the merge step, never retained
// across batches.
type DuplicateMatch struct {
	Incoming  entity.Contact
	Existing  entity.Contact
	MatchType MatchType
}

// ResolvedBatch partitions an import batch into disjoint sets.
type ResolvedBatch struct {
	NewContacts     []entity.Contact
	EmailDuplicates []DuplicateMatch
	PhoneDuplicates []DuplicateMatch
}

// resolveDuplicates classifies the batch against the stored population using
// two batched lookups, one by email and one by normalized phone, instead of
// a query per record. Lookups reflect store state prior to any write in this
// import.
func (s *ImportService) resolveDuplicates(ctx context.Context, ownerID *uuid.UUID, batch []entity.Contact) (ResolvedBatch, error) {
	emails := collectEmails(batch)
	phones := collectPhoneKeys(batch)

	existingByEmail, err := s.repo.FindByEmails(ctx, ownerID, emails)
	if err != nil {
		return ResolvedBatch{}, fmt.Errorf("lookup existing contacts by email: %w", err)
	}
	existingByPhone, err := s.repo.FindByNormalizedPhones(ctx, ownerID, phones)
	if err != nil {
		return ResolvedBatch{}, fmt.Errorf("lookup existing contacts by phone: %w", err)
	}

	emailMap := make(map[string]entity.Contact, len(existingByEmail))
	for _, existing := range existingByEmail {
		for _, email := range contactEmails(existing) {
			if _, ok := emailMap[email]; !ok {
				emailMap[email] = existing
			}
		}
	}

	phoneMap := make(map[string]entity.Contact, len(existingByPhone))
	for _, existing := range existingByPhone {
		for _, key := range contactPhoneKeys(existing) {
			if _, ok := phoneMap[key]; !ok {
				phoneMap[key] = existing
			}
		}
	}

	var resolved ResolvedBatch
	for _, incoming := range batch {
		if email := strings.ToLower(strings.TrimSpace(incoming.Email)); email != "" {
			if existing, ok := emailMap[email]; ok {
				resolved.EmailDuplicates = append(resolved.EmailDuplicates, DuplicateMatch{
					Incoming:  incoming,
					Existing:  existing,
					MatchType: MatchEmail,
				})
				continue
			}
		}

		if existing, ok := matchByPhone(phoneMap, incoming); ok {
			resolved.PhoneDuplicates = append(resolved.PhoneDuplicates, DuplicateMatch{
				Incoming:  incoming,
				Existing:  existing,
				MatchType: MatchPhone,
			})
			continue
		}

		resolved.NewContacts = append(resolved.NewContacts, incoming)
	}

	return resolved, nil
}

func matchByPhone(phoneMap map[string]entity.Contact, incoming entity.Contact) (entity.Contact, bool) {
	for _, key := range contactPhoneKeys(incoming) {
		if existing, ok := phoneMap[key]; ok {
			return existing, true
		}
	}
	return entity.Contact{}, false
}

// collectEmails gathers the distinct non-empty emails across the batch.
func collectEmails(batch []entity.Contact) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range batch {
		for _, email := range contactEmails(c) {
			if _, ok := seen[email]; ok {
				continue
			}
			seen[email] = struct{}{}
			out = append(out, email)
		}
	}
	return out
}

// collectPhoneKeys gathers the distinct normalized phone keys across the
// batch.
func collectPhoneKeys(batch []entity.Contact) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range batch {
		for _, key := range contactPhoneKeys(c) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}

func contactEmails(c entity.Contact) []string {
	var out []string
	add := func(v string) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	add(c.Email)
	for _, email := range c.Emails {
		add(email)
	}
	return out
}

func contactPhoneKeys(c entity.Contact) []string {
	if len(c.NormalizedPhones) > 0 {
		return c.NormalizedPhones
	}
	keys := parser.PhoneKeys(append([]string{c.Phone}, c.PhoneNumbers...))
	return keys
}
