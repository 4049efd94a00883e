package service

import (
	"time"

	"github.com/beetagged/contacts-api/internal/entity"
)

// MergeContacts combines an existing stored contact with an incoming
// duplicate. Pure function: scalar fields are replaced only when the
// incoming value is non-empty and strictly longer than the existing one,
// list fields are set-unioned preserving first-seen order. CreatedAt is
// never altered; UpdatedAt and the search blob are always refreshed.
func MergeContacts(existing, incoming entity.Contact) entity.Contact {
	merged := existing

	merged.Email = preferLonger(existing.Email, incoming.Email)
	merged.Phone = preferLonger(existing.Phone, incoming.Phone)
	merged.Company = preferLonger(existing.Company, incoming.Company)
	merged.Position = preferLonger(existing.Position, incoming.Position)
	merged.JobTitle = preferLonger(existing.JobTitle, incoming.JobTitle)
	merged.Location = preferLonger(existing.Location, incoming.Location)
	merged.ProfileURL = preferLonger(existing.ProfileURL, incoming.ProfileURL)
	merged.Notes = preferLonger(existing.Notes, incoming.Notes)

	merged.Emails = unionStrings(existing.Emails, incoming.Emails)
	merged.PhoneNumbers = unionStrings(existing.PhoneNumbers, incoming.PhoneNumbers)
	merged.NormalizedPhones = unionStrings(existing.NormalizedPhones, incoming.NormalizedPhones)
	merged.Companies = unionStrings(existing.Companies, incoming.Companies)
	merged.Addresses = unionStrings(existing.Addresses, incoming.Addresses)
	merged.Websites = unionStrings(existing.Websites, incoming.Websites)
	merged.InstantMessageHandles = unionStrings(existing.InstantMessageHandles, incoming.InstantMessageHandles)

	if merged.Source == "" {
		merged.Source = incoming.Source
	}
	if merged.ConnectedOn == "" && incoming.ConnectedOn != "" {
		merged.ConnectedOn = incoming.ConnectedOn
		merged.ConnectedOnParsed = incoming.ConnectedOnParsed
	}
	if merged.Birthday == "" && incoming.Birthday != "" {
		merged.Birthday = incoming.Birthday
		merged.BirthdayParsed = incoming.BirthdayParsed
	}

	merged.UpdatedAt = time.Now().UTC()
	merged.RebuildSearchableText()

	return merged
}

// preferLonger keeps the existing value unless the incoming one is non-empty
// and strictly longer, a proxy for more complete data.
func preferLonger(existing, incoming string) string {
	if incoming != "" && len(incoming) > len(existing) {
		return incoming
	}
	return existing
}

func unionStrings(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, v := range existing {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range incoming {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
