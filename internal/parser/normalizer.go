package parser

import (
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/beetagged/contacts-api/internal/entity"
)

const defaultPhoneRegion = "US"

// minPhoneDigits is the shortest digit string eligible for phone matching;
// shorter fragments produce too many false positives.
const minPhoneDigits = 7

// multiValueSeparators are tried in priority order; a cell is split on the
// first separator it contains, or kept as a single value.
var multiValueSeparators = []string{";", ",", "|", "\n"}

var dateLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Normalizer converts mapped CSV rows into canonical contact records.
type Normalizer struct {
	region string
}

// NewNormalizer builds a normalizer that canonicalizes phone numbers against
// the given default region.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &Normalizer{region: region}
}

// Normalize converts one data row into a Contact. The second return value is
// false when the row yields no name, the single hard validation gate; such
// rows are skipped, never errors.
func (n *Normalizer) Normalize(row []string, cols ColumnMap, format Format) (entity.Contact, bool) {
	var name string
	if cols.Has(FieldFirstName) && cols.Has(FieldLastName) {
		first := cleanValue(cols.Value(row, FieldFirstName))
		last := cleanValue(cols.Value(row, FieldLastName))
		name = strings.TrimSpace(first + " " + last)
	} else if cols.Has(FieldFullName) {
		name = cleanValue(cols.Value(row, FieldFullName))
	}
	if name == "" {
		return entity.Contact{}, false
	}

	now := time.Now().UTC()
	contact := entity.Contact{
		Name:      name,
		Source:    string(format),
		CreatedAt: now,
		UpdatedAt: now,
	}

	contact.Emails = n.cleanEmails(SplitMultiValue(cols.Value(row, FieldEmail)))
	contact.Email = firstOrEmpty(contact.Emails)

	contact.PhoneNumbers = n.cleanPhones(SplitMultiValue(cols.Value(row, FieldPhone)))
	contact.Phone = firstOrEmpty(contact.PhoneNumbers)
	contact.NormalizedPhones = PhoneKeys(contact.PhoneNumbers)

	contact.Companies = SplitMultiValue(cols.Value(row, FieldCompany))
	contact.Company = firstOrEmpty(contact.Companies)

	contact.Position = cleanValue(cols.Value(row, FieldPosition))
	contact.JobTitle = contact.Position

	contact.Addresses = SplitMultiValue(cols.Value(row, FieldLocation))
	contact.Location = firstOrEmpty(contact.Addresses)

	contact.ProfileURL = cleanValue(cols.Value(row, FieldProfileURL))
	contact.Notes = cleanValue(cols.Value(row, FieldNotes))
	contact.Websites = SplitMultiValue(cols.Value(row, FieldWebsites))
	contact.InstantMessageHandles = SplitMultiValue(cols.Value(row, FieldInstantMessage))

	contact.ConnectedOn = cleanValue(cols.Value(row, FieldConnectedOn))
	contact.ConnectedOnParsed = ParseDate(contact.ConnectedOn)
	contact.Birthday = cleanValue(cols.Value(row, FieldBirthday))
	contact.BirthdayParsed = ParseDate(contact.Birthday)
	contact.OriginalCreatedAt = cleanValue(cols.Value(row, FieldCreatedAt))
	contact.OriginalCreatedAtParsed = ParseDate(contact.OriginalCreatedAt)
	contact.BookmarkedAt = cleanValue(cols.Value(row, FieldBookmarkedAt))
	contact.BookmarkedAtParsed = ParseDate(contact.BookmarkedAt)

	contact.RebuildSearchableText()

	return contact, true
}

// SplitMultiValue splits a cell on the first delimiter found, trying
// separators in priority order. Empty and degenerate values are discarded.
func SplitMultiValue(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	values := []string{value}
	for _, sep := range multiValueSeparators {
		if strings.Contains(value, sep) {
			values = strings.Split(value, sep)
			break
		}
	}

	var out []string
	for _, v := range values {
		v = cleanValue(v)
		switch strings.ToLower(v) {
		case "", "null", "undefined":
			continue
		}
		out = append(out, v)
	}
	return out
}

// ParseDate attempts a defensive parse of loosely formatted dates. A nil
// result is never fatal; the raw string is retained alongside it.
func ParseDate(value string) *time.Time {
	value = cleanValue(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// PhoneKey reduces a phone number to its digits-only comparison form.
// Returns "" when fewer than minPhoneDigits digits remain.
func PhoneKey(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() < minPhoneDigits {
		return ""
	}
	return digits.String()
}

// PhoneKeys maps phone numbers to their distinct comparison keys.
func PhoneKeys(phones []string) []string {
	var keys []string
	seen := make(map[string]struct{}, len(phones))
	for _, p := range phones {
		key := PhoneKey(p)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// cleanEmails lower-cases, IDNA-normalizes and deduplicates email values.
// Values that do not look like an address are kept as-is (lower-cased); the
// importer is tolerant of dirty exports.
func (n *Normalizer) cleanEmails(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		email := normalizeEmail(v)
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

func normalizeEmail(value string) string {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at > 0 && at < len(email)-1 {
		if ascii, err := idna.Lookup.ToASCII(email[at+1:]); err == nil {
			email = email[:at+1] + ascii
		}
	}
	return email
}

// cleanPhones keeps the display form of each number, upgraded to E.164 when
// the value parses for the default region. The comparison key never depends
// on this; see PhoneKey.
func (n *Normalizer) cleanPhones(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, n.displayPhone(v))
	}
	return out
}

func (n *Normalizer) displayPhone(raw string) string {
	number, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsPossibleNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2 {
		value = value[1 : len(value)-1]
	}
	return strings.TrimSpace(value)
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
