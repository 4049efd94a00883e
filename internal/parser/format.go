package parser

import "strings"

// Format identifies the header convention of an uploaded CSV.
type Format string

// Known CSV dialects. FormatUnknown is not fatal: field mapping still runs
// against the alias tables, detection only informs the source tag.
const (
	FormatLinkedInConnections Format = "linkedin_connections"
	FormatLinkedInContacts    Format = "linkedin_contacts"
	FormatGenericContacts     Format = "generic_contacts"
	FormatUnknown             Format = "unknown"
)

// DetectFormat classifies the header row. Rules are checked in priority
// order: a first-name plus last-name pair marks a LinkedIn Connections
// export, a name plus company pair marks a LinkedIn Contacts export, and a
// firstname/fullname column marks a generic address-book dump.
func DetectFormat(headers []string) Format {
	normalized := normalizeHeaders(headers)

	if hasAnyAlias(normalized, aliasTable[FieldFirstName]) && hasAnyAlias(normalized, aliasTable[FieldLastName]) {
		return FormatLinkedInConnections
	}
	if hasAnyAlias(normalized, aliasTable[FieldFullName]) && hasAnyAlias(normalized, aliasTable[FieldCompany]) {
		return FormatLinkedInContacts
	}
	if containsHeader(normalized, "firstname") || containsHeader(normalized, "fullname") {
		return FormatGenericContacts
	}

	return FormatUnknown
}

func normalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return normalized
}

func hasAnyAlias(normalizedHeaders, aliases []string) bool {
	for _, alias := range aliases {
		if containsHeader(normalizedHeaders, alias) {
			return true
		}
	}
	return false
}

func containsHeader(normalizedHeaders []string, header string) bool {
	for _, h := range normalizedHeaders {
		if h == header {
			return true
		}
	}
	return false
}
