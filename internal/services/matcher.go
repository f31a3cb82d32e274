package services

import (
	"strings"
	"unicode"

	"hireos/internal/models"
)

// Matcher finds at most one internal candidate for an external contact.
// Email match is always attempted and exhausted before the name fallback, so
// a contact whose email belongs to nobody can still match by name.
type Matcher struct {
	fields *FieldMapper
}

func NewMatcher(fields *FieldMapper) *Matcher {
	return &Matcher{fields: fields}
}

// Match returns the first candidate whose email equals the contact's email
// case-insensitively, or failing that the first candidate whose normalized
// name equals the contact's normalized name. Returns nil when neither key
// yields a hit.
func (m *Matcher) Match(contact ExternalContact, candidates []models.Candidate, mapping FieldMapping) *models.Candidate {
	email, _ := m.fields.FieldValue(contact, FieldEmail, mapping)
	email = strings.TrimSpace(email)

	if email != "" {
		for i := range candidates {
			if candidates[i].Email != "" && strings.EqualFold(candidates[i].Email, email) {
				return &candidates[i]
			}
		}
	}

	name, _ := m.fields.FieldValue(contact, FieldName, mapping)
	if normalized := NormalizeName(name); normalized != "" {
		for i := range candidates {
			if NormalizeName(candidates[i].Name) == normalized {
				return &candidates[i]
			}
		}
	}

	return nil
}

// NormalizeName lowercases a name, collapses all whitespace runs and
// title-cases each token, so "JOHN q. smith" and "John  Q. Smith" produce the
// same key.
func NormalizeName(name string) string {
	tokens := strings.Fields(strings.ToLower(name))
	for i, token := range tokens {
		runes := []rune(token)
		runes[0] = unicode.ToUpper(runes[0])
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}
