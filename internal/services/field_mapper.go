package services

import "strings"

// Internal candidate field names used across the reconciliation engine.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldLocation        = "location"
	FieldExpectedSalary  = "expectedSalary"
	FieldExperienceYears = "experienceYears"
	FieldSkills          = "skills"
)

// FieldMapping is the per-integration translation table from internal field
// names to a provider's native field names.
type FieldMapping map[string]string

// defaultFieldNames is the fallback provider name for each internal field
// when the integration's mapping table has no entry.
var defaultFieldNames = map[string]string{
	FieldName:            "name",
	FieldEmail:           "email",
	FieldPhone:           "phone",
	FieldLocation:        "location",
	FieldExpectedSalary:  "expected_salary",
	FieldExperienceYears: "experience_years",
	FieldSkills:          "skills",
}

type FieldMapper struct{}

func NewFieldMapper() *FieldMapper {
	return &FieldMapper{}
}

// FieldName resolves an internal field to its provider name, falling back to
// the documented default when the mapping has no entry.
func (m *FieldMapper) FieldName(field string, mapping FieldMapping) string {
	if mapping != nil {
		if name, ok := mapping[field]; ok && name != "" {
			return name
		}
	}
	if name, ok := defaultFieldNames[field]; ok {
		return name
	}
	return field
}

// FieldValue looks up an internal field's value on an external contact.
// The resolved provider name is tried case-sensitively first, then by a
// case-insensitive scan of the contact's keys. Absence is represented, not
// an error.
func (m *FieldMapper) FieldValue(contact ExternalContact, field string, mapping FieldMapping) (string, bool) {
	name := m.FieldName(field, mapping)

	if value, ok := contact.Fields[name]; ok {
		return value, true
	}

	for key, value := range contact.Fields {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}

	return "", false
}
