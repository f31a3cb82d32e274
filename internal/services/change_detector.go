package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"hireos/internal/models"
)

// ChangeDetector decides whether an external contact's values differ
// materially from the matched candidate's. An absent external value is "no
// opinion", never "clear this field". Providers rate-limit and charge on
// writes, so no-op updates must be skipped.
type ChangeDetector struct {
	fields *FieldMapper
}

func NewChangeDetector(fields *FieldMapper) *ChangeDetector {
	return &ChangeDetector{fields: fields}
}

// HasChanges reports whether any compared field differs.
func (d *ChangeDetector) HasChanges(contact ExternalContact, candidate *models.Candidate, mapping FieldMapping) bool {
	return len(d.Diff(contact, candidate, mapping)) > 0
}

// Diff returns a partial update containing only the columns that actually
// differ, keyed by candidate column name. An empty map means a write would be
// a no-op.
func (d *ChangeDetector) Diff(contact ExternalContact, candidate *models.Candidate, mapping FieldMapping) map[string]interface{} {
	updates := map[string]interface{}{}

	if name, ok := d.fields.FieldValue(contact, FieldName, mapping); ok && strings.TrimSpace(name) != "" {
		if NormalizeName(name) != NormalizeName(candidate.Name) {
			updates["name"] = strings.TrimSpace(name)
		}
	}

	if email, ok := d.fields.FieldValue(contact, FieldEmail, mapping); ok && strings.TrimSpace(email) != "" {
		if !strings.EqualFold(strings.TrimSpace(email), candidate.Email) {
			updates["email"] = strings.TrimSpace(email)
		}
	}

	if phone, ok := d.fields.FieldValue(contact, FieldPhone, mapping); ok && phone != "" {
		if phone != candidate.Phone {
			updates["phone"] = phone
		}
	}

	if location, ok := d.fields.FieldValue(contact, FieldLocation, mapping); ok && location != "" {
		if location != candidate.Location {
			updates["location"] = location
		}
	}

	if salary, ok := d.fields.FieldValue(contact, FieldExpectedSalary, mapping); ok && salary != "" {
		if salary != strconv.FormatInt(candidate.ExpectedSalary, 10) {
			if parsed, err := strconv.ParseInt(strings.TrimSpace(salary), 10, 64); err == nil {
				updates["expected_salary"] = parsed
			}
		}
	}

	if years, ok := d.fields.FieldValue(contact, FieldExperienceYears, mapping); ok && years != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(years), 64); err == nil {
			if int(parsed) != candidate.ExperienceYears {
				updates["experience_years"] = int(parsed)
			}
		}
	}

	if skills, ok := d.fields.FieldValue(contact, FieldSkills, mapping); ok && skills != "" {
		external := SplitSkills(skills)
		if skillsKey(external) != skillsKey(candidate.Skills) {
			updates["skills"] = pq.StringArray(external)
		}
	}

	return updates
}

// SplitSkills parses a provider's comma-separated skills value into a clean
// list.
func SplitSkills(value string) []string {
	var skills []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

// skillsKey folds a skills list to a sorted, comma-joined comparison key so
// reordering alone is not a change.
func skillsKey(skills []string) string {
	normalized := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			normalized = append(normalized, strings.ToLower(skill))
		}
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
