package services

import "testing"

func TestFieldNameResolution(t *testing.T) {
	t.Parallel()

	mapper := NewFieldMapper()

	tests := []struct {
		name    string
		field   string
		mapping FieldMapping
		expect  string
	}{
		{
			name:    "mapping entry wins",
			field:   FieldEmail,
			mapping: FieldMapping{FieldEmail: "Email Address"},
			expect:  "Email Address",
		},
		{
			name:    "default used when mapping has no entry",
			field:   FieldExpectedSalary,
			mapping: FieldMapping{FieldEmail: "Email Address"},
			expect:  "expected_salary",
		},
		{
			name:    "default used for nil mapping",
			field:   FieldExperienceYears,
			mapping: nil,
			expect:  "experience_years",
		},
		{
			name:    "empty mapping value falls through to default",
			field:   FieldPhone,
			mapping: FieldMapping{FieldPhone: ""},
			expect:  "phone",
		},
		{
			name:    "unknown field maps to itself",
			field:   "linkedin",
			mapping: nil,
			expect:  "linkedin",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mapper.FieldName(tt.field, tt.mapping); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestFieldValueCaseInsensitiveLookup(t *testing.T) {
	t.Parallel()

	mapper := NewFieldMapper()
	contact := ExternalContact{
		ID: "c1",
		Fields: map[string]string{
			"Email": "jane@example.com",
			"name":  "Jane Doe",
		},
	}

	value, ok := mapper.FieldValue(contact, FieldEmail, nil)
	if !ok {
		t.Fatalf("expected email to resolve through case-insensitive scan")
	}
	if value != "jane@example.com" {
		t.Fatalf("expected jane@example.com, got %q", value)
	}

	value, ok = mapper.FieldValue(contact, FieldName, nil)
	if !ok || value != "Jane Doe" {
		t.Fatalf("expected exact-key hit for name, got %q (ok=%v)", value, ok)
	}

	if _, ok := mapper.FieldValue(contact, FieldPhone, nil); ok {
		t.Fatalf("expected absent field to report not found")
	}
}

func TestFieldValueHonorsMapping(t *testing.T) {
	t.Parallel()

	mapper := NewFieldMapper()
	contact := ExternalContact{
		ID: "c2",
		Fields: map[string]string{
			"Expected Comp": "95000",
		},
	}

	mapping := FieldMapping{FieldExpectedSalary: "Expected Comp"}

	value, ok := mapper.FieldValue(contact, FieldExpectedSalary, mapping)
	if !ok || value != "95000" {
		t.Fatalf("expected mapped salary lookup to return 95000, got %q (ok=%v)", value, ok)
	}
}
