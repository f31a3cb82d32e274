package services

import (
	"testing"

	"github.com/google/uuid"

	"hireos/internal/models"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "lowercases then title-cases tokens",
			input:  "JOHN SMITH",
			expect: "John Smith",
		},
		{
			name:   "collapses interior whitespace",
			input:  "jane   q.  doe",
			expect: "Jane Q. Doe",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  ana lima  ",
			expect: "Ana Lima",
		},
		{
			name:   "empty input yields empty key",
			input:  "   ",
			expect: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeName(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestMatchEmailTakesPrecedenceOverName(t *testing.T) {
	t.Parallel()

	byEmail := models.Candidate{ID: uuid.New(), Name: "Someone Else", Email: "jane@example.com"}
	byName := models.Candidate{ID: uuid.New(), Name: "Jane Doe", Email: "other@example.com"}
	candidates := []models.Candidate{byName, byEmail}

	contact := ExternalContact{
		ID: "c1",
		Fields: map[string]string{
			"name":  "Jane Doe",
			"email": "JANE@example.com",
		},
	}

	match := NewMatcher(NewFieldMapper()).Match(contact, candidates, nil)
	if match == nil {
		t.Fatalf("expected a match")
	}
	if match.ID != byEmail.ID {
		t.Fatalf("expected the email match to win, got candidate %q", match.Name)
	}
}

func TestMatchFallsBackToNormalizedName(t *testing.T) {
	t.Parallel()

	candidate := models.Candidate{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	candidates := []models.Candidate{candidate}

	contact := ExternalContact{
		ID: "c2",
		Fields: map[string]string{
			"name":  "jane   DOE",
			"email": "jane.doe@elsewhere.com",
		},
	}

	match := NewMatcher(NewFieldMapper()).Match(contact, candidates, nil)
	if match == nil {
		t.Fatalf("expected name fallback to match")
	}
	if match.ID != candidate.ID {
		t.Fatalf("expected candidate %s, got %s", candidate.ID, match.ID)
	}
}

func TestMatchReturnsNilWhenNothingMatches(t *testing.T) {
	t.Parallel()

	candidates := []models.Candidate{
		{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"},
	}

	contact := ExternalContact{
		ID: "c3",
		Fields: map[string]string{
			"name":  "Bob Brown",
			"email": "bob@example.com",
		},
	}

	if match := NewMatcher(NewFieldMapper()).Match(contact, candidates, nil); match != nil {
		t.Fatalf("expected no match, got candidate %q", match.Name)
	}
}

func TestMatchIgnoresEmptyKeys(t *testing.T) {
	t.Parallel()

	// A candidate with an empty email must never match a contact whose email
	// is also empty, and an empty name must not key the fallback.
	candidates := []models.Candidate{
		{ID: uuid.New(), Name: "", Email: ""},
	}

	contact := ExternalContact{
		ID:     "c4",
		Fields: map[string]string{"email": "", "name": ""},
	}

	if match := NewMatcher(NewFieldMapper()).Match(contact, candidates, nil); match != nil {
		t.Fatalf("expected empty keys to yield no match")
	}
}
