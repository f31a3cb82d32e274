package providers

import (
	"encoding/json"
	"testing"

	"hireos/internal/models"
)

func TestExtractQuotedField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		expect  string
	}{
		{
			name:    "hubspot property message",
			message: `hubspot api error 400: {"message":"Property \"custom_notes\" does not exist"}`,
			expect:  "custom_notes",
		},
		{
			name:    "airtable unknown field message",
			message: `airtable api error 422: {"error":{"message":"Unknown field name: \"portfolio\""}}`,
			expect:  "portfolio",
		},
		{
			name:    "unrelated quoted strings are ignored",
			message: `api error 400: {"status":"error","category":"VALIDATION_ERROR"}`,
			expect:  "",
		},
		{
			name:    "no quotes at all",
			message: "internal server error",
			expect:  "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractQuotedField(tt.message); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestStringifyValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  interface{}
		expect string
	}{
		{name: "nil", input: nil, expect: ""},
		{name: "string passthrough", input: "hello", expect: "hello"},
		{name: "bool", input: true, expect: "true"},
		{name: "whole float drops decimals", input: float64(85000), expect: "85000"},
		{name: "fractional float keeps decimals", input: 4.5, expect: "4.5"},
		{
			name:   "list joins with comma",
			input:  []interface{}{"Go", "Kafka", float64(3)},
			expect: "Go, Kafka, 3",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := stringifyValue(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestFactoryBuildsProviderAdapters(t *testing.T) {
	t.Parallel()

	factory := NewFactory("client-id", "client-secret")

	creds, _ := json.Marshal(map[string]string{"api_key": "key-1"})
	integration := &models.Integration{
		Provider:        models.ProviderHubSpot,
		CredentialsJSON: creds,
	}

	source, err := factory.ForIntegration(integration)
	if err != nil {
		t.Fatalf("expected hubspot adapter, got error: %v", err)
	}
	if _, ok := source.(*HubSpotSource); !ok {
		t.Fatalf("expected *HubSpotSource, got %T", source)
	}
}

func TestFactoryResolvesMappedEmailField(t *testing.T) {
	t.Parallel()

	factory := NewFactory("", "")

	creds, _ := json.Marshal(map[string]string{
		"api_key": "key-1",
		"base_id": "appBase1",
		"table":   "Contacts",
	})
	fieldMap, _ := json.Marshal(map[string]string{"email": "Email Address"})
	integration := &models.Integration{
		Provider:        models.ProviderAirtable,
		CredentialsJSON: creds,
		FieldMapJSON:    fieldMap,
	}

	source, err := factory.ForIntegration(integration)
	if err != nil {
		t.Fatalf("expected airtable adapter, got error: %v", err)
	}

	airtable, ok := source.(*AirtableSource)
	if !ok {
		t.Fatalf("expected *AirtableSource, got %T", source)
	}
	if airtable.emailField != "Email Address" {
		t.Fatalf("expected mapped email field, got %q", airtable.emailField)
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	factory := NewFactory("", "")
	integration := &models.Integration{Provider: "salesforce"}

	if _, err := factory.ForIntegration(integration); err == nil {
		t.Fatalf("expected an error for an unknown provider")
	}
}
