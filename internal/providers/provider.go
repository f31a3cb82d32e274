package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"hireos/internal/models"
	"hireos/internal/services"
)

const defaultMaxAttempts = 4

// Factory builds ContactSource adapters from integration records. Provider
// OAuth app credentials live here; per-integration credentials live on the
// integration itself as an opaque blob.
type Factory struct {
	GoogleClientID     string
	GoogleClientSecret string
}

func NewFactory(googleClientID, googleClientSecret string) *Factory {
	return &Factory{
		GoogleClientID:     googleClientID,
		GoogleClientSecret: googleClientSecret,
	}
}

// ForIntegration resolves an integration's credentials and returns the
// matching adapter. The email field name is resolved here so every adapter
// can do its provider-side matching without knowing about field mappings.
func (f *Factory) ForIntegration(integration *models.Integration) (services.ContactSource, error) {
	mapping, err := integration.FieldMap()
	if err != nil {
		return nil, err
	}
	emailField := services.NewFieldMapper().FieldName(services.FieldEmail, services.FieldMapping(mapping))

	switch integration.Provider {
	case models.ProviderHubSpot:
		var creds HubSpotCredentials
		if err := decodeCredentials(integration, &creds); err != nil {
			return nil, err
		}
		return NewHubSpotSource(creds, emailField)

	case models.ProviderAirtable:
		var creds AirtableCredentials
		if err := decodeCredentials(integration, &creds); err != nil {
			return nil, err
		}
		return NewAirtableSource(creds, emailField)

	case models.ProviderGoogleSheets:
		var creds GoogleSheetsCredentials
		if err := decodeCredentials(integration, &creds); err != nil {
			return nil, err
		}
		return NewSheetsSource(context.Background(), creds, f.GoogleClientID, f.GoogleClientSecret, emailField)

	default:
		return nil, fmt.Errorf("unknown integration provider: %s", integration.Provider)
	}
}

// decodeCredentials maps the opaque credential blob onto a provider-specific
// credential struct.
func decodeCredentials(integration *models.Integration, out interface{}) error {
	creds, err := integration.Credentials()
	if err != nil {
		return err
	}

	cfg := &mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("failed to build credential decoder: %w", err)
	}

	if err := decoder.Decode(creds); err != nil {
		return fmt.Errorf("failed to decode %s credentials: %w", integration.Provider, err)
	}
	return nil
}

// doWithRetry sends a request, retrying on HTTP 429 with the provider's
// Retry-After hint when one is supplied. The request is rebuilt per attempt
// so body readers are fresh.
func doWithRetry(ctx context.Context, client *http.Client, build func() (*http.Request, error), maxAttempts int) (*http.Response, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		delay := retryDelay(resp, attempt)
		resp.Body.Close()

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("rate limited after %d attempts", maxAttempts)
}

func retryDelay(resp *http.Response, attempt int) time.Duration {
	if hint := strings.TrimSpace(resp.Header.Get("Retry-After")); hint != "" {
		if seconds, err := strconv.Atoi(hint); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
}

// stringifyValue flattens a provider's JSON field value into the string form
// the reconciliation engine compares on.
func stringifyValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case []interface{}:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, stringifyValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", value)
	}
}
