package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hireos/internal/services"
)

const hubspotPageSize = 100

type HubSpotCredentials struct {
	APIKey string `json:"api_key"`
}

// HubSpotSource reads and writes contacts through a HubSpot-style CRM API:
// bearer-token auth, cursor pagination, property-bag records.
type HubSpotSource struct {
	baseURL     string
	apiKey      string
	emailField  string
	http        *http.Client
	maxAttempts int
}

func NewHubSpotSource(creds HubSpotCredentials, emailField string) (*HubSpotSource, error) {
	if strings.TrimSpace(creds.APIKey) == "" {
		return nil, fmt.Errorf("hubspot api key is empty")
	}

	return &HubSpotSource{
		baseURL:     "https://api.hubapi.com",
		apiKey:      creds.APIKey,
		emailField:  emailField,
		http:        &http.Client{Timeout: 30 * time.Second},
		maxAttempts: defaultMaxAttempts,
	}, nil
}

type hubspotContact struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	UpdatedAt  string            `json:"updatedAt"`
}

type hubspotPage struct {
	Results []hubspotContact `json:"results"`
	Paging  *struct {
		Next struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

type hubspotSearchResponse struct {
	Total   int              `json:"total"`
	Results []hubspotContact `json:"results"`
}

// FetchContacts implements services.ContactSource.
func (s *HubSpotSource) FetchContacts(ctx context.Context, limit int) ([]services.ExternalContact, error) {
	var contacts []services.ExternalContact
	after := ""

	for len(contacts) < limit {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(hubspotPageSize))
		if after != "" {
			params.Set("after", after)
		}

		var page hubspotPage
		if err := s.getJSON(ctx, "/crm/v3/objects/contacts", params, &page); err != nil {
			return nil, err
		}

		for _, record := range page.Results {
			if len(contacts) >= limit {
				break
			}
			contacts = append(contacts, toExternalContact(record))
		}

		if page.Paging == nil || page.Paging.Next.After == "" {
			break
		}
		after = page.Paging.Next.After
	}

	return contacts, nil
}

// CreateOrUpdateContact implements services.ContactSource. HubSpot requires
// ID-addressed updates, so the write path first searches by email, then
// PATCHes the hit or POSTs a new contact. A property the portal rejects is
// dropped and the write retried.
func (s *HubSpotSource) CreateOrUpdateContact(ctx context.Context, fields map[string]string) (map[string]string, error) {
	email := strings.TrimSpace(fields[s.emailField])
	if email == "" {
		return nil, fmt.Errorf("hubspot write requires a value for %q", s.emailField)
	}

	existingID, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	remaining := make(map[string]string, len(fields))
	for k, v := range fields {
		remaining[k] = v
	}

	// One retry per rejected property, bounded by the field count.
	for attempt := 0; attempt <= len(fields); attempt++ {
		record, writeErr := s.writeContact(ctx, existingID, remaining)
		if writeErr == nil {
			return record, nil
		}

		bad := extractQuotedField(writeErr.Error())
		if bad == "" || bad == s.emailField {
			return nil, writeErr
		}
		if _, ok := remaining[bad]; !ok {
			return nil, writeErr
		}
		delete(remaining, bad)
	}

	return nil, fmt.Errorf("hubspot rejected every property variant for %s", email)
}

func (s *HubSpotSource) findByEmail(ctx context.Context, email string) (string, error) {
	body := map[string]interface{}{
		"filterGroups": []map[string]interface{}{{
			"filters": []map[string]interface{}{{
				"propertyName": s.emailField,
				"operator":     "EQ",
				"value":        email,
			}},
		}},
		"limit": 1,
	}

	var found hubspotSearchResponse
	if err := s.postJSON(ctx, "/crm/v3/objects/contacts/search", body, &found); err != nil {
		return "", fmt.Errorf("hubspot contact search failed: %w", err)
	}

	if len(found.Results) == 0 {
		return "", nil
	}
	return found.Results[0].ID, nil
}

func (s *HubSpotSource) writeContact(ctx context.Context, existingID string, fields map[string]string) (map[string]string, error) {
	payload := map[string]interface{}{"properties": fields}

	var record hubspotContact
	var err error
	if existingID != "" {
		err = s.sendJSON(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+existingID, payload, &record)
	} else {
		err = s.sendJSON(ctx, http.MethodPost, "/crm/v3/objects/contacts", payload, &record)
	}
	if err != nil {
		return nil, err
	}

	result := map[string]string{"id": record.ID}
	for k, v := range record.Properties {
		result[k] = v
	}
	return result, nil
}

func (s *HubSpotSource) getJSON(ctx context.Context, path string, params url.Values, target interface{}) error {
	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		s.setHeaders(req)
		return req, nil
	}

	return s.decodeResponse(ctx, build, target)
}

func (s *HubSpotSource) postJSON(ctx context.Context, path string, body interface{}, target interface{}) error {
	return s.sendJSON(ctx, http.MethodPost, path, body, target)
}

func (s *HubSpotSource) sendJSON(ctx context.Context, method, path string, body interface{}, target interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		s.setHeaders(req)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	return s.decodeResponse(ctx, build, target)
}

func (s *HubSpotSource) decodeResponse(ctx context.Context, build func() (*http.Request, error), target interface{}) error {
	resp, err := doWithRetry(ctx, s.http, build, s.maxAttempts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hubspot api error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if target == nil {
		return nil
	}
	return json.Unmarshal(data, target)
}

func (s *HubSpotSource) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
}

func toExternalContact(record hubspotContact) services.ExternalContact {
	contact := services.ExternalContact{
		ID:     record.ID,
		Fields: record.Properties,
	}
	if contact.Fields == nil {
		contact.Fields = map[string]string{}
	}
	if ts, err := time.Parse(time.RFC3339, record.UpdatedAt); err == nil {
		contact.UpdatedAt = &ts
	}
	return contact
}

// quotedFieldPattern pulls the offending field name out of provider error
// messages like `Property "expected_salary" does not exist` or
// `Unknown field name: "skills"`. The capture stops at backslashes so the
// quote escaping of raw JSON error bodies does not leak into the name.
var quotedFieldPattern = regexp.MustCompile(`(?i)(?:property|field name)[^"]*"([^"\\]+)`)

func extractQuotedField(message string) string {
	match := quotedFieldPattern.FindStringSubmatch(message)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
