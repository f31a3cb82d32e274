package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hireos/internal/services"
)

const airtablePageSize = 100

type AirtableCredentials struct {
	APIKey string `json:"api_key"`
	BaseID string `json:"base_id"`
	Table  string `json:"table"`
}

// AirtableSource reads and writes contacts through an Airtable-style tabular
// API: offset pagination, record-id-addressed updates, typed field values.
type AirtableSource struct {
	baseURL     string
	apiKey      string
	baseID      string
	table       string
	emailField  string
	http        *http.Client
	maxAttempts int
}

func NewAirtableSource(creds AirtableCredentials, emailField string) (*AirtableSource, error) {
	if strings.TrimSpace(creds.APIKey) == "" {
		return nil, fmt.Errorf("airtable api key is empty")
	}
	if strings.TrimSpace(creds.BaseID) == "" || strings.TrimSpace(creds.Table) == "" {
		return nil, fmt.Errorf("airtable base id and table are required")
	}

	return &AirtableSource{
		baseURL:     "https://api.airtable.com/v0",
		apiKey:      creds.APIKey,
		baseID:      creds.BaseID,
		table:       creds.Table,
		emailField:  emailField,
		http:        &http.Client{Timeout: 30 * time.Second},
		maxAttempts: defaultMaxAttempts,
	}, nil
}

type airtableRecord struct {
	ID          string                 `json:"id"`
	Fields      map[string]interface{} `json:"fields"`
	CreatedTime string                 `json:"createdTime"`
}

type airtablePage struct {
	Records []airtableRecord `json:"records"`
	Offset  string           `json:"offset"`
}

// FetchContacts implements services.ContactSource.
func (s *AirtableSource) FetchContacts(ctx context.Context, limit int) ([]services.ExternalContact, error) {
	var contacts []services.ExternalContact
	offset := ""

	for len(contacts) < limit {
		params := url.Values{}
		params.Set("pageSize", strconv.Itoa(airtablePageSize))
		if offset != "" {
			params.Set("offset", offset)
		}

		var page airtablePage
		if err := s.request(ctx, http.MethodGet, s.tablePath(), params, nil, &page); err != nil {
			return nil, err
		}

		for _, record := range page.Records {
			if len(contacts) >= limit {
				break
			}

			fields := make(map[string]string, len(record.Fields))
			for key, value := range record.Fields {
				fields[key] = stringifyValue(value)
			}
			contacts = append(contacts, services.ExternalContact{
				ID:     record.ID,
				Fields: fields,
			})
		}

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	return contacts, nil
}

// CreateOrUpdateContact implements services.ContactSource. The write path
// looks the email up with a filter formula, then PATCHes the matching record
// or POSTs a new one. A field the base rejects is dropped and the write
// retried.
func (s *AirtableSource) CreateOrUpdateContact(ctx context.Context, fields map[string]string) (map[string]string, error) {
	email := strings.TrimSpace(fields[s.emailField])
	if email == "" {
		return nil, fmt.Errorf("airtable write requires a value for %q", s.emailField)
	}

	existingID, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	remaining := make(map[string]string, len(fields))
	for k, v := range fields {
		remaining[k] = v
	}

	for attempt := 0; attempt <= len(fields); attempt++ {
		record, writeErr := s.writeRecord(ctx, existingID, remaining)
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

	return nil, fmt.Errorf("airtable rejected every field variant for %s", email)
}

func (s *AirtableSource) findByEmail(ctx context.Context, email string) (string, error) {
	formula := fmt.Sprintf("LOWER({%s}) = %q", s.emailField, strings.ToLower(email))

	params := url.Values{}
	params.Set("filterByFormula", formula)
	params.Set("maxRecords", "1")

	var page airtablePage
	if err := s.request(ctx, http.MethodGet, s.tablePath(), params, nil, &page); err != nil {
		return "", fmt.Errorf("airtable record lookup failed: %w", err)
	}

	if len(page.Records) == 0 {
		return "", nil
	}
	return page.Records[0].ID, nil
}

func (s *AirtableSource) writeRecord(ctx context.Context, existingID string, fields map[string]string) (map[string]string, error) {
	payload := map[string]interface{}{"fields": fields}

	var record airtableRecord
	var err error
	if existingID != "" {
		err = s.request(ctx, http.MethodPatch, s.tablePath()+"/"+existingID, nil, payload, &record)
	} else {
		err = s.request(ctx, http.MethodPost, s.tablePath(), nil, payload, &record)
	}
	if err != nil {
		return nil, err
	}

	result := map[string]string{"id": record.ID}
	for key, value := range record.Fields {
		result[key] = stringifyValue(value)
	}
	return result, nil
}

func (s *AirtableSource) tablePath() string {
	return fmt.Sprintf("/%s/%s", s.baseID, url.PathEscape(s.table))
}

func (s *AirtableSource) request(ctx context.Context, method, path string, params url.Values, body interface{}, target interface{}) error {
	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var encoded []byte
	if body != nil {
		var err error
		if encoded, err = json.Marshal(body); err != nil {
			return err
		}
	}

	build := func() (*http.Request, error) {
		var reader io.Reader
		if encoded != nil {
			reader = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Accept", "application/json")
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}

	resp, err := doWithRetry(ctx, s.http, build, s.maxAttempts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("airtable api error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if target == nil {
		return nil
	}
	return json.Unmarshal(data, target)
}
