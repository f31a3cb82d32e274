package providers

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"hireos/internal/services"
)

type GoogleSheetsCredentials struct {
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	SpreadsheetID string `json:"spreadsheet_id"`
	SheetName     string `json:"sheet_name"`
}

// SheetsSource treats one spreadsheet tab as a contact table: the first row
// is the header (provider field names), every following row one contact. Row
// numbers serve as the provider-stable contact id.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	emailField    string
}

func NewSheetsSource(ctx context.Context, creds GoogleSheetsCredentials, clientID, clientSecret, emailField string) (*SheetsSource, error) {
	if strings.TrimSpace(creds.SpreadsheetID) == "" {
		return nil, fmt.Errorf("google sheets spreadsheet id is empty")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	tokenSource := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	})

	svc, err := sheets.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	sheetName := creds.SheetName
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	return &SheetsSource{
		svc:           svc,
		spreadsheetID: creds.SpreadsheetID,
		sheetName:     sheetName,
		emailField:    emailField,
	}, nil
}

// FetchContacts implements services.ContactSource. Sheets has no server-side
// pagination for a values read, so the limit is applied while mapping rows.
func (s *SheetsSource) FetchContacts(ctx context.Context, limit int) ([]services.ExternalContact, error) {
	rows, err := s.readRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := headerFields(rows[0])
	var contacts []services.ExternalContact
	for i, row := range rows[1:] {
		if len(contacts) >= limit {
			break
		}
		contacts = append(contacts, rowToContact(header, row, i+2))
	}

	return contacts, nil
}

// CreateOrUpdateContact implements services.ContactSource. Matching is by the
// email column; a hit updates that row in place, a miss appends a new row.
// Fields without a matching header column are silently not written.
func (s *SheetsSource) CreateOrUpdateContact(ctx context.Context, fields map[string]string) (map[string]string, error) {
	email := strings.TrimSpace(fields[s.emailField])
	if email == "" {
		return nil, fmt.Errorf("sheets write requires a value for %q", s.emailField)
	}

	rows, err := s.readRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", s.sheetName)
	}

	header := headerFields(rows[0])
	emailCol := headerIndex(header, s.emailField)
	if emailCol < 0 {
		return nil, fmt.Errorf("sheet %q has no %q column", s.sheetName, s.emailField)
	}

	for i, row := range rows[1:] {
		if emailCol < len(row) && strings.EqualFold(strings.TrimSpace(stringifyValue(row[emailCol])), email) {
			rowNum := i + 2
			updated := mergeRow(header, row, fields)
			if err := s.writeRow(ctx, rowNum, updated); err != nil {
				return nil, err
			}
			return rowResult(header, updated, rowNum), nil
		}
	}

	appended := mergeRow(header, nil, fields)
	rng := fmt.Sprintf("%s!A1", s.sheetName)
	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{appended}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append sheet row: %w", err)
	}

	return rowResult(header, appended, len(rows)+1), nil
}

func (s *SheetsSource) readRows(ctx context.Context) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", s.sheetName, err)
	}
	return resp.Values, nil
}

func (s *SheetsSource) writeRow(ctx context.Context, rowNum int, row []interface{}) error {
	rng := fmt.Sprintf("%s!A%d", s.sheetName, rowNum)
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet row %d: %w", rowNum, err)
	}
	return nil
}

// headerFields flattens the header row into column names.
func headerFields(row []interface{}) []string {
	header := make([]string, len(row))
	for i, cell := range row {
		header[i] = strings.TrimSpace(stringifyValue(cell))
	}
	return header
}

func headerIndex(header []string, field string) int {
	for i, name := range header {
		if strings.EqualFold(name, field) {
			return i
		}
	}
	return -1
}

// rowToContact maps one sheet row onto an external contact keyed by the
// header names. rowNum is the 1-based sheet row and doubles as the stable id.
func rowToContact(header []string, row []interface{}, rowNum int) services.ExternalContact {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if i < len(row) {
			fields[name] = strings.TrimSpace(stringifyValue(row[i]))
		}
	}

	return services.ExternalContact{
		ID:     fmt.Sprintf("row-%d", rowNum),
		Fields: fields,
	}
}

// mergeRow lays the incoming fields over an existing row (or a blank one),
// ordered by the header columns.
func mergeRow(header []string, existing []interface{}, fields map[string]string) []interface{} {
	row := make([]interface{}, len(header))
	for i, name := range header {
		if i < len(existing) {
			row[i] = existing[i]
		} else {
			row[i] = ""
		}
		for key, value := range fields {
			if strings.EqualFold(key, name) {
				row[i] = value
				break
			}
		}
	}
	return row
}

func rowResult(header []string, row []interface{}, rowNum int) map[string]string {
	result := map[string]string{"id": fmt.Sprintf("row-%d", rowNum)}
	for i, name := range header {
		if name == "" || i >= len(row) {
			continue
		}
		result[name] = stringifyValue(row[i])
	}
	return result
}
