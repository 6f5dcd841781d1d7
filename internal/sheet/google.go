package sheet

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleStore reads and writes one worksheet of a Google spreadsheet.
type GoogleStore struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

// OpenGoogle authenticates with a service account key, opens the
// spreadsheet by id and checks that the worksheet exists.
func OpenGoogle(ctx context.Context, credentialsJSON []byte, spreadsheetID, worksheet string) (*GoogleStore, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	doc, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", spreadsheetID, err)
	}
	found := false
	for _, s := range doc.Sheets {
		if s.Properties != nil && s.Properties.Title == worksheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, worksheet)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}, nil
}

// Values fetches the full worksheet as formatted strings.
func (s *GoogleStore) Values(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(s.worksheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values: %w", err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		out = append(out, cells)
	}
	return out, nil
}

// BatchUpdate sends all updates in one values.batchUpdate call.  Values are
// written RAW so the cells hold the literal TRUE/FALSE strings.
func (s *GoogleStore) BatchUpdate(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  quoteSheet(s.worksheet) + "!" + u.A1(),
			Values: [][]interface{}{{u.Value}},
		})
	}
	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: "RAW", Data: data}
	if _, err := s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("batch update: %w", err)
	}
	return nil
}
