package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// ValueInput is how appended strings are interpreted.
const ValueInput = "USER_ENTERED"

// Values is a read range.
type Values struct {
	Range string     `json:"range"`
	Rows  [][]string `json:"rows"`
}

// AppendResult reports where appended rows landed.
type AppendResult struct {
	UpdatedRange string `json:"updatedRange"`
	UpdatedRows  int64  `json:"updatedRows"`
	UpdatedCells int64  `json:"updatedCells"`
}

// Client wraps a Sheets service.
type Client struct {
	svc *sheets.Service
}

// New wraps svc.
func New(svc *sheets.Service) *Client {
	return &Client{svc: svc}
}

// Read returns the formatted values of an A1 range.
func (c *Client) Read(ctx context.Context, spreadsheetID, rng string) (*Values, error) {
	if err := validate(spreadsheetID, rng); err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, google.WrapError(err))
	}

	out := &Values{Range: resp.Range, Rows: make([][]string, 0, len(resp.Values))}
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

// Append adds rows after the last row of the table in rng.
func (c *Client) Append(ctx context.Context, spreadsheetID, rng string, rows [][]string) (*AppendResult, error) {
	if err := validate(spreadsheetID, rng); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: at least one row is required", domain.ErrInvalidInput)
	}

	vr := &sheets.ValueRange{Values: make([][]any, len(rows))}
	for i, row := range rows {
		vr.Values[i] = make([]any, len(row))
		for j, cell := range row {
			vr.Values[i][j] = cell
		}
	}

	resp, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, rng, vr).
		ValueInputOption(ValueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("append to %s: %w", rng, google.WrapError(err))
	}

	res := &AppendResult{}
	if u := resp.Updates; u != nil {
		res.UpdatedRange = u.UpdatedRange
		res.UpdatedRows = u.UpdatedRows
		res.UpdatedCells = u.UpdatedCells
	}
	return res, nil
}

func validate(spreadsheetID, rng string) error {
	if strings.TrimSpace(spreadsheetID) == "" {
		return fmt.Errorf("%w: spreadsheet id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(rng) == "" {
		return fmt.Errorf("%w: range is required", domain.ErrInvalidInput)
	}
	return nil
}
