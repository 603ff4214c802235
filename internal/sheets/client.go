package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"linguaops/internal"
	"linguaops/internal/config"
)

// ValuesAPI is the slice of the spreadsheet service the matching and
// filing logic depends on. Tests plug in a fixture implementation.
type ValuesAPI interface {
	ListTabs(ctx context.Context, spreadsheetID string) ([]internal.SheetTab, error)
	GetValues(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error)
	AppendRow(ctx context.Context, spreadsheetID, tabTitle string, row []string) error
}

type Client struct {
	service *sheetsapi.Service
}

func NewClient(ctx context.Context, cfg config.Config) (*Client, error) {
	if err := cfg.Require("GOOGLE_SA_EMAIL", cfg.GoogleSAEmail); err != nil {
		return nil, err
	}
	if err := cfg.Require("GOOGLE_SA_PRIVATE_KEY", cfg.GoogleSAPrivateKey); err != nil {
		return nil, err
	}

	jwtCfg := &jwt.Config{
		Email:      cfg.GoogleSAEmail,
		PrivateKey: []byte(strings.ReplaceAll(cfg.GoogleSAPrivateKey, `\n`, "\n")),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, err
	}
	return &Client{service: svc}, nil
}

func (c *Client) ListTabs(ctx context.Context, spreadsheetID string) ([]internal.SheetTab, error) {
	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(title,sheetId,index))").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}

	tabs := make([]internal.SheetTab, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties == nil {
			continue
		}
		tabs = append(tabs, internal.SheetTab{
			Title: sheet.Properties.Title,
			GID:   sheet.Properties.SheetId,
			Index: sheet.Properties.Index,
		})
	}
	return tabs, nil
}

func (c *Client) GetValues(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", rangeA1, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Client) AppendRow(ctx context.Context, spreadsheetID, tabTitle string, row []string) error {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	_, err := c.service.Spreadsheets.Values.
		Append(spreadsheetID, fmt.Sprintf("'%s'!A1", tabTitle), &sheetsapi.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", tabTitle, err)
	}
	return nil
}
