package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/nextsystem/dropgate/internal/logger"
	"github.com/nextsystem/dropgate/internal/repository"
)

// Collection names match the worksheet titles in the backing spreadsheet.
const (
	collectionOffers       = "Offers"
	collectionParticipants = "Participants"
	collectionQueue        = "Queue"
	collectionProofs       = "Proofs"
)

// collectionHeaders is the fixed header schema per worksheet. EnsureCollections
// overwrites a drifted header row in place, so column positions derived from
// these slices are authoritative.
var collectionHeaders = map[string][]string{
	collectionOffers:       {"offer_id", "name", "cap_daily", "is_active"},
	collectionParticipants: {"participant_id", "display_name", "created_at", "status"},
	collectionQueue:        {"queue_id", "participant_id", "offer_id", "queued_at", "status"},
	collectionProofs:       {"proof_id", "queue_id", "participant_id", "offer_id", "evidence_ref", "evidence_kind", "submitted_at", "reviewer_note", "decision"},
}

const timeLayout = time.RFC3339

// Client adapts the Google Sheets API to the record-store primitives the
// repositories need: read-all, append, update-cell. The backend offers no
// locking, no compare-and-swap and no isolation; callers serialize where
// that matters.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewClient builds a Sheets client from service account key material.
func NewClient(ctx context.Context, spreadsheetID string, credentials []byte, timeout time.Duration) (*Client, error) {
	jwtCfg, err := google.JWTConfigFromJSON(credentials, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		timeout:       timeout,
	}, nil
}

// EnsureCollections creates missing worksheets and writes the fixed header
// row. A worksheet that exists with a mismatched header gets its first row
// overwritten in place. Safe to run on every startup.
func (c *Client) EnsureCollections(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(callCtx).Do()
	if err != nil {
		return c.wrap("get_spreadsheet", "", err)
	}

	existing := make(map[string]bool, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		existing[sh.Properties.Title] = true
	}

	for _, collection := range []string{collectionOffers, collectionParticipants, collectionQueue, collectionProofs} {
		headers := collectionHeaders[collection]
		if !existing[collection] {
			if err := c.addSheet(ctx, collection); err != nil {
				return err
			}
		}
		if err := c.ensureHeader(ctx, collection, headers); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) addSheet(ctx context.Context, title string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(callCtx).Do()
	if err != nil {
		return c.wrap("add_sheet", title, err)
	}
	logger.Info("Created worksheet", "collection", title)
	return nil
}

func (c *Client) ensureHeader(ctx context.Context, collection string, headers []string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	rng := fmt.Sprintf("%s!1:1", collection)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(callCtx).Do()
	if err != nil {
		return c.wrap("read_header", collection, err)
	}

	if len(resp.Values) > 0 && headerMatches(resp.Values[0], headers) {
		return nil
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	writeCtx, writeCancel := c.callContext(ctx)
	defer writeCancel()
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, fmt.Sprintf("%s!A1", collection), &sheetsapi.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		Context(writeCtx).Do()
	if err != nil {
		return c.wrap("write_header", collection, err)
	}
	logger.Warn("Rewrote worksheet header", "collection", collection)
	return nil
}

func headerMatches(got []interface{}, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, cell := range got {
		if fmt.Sprint(cell) != want[i] {
			return false
		}
	}
	return true
}

// readAll returns all data rows of a collection, header excluded. Rows are
// normalized to strings and padded to the header width so positional access
// is always in range.
func (c *Client) readAll(ctx context.Context, collection string) ([][]string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	headers := collectionHeaders[collection]
	rng := fmt.Sprintf("%s!A2:%s", collection, colLetter(len(headers)-1))

	logger.StoreCall("read_all", collection)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(callCtx).Do()
	logger.StoreResult("read_all", collection, err)
	if err != nil {
		return nil, c.wrap("read_all", collection, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(headers))
		for i := range headers {
			if i < len(raw) {
				row[i] = fmt.Sprint(raw[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// appendRow appends one row to a collection.
func (c *Client) appendRow(ctx context.Context, collection string, row []string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	logger.StoreCall("append", collection)
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, collection, &sheetsapi.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(callCtx).Do()
	logger.StoreResult("append", collection, err)
	if err != nil {
		return c.wrap("append", collection, err)
	}
	return nil
}

// updateCell overwrites a single cell. rowIdx is 0-based over data rows
// (the header occupies sheet row 1), colIdx is 0-based over the header.
func (c *Client) updateCell(ctx context.Context, collection string, rowIdx, colIdx int, value string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	rng := fmt.Sprintf("%s!%s%d", collection, colLetter(colIdx), rowIdx+2)

	logger.StoreCall("update_cell", collection, "range", rng)
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rng, &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").
		Context(callCtx).Do()
	logger.StoreResult("update_cell", collection, err)
	if err != nil {
		return c.wrap("update_cell", collection, err)
	}
	return nil
}

// callContext bounds a single store round-trip. A stuck call would otherwise
// hold whatever serialization point the caller owns.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// wrap maps transport failures onto the store error taxonomy.
func (c *Client) wrap(op, collection string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%s %s: %w", op, collection, repository.ErrStoreRateLimited)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s timed out: %w", op, collection, repository.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s %s: %v: %w", op, collection, err, repository.ErrStoreUnavailable)
}

// colLetter converts a 0-based column index to its A1 letter. All collections
// fit within a single letter.
func colLetter(idx int) string {
	return string(rune('A' + idx))
}

// columnIndex returns the 0-based position of a field in a collection header.
func columnIndex(collection, field string) int {
	for i, h := range collectionHeaders[collection] {
		if h == field {
			return i
		}
	}
	return -1
}

// parseID parses an identifier cell, treating malformed values as zero the
// way the spreadsheet's human editors occasionally require.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// parseTime parses a timestamp cell, returning the zero time on failure.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
