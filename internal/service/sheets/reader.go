package sheets

import (
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrSheetNotFound = errors.New("sheet not found")

// Reader loads course lessons from Google Sheets.
type Reader struct {
	creds        *Credentials
	courseRange  string
	answersRange string
	log          *slog.Logger
}

func NewReader(creds *Credentials, courseRange, answersRange string, log *slog.Logger) *Reader {
	return &Reader{
		creds:        creds,
		courseRange:  courseRange,
		answersRange: answersRange,
		log:          log.With(sl.Module("sheets-reader")),
	}
}

// ReadLessons parses sheet number sheet (zero based) of the spreadsheet behind link.
func (r *Reader) ReadLessons(ctx context.Context, link string, sheet int) ([]entity.Lesson, error) {
	id := ExtractSpreadsheetID(link)
	if id == "" {
		return nil, fmt.Errorf("not a spreadsheet link: %q", link)
	}

	api, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}

	title, err := api.sheetTitle(ctx, id, sheet)
	if err != nil {
		return nil, err
	}
	rows, err := api.values(ctx, id, title+r.courseRange)
	if err != nil {
		return nil, err
	}

	lessons, err := parseLessons(ctx, rows, id, sheet, api)
	if err != nil {
		return nil, err
	}
	r.log.With(
		slog.String("spreadsheet", id),
		slog.Int("sheet", sheet),
		slog.Int("lessons", len(lessons)),
	).Debug("lessons read")
	return lessons, nil
}

func (r *Reader) connect(ctx context.Context) (*googleAPI, error) {
	client, err := r.creds.Client(ctx)
	if err != nil {
		return nil, err
	}
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	docsService, err := docs.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("docs service: %w", err)
	}
	return &googleAPI{
		sheets:       sheetsService,
		docs:         docsService,
		answersRange: r.answersRange,
		log:          r.log,
	}, nil
}

// googleAPI resolves links found in the course sheet.
type googleAPI struct {
	sheets       *sheets.Service
	docs         *docs.Service
	answersRange string
	log          *slog.Logger
}

// noAccess reports API refusals that should not abort the import.
func noAccess(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 403 || gerr.Code == 404
	}
	return false
}

func (g *googleAPI) sheetTitle(ctx context.Context, spreadsheetID string, sheet int) (string, error) {
	resp, err := g.sheets.Spreadsheets.Get(spreadsheetID).IncludeGridData(false).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet: %w", err)
	}
	if sheet < 0 || sheet >= len(resp.Sheets) || resp.Sheets[sheet].Properties == nil {
		return "", fmt.Errorf("%w: %d", ErrSheetNotFound, sheet)
	}
	return resp.Sheets[sheet].Properties.Title, nil
}

func (g *googleAPI) values(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	resp, err := g.sheets.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get values: %w", err)
	}
	return toRows(resp.Values), nil
}

func (g *googleAPI) DocumentTitle(ctx context.Context, link string) (string, error) {
	doc, err := g.docs.Documents.Get(ExtractDocumentID(link)).Context(ctx).Do()
	if err != nil {
		if noAccess(err) {
			g.log.With(slog.String("link", link)).Warn("no access to task document")
			return NoAccessTitle, nil
		}
		return "", fmt.Errorf("get document: %w", err)
	}
	return doc.Title, nil
}

func (g *googleAPI) SpreadsheetTitle(ctx context.Context, link string) (string, error) {
	resp, err := g.sheets.Spreadsheets.Get(ExtractSpreadsheetID(link)).IncludeGridData(false).Context(ctx).Do()
	if err != nil {
		if noAccess(err) {
			g.log.With(slog.String("link", link)).Warn("no access to test spreadsheet")
			return NoAccessTitle, nil
		}
		return "", fmt.Errorf("get spreadsheet: %w", err)
	}
	if resp.Properties == nil {
		return "", nil
	}
	return resp.Properties.Title, nil
}

func (g *googleAPI) Questions(ctx context.Context, link string, sheet int) ([]entity.TestQuestion, error) {
	id := ExtractSpreadsheetID(link)
	title, err := g.sheetTitle(ctx, id, sheet)
	if err != nil {
		return nil, err
	}
	rows, err := g.values(ctx, id, title+g.answersRange)
	if err != nil {
		return nil, err
	}
	return parseQuestions(rows)
}
