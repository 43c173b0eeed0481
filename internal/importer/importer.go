package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
)

// NoticeImported is shown after a successful import
const NoticeImported = "Candidates imported successfully"

// Sink receives the mapped batch
type Sink interface {
	ImportCandidates(ctx context.Context, rows []models.ImportRow) error
}

// Importer parses workbooks and forwards them to a Sink
type Importer struct {
	sink     Sink
	maxBytes int64
	logger   zerolog.Logger
}

// New creates an importer. maxBytes bounds the workbook size; zero disables the bound.
func New(sink Sink, maxBytes int64, logger zerolog.Logger) *Importer {
	return &Importer{
		sink:     sink,
		maxBytes: maxBytes,
		logger:   logger.With().Str("component", "importer").Logger(),
	}
}

// Import parses the workbook in r and posts every row in a single request.
// It returns the number of rows sent. Every failure wraps apperrors.ErrImportFailed.
func (i *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	if i.maxBytes > 0 {
		r = io.LimitReader(r, i.maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, i.fail(fmt.Errorf("failed to read upload: %w", err))
	}
	if i.maxBytes > 0 && int64(len(content)) > i.maxBytes {
		return 0, i.fail(apperrors.ErrUploadTooLarge)
	}

	records, err := ParseWorkbook(bytes.NewReader(content))
	if err != nil {
		return 0, i.fail(err)
	}
	rows := MapRows(records)

	if err := i.sink.ImportCandidates(ctx, rows); err != nil {
		return 0, i.fail(err)
	}

	i.logger.Info().Int("rows", len(rows)).Msg("Imported candidates")
	return len(rows), nil
}

func (i *Importer) fail(err error) error {
	i.logger.Error().Err(err).Msg("Candidate import failed")
	return fmt.Errorf("%w: %w", apperrors.ErrImportFailed, err)
}
