package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
	"github.com/mwetzel/fieldwave/backend/internal/registry"
	"github.com/mwetzel/fieldwave/backend/internal/render"
)

// Transformer is the per-dataset row pipeline the orchestrator drives.
// Defined here (in the consumer) so tests can inject a mock without touching
// the repo layer.
type Transformer interface {
	Rows(ctx context.Context, datasetID string, columns []string, f domain.Filters, expand bool) ([]domain.ExportRow, error)
}

// ExportService validates export requests, runs the transform pipelines, and
// assembles the output workbook. Each call owns its own workbook; nothing is
// shared between export calls.
type ExportService struct {
	transformer Transformer
	log         *slog.Logger
}

// NewExportService constructs an ExportService. A nil logger falls back to
// slog.Default.
func NewExportService(t Transformer, log *slog.Logger) *ExportService {
	if log == nil {
		log = slog.Default()
	}
	return &ExportService{transformer: t, log: log}
}

// plannedDataset is one accepted dataset of the request after validation:
// its registry definition narrowed to the surviving column selection.
type plannedDataset struct {
	id    string
	label string
	cols  []domain.ColumnDefinition
}

// Export runs the full pipeline for one request and returns the finished
// in-memory workbook plus the download filename.
//
// Soft conditions (unknown dataset id, zero selected columns, zero rows) skip
// the affected dataset with a warning. A data-source failure in any dataset
// aborts the entire export. When every dataset was skipped or empty, Export
// returns domain.ErrEmptyResult and no workbook.
func (s *ExportService) Export(ctx context.Context, req domain.ExportRequest) (*render.Workbook, string, error) {
	plan, err := s.planDatasets(req)
	if err != nil {
		return nil, "", err
	}

	results, err := s.transformAll(ctx, plan, req)
	if err != nil {
		return nil, "", err
	}

	// Transforms ran concurrently; sheets are written strictly in request
	// order because worksheet order is part of the external contract.
	wb := render.NewWorkbook()
	for i, p := range plan {
		rows := results[i]
		if len(rows) == 0 {
			s.log.Warn("dataset yielded no rows, skipping", "dataset", p.id)
			continue
		}
		if err := wb.AddSheet(p.label, p.cols, rows); err != nil {
			return nil, "", fmt.Errorf("service.ExportService.Export: %w", err)
		}
		if p.id == registry.DatasetSubmissions {
			if err := wb.AddProductDetails(collectDetails(rows)); err != nil {
				return nil, "", fmt.Errorf("service.ExportService.Export: %w", err)
			}
		}
	}

	if wb.SheetCount() == 0 {
		return nil, "", fmt.Errorf("service.ExportService.Export: %w", domain.ErrEmptyResult)
	}

	return wb, exportFileName(req.Options.FileName, time.Now()), nil
}

// planDatasets validates the request shape and resolves each requested
// dataset against the registry, dropping the ones that cannot produce a
// worksheet.
func (s *ExportService) planDatasets(req domain.ExportRequest) ([]plannedDataset, error) {
	if len(req.Datasets) == 0 {
		return nil, fmt.Errorf("%w: at least one dataset is required", domain.ErrValidation)
	}
	if req.Columns == nil {
		return nil, fmt.Errorf("%w: columns map is required", domain.ErrValidation)
	}

	var plan []plannedDataset
	for _, id := range req.Datasets {
		def, ok := registry.Dataset(id)
		if !ok {
			s.log.Warn("unknown dataset requested, skipping", "dataset", id)
			continue
		}

		selected := req.Columns[id]
		if len(selected) == 0 {
			s.log.Warn("dataset requested with zero columns, skipping", "dataset", id)
			continue
		}

		var cols []domain.ColumnDefinition
		for _, colID := range selected {
			col, ok := registry.ColumnDef(id, colID)
			if !ok {
				s.log.Warn("unknown column requested, dropping", "dataset", id, "column", colID)
				continue
			}
			cols = append(cols, col)
		}
		if len(cols) == 0 {
			s.log.Warn("no valid columns selected, skipping dataset", "dataset", id)
			continue
		}

		plan = append(plan, plannedDataset{id: id, label: def.Label, cols: cols})
	}

	return plan, nil
}

// transformAll runs the per-dataset pipelines concurrently, one result slot
// per plan position. The first failure cancels the remaining pipelines and
// aborts the export.
func (s *ExportService) transformAll(ctx context.Context, plan []plannedDataset, req domain.ExportRequest) ([][]domain.ExportRow, error) {
	results := make([][]domain.ExportRow, len(plan))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range plan {
		i, p := i, p
		g.Go(func() error {
			rows, err := s.transformer.Rows(ctx, p.id, columnIDs(p.cols), req.Filters, req.Options.ExpandPaletteProducts)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrUnknownDataset) {
			// Planned datasets came from the registry, so this is a
			// registry/transformer disagreement, not a caller mistake.
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		return nil, err
	}

	return results, nil
}

// collectDetails gathers the product detail lists of all compact rows.
func collectDetails(rows []domain.ExportRow) []domain.ProductDetail {
	var details []domain.ProductDetail
	for _, r := range rows {
		details = append(details, r.Details...)
	}
	return details
}

func columnIDs(cols []domain.ColumnDefinition) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.ID
	}
	return out
}

// exportFileName returns the caller-supplied download name, stripped of any
// path component and forced to an .xlsx suffix, or a date-derived default.
func exportFileName(requested string, now time.Time) string {
	name := strings.TrimSpace(filepath.Base(requested))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "export_" + now.Format("2006-01-02") + ".xlsx"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}
