// Package handler — export.go implements POST /export.
// The request selects datasets, columns, filters, and rendering options; the
// response is the serialized workbook streamed as a file attachment.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// xlsxContentType is the OOXML spreadsheet media type.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportRequest is the wire form of an export call.
type exportRequest struct {
	Datasets []string            `json:"datasets"`
	Columns  map[string][]string `json:"columns"`
	Filters  *exportFilters      `json:"filters,omitempty"`
	Options  *exportOptions      `json:"options,omitempty"`
}

type exportFilters struct {
	DateRange *dateRange  `json:"dateRange,omitempty"`
	OwnerIDs  []uuid.UUID `json:"ownerIds,omitempty"`
	WaveIDs   []uuid.UUID `json:"waveIds,omitempty"`
}

// dateRange bounds are calendar dates ("2006-01-02"); both are inclusive.
type dateRange struct {
	Start openapi_types.Date `json:"start"`
	End   openapi_types.Date `json:"end"`
}

type exportOptions struct {
	ExpandPaletteProducts bool   `json:"expandPaletteProducts,omitempty"`
	FileName              string `json:"fileName,omitempty"`
}

// PostExport handles POST /export.
// On success it streams the workbook with an attachment disposition; the
// caller- or date-derived filename comes from the export service.
func (s *Server) PostExport(w http.ResponseWriter, r *http.Request) {
	var body exportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed JSON body")
		return
	}

	wb, fileName, err := s.exports.Export(r.Context(), requestToDomain(body))
	if err != nil {
		s.writeExportError(w, err)
		return
	}

	// Serialize to memory first so a mid-write failure never produces a
	// half-announced attachment with a wrong length.
	buf, err := wb.File().WriteToBuffer()
	if err != nil {
		s.log.Error("workbook serialization failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to serialize document")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	//nolint:errcheck — a failed write means the client disconnected.
	w.Write(buf.Bytes())
}

// writeExportError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeExportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", messageAfter(err, domain.ErrValidation.Error()))
	case errors.Is(err, domain.ErrEmptyResult):
		writeError(w, http.StatusNotFound, "empty_result", "nothing to export")
	case errors.Is(err, domain.ErrDataSource):
		s.log.Error("export aborted by data source failure", "error", err)
		writeError(w, http.StatusBadGateway, "data_source_error", messageAfter(err, domain.ErrDataSource.Error()))
	default:
		s.log.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// requestToDomain converts the wire request into the validated domain form.
// The exclusive upper date bound is the start of the day after the requested
// inclusive end date.
func requestToDomain(body exportRequest) domain.ExportRequest {
	req := domain.ExportRequest{
		Datasets: body.Datasets,
		Columns:  body.Columns,
	}

	if f := body.Filters; f != nil {
		req.Filters.OwnerIDs = f.OwnerIDs
		req.Filters.WaveIDs = f.WaveIDs
		if f.DateRange != nil {
			from := startOfDay(f.DateRange.Start.Time)
			to := startOfDay(f.DateRange.End.Time).AddDate(0, 0, 1)
			req.Filters.DateFrom = &from
			req.Filters.DateTo = &to
		}
	}
	if o := body.Options; o != nil {
		req.Options.ExpandPaletteProducts = o.ExpandPaletteProducts
		req.Options.FileName = o.FileName
	}

	return req
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
