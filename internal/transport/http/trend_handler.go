package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "krxtrend/internal/errors"
	"krxtrend/internal/exporter"
	"krxtrend/internal/services"
	"krxtrend/internal/trend"
)

// TrendHandler serves the chart data API with RFC 7807 error responses.
type TrendHandler struct {
	service      TrendServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	csv          *exporter.CSVWriter
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(service TrendServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TrendHandler {
	return &TrendHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "trend_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
		csv:          exporter.NewCSVWriter(logger),
	}
}

// Routes returns the trend routes with proper Chi patterns
func (h *TrendHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/series", h.GetSeries)
	r.Get("/presets", h.GetPresets)
	r.Get("/bounds", h.GetBounds)
	r.Get("/summary", h.GetSummary)
	r.Get("/export", h.ExportCSV)

	return r
}

// seriesQuery captures and validates the range selection query string.
// Either a preset or an explicit start/end pair may be given; the pair
// wins when both are present.
type seriesQuery struct {
	Preset string `validate:"omitempty,oneof=all 7d 30d 90d 1y 2y 3y 4y 5y 10y"`
	Start  string `validate:"omitempty,datetime=2006-01-02"`
	End    string `validate:"omitempty,datetime=2006-01-02"`
}

func (h *TrendHandler) parseSelection(r *http.Request) (services.ViewSelection, error) {
	q := seriesQuery{
		Preset: r.URL.Query().Get("preset"),
		Start:  r.URL.Query().Get("start"),
		End:    r.URL.Query().Get("end"),
	}

	if err := h.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return services.ViewSelection{}, apierrors.ErrValidation(field,
				fmt.Sprintf("invalid value for %s", field))
		}
		return services.ViewSelection{}, err
	}

	if (q.Start == "") != (q.End == "") {
		return services.ViewSelection{}, apierrors.ErrValidation("start",
			"start and end must be provided together")
	}

	sel := services.ViewSelection{Preset: trend.Preset(q.Preset)}
	if q.Start != "" {
		start, _ := time.Parse("2006-01-02", q.Start)
		end, _ := time.Parse("2006-01-02", q.End)
		sel.Start, sel.End = &start, &end
	}
	return sel, nil
}

// GetSeries handles GET /api/trend/series
func (h *TrendHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	snap, err := h.service.Snapshot(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   snap,
		"count":  len(snap.Raw),
	})
}

// GetPresets handles GET /api/trend/presets
func (h *TrendHandler) GetPresets(w http.ResponseWriter, r *http.Request) {
	presets := h.service.Presets(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   presets,
		"count":  len(presets),
	})
}

// GetBounds handles GET /api/trend/bounds
func (h *TrendHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Bounds(r.Context()),
	})
}

// GetSummary handles GET /api/trend/summary
func (h *TrendHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Summary(r.Context()),
	})
}

// ExportCSV handles GET /api/trend/export. The view parameter selects
// the raw or cumulative series; range selection works as on /series.
func (h *TrendHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = "raw"
	}
	if view != "raw" && view != "cumulative" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("view",
			"view must be raw or cumulative"))
		return
	}

	sel, err := h.parseSelection(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	snap, err := h.service.Snapshot(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records := snap.Raw
	if view == "cumulative" {
		records = snap.Cumulative
	}

	filename := fmt.Sprintf("trend_%s_%s.csv", view, snap.Range.End.Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.csv.Write(w, records); err != nil {
		h.logger.ErrorContext(r.Context(), "CSV export failed",
			slog.String("error", err.Error()),
			slog.String("view", view))
	}
}
