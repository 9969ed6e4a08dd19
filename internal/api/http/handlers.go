package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jekabolt/grbpwr-dashboard/internal/entity"
	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
)

var (
	errBadRequest  = errors.New("bad request")
	errRateLimited = fmt.Errorf("%w: refresh", gerr.ErrRateLimited)
)

type errorResponse struct {
	Error string `json:"error"`
}

type dateRangeResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type factsResponse struct {
	Year  int                   `json:"year"`
	Count int                   `json:"count"`
	Rows  []entity.SalesFactRow `json:"rows"`
}

type refreshResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	_, err := s.dash.DateRange(r.Context())
	if errors.Is(err, gerr.ErrSnapshotNotLoaded) {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getDashboard serves the report for ?from&to. Missing bounds default to the
// snapshot's purchase-date range.
func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDate(q, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDate(q, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if from.IsZero() || to.IsZero() {
		full, err := s.dash.DateRange(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if from.IsZero() {
			from = full.From
		}
		if to.IsZero() {
			to = full.To
		}
	}

	report, err := s.dash.Report(r.Context(), entity.ReportRequest{
		Window: entity.NewDateWindow(from, to),
		Status: parseStatus(q),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) getFacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: year %q is not a number", errBadRequest, q.Get("year")))
		return
	}
	req := entity.FactsRequest{
		Year:   year,
		Status: parseStatus(q),
	}

	from, err := parseDate(q, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDate(q, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !from.IsZero() || !to.IsZero() {
		win := entity.NewDateWindow(from, to)
		req.Window = &win
	}

	rows, err := s.dash.Facts(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, factsResponse{Year: year, Count: len(rows), Rows: rows})
}

func (s *Server) getDateRange(w http.ResponseWriter, r *http.Request) {
	dr, err := s.dash.DateRange(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dateRangeResponse{
		From: dr.From.Format(time.DateOnly),
		To:   dr.To.Format(time.DateOnly),
	})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var subject string
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
		subject, _ = claims["sub"].(string)
	}

	id, err := s.dash.Refresh(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Default().InfoContext(r.Context(), "snapshot refreshed via api",
		slog.String("snapshot_id", id),
		slog.String("subject", subject),
	)
	writeJSON(w, http.StatusOK, refreshResponse{SnapshotID: id})
}

func parseDate(q url.Values, name string) (time.Time, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not YYYY-MM-DD", errBadRequest, name, v)
	}
	return t, nil
}

func parseStatus(q url.Values) entity.OrderStatus {
	return entity.OrderStatus(strings.ToLower(strings.TrimSpace(q.Get("status"))))
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, gerr.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, gerr.ErrSnapshotNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, gerr.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("can't encode response",
			slog.String("err", err.Error()),
		)
	}
}
