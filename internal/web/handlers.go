package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/transitcheck/internal/core"
	"github.com/JonMunkholm/transitcheck/internal/input"
	"github.com/JonMunkholm/transitcheck/internal/logging"
	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema"
)

var errInvalidParameter = errors.New("invalid parameter")

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temporary file.
const multipartMemory = 32 << 20

type healthResponse struct {
	Status     string                `json:"status"`
	Runs       core.RunLimiterStatus `json:"runs"`
	Tables     int                   `json:"tables"`
	Validators int                   `json:"validators"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Runs:       s.service.RunLimiterStatus(),
		Tables:     s.service.Schemas().Len(),
		Validators: len(s.service.Validators()),
	})
}

type fieldInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Presence   string `json:"presence"`
	ForeignKey string `json:"foreign_key,omitempty"`
}

type tableInfo struct {
	Filename   string      `json:"filename"`
	Presence   string      `json:"presence"`
	PrimaryKey []string    `json:"primary_key,omitempty"`
	Fields     []fieldInfo `json:"fields"`
}

// handleListTables describes every table a feed may contain.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables := s.service.Schemas().All()
	out := make([]tableInfo, len(tables))
	for i, ts := range tables {
		out[i] = describeTable(ts)
	}
	writeJSON(w, http.StatusOK, out)
}

func describeTable(ts *schema.TableSchema) tableInfo {
	info := tableInfo{
		Filename:   ts.Filename,
		Presence:   ts.Presence.String(),
		PrimaryKey: ts.PrimaryKey,
		Fields:     make([]fieldInfo, len(ts.Fields)),
	}
	for i, f := range ts.Fields {
		info.Fields[i] = fieldInfo{Name: f.Name, Type: f.Type.String(), Presence: f.Presence.String()}
		if f.ForeignKey != nil {
			info.Fields[i].ForeignKey = f.ForeignKey.Table + "." + f.ForeignKey.Field
		}
	}
	return info
}

type validatorInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Scope       string   `json:"scope"`
	Tables      []string `json:"tables"`
}

// handleListValidators lists validators in run order.
func (s *Server) handleListValidators(w http.ResponseWriter, r *http.Request) {
	units := s.service.Validators()
	out := make([]validatorInfo, len(units))
	for i, u := range units {
		scope := "feed"
		if u.IsRowLevel() {
			scope = "row"
		}
		out[i] = validatorInfo{Name: u.Name, Description: u.Description, Scope: scope, Tables: u.Tables()}
	}
	writeJSON(w, http.StatusOK, out)
}

type noticeInfo struct {
	Code        string          `json:"code"`
	Severity    notice.Severity `json:"severity"`
	Description string          `json:"description"`
	Fields      []string        `json:"fields"`
}

// handleListNotices exports the notice catalog for documentation tools.
func (s *Server) handleListNotices(w http.ResponseWriter, r *http.Request) {
	kinds := notice.Catalog()
	out := make([]noticeInfo, len(kinds))
	for i, k := range kinds {
		out[i] = noticeInfo{Code: k.Code, Severity: k.Severity, Description: k.Description, Fields: k.Fields}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleValidate validates an uploaded feed zip and returns the report.
//
// Form field: file (zip archive).
// Query: country (ISO 3166 alpha-2), feed_id, now (RFC 3339 or YYYYMMDD),
// skip (comma-separated validator names).
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	opts, err := validateOptions(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Validation.MaxFeedSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", errNoFile, err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	logger := logging.FromContext(r.Context())
	logger.Info("feed received", "filename", header.Filename, "size", header.Size, "feed_id", opts.FeedID)

	in, err := input.FromZipReader(header.Filename, file, header.Size)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer in.Close()

	report, err := s.service.Validate(r.Context(), in, opts)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// validateOptions reads run options from the query string.
func validateOptions(r *http.Request) (core.ValidateOptions, error) {
	q := r.URL.Query()
	opts := core.ValidateOptions{
		FeedID:      strings.TrimSpace(q.Get("feed_id")),
		CountryCode: strings.ToUpper(strings.TrimSpace(q.Get("country"))),
	}

	if cc := opts.CountryCode; cc != "" && len(cc) != 2 {
		return opts, fmt.Errorf("%w country: %q is not a two-letter region code", errInvalidParameter, cc)
	}

	if raw := strings.TrimSpace(q.Get("now")); raw != "" {
		now, err := parseNow(raw)
		if err != nil {
			return opts, fmt.Errorf("%w now: %q", errInvalidParameter, raw)
		}
		opts.Now = now
	}

	for _, name := range strings.Split(q.Get("skip"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			opts.Skip = append(opts.Skip, name)
		}
	}
	return opts, nil
}

// parseNow accepts RFC 3339 timestamps and YYYYMMDD dates (noon UTC).
func parseNow(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.Parse("20060102", raw)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(12 * time.Hour), nil
}

// handleListRuns lists recent runs, newest first. Query: limit.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, r, fmt.Errorf("%w limit: %q", errInvalidParameter, raw), http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.service.ListRuns(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleGetRun returns the stored report of one run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(run.Report); err != nil {
		logging.FromContext(r.Context()).Warn("write run report", "run_id", run.ID, "error", err)
	}
}
