package web

import (
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/reportcheck/internal/core"
	"github.com/JonMunkholm/reportcheck/internal/logging"
	"github.com/JonMunkholm/reportcheck/internal/schema"
)

// xlsxContentType is the media type of corrected downloads.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// multipartOverhead is allowed on top of the file size limit for the form
// boundaries and the other fields.
const multipartOverhead = 1 << 20

// maxFormMemory is how much of a multipart form is buffered in memory
// before spilling to temporary files.
const maxFormMemory = 32 << 20

// DefaultPreviewRows is the number of data rows per sheet in a preview.
const DefaultPreviewRows = 20

// RunResponse is the JSON body describing a validation run.
type RunResponse struct {
	*core.Run
	Valid        bool   `json:"valid"`
	CorrectedURL string `json:"correctedUrl,omitempty"`
}

func newRunResponse(run *core.Run) RunResponse {
	resp := RunResponse{Run: run, Valid: run.Result.Valid()}
	if run.HasCorrection() {
		resp.CorrectedURL = "/api/runs/" + run.ID + "/corrected"
	}
	return resp
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status      string             `json:"status"`
	Validations core.LimiterStatus `json:"validations"`
	Runs        int                `json:"runs"`
}

// handleHealth reports liveness and current load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Validations: s.service.Limiter().Status(),
		Runs:        s.service.RunCount(),
	})
}

// handleSchema returns the required headers, rule table and code sets.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schema.Describe())
}

// handleValidate validates an uploaded workbook.
//
// Form fields: file (xlsx, required), mode (report or identifier,
// default report).
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer file.Close()

	mode, err := core.ParseMode(r.FormValue("mode"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	data, err := s.service.ReadUpload(file)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Debug("workbook received",
		"file", header.Filename,
		"size", len(data),
		"mode", string(mode),
	)

	run, err := s.service.Validate(withClient(r), header.Filename, data, mode)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, newRunResponse(run))
}

// handleGetRun returns a run that has not expired yet.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, newRunResponse(run))
}

// handleCorrected downloads the annotated workbook of a run. The optional
// name query parameter overrides the configured filename.
func (s *Server) handleCorrected(w http.ResponseWriter, r *http.Request) {
	file, err := s.service.Corrected(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	name := file.Name
	if q := r.URL.Query().Get("name"); q != "" {
		name = core.CorrectedName(q)
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		logging.FromContext(r.Context()).Warn("write corrected file", "error", err)
	}
}

// handlePreview renders the uploaded workbook's sheets as display text.
//
// Form fields: file (xlsx, required), rows (data rows per sheet, default 20).
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	file, _, err := s.formFile(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer file.Close()

	data, err := s.service.ReadUpload(file)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	rows := parseIntParam(r.FormValue("rows"), DefaultPreviewRows)
	sheets, err := s.service.Preview(r.Context(), data, rows)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sheets": sheets})
}

// handleHistory lists recent runs, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r.URL.Query().Get("limit"), core.DefaultHistoryLimit)

	entries, err := s.service.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": entries})
}

// formFile bounds the request body and returns the "file" form part.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.service.MaxFileSize()+multipartOverhead)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			return nil, nil, err
		}
		return nil, nil, errNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errNoFile
	}
	return file, header, nil
}

// parseIntParam parses a positive integer, falling back to defaultVal.
func parseIntParam(val string, defaultVal int) int {
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
