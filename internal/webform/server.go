// Package webform serves the upload form that ranks a dataset and emails the
// result, plus a JSON endpoint for programmatic callers.
package webform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/topsis-agency/internal/dataset"
	"github.com/joelkehle/topsis-agency/internal/mailer"
	"github.com/joelkehle/topsis-agency/internal/report"
	"github.com/joelkehle/topsis-agency/internal/telemetry"
	"github.com/joelkehle/topsis-agency/internal/topsis"
)

const (
	successMessage = "Result sent to your email!"
	mailBody       = "Find attached your TOPSIS result."
)

// Narrator writes an optional plain-language summary for the emailed report.
type Narrator interface {
	Narrate(ctx context.Context, s report.Summary) (string, error)
}

type Options struct {
	UploadDir      string
	MaxUploadBytes int64
	Sender         mailer.Sender
	PDFRenderer    report.PDFRenderer
	Narrator       Narrator
	Logger         *slog.Logger
}

type Server struct {
	uploadDir   string
	maxUpload   int64
	sender      mailer.Sender
	pdfRenderer report.PDFRenderer
	narrator    Narrator
	logger      *slog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

func NewServer(opts Options) http.Handler {
	return newServer(opts).routes()
}

func newServer(opts Options) *Server {
	s := &Server{
		uploadDir:   opts.UploadDir,
		maxUpload:   opts.MaxUploadBytes,
		sender:      opts.Sender,
		pdfRenderer: opts.PDFRenderer,
		narrator:    opts.Narrator,
		logger:      opts.Logger,
		tracer:      telemetry.Tracer(),
		now:         time.Now,
	}
	if s.uploadDir == "" {
		s.uploadDir = "uploads"
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 10 << 20
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/rank", s.handleAPIRank)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.renderForm(w, http.StatusOK, formView{})
	case http.MethodPost:
		s.handleSubmit(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderForm(w http.ResponseWriter, status int, view formView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, view); err != nil {
		s.logger.Error("render form", "error", err)
	}
}

// upload is one parsed form submission.
type upload struct {
	file     multipart.File
	filename string
	weights  string
	impacts  string
}

// requestError carries the status a submission failure should be reported with.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func statusFor(err error) int {
	var re *requestError
	if errors.As(err, &re) {
		return re.status
	}
	if topsis.KindOf(err) != "" {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return upload{}, &requestError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("upload exceeds %d bytes", s.maxUpload)}
		}
		return upload{}, &requestError{status: http.StatusBadRequest, msg: "invalid multipart form"}
	}
	file, header, err := r.FormFile("input_file")
	if err != nil {
		return upload{}, &requestError{status: http.StatusBadRequest, msg: "input_file field is required"}
	}
	u := upload{
		file:     file,
		filename: sanitizeFilename(header.Filename),
		weights:  r.FormValue("weights"),
		impacts:  r.FormValue("impacts"),
	}
	if strings.TrimSpace(u.weights) == "" || strings.TrimSpace(u.impacts) == "" {
		file.Close()
		return upload{}, &requestError{status: http.StatusBadRequest, msg: "weights and impacts fields are required"}
	}
	return u, nil
}

// rank reads the uploaded table and runs the pipeline on it.
func (s *Server) rank(ctx context.Context, u upload) (topsis.RawTable, topsis.Result, error) {
	_, readSpan := s.tracer.Start(ctx, "read")
	table, err := dataset.Read(u.file, dataset.FormatFor(u.filename).Comma())
	endSpan(readSpan, err)
	if err != nil {
		if errors.Is(err, dataset.ErrEmpty) {
			return topsis.RawTable{}, topsis.Result{}, &requestError{status: http.StatusUnprocessableEntity, msg: err.Error()}
		}
		return topsis.RawTable{}, topsis.Result{}, &requestError{status: http.StatusBadRequest, msg: "unable to read " + u.filename + ": " + err.Error()}
	}

	_, rankSpan := s.tracer.Start(ctx, "rank")
	res, err := topsis.Run(table, u.weights, u.impacts)
	if err == nil {
		rankSpan.SetAttributes(
			attribute.Int("topsis.alternatives", len(res.Scores)),
			attribute.Int("topsis.criteria", len(res.Weights)),
		)
	} else {
		rankSpan.SetAttributes(attribute.String("topsis.error_kind", string(topsis.KindOf(err))))
	}
	endSpan(rankSpan, err)
	return table, res, err
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "submit")
	runID := uuid.NewString()
	span.SetAttributes(attribute.String("topsis.run_id", runID))
	logger := s.logger.With("run_id", runID)

	var view formView
	err := s.submit(ctx, w, r, runID, &view)
	endSpan(span, err)
	if err != nil {
		logger.Warn("submission failed", "error", err, "kind", string(topsis.KindOf(err)))
		view.Message = "Error: " + err.Error()
		view.IsError = true
		s.renderForm(w, statusFor(err), view)
		return
	}
	logger.Info("result emailed", "to", view.Email)
	view.Message = successMessage
	s.renderForm(w, http.StatusOK, view)
}

func (s *Server) submit(ctx context.Context, w http.ResponseWriter, r *http.Request, runID string, view *formView) error {
	u, err := s.parseUpload(w, r)
	if err != nil {
		return err
	}
	defer u.file.Close()
	view.Weights, view.Impacts = u.weights, u.impacts
	view.Email = strings.TrimSpace(r.FormValue("email"))
	if !mailer.ValidAddress(view.Email) {
		return &requestError{status: http.StatusBadRequest, msg: "Invalid email format"}
	}
	if s.sender == nil {
		return &requestError{status: http.StatusServiceUnavailable, msg: mailer.ErrNotConfigured.Error()}
	}

	table, res, err := s.rank(ctx, u)
	if err != nil {
		return err
	}

	_, writeSpan := s.tracer.Start(ctx, "write")
	outPath := filepath.Join(s.uploadDir, runID, resultFilename(u.filename))
	err = dataset.WriteFile(outPath, table, res)
	endSpan(writeSpan, err)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	msg := s.buildMessage(ctx, view.Email, u, res, outPath)
	mailCtx, mailSpan := s.tracer.Start(ctx, "mail")
	err = s.sender.Send(mailCtx, msg)
	endSpan(mailSpan, err)
	if err != nil {
		return &requestError{status: http.StatusBadGateway, msg: "unable to send email: " + err.Error()}
	}
	return nil
}

// buildMessage assembles the email. Report extras are best effort: a failed
// narrative or PDF is logged and the result file is still sent.
func (s *Server) buildMessage(ctx context.Context, to string, u upload, res topsis.Result, outPath string) mailer.Message {
	summary := report.Summary{
		InputName:   u.filename,
		Weights:     u.weights,
		Impacts:     u.impacts,
		GeneratedAt: s.now(),
		Result:      res,
	}
	if s.narrator != nil {
		text, err := s.narrator.Narrate(ctx, summary)
		if err != nil {
			s.logger.Warn("narrative unavailable", "error", err)
		} else {
			summary.Narrative = text
		}
	}
	msg := mailer.Message{
		To:          to,
		Subject:     mailer.DefaultSubject,
		Attachments: []mailer.Attachment{{Path: outPath, Name: filepath.Base(outPath)}},
	}
	markdown := report.BuildMarkdown(summary)
	msg.Text = mailBody + "\n\n" + markdown
	doc, err := report.RenderHTML(mailer.DefaultSubject, markdown)
	if err != nil {
		s.logger.Warn("render html report", "error", err)
		return msg
	}
	msg.HTML = doc
	if s.pdfRenderer != nil {
		pdf, err := s.pdfRenderer.Render(ctx, doc)
		if err != nil {
			s.logger.Warn("render pdf report", "error", err)
		} else {
			msg.Attachments = append(msg.Attachments, mailer.Attachment{Name: "topsis-report.pdf", Data: pdf})
		}
	}
	return msg
}

type rankedAlternative struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

func (s *Server) handleAPIRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, span := s.tracer.Start(r.Context(), "api.rank")
	defer span.End()

	u, err := s.parseUpload(w, r)
	if err != nil {
		recordError(span, err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	defer u.file.Close()

	_, res, err := s.rank(ctx, u)
	if err != nil {
		recordError(span, err)
		if kind := topsis.KindOf(err); kind != "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "kind": string(kind)})
			return
		}
		writeError(w, statusFor(err), err.Error())
		return
	}

	alternatives := make([]rankedAlternative, len(res.Scores))
	for i := range res.Scores {
		alternatives[i] = rankedAlternative{ID: res.IDs[i], Score: res.Scores[i], Rank: res.Ranks[i]}
	}
	writeJSON(w, 200, map[string]any{
		"criteria":     res.Names,
		"weights":      res.Weights,
		"impacts":      topsis.FormatImpacts(res.Impacts),
		"alternatives": alternatives,
	})
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		recordError(span, err)
	}
	span.End()
}

// resultFilename names the emailed result. Uploads are always parsed as
// delimited text, so a SQLite extension on the upload is swapped for .csv.
func resultFilename(upload string) string {
	if dataset.FormatFor(upload) == dataset.FormatSQLite {
		upload = strings.TrimSuffix(upload, filepath.Ext(upload)) + ".csv"
	}
	return "result_" + upload
}

func sanitizeFilename(v string) string {
	v = filepath.Base(strings.ReplaceAll(strings.TrimSpace(v), `\`, "/"))
	if v == "" || v == "." || v == ".." || v == "/" {
		return "input.csv"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, v)
}
