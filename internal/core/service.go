package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/reportcheck/internal/logging"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

var (
	// ErrRunNotFound is returned for unknown or expired run ids.
	ErrRunNotFound = errors.New("validation run not found")
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrEmptyFile is returned for zero-byte uploads.
	ErrEmptyFile = errors.New("empty file")
)

// Defaults applied by NewService for zero ServiceConfig fields.
const (
	DefaultMaxFileSize  = 20 << 20
	DefaultRunRetention = 30 * time.Minute
	DefaultTimeout      = 2 * time.Minute
)

// ServiceConfig tunes the validation service.
type ServiceConfig struct {
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	MaxFileSize   int64
	RunRetention  time.Duration
	CorrectedName string
}

// Service decodes uploaded workbooks, validates them, and keeps each run
// for a while so its corrected copy can be downloaded.
type Service struct {
	cfg     ServiceConfig
	limiter *Limiter
	history HistoryStore

	mu     sync.RWMutex
	runs   map[string]*Run
	timers map[string]*time.Timer
}

// NewService creates a service. A nil history keeps runs in memory only.
func NewService(cfg ServiceConfig, history HistoryStore) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.RunRetention <= 0 {
		cfg.RunRetention = DefaultRunRetention
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.CorrectedName = CorrectedName(cfg.CorrectedName)
	if history == nil {
		history = NewMemoryHistory(0)
	}

	return &Service{
		cfg:     cfg,
		limiter: NewLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		history: history,
		runs:    make(map[string]*Run),
		timers:  make(map[string]*time.Timer),
	}
}

// Limiter exposes the service's concurrency limiter for health reporting
// and shutdown draining.
func (s *Service) Limiter() *Limiter {
	return s.limiter
}

// MaxFileSize returns the upload size limit in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

// ReadUpload reads r up to the size limit.
func (s *Service) ReadUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.cfg.MaxFileSize)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}

// Validate decodes data and validates it in the given mode. The run is
// registered under a new id and recorded in history. Decode failures are
// returned as errors wrapping workbook.ErrDecode; rule violations are
// never errors.
func (s *Service) Validate(ctx context.Context, fileName string, data []byte, mode Mode) (*Run, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.cfg.MaxFileSize)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	runID := uuid.New().String()
	logger := logging.WithFields(ctx, "run_id", runID, "file", fileName, "mode", string(mode))

	var run *Run
	err := s.limiter.Do(ctx, func() error {
		start := time.Now()

		wb, err := workbook.Decode(data)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := Validate(wb, mode)
		if err != nil {
			return err
		}

		fields := []EmptyField{}
		if result.Summary.HasEmptyFields {
			fields = EmptyFields(wb, mode)
		}

		now := time.Now()
		run = &Run{
			ID:          runID,
			FileName:    fileName,
			Result:      result,
			Checks:      result.Summary.Checks(),
			EmptyFields: fields,
			Duration:    now.Sub(start),
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.cfg.RunRetention),
			workbook:    wb,
		}
		return nil
	})
	if err != nil {
		logger.Warn("validation failed", "error", err)
		return nil, err
	}

	s.register(run)
	s.record(ctx, logger, run)

	logger.Info("validation complete",
		"sheets", run.workbook.Len(),
		"errors", run.Result.Summary.TotalErrors,
		"duration", run.Duration,
	)
	return run, nil
}

// register tracks a run and schedules its removal.
func (s *Service) register(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	s.timers[run.ID] = time.AfterFunc(s.cfg.RunRetention, func() {
		s.forget(run.ID)
	})
}

// forget drops a run from tracking.
func (s *Service) forget(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.runs, runID)
	if t, ok := s.timers[runID]; ok {
		t.Stop()
		delete(s.timers, runID)
	}
}

// record writes the run to history. History failures are logged, not
// returned; the validation itself succeeded.
func (s *Service) record(ctx context.Context, logger *slog.Logger, run *Run) {
	client := ClientFromContext(ctx)
	entry := HistoryEntry{
		RunID:       run.ID,
		FileName:    run.FileName,
		Mode:        run.Result.Mode,
		TotalErrors: run.Result.Summary.TotalErrors,
		Valid:       run.Result.Valid(),
		Summary:     run.Result.Summary,
		IPAddress:   client.IPAddress,
		UserAgent:   client.UserAgent,
		Duration:    run.Duration,
		CreatedAt:   run.CreatedAt,
	}
	if err := s.history.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.Error("record history", "error", err)
	}
}

// GetRun returns a tracked run.
func (s *Service) GetRun(runID string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, nil
}

// Corrected builds the annotated workbook for a run. Runs without errors
// return ErrNoErrorsToMark.
func (s *Service) Corrected(ctx context.Context, runID string) (*CorrectedFile, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}
	if !run.HasCorrection() {
		return nil, ErrNoErrorsToMark
	}

	var file *CorrectedFile
	err = s.limiter.Do(ctx, func() error {
		var err error
		file, err = Correct(run.workbook, run.Result.Errors, s.cfg.CorrectedName)
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Preview decodes data and renders up to maxRows data rows per sheet.
func (s *Service) Preview(ctx context.Context, data []byte, maxRows int) ([]PreviewSheet, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	var sheets []PreviewSheet
	err := s.limiter.Do(ctx, func() error {
		wb, err := workbook.Decode(data)
		if err != nil {
			return err
		}
		sheets = Preview(wb, maxRows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

// History lists recent runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	entries, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// RunCount returns the number of tracked runs.
func (s *Service) RunCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Shutdown waits for in-flight validations and stops run expiry timers.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.limiter.WaitForDrain(ctx)

	s.mu.Lock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	return err
}
