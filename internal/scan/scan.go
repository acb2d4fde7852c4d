// Package scan extracts drafts from pasted text, preferring the remote model
// and falling back to the local SMS extractor.
package scan

import (
	"context"
	"log/slog"
	"time"

	"github.com/spendsmart/spendsmart/internal/transaction"
)

const DefaultTimeout = 20 * time.Second

// Remote is a semantic extraction service. A nil Remote means unavailable.
type Remote interface {
	ExtractTransactions(ctx context.Context, text string, today time.Time) ([]transaction.Draft, error)
}

// Local is the offline extractor used as fallback.
type Local interface {
	Extract(blob string, today time.Time) []transaction.Draft
}

type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

type Result struct {
	Drafts []transaction.Draft
	Source Source
}

type Option func(*Service)

// WithTimeout bounds the remote call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	remote  Remote
	local   Local
	timeout time.Duration
	now     func() time.Time
}

func New(remote Remote, local Local, opts ...Option) *Service {
	s := &Service{
		remote:  remote,
		local:   local,
		timeout: DefaultTimeout,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Extract returns the drafts found in blob. It never fails; an empty result
// means nothing was recognized.
func (s *Service) Extract(ctx context.Context, blob string) []transaction.Draft {
	return s.Scan(ctx, blob).Drafts
}

type state int

const (
	stateRemote state = iota
	stateLocal
)

// Scan is Extract that also reports which extractor answered.
func (s *Service) Scan(ctx context.Context, blob string) Result {
	today := s.now()

	for st := stateRemote; ; {
		switch st {
		case stateRemote:
			drafts, reason := s.tryRemote(ctx, blob, today)
			if reason == "" {
				return Result{Drafts: drafts, Source: SourceRemote}
			}

			slog.Info("falling back to local extraction", "reason", reason)

			st = stateLocal
		case stateLocal:
			return Result{Drafts: s.local.Extract(blob, today), Source: SourceLocal}
		}
	}
}

// tryRemote returns the remote drafts, or a non-empty reason to fall back.
func (s *Service) tryRemote(ctx context.Context, blob string, today time.Time) ([]transaction.Draft, string) {
	if s.remote == nil {
		return nil, "unavailable"
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	drafts, err := s.remote.ExtractTransactions(ctx, blob, today)
	if err != nil {
		slog.Warn("remote extraction failed", "error", err)
		return nil, "remote_error"
	}

	if len(drafts) == 0 {
		return nil, "empty"
	}

	if err := transaction.ValidateDrafts(drafts); err != nil {
		slog.Warn("remote extraction returned invalid drafts", "error", err)
		return nil, "invalid"
	}

	return drafts, ""
}
