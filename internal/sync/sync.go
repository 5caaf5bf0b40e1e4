// ABOUTME: Orchestrates a full fetch-validate-store-upload run across requested variants.
// ABOUTME: Each variant walks its candidate list with per-candidate failure reasons recorded.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/gridsync/internal/catalog"
	"github.com/2389-research/gridsync/internal/fetcher"
	"github.com/2389-research/gridsync/internal/pdf"
)

// Outcome is the per-variant result of a run.
type Outcome string

const (
	// OutcomeUploaded means the puzzle was downloaded and reached the cloud this run.
	OutcomeUploaded Outcome = "downloaded+uploaded"
	// OutcomeUploadedLocal means an existing local copy reached the cloud this
	// run; nothing was downloaded.
	OutcomeUploadedLocal Outcome = "uploaded-existing"
	// OutcomeDownloaded means the puzzle was written locally with no upload
	// performed (upload disabled, or the cloud already had it).
	OutcomeDownloaded Outcome = "downloaded-only"
	// OutcomeDuplicate means both stores already had the puzzle.
	OutcomeDuplicate Outcome = "skipped-duplicate"
	// OutcomeExhausted means every candidate date failed.
	OutcomeExhausted Outcome = "failed-all-candidates"
	// OutcomeError means a storage or upload error stopped this variant.
	OutcomeError Outcome = "error"
)

// FailReason classifies why one candidate was abandoned.
type FailReason string

const (
	ReasonNotFound  FailReason = "not-found"
	ReasonTransient FailReason = "transient"
	ReasonInvalid   FailReason = "invalid-document"
)

// Attempt records one candidate that failed before the variant's outcome.
type Attempt struct {
	Candidate catalog.Candidate
	Reason    FailReason
}

// VariantResult is the outcome of one variant within a run.
type VariantResult struct {
	Variant      catalog.Variant
	Outcome      Outcome
	Date         time.Time // resolved publication date when fetched
	Filename     string
	Attempts     []Attempt // candidates abandoned along the way
	LocalWritten bool
	Uploaded     bool
	Err          error
}

// Report summarizes one orchestrator run. Results appear in requested-variant
// order. AuthErr is set when the cloud session could not be established; in
// that case fetch outcomes are present but nothing was stored.
type Report struct {
	RunID      uuid.UUID
	TargetDate time.Time
	Results    []VariantResult
	AuthErr    error
}

// Fetcher retrieves the PDF bytes for one candidate.
type Fetcher interface {
	Fetch(ctx context.Context, cand catalog.Candidate) ([]byte, error)
}

// LocalStore is the slice of the local store the engine needs.
type LocalStore interface {
	Exists(ctx context.Context, filename string) (bool, error)
	Read(filename string) ([]byte, error)
	Write(filename string, data []byte) error
}

// RemoteStore is the slice of the cloud store the engine needs.
type RemoteStore interface {
	Exists(ctx context.Context, filename string) (bool, error)
	Upload(ctx context.Context, filename string, data []byte) error
}

// Engine runs the sync pipeline. Variants are processed strictly in order,
// one candidate at a time; there is no concurrency here on purpose.
type Engine struct {
	Fetcher Fetcher
	Local   LocalStore

	// Remote establishes the cloud session after the fetch phase. Nil
	// disables uploads entirely. An error here aborts the store phase but
	// leaves fetch results in the report.
	Remote func(ctx context.Context) (RemoteStore, error)
}

// fetched pairs a variant result with its payload between phases.
type fetched struct {
	res       *VariantResult
	data      []byte
	duplicate bool // valid local copy found before any network attempt
}

// Run executes the pipeline for the requested variants against the target
// date and returns the per-variant report. One variant failing never aborts
// the others; partial success is the normal case.
func (e *Engine) Run(ctx context.Context, variants []catalog.Variant, target time.Time) *Report {
	rep := &Report{RunID: uuid.New(), TargetDate: target}
	slog.Info("sync run started", "run_id", rep.RunID, "target", target.Format("2006-01-02"), "variants", len(variants))

	rep.Results = make([]VariantResult, len(variants))
	var done []fetched
	for i, v := range variants {
		rep.Results[i] = VariantResult{Variant: v}
		res := &rep.Results[i]
		f := e.fetchVariant(ctx, res, target)
		if res.Outcome == "" {
			done = append(done, fetched{res: res, data: f.data, duplicate: f.duplicate})
		}
	}

	var remote RemoteStore
	if e.Remote != nil {
		r, err := e.Remote(ctx)
		if err != nil {
			rep.AuthErr = err
			return rep
		}
		remote = r
	}

	for _, f := range done {
		e.storeVariant(ctx, f, remote)
	}
	return rep
}

// fetchVariant walks the candidate list for one variant. It leaves
// res.Outcome empty on success so the store phase knows to pick it up.
func (e *Engine) fetchVariant(ctx context.Context, res *VariantResult, target time.Time) fetched {
	cands := catalog.Resolve(res.Variant, target)
	if len(cands) == 0 {
		res.Outcome = OutcomeError
		res.Err = fmt.Errorf("variant %s has no publication days", res.Variant)
		return fetched{}
	}

	for _, cand := range cands {
		name := catalog.Filename(cand.Variant, cand.Date)

		// A valid local copy short-circuits the network entirely.
		if ok, err := e.Local.Exists(ctx, name); err == nil && ok {
			if data, err := e.Local.Read(name); err == nil && pdf.Valid(data) {
				res.Date, res.Filename = cand.Date, name
				slog.Debug("local copy found, skipping download", "file", name)
				return fetched{res: res, data: data, duplicate: true}
			}
		}

		data, err := e.Fetcher.Fetch(ctx, cand)
		if err != nil {
			reason := ReasonTransient
			if errors.Is(err, fetcher.ErrNotFound) {
				reason = ReasonNotFound
			}
			res.Attempts = append(res.Attempts, Attempt{Candidate: cand, Reason: reason})
			slog.Debug("candidate failed", "variant", cand.Variant, "date", cand.Date.Format("2006-01-02"), "reason", reason)
			continue
		}
		if !pdf.Valid(data) {
			res.Attempts = append(res.Attempts, Attempt{Candidate: cand, Reason: ReasonInvalid})
			slog.Debug("candidate failed", "variant", cand.Variant, "date", cand.Date.Format("2006-01-02"), "reason", ReasonInvalid)
			continue
		}

		res.Date, res.Filename = cand.Date, name
		return fetched{res: res, data: data}
	}

	res.Outcome = OutcomeExhausted
	return fetched{}
}

// storeVariant writes one fetched puzzle locally and uploads it when the
// cloud does not already have it.
func (e *Engine) storeVariant(ctx context.Context, f fetched, remote RemoteStore) {
	res := f.res

	if !f.duplicate {
		if err := e.Local.Write(res.Filename, f.data); err != nil {
			res.Outcome = OutcomeError
			res.Err = err
			return
		}
		res.LocalWritten = true
	}

	if remote == nil {
		if res.LocalWritten {
			res.Outcome = OutcomeDownloaded
		} else {
			res.Outcome = OutcomeDuplicate
		}
		return
	}

	exists, err := remote.Exists(ctx, res.Filename)
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = err
		return
	}
	if exists {
		if res.LocalWritten {
			res.Outcome = OutcomeDownloaded
		} else {
			res.Outcome = OutcomeDuplicate
		}
		return
	}

	if err := remote.Upload(ctx, res.Filename, f.data); err != nil {
		res.Outcome = OutcomeError
		res.Err = err
		return
	}
	res.Uploaded = true
	if f.duplicate {
		res.Outcome = OutcomeUploadedLocal
	} else {
		res.Outcome = OutcomeUploaded
	}
}
