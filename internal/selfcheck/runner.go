// Package selfcheck runs the NexusFlow contract checks and reports
// per-case pass/fail results.
package selfcheck

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	v1 "github.com/f9-o/nexusflow/api/v1"
	"github.com/f9-o/nexusflow/pkg/errs"
)

// Options controls how a Runner schedules cases.
type Options struct {
	Parallel bool
	Repeat   int   // every case runs Repeat times; values < 1 mean 1
	Shuffle  bool  // randomise execution order
	Seed     int64 // shuffle seed; 0 picks one from the clock
}

// CaseResult is the outcome of one execution of a case.
type CaseResult struct {
	Name      string
	Kind      v1.FailureKind
	Iteration int
	Err       error
	Duration  time.Duration
}

// Passed reports whether the execution succeeded.
func (r CaseResult) Passed() bool { return r.Err == nil }

// Report collects every CaseResult of a run, in scheduling order.
type Report struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Options   Options
	Results   []CaseResult
}

// Failed returns the number of failed executions.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Passed reports whether every execution succeeded.
func (r *Report) Passed() bool { return r.Failed() == 0 }

// ExitCode is 0 when every case passed and 1 otherwise.
func (r *Report) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// Record converts the report into its persisted form.
func (r *Report) Record() v1.CheckRecord {
	rec := v1.CheckRecord{
		ID:        r.ID,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		Parallel:  r.Options.Parallel,
		Shuffle:   r.Options.Shuffle,
		Seed:      r.Options.Seed,
		Repeat:    r.Options.Repeat,
	}
	for _, res := range r.Results {
		cr := v1.CaseRecord{
			Name:      res.Name,
			Iteration: res.Iteration,
			Status:    v1.CasePassed,
			Duration:  res.Duration,
		}
		if res.Err != nil {
			cr.Status = v1.CaseFailed
			cr.Kind = res.Kind
			cr.Code = string(errs.CodeOf(res.Err))
			cr.Message = res.Err.Error()
			rec.Failed++
		} else {
			rec.Passed++
		}
		rec.Cases = append(rec.Cases, cr)
	}
	return rec
}

// Runner executes a fixed set of cases.
type Runner struct {
	cases []Case
	opts  Options
	log   *slog.Logger
}

// NewRunner creates a Runner. A nil logger falls back to slog.Default().
func NewRunner(cases []Case, opts Options, log *slog.Logger) *Runner {
	if opts.Repeat < 1 {
		opts.Repeat = 1
	}
	if opts.Shuffle && opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cases: cases, opts: opts, log: log}
}

type job struct {
	c    Case
	iter int
}

// Run executes every scheduled case and returns the report. A failing case
// never stops the others.
func (r *Runner) Run(ctx context.Context) *Report {
	rep := &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Options:   r.opts,
	}

	jobs := r.schedule()
	rep.Results = make([]CaseResult, len(jobs))

	r.log.Debug("selfcheck start",
		"run", rep.ID, "cases", len(r.cases), "executions", len(jobs),
		"parallel", r.opts.Parallel, "shuffle", r.opts.Shuffle, "seed", r.opts.Seed)

	if r.opts.Parallel {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, j := range jobs {
			i, j := i, j
			g.Go(func() error {
				rep.Results[i] = r.exec(ctx, j)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, j := range jobs {
			rep.Results[i] = r.exec(ctx, j)
		}
	}

	rep.Duration = time.Since(rep.StartedAt)
	r.log.Info("selfcheck done",
		"run", rep.ID, "failed", rep.Failed(), "total", len(rep.Results), "duration", rep.Duration)
	return rep
}

func (r *Runner) schedule() []job {
	jobs := make([]job, 0, len(r.cases)*r.opts.Repeat)
	for iter := 1; iter <= r.opts.Repeat; iter++ {
		for _, c := range r.cases {
			jobs = append(jobs, job{c: c, iter: iter})
		}
	}
	if r.opts.Shuffle {
		rng := rand.New(rand.NewSource(r.opts.Seed))
		rng.Shuffle(len(jobs), func(a, b int) { jobs[a], jobs[b] = jobs[b], jobs[a] })
	}
	return jobs
}

func (r *Runner) exec(ctx context.Context, j job) CaseResult {
	res := CaseResult{Name: j.c.Name, Kind: j.c.Kind, Iteration: j.iter}
	if err := ctx.Err(); err != nil {
		res.Err = errs.New(errs.ErrCancelled, "check."+j.c.Name, err).WithResource(j.c.Name)
		return res
	}

	start := time.Now()
	res.Err = invoke(ctx, j.c)
	res.Duration = time.Since(start)

	if res.Err != nil {
		r.log.Warn("case failed", "case", j.c.Name, "iteration", j.iter, "err", res.Err)
	} else {
		r.log.Debug("case passed", "case", j.c.Name, "iteration", j.iter, "duration", res.Duration)
	}
	return res
}

// invoke runs c.Fn, converting panics and untyped errors into a FlowError
// carrying the case's failure code.
func invoke(ctx context.Context, c Case) (err error) {
	code := codeFor(c.Kind)
	defer func() {
		if p := recover(); p != nil {
			err = errs.Newf(code, "check."+c.Name, "panic: %v", p).WithResource(c.Name)
		}
	}()

	if err = c.Fn(ctx); err != nil && errs.AsFlow(err) == nil {
		err = errs.New(code, "check."+c.Name, err).WithResource(c.Name)
	}
	return err
}

func codeFor(kind v1.FailureKind) errs.ErrorCode {
	switch kind {
	case v1.FailureConstruction:
		return errs.ErrConstruction
	case v1.FailureAssertion:
		return errs.ErrAssertion
	default:
		return errs.ErrUnknown
	}
}

// String renders a one-line summary, e.g. "2/2 passed".
func (r *Report) String() string {
	return fmt.Sprintf("%d/%d passed", len(r.Results)-r.Failed(), len(r.Results))
}
