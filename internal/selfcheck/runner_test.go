package selfcheck

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	v1 "github.com/f9-o/nexusflow/api/v1"
	"github.com/f9-o/nexusflow/pkg/errs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func names(rep *Report) []string {
	out := make([]string, 0, len(rep.Results))
	for _, r := range rep.Results {
		out = append(out, r.Name)
	}
	return out
}

func TestDefaultCases_Pass(t *testing.T) {
	for _, opts := range []Options{
		{},
		{Parallel: true},
		{Repeat: 5},
		{Shuffle: true, Seed: 42},
		{Parallel: true, Repeat: 10, Shuffle: true, Seed: 7},
	} {
		rep := NewRunner(DefaultCases(), opts, quiet).Run(context.Background())
		require.True(t, rep.Passed(), "opts %+v: %v", opts, rep.Results)
		assert.Equal(t, 0, rep.ExitCode())
		assert.NotEmpty(t, rep.ID)
	}
}

func TestRunner_RepeatCount(t *testing.T) {
	rep := NewRunner(DefaultCases(), Options{Repeat: 3}, quiet).Run(context.Background())
	require.Len(t, rep.Results, 6)
	assert.Equal(t, "6/6 passed", rep.String())
	assert.Equal(t, 3, rep.Results[5].Iteration)
}

func TestRunner_OrderInsensitive(t *testing.T) {
	forward := NewRunner(DefaultCases(), Options{}, quiet).Run(context.Background())

	cases := DefaultCases()
	cases[0], cases[1] = cases[1], cases[0]
	reversed := NewRunner(cases, Options{}, quiet).Run(context.Background())

	assert.Equal(t, []string{"construction", "invocation"}, names(forward))
	assert.Equal(t, []string{"invocation", "construction"}, names(reversed))
	assert.True(t, forward.Passed())
	assert.True(t, reversed.Passed())
}

func TestRunner_ShuffleDeterministicBySeed(t *testing.T) {
	a := NewRunner(DefaultCases(), Options{Repeat: 8, Shuffle: true, Seed: 99}, quiet).Run(context.Background())
	b := NewRunner(DefaultCases(), Options{Repeat: 8, Shuffle: true, Seed: 99}, quiet).Run(context.Background())
	assert.Equal(t, names(a), names(b))
}

func TestRunner_ShuffleRecordsSeed(t *testing.T) {
	r := NewRunner(DefaultCases(), Options{Shuffle: true}, quiet)
	assert.NotZero(t, r.opts.Seed)
}

func TestRunner_FailureIsolated(t *testing.T) {
	cases := []Case{
		{Name: "false-result", Kind: v1.FailureAssertion, Fn: func(context.Context) error { return errors.New("returned false") }},
		DefaultCases()[0],
		{Name: "panics", Kind: v1.FailureConstruction, Fn: func(context.Context) error { panic("no instance") }},
		DefaultCases()[1],
	}

	for _, parallel := range []bool{false, true} {
		rep := NewRunner(cases, Options{Parallel: parallel}, quiet).Run(context.Background())
		require.Len(t, rep.Results, 4)

		assert.False(t, rep.Passed())
		assert.Equal(t, 2, rep.Failed())
		assert.Equal(t, 1, rep.ExitCode())

		assert.True(t, errs.IsCode(rep.Results[0].Err, errs.ErrAssertion))
		assert.True(t, rep.Results[1].Passed())
		assert.True(t, errs.IsCode(rep.Results[2].Err, errs.ErrConstruction))
		assert.Contains(t, rep.Results[2].Err.Error(), "panic: no instance")
		assert.True(t, rep.Results[3].Passed())
	}
}

func TestRunner_FreshStatePerCase(t *testing.T) {
	var calls atomic.Int32
	c := Case{Name: "counter", Kind: v1.FailureAssertion, Fn: func(context.Context) error {
		calls.Add(1)
		return nil
	}}

	rep := NewRunner([]Case{c}, Options{Repeat: 4, Parallel: true}, quiet).Run(context.Background())
	assert.True(t, rep.Passed())
	assert.EqualValues(t, 4, calls.Load())
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := NewRunner(DefaultCases(), Options{}, quiet).Run(ctx)
	require.Len(t, rep.Results, 2)
	for _, r := range rep.Results {
		assert.True(t, errs.IsCode(r.Err, errs.ErrCancelled))
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestReport_Record(t *testing.T) {
	cases := []Case{
		DefaultCases()[1],
		{Name: "bad", Kind: v1.FailureAssertion, Fn: func(context.Context) error { return errors.New("nope") }},
	}
	rep := NewRunner(cases, Options{Repeat: 2}, quiet).Run(context.Background())
	rec := rep.Record()

	assert.Equal(t, rep.ID, rec.ID)
	assert.Equal(t, 2, rec.Repeat)
	assert.Equal(t, 2, rec.Passed)
	assert.Equal(t, 2, rec.Failed)
	assert.False(t, rec.OK())
	require.Len(t, rec.Cases, 4)
	assert.Equal(t, v1.CaseFailed, rec.Cases[1].Status)
	assert.Equal(t, v1.FailureAssertion, rec.Cases[1].Kind)
	assert.Equal(t, string(errs.ErrAssertion), rec.Cases[1].Code)
	assert.Equal(t, v1.CasePassed, rec.Cases[0].Status)
	assert.Empty(t, rec.Cases[0].Code)
}
