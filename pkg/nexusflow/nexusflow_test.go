package nexusflow

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReturnsNexusFlow(t *testing.T) {
	var instance any = New()
	_, ok := instance.(*NexusFlow)
	require.True(t, ok, "New() returned %T", instance)
}

func TestRun_ReturnsTrue(t *testing.T) {
	instance := New()
	assert.True(t, instance.Run())
}

func TestRun_ZeroValue(t *testing.T) {
	var n NexusFlow
	assert.True(t, n.Run())
}

func TestRun_Repeated(t *testing.T) {
	for i := 0; i < 100; i++ {
		require.True(t, New().Run(), "iteration %d", i)
	}
}

func TestRun_Concurrent(t *testing.T) {
	n := New()
	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = n.Run()
		}(i)
	}
	wg.Wait()
	for i, ok := range results {
		assert.True(t, ok, "goroutine %d", i)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	require.True(t, New(WithLogger(l)).Run())
	assert.Contains(t, buf.String(), "nexusflow run")
}

func TestWithLogger_NilIgnored(t *testing.T) {
	n := New(WithLogger(nil))
	assert.Nil(t, n.log)
	assert.True(t, n.Run())
}
