// Package v1 defines the public data types shared across all NexusFlow layers.
package v1

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Status enumerations
// ─────────────────────────────────────────────────────────────────────────────

// CaseStatus is the outcome of a single self-check case.
type CaseStatus string

const (
	CasePassed CaseStatus = "passed"
	CaseFailed CaseStatus = "failed"
)

// FailureKind classifies why a case failed.
type FailureKind string

const (
	FailureConstruction FailureKind = "construction"
	FailureAssertion    FailureKind = "assertion"
)

// ─────────────────────────────────────────────────────────────────────────────
// Journal records
// ─────────────────────────────────────────────────────────────────────────────

// CaseRecord is the persisted outcome of one case execution.
type CaseRecord struct {
	Name      string        `json:"name"`
	Iteration int           `json:"iteration"`
	Status    CaseStatus    `json:"status"`
	Kind      FailureKind   `json:"kind,omitempty"`
	Code      string        `json:"code,omitempty"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// CheckRecord is the persisted summary of one `nexusflow check` invocation.
type CheckRecord struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Parallel  bool          `json:"parallel"`
	Shuffle   bool          `json:"shuffle"`
	Seed      int64         `json:"seed,omitempty"`
	Repeat    int           `json:"repeat"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Cases     []CaseRecord  `json:"cases"`
}

// OK reports whether every case in the run passed.
func (r CheckRecord) OK() bool {
	return r.Failed == 0
}
