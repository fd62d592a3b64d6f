package selfcheck

import (
	"context"
	"errors"

	v1 "github.com/f9-o/nexusflow/api/v1"
	"github.com/f9-o/nexusflow/pkg/errs"
	"github.com/f9-o/nexusflow/pkg/nexusflow"
)

// Case is a single, independent check. Fn must build whatever it needs
// itself; cases never share instances.
type Case struct {
	Name string
	Kind v1.FailureKind
	Fn   func(ctx context.Context) error
}

// DefaultCases returns the construction and invocation checks for NexusFlow.
// opts are applied to every instance the cases construct.
func DefaultCases(opts ...nexusflow.Option) []Case {
	return []Case{
		{
			Name: "construction",
			Kind: v1.FailureConstruction,
			Fn: func(ctx context.Context) error {
				var instance any = nexusflow.New(opts...)
				n, ok := instance.(*nexusflow.NexusFlow)
				if !ok || n == nil {
					return errs.Newf(errs.ErrConstruction, "check.construction",
						"got %T, want *nexusflow.NexusFlow", instance)
				}
				return nil
			},
		},
		{
			Name: "invocation",
			Kind: v1.FailureAssertion,
			Fn: func(ctx context.Context) error {
				if !nexusflow.New(opts...).Run() {
					return errs.New(errs.ErrAssertion, "check.invocation", errors.New("Run() returned false")).
						WithAdvice("Run must report success on a freshly constructed instance")
				}
				return nil
			},
		},
	}
}
