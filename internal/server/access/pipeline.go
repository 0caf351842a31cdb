// Package access implements the access-control pipeline run in front of every
// protected operation: a fixed sequence of named stages threading a typed
// request value, each either continuing or terminating with an error.
package access

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

// Credentials are the raw token strings found on the transport. Cookie is the
// canonical carrier; Header is the fallback for non-browser clients.
type Credentials struct {
	Cookie string
	Header string
}

// Request is the request-scoped value passed from stage to stage.
type Request struct {
	Credentials Credentials
	Claims      *auth.Claims
	User        *models.User
}

// Stage is one step of the pipeline. A nil error continues with the returned
// request; a non-nil error is the terminal outcome.
type Stage interface {
	Name() string
	Apply(ctx context.Context, req Request) (Request, error)
}

// Pipeline is an immutable ordered list of stages.
type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages ...Stage) Pipeline {
	return Pipeline{stages: append([]Stage(nil), stages...)}
}

// Then returns a new pipeline with stage appended. The receiver is unchanged.
func (p Pipeline) Then(stage Stage) Pipeline {
	stages := make([]Stage, 0, len(p.stages)+1)
	stages = append(stages, p.stages...)
	stages = append(stages, stage)
	return Pipeline{stages: stages}
}

// Names lists stage names in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes the stages in order and stops at the first error.
func (p Pipeline) Run(ctx context.Context, req Request) (Request, error) {
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return req, err
		}
		next, err := s.Apply(ctx, req)
		if err != nil {
			return req, fmt.Errorf("%s: %w", s.Name(), err)
		}
		req = next
	}
	return req, nil
}
