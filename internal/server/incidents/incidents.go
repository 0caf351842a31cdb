// Package incidents records operations that may have been applied only in
// part, so that an operator can reconcile them.
package incidents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/google/uuid"
)

// Incident describes one partially applied operation.
type Incident struct {
	ID     string    `json:"id"`
	Op     string    `json:"op"`
	UserID string    `json:"userId"`
	Email  string    `json:"email,omitempty"`
	Error  string    `json:"error"`
	At     time.Time `json:"at"`
}

// New fills in the id and timestamp of an incident.
func New(op, userID, email string, err error) Incident {
	return Incident{
		ID:     uuid.NewString(),
		Op:     op,
		UserID: userID,
		Email:  email,
		Error:  err.Error(),
		At:     time.Now().UTC(),
	}
}

// Reporter persists incidents for later reconciliation.
type Reporter interface {
	Report(ctx context.Context, inc Incident) error
}

// LogReporter writes incidents to the error log.
type LogReporter struct {
	logger logging.Logger
}

func NewLogReporter(logger logging.Logger) *LogReporter {
	return &LogReporter{logger: logger.With("module", "incidents")}
}

func (r *LogReporter) Report(ctx context.Context, inc Incident) error {
	r.logger.Error(ctx, "incident requires reconciliation",
		"id", inc.ID, "op", inc.Op, "user_id", inc.UserID, "error", inc.Error)
	return nil
}
