package worker

import "context"

// Job is a unit of work for the worker pool.
type Job interface {
	// Execute runs the job. The context carries the job timeout.
	Execute(ctx context.Context) error

	// UserID returns the user the job acts for, for logs and spans.
	UserID() string

	// Description returns a short human readable name of the job.
	Description() string
}
