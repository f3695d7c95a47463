package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskGLIntegrity scans posted journals for debit/credit drift.
	TaskGLIntegrity = "gl:integrity"
)

// GLIntegrityPayload parameterises the integrity scan.
type GLIntegrityPayload struct {
	// Tolerance is the absolute base-currency drift allowed per journal.
	Tolerance float64 `json:"tolerance"`
}

// NewGLIntegrityTask constructs an Asynq task for the integrity scan.
func NewGLIntegrityTask(payload GLIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGLIntegrity, data), nil
}
