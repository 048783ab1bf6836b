package domain

import "time"

// BuildInfo records the last successful compilation of a job.
type BuildInfo struct {
	JobName    string    `json:"job,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
