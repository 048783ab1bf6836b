package domain

// JobStatus is the lifecycle state of a job within a run.
type JobStatus string

const (
	// JobStatusPending indicates the job has not been started.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the compiler is running for the job.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompiled indicates the compiler exited successfully.
	JobStatusCompiled JobStatus = "compiled"
	// JobStatusFailed indicates the compiler failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusCached indicates the job was skipped because its inputs are unchanged.
	JobStatusCached JobStatus = "cached"
)

