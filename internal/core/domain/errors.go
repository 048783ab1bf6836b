package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingCompilerPath is returned when no compiler executable was configured.
	ErrMissingCompilerPath = zerr.New("need a valid glslangValidator path to compile shaders")

	// ErrInvalidJob is returned when a job lacks a source or output file.
	ErrInvalidJob = zerr.New("invalid job")

	// ErrInvalidDefine is returned when a define cannot be passed as a single -D flag.
	ErrInvalidDefine = zerr.New("invalid define")

	// ErrDuplicateOutput is returned when two jobs write the same output file.
	ErrDuplicateOutput = zerr.New("duplicate output")

	// ErrEmptyManifest is returned when a manifest file declares no jobs.
	ErrEmptyManifest = zerr.New("manifest declares no jobs")

	// ErrUnsupportedManifestVersion is returned for manifest versions this build does not understand.
	ErrUnsupportedManifestVersion = zerr.New("unsupported manifest version")

	// ErrConfigReadFailed is returned when the manifest file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read manifest file")

	// ErrConfigParseFailed is returned when the manifest file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse manifest file")

	// ErrCompileFailed is returned when the compiler exits with a failure.
	ErrCompileFailed = zerr.New("shader compilation failed")

	// ErrCompilerStartFailed is returned when the compiler process cannot be started.
	ErrCompilerStartFailed = zerr.New("failed to start compiler")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrInputHashComputationFailed is returned when a job's input hash cannot be computed.
	ErrInputHashComputationFailed = zerr.New("failed to compute input hash")

	// ErrOutputHashComputationFailed is returned when a job's output hash cannot be computed.
	ErrOutputHashComputationFailed = zerr.New("failed to compute output hash")

	// ErrIncludeNotFound is returned when an #include directive names a missing file.
	ErrIncludeNotFound = zerr.New("included file not found")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")
)

// ErrInvalidLogFormat is returned for an unknown --log-format value.
var ErrInvalidLogFormat = zerr.New("invalid log format")
