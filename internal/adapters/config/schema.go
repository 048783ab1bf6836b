package config

// Manifestfile represents the structure of the spvbuild.yaml manifest.
type Manifestfile struct {
	Version string    `yaml:"version"`
	Jobs    []*JobDTO `yaml:"jobs"`
}

// JobDTO represents a job definition in the manifest.
type JobDTO struct {
	Root    string   `yaml:"root"`
	Source  string   `yaml:"source"`
	Output  string   `yaml:"output"`
	Defines []string `yaml:"defines"`
}
