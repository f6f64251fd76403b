// Package config holds the TDP engine's configuration record: every
// tunable named in the spec, loaded from YAML the way the teacher's
// framework config loads, with environment-variable expansion and
// explicit defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the engine's full configuration record. No tunable lives in a
// package-level variable; every collaborator takes one of these sections
// at construction.
type Config struct {
	Diagnosis DiagnosisConfig `yaml:"diagnosis"`
	Filter    FilterConfig    `yaml:"filter"`
	Planner   PlannerConfig   `yaml:"planner"`
	Loop      LoopConfig      `yaml:"loop"`
	Executor  ExecutorConfig  `yaml:"executor"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Reporting ReportingConfig `yaml:"reporting"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DiagnosisConfig configures the enumerator (C5) and assigner (C6).
type DiagnosisConfig struct {
	Formula      string  `yaml:"formula"`       // Ochiai, Tarantula, Barinel
	MaxSetSize   int     `yaml:"max_set_size"`  // S_max
	MaxDiagnoses int     `yaml:"max_diagnoses"` // N
	SizePenalty  float64 `yaml:"size_penalty"`  // alpha
}

// FilterConfig configures the component-relevance filter (§4.3).
type FilterConfig struct {
	CoverageThreshold  float64  `yaml:"coverage_threshold"`
	ConstructorSigils  []string `yaml:"constructor_sigils"`
	FrameworkBlocklist []string `yaml:"framework_blocklist"`
	FallbackTopK       int      `yaml:"fallback_top_k"`
}

// PlannerConfig configures the entropy planner (C7).
type PlannerConfig struct {
	MinWeight float64 `yaml:"min_weight"` // epsilon, Bayesian prune threshold
}

// LoopConfig configures the TDP controller (C8).
type LoopConfig struct {
	MaxIterations     int     `yaml:"max_iterations"`
	SolvedProbability float64 `yaml:"solved_probability"`
	CandidateSource   string  `yaml:"candidate_source"` // static, synthetic
}

// ExecutorConfig selects and configures the TestExecutor adapter.
type ExecutorConfig struct {
	Kind       string        `yaml:"kind"` // process, docker, manual
	Timeout    time.Duration `yaml:"timeout"`
	DockerImage string       `yaml:"docker_image"`
}

// MetricsConfig configures the Prometheus instrumentation surface.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the HTTP server
}

// ReportingConfig configures where and how loop reports are written.
type ReportingConfig struct {
	OutputDir string   `yaml:"output_dir"`
	KeepLastN int      `yaml:"keep_last_n"`
	Formats   []string `yaml:"formats"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Diagnosis: DiagnosisConfig{
			Formula:      "barinel",
			MaxSetSize:   3,
			MaxDiagnoses: 20,
			SizePenalty:  0.5,
		},
		Filter: FilterConfig{
			CoverageThreshold:  0.8,
			ConstructorSigils:  []string{"#<init>", "#<clinit>"},
			FrameworkBlocklist: nil,
			FallbackTopK:       5,
		},
		Planner: PlannerConfig{
			MinWeight: 1e-3,
		},
		Loop: LoopConfig{
			MaxIterations:     10,
			SolvedProbability: 0.9,
			CandidateSource:   "static",
		},
		Executor: ExecutorConfig{
			Kind:    "manual",
			Timeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":9109",
		},
		Reporting: ReportingConfig{
			OutputDir: "./reports",
			KeepLastN: 50,
			Formats:   []string{"json", "text"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file, expanding environment
// variables in its content, and layers it over DefaultConfig. A missing
// file is not an error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "tdp.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the rest of the engine cannot act on.
func (c *Config) Validate() error {
	if c.Diagnosis.MaxSetSize < 1 {
		return fmt.Errorf("diagnosis.max_set_size must be at least 1")
	}
	if c.Diagnosis.MaxDiagnoses < 1 {
		return fmt.Errorf("diagnosis.max_diagnoses must be at least 1")
	}
	if c.Diagnosis.SizePenalty <= 0 {
		return fmt.Errorf("diagnosis.size_penalty must be positive")
	}
	if c.Filter.FallbackTopK < 1 {
		return fmt.Errorf("filter.fallback_top_k must be at least 1")
	}
	if c.Loop.MaxIterations < 1 {
		return fmt.Errorf("loop.max_iterations must be at least 1")
	}
	switch c.Executor.Kind {
	case "process", "docker", "manual":
	default:
		return fmt.Errorf("executor.kind must be one of process, docker, manual, got %q", c.Executor.Kind)
	}
	switch c.Loop.CandidateSource {
	case "static", "synthetic":
	default:
		return fmt.Errorf("loop.candidate_source must be one of static, synthetic, got %q", c.Loop.CandidateSource)
	}
	return nil
}
