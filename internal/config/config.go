// Package config provides configuration file support for aro.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file, looked up at the
// project root.
const ConfigFileName = ".aro.yaml"

// SupportedEngines lists valid engine names for the engine key.
var SupportedEngines = []string{"codex", "claude"}

// Duration is a custom type that handles YAML duration parsing.
// Supports both Go duration format ("5m", "300s") and numeric seconds.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v) * time.Second)
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// Config represents the aro configuration file. All fields are
// pointers so that unset keys can be distinguished from zero values
// during resolution.
type Config struct {
	Engine           *string   `yaml:"engine"`
	AutoFix          *bool     `yaml:"auto_fix"`
	Timeout          *Duration `yaml:"timeout"`
	ResolverCommand  *string   `yaml:"resolver_command"`
	FixCommand       *string   `yaml:"fix_command"`
	PresenterCommand *string   `yaml:"presenter_command"`
	AdvisorDir       *string   `yaml:"advisor_dir"`
	CriteriaPath     *string   `yaml:"criteria_path"`
	TempDir          *string   `yaml:"temp_dir"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadWithWarnings reads .aro.yaml from the project root and returns
// warnings. Returns an empty config (not error) if the file doesn't
// exist.
func LoadWithWarnings() (*LoadResult, error) {
	root, err := FindProjectRoot()
	if err != nil {
		// No identifiable project root; run with defaults.
		return &LoadResult{Config: &Config{}}, nil
	}
	return LoadFromPathWithWarnings(filepath.Join(root, ConfigFileName))
}

// LoadFromDirWithWarnings reads .aro.yaml from the specified directory.
func LoadFromDirWithWarnings(dir string) (*LoadResult, error) {
	return LoadFromPathWithWarnings(filepath.Join(dir, ConfigFileName))
}

// LoadFromPathWithWarnings reads a config file and returns warnings
// for unknown keys. Returns an empty config (not error) if the file
// doesn't exist.
func LoadFromPathWithWarnings(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if c.Engine != nil && !slices.Contains(SupportedEngines, *c.Engine) {
		return fmt.Errorf("engine must be one of %v, got %q", SupportedEngines, *c.Engine)
	}
	if c.Timeout != nil && *c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", time.Duration(*c.Timeout))
	}
	return nil
}

// FindProjectRoot walks upward from the working directory looking for
// a .git or .claude marker. Falls back to the working directory itself
// when no marker is found within a bounded number of parents.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	current := cwd
	for range 10 {
		for _, marker := range []string{".git", ".claude"} {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current, nil
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return cwd, nil
}

// knownKeys are the valid top-level keys in the config file.
var knownKeys = []string{
	"engine", "auto_fix", "timeout", "resolver_command", "fix_command",
	"presenter_command", "advisor_dir", "criteria_path", "temp_dir",
}

// checkUnknownKeys checks for unknown keys in the YAML data and
// returns warnings.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// If we can't parse, let the main parser handle the error
		return nil
	}

	for key := range raw {
		if !slices.Contains(knownKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}

	return warnings
}

// findSimilar finds the most similar string from candidates using
// Levenshtein distance. Returns empty string if no candidate is within
// 3 edits.
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// Defaults holds the built-in default values.
var Defaults = ResolvedConfig{
	Engine:       "codex",
	AutoFix:      false,
	Timeout:      10 * time.Minute,
	AdvisorDir:   filepath.Join(".claude", "doc-advisor"),
	CriteriaPath: filepath.Join(".claude", "review", "criteria.md"),
	TempDir:      "", // empty means os.TempDir()
}

// ResolvedConfig holds the final resolved configuration values.
type ResolvedConfig struct {
	Engine           string
	AutoFix          bool
	Timeout          time.Duration
	ResolverCommand  string
	FixCommand       string
	PresenterCommand string
	AdvisorDir       string
	CriteriaPath     string
	TempDir          string
}

// FlagState tracks whether a flag was explicitly set.
type FlagState struct {
	EngineSet  bool
	AutoFixSet bool
	TimeoutSet bool
	TempDirSet bool
}

// EnvState captures env var values and whether they were set.
type EnvState struct {
	Engine     string
	EngineSet  bool
	AutoFix    bool
	AutoFixSet bool
	Timeout    time.Duration
	TimeoutSet bool
	TempDir    string
	TempDirSet bool
}

// LoadEnvState reads environment variables and returns their state.
func LoadEnvState() EnvState {
	var state EnvState

	if v := os.Getenv("ARO_ENGINE"); v != "" {
		state.Engine = v
		state.EngineSet = true
	}
	if v := os.Getenv("ARO_AUTO_FIX"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			state.AutoFix = b
			state.AutoFixSet = true
		}
	}
	if v := os.Getenv("ARO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			state.Timeout = d
			state.TimeoutSet = true
		} else if secs, err := strconv.Atoi(v); err == nil {
			state.Timeout = time.Duration(secs) * time.Second
			state.TimeoutSet = true
		}
	}
	if v := os.Getenv("ARO_TEMP_DIR"); v != "" {
		state.TempDir = v
		state.TempDirSet = true
	}

	return state
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults.
func Resolve(cfg *Config, envState EnvState, flagState FlagState, flagValues ResolvedConfig) ResolvedConfig {
	result := Defaults

	if cfg != nil {
		if cfg.Engine != nil {
			result.Engine = *cfg.Engine
		}
		if cfg.AutoFix != nil {
			result.AutoFix = *cfg.AutoFix
		}
		if cfg.Timeout != nil {
			result.Timeout = cfg.Timeout.AsDuration()
		}
		if cfg.ResolverCommand != nil {
			result.ResolverCommand = *cfg.ResolverCommand
		}
		if cfg.FixCommand != nil {
			result.FixCommand = *cfg.FixCommand
		}
		if cfg.PresenterCommand != nil {
			result.PresenterCommand = *cfg.PresenterCommand
		}
		if cfg.AdvisorDir != nil {
			result.AdvisorDir = *cfg.AdvisorDir
		}
		if cfg.CriteriaPath != nil {
			result.CriteriaPath = *cfg.CriteriaPath
		}
		if cfg.TempDir != nil {
			result.TempDir = *cfg.TempDir
		}
	}

	if envState.EngineSet {
		result.Engine = envState.Engine
	}
	if envState.AutoFixSet {
		result.AutoFix = envState.AutoFix
	}
	if envState.TimeoutSet {
		result.Timeout = envState.Timeout
	}
	if envState.TempDirSet {
		result.TempDir = envState.TempDir
	}

	if flagState.EngineSet {
		result.Engine = flagValues.Engine
	}
	if flagState.AutoFixSet {
		result.AutoFix = flagValues.AutoFix
	}
	if flagState.TimeoutSet {
		result.Timeout = flagValues.Timeout
	}
	if flagState.TempDirSet {
		result.TempDir = flagValues.TempDir
	}

	return result
}
