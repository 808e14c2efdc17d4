package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// DataDir is the root of the knowledge store. Empty means the caller
	// should fall back to ~/.fern/inbox.
	DataDir string `json:"data_dir,omitempty"`

	// ConfidenceThreshold routes captures below it (strictly) to the
	// needs-review holding area.
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`

	// ClassifierCommand is the reasoning CLI executable invoked for
	// classification and narration.
	ClassifierCommand string `json:"classifier_command,omitempty"`

	// ClassifierModel is passed to the reasoning CLI via --model.
	ClassifierModel string `json:"classifier_model,omitempty"`

	// ClassifierTimeoutSecs bounds a single reasoning CLI call.
	ClassifierTimeoutSecs int `json:"classifier_timeout_secs,omitempty"`

	// DigestActionLimit caps the number of actions in the daily digest.
	DigestActionLimit int `json:"digest_action_limit,omitempty"`

	// TemplateDir overrides the digest template location. When empty,
	// <DataDir>/templates is tried before the built-in templates.
	TemplateDir string `json:"template_dir,omitempty"`

	// DailyDigestTime is the local time-of-day ("HH:MM") for the daily job.
	DailyDigestTime string `json:"daily_digest_time,omitempty"`

	// WeeklyReviewDay is the weekday name for the weekly job.
	WeeklyReviewDay string `json:"weekly_review_day,omitempty"`

	// WeeklyReviewTime is the local time-of-day ("HH:MM") for the weekly job.
	WeeklyReviewTime string `json:"weekly_review_time,omitempty"`

	// DisableDailyDigest turns the daily job off.
	DisableDailyDigest bool `json:"disable_daily_digest,omitempty"`

	// DisableWeeklyReview turns the weekly job off.
	DisableWeeklyReview bool `json:"disable_weekly_review,omitempty"`

	// NotifyTarget is the destination identifier handed to the notifier
	// when a scheduled digest is delivered.
	NotifyTarget string `json:"notify_target,omitempty"`

	// GitTracking stages and commits new captures when the data dir is a
	// git repository. Commit failures never fail a capture.
	GitTracking bool `json:"git_tracking,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ConfidenceThreshold:   0.6,
		ClassifierCommand:     "claude",
		ClassifierTimeoutSecs: 120,
		DigestActionLimit:     3,
		DailyDigestTime:       "08:00",
		WeeklyReviewDay:       "sunday",
		WeeklyReviewTime:      "17:00",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.fern.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both global (~/.fern) and repo (.fern)
// directories. Repo config is found by walking upward from startDir to find
// the nearest .fern/config.json. Repo config takes precedence for scalar
// values; arrays are merged (deduplicated). Either or both may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .fern/config.json. Returns the path if found, or empty string if not.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".fern", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and
// deduplicated; booleans are or-merged.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DataDir = overlayString(base.DataDir, overlay.DataDir)
	result.ClassifierCommand = overlayString(base.ClassifierCommand, overlay.ClassifierCommand)
	result.ClassifierModel = overlayString(base.ClassifierModel, overlay.ClassifierModel)
	result.TemplateDir = overlayString(base.TemplateDir, overlay.TemplateDir)
	result.DailyDigestTime = overlayString(base.DailyDigestTime, overlay.DailyDigestTime)
	result.WeeklyReviewDay = overlayString(base.WeeklyReviewDay, overlay.WeeklyReviewDay)
	result.WeeklyReviewTime = overlayString(base.WeeklyReviewTime, overlay.WeeklyReviewTime)
	result.NotifyTarget = overlayString(base.NotifyTarget, overlay.NotifyTarget)

	result.ConfidenceThreshold = overlay.ConfidenceThreshold
	if result.ConfidenceThreshold == 0 {
		result.ConfidenceThreshold = base.ConfidenceThreshold
	}

	result.ClassifierTimeoutSecs = overlay.ClassifierTimeoutSecs
	if result.ClassifierTimeoutSecs == 0 {
		result.ClassifierTimeoutSecs = base.ClassifierTimeoutSecs
	}

	result.DigestActionLimit = overlay.DigestActionLimit
	if result.DigestActionLimit == 0 {
		result.DigestActionLimit = base.DigestActionLimit
	}

	result.DisableDailyDigest = base.DisableDailyDigest || overlay.DisableDailyDigest
	result.DisableWeeklyReview = base.DisableWeeklyReview || overlay.DisableWeeklyReview
	result.GitTracking = base.GitTracking || overlay.GitTracking

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func overlayString(base, overlay string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
