// Package config loads and merges devflow configuration. Defaults are
// constructed in code; a user YAML file overrides individual fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OrgType categorizes an organization for classification override
// rules.
type OrgType string

const (
	OrgBusiness       OrgType = "business"
	OrgAcademic       OrgType = "academic"
	OrgInfrastructure OrgType = "infrastructure"
	OrgGeneral        OrgType = "general"
)

// Organization holds the per-organization settings consulted by the
// core. Read-only at runtime.
type Organization struct {
	ID            string  `yaml:"id"`
	Type          OrgType `yaml:"type"`
	TemplateID    string  `yaml:"template_id"`
	SecurityLevel string  `yaml:"security_level"`
	AutoProjects  bool    `yaml:"auto_projects"`
	AutoBranches  bool    `yaml:"auto_branches"`
	AutoPRs       bool    `yaml:"auto_prs"`
}

// RetryPolicy controls backoff for transient platform errors.
type RetryPolicy struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
}

// MilestoneSettings controls the completion tracker.
type MilestoneSettings struct {
	AutoClose     bool `yaml:"auto_close"`
	RetentionDays int  `yaml:"retention_days"`
}

// ProjectSettings controls project automation pacing.
type ProjectSettings struct {
	// CreationsPerMinute bounds bulk project creation to respect
	// platform rate limits.
	CreationsPerMinute int  `yaml:"creations_per_minute"`
	LinkRepository     bool `yaml:"link_repository"`
}

// ClassifierOverrides allows tuning classifier thresholds without
// rebuilding. Nil fields keep the defaults.
type ClassifierOverrides struct {
	ComplexBodyChars  *int     `yaml:"complex_body_chars,omitempty"`
	SimpleBodyChars   *int     `yaml:"simple_body_chars,omitempty"`
	SimpleBaseHours   *float64 `yaml:"simple_base_hours,omitempty"`
	ModerateBaseHours *float64 `yaml:"moderate_base_hours,omitempty"`
	ComplexBaseHours  *float64 `yaml:"complex_base_hours,omitempty"`
}

// ClassifierSettings is the resolved classifier tuning.
type ClassifierSettings struct {
	ComplexBodyChars  int
	SimpleBodyChars   int
	SimpleBaseHours   float64
	ModerateBaseHours float64
	ComplexBaseHours  float64
}

// WorkflowSettings controls branch and PR automation.
type WorkflowSettings struct {
	// IssuePrefix is embedded in generated branch names:
	// <type-prefix><IssuePrefix>-<number>-<slug>.
	IssuePrefix string `yaml:"issue_prefix"`
	// SlugMaxLen caps the title slug in branch names.
	SlugMaxLen int `yaml:"slug_max_len"`
	// HighChurnLines is the changed-line threshold above which a file
	// counts as high-churn in conflict detection.
	HighChurnLines int `yaml:"high_churn_lines"`
}

// Config represents the application configuration.
type Config struct {
	Organizations []Organization       `yaml:"organizations,omitempty"`
	Retry         *RetryPolicy         `yaml:"retry,omitempty"`
	Milestones    *MilestoneSettings   `yaml:"milestones,omitempty"`
	Projects      *ProjectSettings     `yaml:"projects,omitempty"`
	Classifier    *ClassifierOverrides `yaml:"classifier,omitempty"`
	Workflow      *WorkflowSettings    `yaml:"workflow,omitempty"`
}

// DefaultRetryPolicy returns the conservative backoff defaults: three
// attempts with a 500ms base and full jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
	}
}

// DefaultMilestoneSettings returns the tracker defaults.
func DefaultMilestoneSettings() MilestoneSettings {
	return MilestoneSettings{
		AutoClose:     true,
		RetentionDays: 90,
	}
}

// DefaultProjectSettings returns the project automation defaults.
func DefaultProjectSettings() ProjectSettings {
	return ProjectSettings{
		CreationsPerMinute: 20,
		LinkRepository:     true,
	}
}

// DefaultClassifierSettings returns the classifier threshold defaults.
func DefaultClassifierSettings() ClassifierSettings {
	return ClassifierSettings{
		ComplexBodyChars:  1000,
		SimpleBodyChars:   200,
		SimpleBaseHours:   2,
		ModerateBaseHours: 8,
		ComplexBaseHours:  24,
	}
}

// DefaultWorkflowSettings returns the workflow defaults.
func DefaultWorkflowSettings() WorkflowSettings {
	return WorkflowSettings{
		IssuePrefix:    "DEVFLOW",
		SlugMaxLen:     50,
		HighChurnLines: 50,
	}
}

// DefaultOrganizations returns the built-in organization registry.
func DefaultOrganizations() []Organization {
	return []Organization{
		{ID: "DevBusinessHub", Type: OrgBusiness, TemplateID: "team-board", SecurityLevel: "standard", AutoProjects: true, AutoBranches: true, AutoPRs: true},
		{ID: "DevAcademyHub", Type: OrgAcademic, TemplateID: "learning-board", SecurityLevel: "relaxed", AutoProjects: true, AutoBranches: true, AutoPRs: false},
		{ID: "DevInfraHub", Type: OrgInfrastructure, TemplateID: "ops-board", SecurityLevel: "strict", AutoProjects: true, AutoBranches: true, AutoPRs: true},
	}
}

// GetRetryPolicy returns the retry policy with user overrides applied.
func (c *Config) GetRetryPolicy() RetryPolicy {
	policy := DefaultRetryPolicy()
	if c.Retry != nil {
		if c.Retry.MaxAttempts > 0 {
			policy.MaxAttempts = c.Retry.MaxAttempts
		}
		if c.Retry.BaseDelay > 0 {
			policy.BaseDelay = c.Retry.BaseDelay
		}
	}
	return policy
}

// GetMilestoneSettings returns tracker settings with overrides applied.
func (c *Config) GetMilestoneSettings() MilestoneSettings {
	settings := DefaultMilestoneSettings()
	if c.Milestones != nil {
		settings.AutoClose = c.Milestones.AutoClose
		if c.Milestones.RetentionDays > 0 {
			settings.RetentionDays = c.Milestones.RetentionDays
		}
	}
	return settings
}

// GetProjectSettings returns project settings with overrides applied.
func (c *Config) GetProjectSettings() ProjectSettings {
	settings := DefaultProjectSettings()
	if c.Projects != nil {
		if c.Projects.CreationsPerMinute > 0 {
			settings.CreationsPerMinute = c.Projects.CreationsPerMinute
		}
		settings.LinkRepository = c.Projects.LinkRepository
	}
	return settings
}

// GetClassifierSettings returns classifier thresholds with user
// overrides merged into the defaults.
func (c *Config) GetClassifierSettings() ClassifierSettings {
	settings := DefaultClassifierSettings()
	if c.Classifier == nil {
		return settings
	}
	o := c.Classifier
	if o.ComplexBodyChars != nil {
		settings.ComplexBodyChars = *o.ComplexBodyChars
	}
	if o.SimpleBodyChars != nil {
		settings.SimpleBodyChars = *o.SimpleBodyChars
	}
	if o.SimpleBaseHours != nil {
		settings.SimpleBaseHours = *o.SimpleBaseHours
	}
	if o.ModerateBaseHours != nil {
		settings.ModerateBaseHours = *o.ModerateBaseHours
	}
	if o.ComplexBaseHours != nil {
		settings.ComplexBaseHours = *o.ComplexBaseHours
	}
	return settings
}

// GetWorkflowSettings returns workflow settings with overrides applied.
func (c *Config) GetWorkflowSettings() WorkflowSettings {
	settings := DefaultWorkflowSettings()
	if c.Workflow != nil {
		if c.Workflow.IssuePrefix != "" {
			settings.IssuePrefix = c.Workflow.IssuePrefix
		}
		if c.Workflow.SlugMaxLen > 0 {
			settings.SlugMaxLen = c.Workflow.SlugMaxLen
		}
		if c.Workflow.HighChurnLines > 0 {
			settings.HighChurnLines = c.Workflow.HighChurnLines
		}
	}
	return settings
}

// Organization resolves an organization by id. Unregistered
// organizations get a general-purpose config with the type inferred
// from the name, so classification still works for unknown owners.
func (c *Config) Organization(id string) Organization {
	orgs := c.Organizations
	if len(orgs) == 0 {
		orgs = DefaultOrganizations()
	}
	for _, org := range orgs {
		if strings.EqualFold(org.ID, id) {
			return org
		}
	}
	return Organization{
		ID:            id,
		Type:          inferOrgType(id),
		TemplateID:    "team-board",
		SecurityLevel: "standard",
		AutoProjects:  true,
		AutoBranches:  true,
	}
}

// inferOrgType guesses an organization type from its name.
func inferOrgType(id string) OrgType {
	name := strings.ToLower(id)
	switch {
	case strings.Contains(name, "business"), strings.Contains(name, "corp"):
		return OrgBusiness
	case strings.Contains(name, "academy"), strings.Contains(name, "academic"), strings.Contains(name, "edu"):
		return OrgAcademic
	case strings.Contains(name, "infra"), strings.Contains(name, "ops"):
		return OrgInfrastructure
	}
	return OrgGeneral
}

// DefaultConfigDir returns the directory holding the config file.
func DefaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "devflow")
	}
	return ".devflow"
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads the config file, returning an empty config (all defaults)
// if the file does not exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	configDir := DefaultConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN
// environment variable. Tokens are only ever read from the
// environment, never from the config file.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}
