package model

// IssueType categorizes the work an issue represents.
type IssueType string

const (
	TypeBug           IssueType = "bug"
	TypeFeature       IssueType = "feature"
	TypeDocumentation IssueType = "documentation"
	TypeSecurity      IssueType = "security"
	TypePerformance   IssueType = "performance"
	TypeRefactor      IssueType = "refactor"
	TypeTest          IssueType = "test"
	TypeDevOps        IssueType = "devops"
	TypeArchitecture  IssueType = "architecture"
	TypeIntegration   IssueType = "integration"
	TypeConfiguration IssueType = "configuration"
	TypeUI            IssueType = "ui"
)

// Priority is an ordered urgency level. Higher rank means more urgent.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// rank orders priorities so escalation rules can compare them.
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 0
	}
	return -1
}

// AtLeast reports whether p is at least as urgent as other.
func (p Priority) AtLeast(other Priority) bool {
	return p.rank() >= other.rank()
}

// Max returns the more urgent of p and other. Organization override
// rules use this so they can only ever raise a priority.
func (p Priority) Max(other Priority) Priority {
	if other.rank() > p.rank() {
		return other
	}
	return p
}

// Complexity buckets the expected implementation effort.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Dependency is a reference extracted from issue text that this issue
// waits on. Issue is 0 when the text declared a blocker without a
// numeric target ("blocked by the migration").
type Dependency struct {
	Issue    int  `json:"issue,omitempty"`
	Blocking bool `json:"blocking"`
}

// Classification is the structured verdict for a single issue. It is
// recomputed on demand and never persisted.
type Classification struct {
	Type           IssueType    `json:"type"`
	Priority       Priority     `json:"priority"`
	Complexity     Complexity   `json:"complexity"`
	EstimatedHours int          `json:"estimatedHours"`
	Dependencies   []Dependency `json:"dependencies,omitempty"`
	Labels         []string     `json:"labels"`
	Confidence     float64      `json:"confidence"`
}
