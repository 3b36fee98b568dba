package model

// BranchType selects the branch strategy applied to an issue.
type BranchType string

const (
	BranchFeature BranchType = "feature"
	BranchBugfix  BranchType = "bugfix"
	BranchHotfix  BranchType = "hotfix"
	BranchRelease BranchType = "release"
)

// BranchPlan is the deterministic branching policy derived from an
// issue's labels via the strategy table.
type BranchPlan struct {
	Name            string     `json:"name"`
	Type            BranchType `json:"type"`
	BaseRef         string     `json:"baseRef"`
	ProtectionRules []string   `json:"protectionRules,omitempty"`
	AutoMerge       bool       `json:"autoMerge"`
}

// BranchResult reports the outcome of a branch creation. Exists is true
// when the ref already existed and the call was treated as a success.
type BranchResult struct {
	Plan   BranchPlan `json:"plan"`
	SHA    string     `json:"sha"`
	Exists bool       `json:"exists"`
}

// PullRequest is the core's view of a created pull request.
type PullRequest struct {
	Number      int    `json:"number"`
	URL         string `json:"url"`
	Branch      string `json:"branch"`
	LinkedIssue int    `json:"linkedIssue"`
	AutoMerge   bool   `json:"autoMerge"`
}

// RiskLevel grades a file's merge-conflict risk.
type RiskLevel string

const (
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// FileConflict is a single file flagged by conflict detection.
type FileConflict struct {
	File      string    `json:"file"`
	RiskLevel RiskLevel `json:"riskLevel"`
}

// ConflictReport is the advisory output of conflict detection for a
// (branch, target) pair. It never blocks a workflow on its own.
type ConflictReport struct {
	HasConflicts bool           `json:"hasConflicts"`
	Conflicts    []FileConflict `json:"conflicts,omitempty"`
	AheadBy      int            `json:"aheadBy"`
	BehindBy     int            `json:"behindBy"`
}
