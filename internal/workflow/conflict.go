package workflow

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/devflowhq/devflow/internal/model"
)

// DefaultCriticalFilePatterns lists path fragments whose modification
// raises conflict risk: package manifests, CI workflow definitions,
// config directories, env files, and migration directories.
func DefaultCriticalFilePatterns() []string {
	return []string{
		"package.json",
		"package-lock.json",
		"yarn.lock",
		"go.mod",
		"go.sum",
		"Cargo.toml",
		"requirements.txt",
		".github/workflows/",
		"config/",
		".env",
		"migrations/",
	}
}

// isCriticalPath reports whether a file path matches the critical
// pattern set.
func (o *Orchestrator) isCriticalPath(file string) bool {
	base := path.Base(file)
	for _, pattern := range o.critical {
		if strings.HasSuffix(pattern, "/") {
			if strings.Contains(file, pattern) || strings.HasPrefix(file, strings.TrimSuffix(pattern, "/")+"/") {
				return true
			}
			continue
		}
		if base == pattern || strings.HasPrefix(base, pattern+".") {
			return true
		}
	}
	return false
}

// riskFor grades a factor count into a risk level. The fourth factor
// was never implemented, so critical is effectively out of reach; the
// grading keeps the original thresholds.
func riskFor(factors int) model.RiskLevel {
	switch {
	case factors > 3:
		return model.RiskCritical
	case factors > 1:
		return model.RiskHigh
	}
	return model.RiskMedium
}

// DetectConflicts estimates merge-conflict risk between branch and
// target. For every file modified on both sides it counts three
// heuristic factors: modified-in-both, change volume above the
// high-churn threshold, and a critical-path match. Files with at
// least two factors are flagged. The report is advisory only; it
// never blocks a workflow.
func (o *Orchestrator) DetectConflicts(ctx context.Context, repo model.RepoRef, branch, target string) (model.ConflictReport, error) {
	// target...branch: what the branch changed
	branchSide, err := o.git.CompareRefs(ctx, repo, target, branch)
	if err != nil {
		return model.ConflictReport{}, fmt.Errorf("failed to compare %s with %s: %w", branch, target, err)
	}
	// branch...target: what the target changed since divergence
	targetSide, err := o.git.CompareRefs(ctx, repo, branch, target)
	if err != nil {
		return model.ConflictReport{}, fmt.Errorf("failed to compare %s with %s: %w", target, branch, err)
	}

	modifiedOnTarget := make(map[string]bool)
	for _, f := range targetSide.Files {
		if f.Status == "modified" {
			modifiedOnTarget[f.Name] = true
		}
	}

	report := model.ConflictReport{
		AheadBy:  branchSide.AheadBy,
		BehindBy: branchSide.BehindBy,
	}

	for _, f := range branchSide.Files {
		if f.Status != "modified" || !modifiedOnTarget[f.Name] {
			continue
		}

		factors := 1 // modified on both sides
		if f.Changes > o.settings.HighChurnLines {
			factors++
		}
		if o.isCriticalPath(f.Name) {
			factors++
		}

		if factors < 2 {
			continue
		}
		report.Conflicts = append(report.Conflicts, model.FileConflict{
			File:      f.Name,
			RiskLevel: riskFor(factors),
		})
	}

	report.HasConflicts = len(report.Conflicts) > 0
	return report, nil
}
