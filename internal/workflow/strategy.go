package workflow

import (
	"fmt"
	"strings"

	"github.com/devflowhq/devflow/internal/model"
)

// Strategy is the static branching policy for one branch type.
type Strategy struct {
	Type            model.BranchType
	Prefix          string
	BaseRef         string
	ProtectionRules []string
	AutoMerge       bool
}

// DefaultStrategies returns the branch strategy table. Hotfixes branch
// off production with auto-merge; everything else branches off main.
func DefaultStrategies() map[model.BranchType]Strategy {
	return map[model.BranchType]Strategy{
		model.BranchFeature: {
			Type:            model.BranchFeature,
			Prefix:          "feature/",
			BaseRef:         "main",
			ProtectionRules: []string{"require-review"},
		},
		model.BranchBugfix: {
			Type:            model.BranchBugfix,
			Prefix:          "bugfix/",
			BaseRef:         "main",
			ProtectionRules: []string{"require-review", "require-ci"},
		},
		model.BranchHotfix: {
			Type:            model.BranchHotfix,
			Prefix:          "hotfix/",
			BaseRef:         "production",
			ProtectionRules: []string{"require-review", "require-ci", "restrict-push"},
			AutoMerge:       true,
		},
		model.BranchRelease: {
			Type:            model.BranchRelease,
			Prefix:          "release/",
			BaseRef:         "main",
			ProtectionRules: []string{"require-review", "require-ci", "restrict-push"},
		},
	}
}

// BranchTypeFor selects a branch type from issue labels. Hotfix
// conditions outrank the bug label so a critical bug still gets the
// hotfix treatment.
func BranchTypeFor(labels []string) model.BranchType {
	has := func(name string) bool {
		for _, l := range labels {
			if strings.EqualFold(l, name) {
				return true
			}
		}
		return false
	}

	switch {
	case has("hotfix"), has("critical"):
		return model.BranchHotfix
	case has("release"):
		return model.BranchRelease
	case has("bug"):
		return model.BranchBugfix
	}
	return model.BranchFeature
}

// Slug converts a title into a branch-name-safe slug capped at maxLen.
func Slug(title string, maxLen int) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxLen {
		slug = strings.TrimRight(slug[:maxLen], "-")
	}
	return slug
}

// BranchName builds the canonical branch name:
// <prefix><ISSUE-PREFIX>-<number>-<slug>. The issue number keeps the
// name unique per repository.
func BranchName(strategy Strategy, issuePrefix string, number int, title string, slugMaxLen int) string {
	return fmt.Sprintf("%s%s-%d-%s", strategy.Prefix, issuePrefix, number, Slug(title, slugMaxLen))
}
