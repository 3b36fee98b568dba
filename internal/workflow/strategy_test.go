package workflow

import (
	"testing"

	"github.com/devflowhq/devflow/internal/model"
)

func TestBranchTypeFor(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   model.BranchType
	}{
		{"no labels", nil, model.BranchFeature},
		{"bug label", []string{"bug"}, model.BranchBugfix},
		{"hotfix label", []string{"hotfix"}, model.BranchHotfix},
		{"critical bug is a hotfix", []string{"bug", "critical"}, model.BranchHotfix},
		{"release label", []string{"release"}, model.BranchRelease},
		{"case insensitive", []string{"Bug"}, model.BranchBugfix},
		{"unrelated labels", []string{"help wanted", "good first issue"}, model.BranchFeature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BranchTypeFor(tt.labels); got != tt.want {
				t.Errorf("BranchTypeFor(%v) = %s, want %s", tt.labels, got, tt.want)
			}
		})
	}
}

func TestDefaultStrategies(t *testing.T) {
	strategies := DefaultStrategies()

	hotfix := strategies[model.BranchHotfix]
	if hotfix.BaseRef != "production" {
		t.Errorf("hotfix base = %q, want production", hotfix.BaseRef)
	}
	if !hotfix.AutoMerge {
		t.Error("hotfix strategy should enable auto-merge")
	}

	for _, bt := range []model.BranchType{model.BranchFeature, model.BranchBugfix, model.BranchRelease} {
		s := strategies[bt]
		if s.BaseRef != "main" {
			t.Errorf("%s base = %q, want main", bt, s.BaseRef)
		}
		if s.AutoMerge {
			t.Errorf("%s strategy should not enable auto-merge", bt)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		maxLen int
		want   string
	}{
		{"basic", "Fix login bug", 50, "fix-login-bug"},
		{"punctuation collapses", "Fix: login -- bug!!", 50, "fix-login-bug"},
		{"unicode dropped", "Résumé upload fails", 50, "r-sum-upload-fails"},
		{"truncated at max", "a very long title that keeps going and going", 10, "a-very-lon"},
		{"no trailing dash after cut", "abc def ghi", 4, "abc"},
		{"empty", "", 50, ""},
		{"digits kept", "Upgrade to v2", 50, "upgrade-to-v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.title, tt.maxLen); got != tt.want {
				t.Errorf("Slug(%q, %d) = %q, want %q", tt.title, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestBranchName(t *testing.T) {
	strategy := DefaultStrategies()[model.BranchBugfix]
	got := BranchName(strategy, "DEVFLOW", 123, "Fix login bug", 50)
	want := "bugfix/DEVFLOW-123-fix-login-bug"
	if got != want {
		t.Errorf("BranchName() = %q, want %q", got, want)
	}
}
