package model

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPriorityMax(t *testing.T) {
	tests := []struct {
		a, b, want Priority
	}{
		{PriorityLow, PriorityHigh, PriorityHigh},
		{PriorityHigh, PriorityLow, PriorityHigh},
		{PriorityCritical, PriorityHigh, PriorityCritical},
		{PriorityMedium, PriorityMedium, PriorityMedium},
		{PriorityCritical, PriorityLow, PriorityCritical},
	}

	for _, tt := range tests {
		if got := tt.a.Max(tt.b); got != tt.want {
			t.Errorf("%s.Max(%s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPriorityAtLeast(t *testing.T) {
	if !PriorityCritical.AtLeast(PriorityLow) {
		t.Error("critical should be at least low")
	}
	if !PriorityHigh.AtLeast(PriorityHigh) {
		t.Error("high should be at least high")
	}
	if PriorityLow.AtLeast(PriorityMedium) {
		t.Error("low should not be at least medium")
	}
}

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		input string
		want  RepoRef
	}{
		{"octo/widgets", RepoRef{Owner: "octo", Name: "widgets"}},
		{"octo", RepoRef{}},
		{"/widgets", RepoRef{}},
		{"octo/", RepoRef{}},
		{"", RepoRef{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseRepoRef(tt.input); got != tt.want {
				t.Errorf("ParseRepoRef(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepoRefUnmarshalYAML(t *testing.T) {
	var def WorkflowDefinition
	doc := `
id: release
repositories:
  - octo/widgets
  - owner: octo
    name: gadgets
`
	if err := yaml.Unmarshal([]byte(doc), &def); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	want := []RepoRef{{Owner: "octo", Name: "widgets"}, {Owner: "octo", Name: "gadgets"}}
	if len(def.Repositories) != len(want) {
		t.Fatalf("got %d repositories, want %d", len(def.Repositories), len(want))
	}
	for i, repo := range def.Repositories {
		if repo != want[i] {
			t.Errorf("repository %d = %+v, want %+v", i, repo, want[i])
		}
	}

	var bad RepoRef
	if err := yaml.Unmarshal([]byte(`"octowidgets"`), &bad); err == nil {
		t.Error("expected an error for a scalar without owner/name form")
	}
}

func TestIssueHasLabel(t *testing.T) {
	issue := Issue{Labels: []string{"Bug", "priority:high"}}
	if !issue.HasLabel("bug") {
		t.Error("HasLabel should match case-insensitively")
	}
	if issue.HasLabel("enhancement") {
		t.Error("HasLabel matched an absent label")
	}
}
