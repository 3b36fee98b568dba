package classify

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/devflowhq/devflow/config"
	"github.com/devflowhq/devflow/internal/model"
)

func newTestClassifier() *Classifier {
	return New(config.DefaultClassifierSettings())
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier()
	issue := model.Issue{
		Number: 42,
		Repo:   model.RepoRef{Owner: "DevBusinessHub", Name: "shop"},
		Title:  "Checkout crashes when cart has many items",
		Body:   "Steps to reproduce are attached. Blocked by #12.",
	}
	org := config.Organization{ID: "DevBusinessHub", Type: config.OrgBusiness}

	first := c.Classify(issue, org)
	second := c.Classify(issue, org)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestClassifyBusinessBugEscalation(t *testing.T) {
	c := newTestClassifier()

	// Moderate body length, no explicit priority or complexity keywords.
	body := strings.Repeat("The checkout flow crashes when the cart holds more than ten items. ", 5)
	if len(body) < 200 || len(body) > 1000 {
		t.Fatalf("test body length %d outside moderate range", len(body))
	}

	issue := model.Issue{
		Number: 7,
		Repo:   model.RepoRef{Owner: "DevBusinessHub", Name: "shop"},
		Title:  "Checkout crashes in production",
		Body:   body,
	}
	org := config.Organization{ID: "DevBusinessHub", Type: config.OrgBusiness}

	cls := c.Classify(issue, org)

	if cls.Type != model.TypeBug {
		t.Errorf("expected type bug, got %s", cls.Type)
	}
	// "production" alone is not a priority keyword; the business org
	// rule performs the escalation from the medium fallback.
	if cls.Priority != model.PriorityHigh {
		t.Errorf("expected priority high, got %s", cls.Priority)
	}
	if cls.Complexity != model.ComplexityModerate {
		t.Errorf("expected complexity moderate, got %s", cls.Complexity)
	}
	if cls.EstimatedHours != 6 {
		t.Errorf("expected 6 estimated hours (8 * 0.8), got %d", cls.EstimatedHours)
	}

	want := []string{"type:bug", "priority:high", "org:devbusinesshub"}
	if !reflect.DeepEqual(cls.Labels, want) {
		t.Errorf("expected labels %v, got %v", want, cls.Labels)
	}
}

func TestClassifyTypes(t *testing.T) {
	c := newTestClassifier()
	tests := []struct {
		name  string
		title string
		want  model.IssueType
	}{
		{"bug", "App crashes on startup", model.TypeBug},
		{"security", "XSS vulnerability in comment form", model.TypeSecurity},
		{"performance", "Dashboard is slow under load", model.TypePerformance},
		{"documentation", "Update the readme install section", model.TypeDocumentation},
		{"test", "Add coverage for the parser", model.TypeTest},
		{"refactor", "Refactor the session layer", model.TypeRefactor},
		{"devops", "Pipeline fails on deploy stage", model.TypeDevOps},
		{"architecture", "Redesign the storage architecture", model.TypeArchitecture},
		{"integration", "Integrate the payment webhook", model.TypeIntegration},
		{"configuration", "Settings page ignores env var overrides", model.TypeConfiguration},
		{"ui", "Frontend layout shifts on resize", model.TypeUI},
		{"feature", "Add support for exports", model.TypeFeature},
		{"fallback", "Something vague happened", model.TypeFeature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := c.Classify(model.Issue{Title: tt.title}, config.Organization{})
			if cls.Type != tt.want {
				t.Errorf("Classify(%q).Type = %s, want %s", tt.title, cls.Type, tt.want)
			}
		})
	}
}

func TestClassifyPriorities(t *testing.T) {
	c := newTestClassifier()
	tests := []struct {
		name  string
		title string
		want  model.Priority
	}{
		{"critical", "Urgent: full outage", model.PriorityCritical},
		{"high", "Blocker for the release", model.PriorityHigh},
		{"low", "Minor cosmetic nit", model.PriorityLow},
		{"fallback", "Align the header", model.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := c.Classify(model.Issue{Title: tt.title}, config.Organization{})
			if cls.Priority != tt.want {
				t.Errorf("Classify(%q).Priority = %s, want %s", tt.title, cls.Priority, tt.want)
			}
		})
	}
}

func TestClassifyOrgRulesOnlyRaise(t *testing.T) {
	c := newTestClassifier()
	tests := []struct {
		name  string
		title string
		org   config.Organization
		want  model.Priority
	}{
		{
			"critical bug stays critical under business rule",
			"Urgent crash during checkout",
			config.Organization{ID: "DevBusinessHub", Type: config.OrgBusiness},
			model.PriorityCritical,
		},
		{
			"academic docs escalate to high",
			"Tutorial has outdated screenshots",
			config.Organization{ID: "DevAcademyHub", Type: config.OrgAcademic},
			model.PriorityHigh,
		},
		{
			"infrastructure devops escalates to high",
			"Deploy stage intermittently hangs",
			config.Organization{ID: "DevInfraHub", Type: config.OrgInfrastructure},
			model.PriorityHigh,
		},
		{
			"general org never escalates",
			"App crashes on startup",
			config.Organization{ID: "SomeOrg", Type: config.OrgGeneral},
			model.PriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := c.Classify(model.Issue{Title: tt.title}, tt.org)
			if cls.Priority != tt.want {
				t.Errorf("got priority %s, want %s", cls.Priority, tt.want)
			}
		})
	}
}

func TestEstimateHours(t *testing.T) {
	c := newTestClassifier()
	tests := []struct {
		name  string
		title string
		body  string
		want  int
	}{
		// 2 * 0.6 rounded
		{"simple documentation", "Typo in readme", "", 1},
		// 24 * 1.5
		{"complex architecture", "Architecture overhaul of the scheduler", "", 36},
		// 8 * 1.3 rounded down
		{"moderate integration", "Integrate the payments webhook", strings.Repeat("The webhook payload must be verified and replayed on transient failures. ", 4), 10},
		// 8 * 1.0, no modifier for feature
		{"moderate feature", "Add support for exports", strings.Repeat("Exports should cover both formats and include all visible columns. ", 4), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := c.Classify(model.Issue{Title: tt.title, Body: tt.body}, config.Organization{})
			if cls.EstimatedHours != tt.want {
				t.Errorf("got %d hours (type=%s complexity=%s), want %d", cls.EstimatedHours, cls.Type, cls.Complexity, tt.want)
			}
		})
	}
}

func TestComplexityFromBodyLength(t *testing.T) {
	c := newTestClassifier()
	tests := []struct {
		name string
		body string
		want model.Complexity
	}{
		{"short body is simple", "It fails.", model.ComplexitySimple},
		{"medium body is moderate", strings.Repeat("words and more words here ", 10), model.ComplexityModerate},
		{"long body is complex", strings.Repeat("a very long report with lots of detail ", 30), model.ComplexityComplex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := c.Classify(model.Issue{Title: "Observed behavior", Body: tt.body}, config.Organization{})
			if cls.Complexity != tt.want {
				t.Errorf("body len %d: got %s, want %s", len(tt.body), cls.Complexity, tt.want)
			}
		})
	}
}

func TestExtractDependencies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []model.Dependency
	}{
		{
			"no references",
			"nothing to see here",
			nil,
		},
		{
			"plain references are non-blocking",
			"related to #7 and #9",
			[]model.Dependency{{Issue: 7}, {Issue: 9}},
		},
		{
			"blocked by marks blocking",
			"blocked by #12 and #34. also see #7",
			[]model.Dependency{{Issue: 7}, {Issue: 12, Blocking: true}, {Issue: 34, Blocking: true}},
		},
		{
			"blocker phrase without number",
			"depends on the auth service migration",
			[]model.Dependency{{Blocking: true}},
		},
		{
			"requires with number",
			"requires #3 to land first",
			[]model.Dependency{{Issue: 3, Blocking: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractDependencies(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractDependencies(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	c := newTestClassifier()

	// Everything matched: type, explicit priority, explicit complexity.
	full := c.Classify(model.Issue{Title: "Urgent: trivial crash in parser"}, config.Organization{})
	if math.Abs(full.Confidence-1.0) > 1e-9 {
		t.Errorf("expected confidence 1.0 with all rules matched, got %.2f", full.Confidence)
	}

	// Nothing matched: all fallbacks.
	none := c.Classify(model.Issue{Title: "Observed behavior", Body: "It fails."}, config.Organization{})
	if none.Confidence != 0.4 {
		t.Errorf("expected confidence 0.4 with no rules matched, got %.2f", none.Confidence)
	}
}

func TestGenerateLabelsOmitsMediumPriority(t *testing.T) {
	c := newTestClassifier()
	cls := c.Classify(model.Issue{Title: "Align the header frontend"}, config.Organization{})
	for _, label := range cls.Labels {
		if label == "priority:medium" {
			t.Error("medium priority label should be omitted")
		}
	}
}

func TestClassifyReadsLabels(t *testing.T) {
	c := newTestClassifier()
	issue := model.Issue{
		Title:  "Something is off",
		Labels: []string{"security"},
	}
	cls := c.Classify(issue, config.Organization{})
	if cls.Type != model.TypeSecurity {
		t.Errorf("expected label text to drive type, got %s", cls.Type)
	}
}
