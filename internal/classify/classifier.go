// Package classify implements the rule-based issue classifier: ordered
// pattern tables for type, priority, and complexity, an effort
// estimate, dependency extraction, and organization override rules
// that may only ever raise a priority.
package classify

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/devflowhq/devflow/config"
	"github.com/devflowhq/devflow/internal/model"
)

// Classifier applies the rule tables to issues. The tables are
// injected at construction and read-only afterwards, so a single
// Classifier is safe for concurrent use.
type Classifier struct {
	typeRules       []typeRule
	priorityRules   []priorityRule
	complexityRules []complexityRule
	settings        config.ClassifierSettings
}

// New creates a Classifier with the default rule tables.
func New(settings config.ClassifierSettings) *Classifier {
	return &Classifier{
		typeRules:       DefaultTypeRules(),
		priorityRules:   DefaultPriorityRules(),
		complexityRules: DefaultComplexityRules(),
		settings:        settings,
	}
}

// Classify maps an issue and its organization context to a
// classification. It never fails: malformed input falls back to the
// feature/medium defaults, and identical input always produces an
// identical result.
func (c *Classifier) Classify(issue model.Issue, org config.Organization) model.Classification {
	haystack := strings.ToLower(issue.Title + "\n" + issue.Body)
	for _, label := range issue.Labels {
		haystack += "\n" + strings.ToLower(label)
	}

	issueType, typeMatched := c.matchType(haystack)
	priority, priorityMatched := c.matchPriority(haystack)
	complexity, complexityMatched := c.matchComplexity(haystack, len(issue.Body))

	cls := model.Classification{
		Type:           issueType,
		Priority:       priority,
		Complexity:     complexity,
		EstimatedHours: c.estimateHours(issueType, complexity),
		Dependencies:   extractDependencies(haystack),
		Confidence:     confidence(typeMatched, priorityMatched, complexityMatched),
	}

	cls.Priority = applyOrgRules(cls, org)
	cls.Labels = generateLabels(cls, org)
	return cls
}

// matchType runs the ordered type table. Returns feature when nothing
// matches.
func (c *Classifier) matchType(haystack string) (model.IssueType, bool) {
	for _, rule := range c.typeRules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(haystack) {
				return rule.Type, true
			}
		}
	}
	return model.TypeFeature, false
}

// matchPriority runs the ordered priority table. Returns medium when
// nothing matches.
func (c *Classifier) matchPriority(haystack string) (model.Priority, bool) {
	for _, rule := range c.priorityRules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(haystack) {
				return rule.Priority, true
			}
		}
	}
	return model.PriorityMedium, false
}

// matchComplexity checks explicit keywords first, then falls back to
// body length thresholds.
func (c *Classifier) matchComplexity(haystack string, bodyLen int) (model.Complexity, bool) {
	for _, rule := range c.complexityRules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(haystack) {
				return rule.Complexity, true
			}
		}
	}

	switch {
	case bodyLen > c.settings.ComplexBodyChars:
		return model.ComplexityComplex, false
	case bodyLen < c.settings.SimpleBodyChars:
		return model.ComplexitySimple, false
	}
	return model.ComplexityModerate, false
}

// estimateHours computes base hours by complexity scaled by the type
// modifier, rounded to the nearest hour.
func (c *Classifier) estimateHours(issueType model.IssueType, complexity model.Complexity) int {
	var base float64
	switch complexity {
	case model.ComplexitySimple:
		base = c.settings.SimpleBaseHours
	case model.ComplexityComplex:
		base = c.settings.ComplexBaseHours
	default:
		base = c.settings.ModerateBaseHours
	}

	modifier := 1.0
	if m, ok := typeModifiers[issueType]; ok {
		modifier = m
	}
	return int(math.Round(base * modifier))
}

// extractDependencies finds issue references and blocking phrases in
// the text. A blocking phrase without a numeric target becomes a
// blocking dependency with no issue number.
func extractDependencies(haystack string) []model.Dependency {
	blocking := make(map[int]bool)
	phraseWithoutTarget := false

	for _, phrase := range blockerPhrasePattern.FindAllStringSubmatch(haystack, -1) {
		refs := issueRefPattern.FindAllStringSubmatch(phrase[1], -1)
		if len(refs) == 0 {
			phraseWithoutTarget = true
			continue
		}
		for _, ref := range refs {
			if n, err := strconv.Atoi(ref[1]); err == nil {
				blocking[n] = true
			}
		}
	}

	referenced := make(map[int]bool)
	for _, ref := range issueRefPattern.FindAllStringSubmatch(haystack, -1) {
		if n, err := strconv.Atoi(ref[1]); err == nil {
			referenced[n] = true
		}
	}

	numbers := make([]int, 0, len(referenced))
	for n := range referenced {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var deps []model.Dependency
	for _, n := range numbers {
		deps = append(deps, model.Dependency{Issue: n, Blocking: blocking[n]})
	}
	if phraseWithoutTarget {
		deps = append(deps, model.Dependency{Blocking: true})
	}
	return deps
}

// applyOrgRules escalates priority based on organization type. Rules
// may only raise a priority, never lower it.
func applyOrgRules(cls model.Classification, org config.Organization) model.Priority {
	priority := cls.Priority
	switch org.Type {
	case config.OrgBusiness:
		// Customer-facing bugs jump the queue.
		if cls.Type == model.TypeBug {
			priority = priority.Max(model.PriorityHigh)
		}
	case config.OrgAcademic:
		if cls.Type == model.TypeDocumentation {
			priority = priority.Max(model.PriorityHigh)
		}
	case config.OrgInfrastructure:
		if cls.Type == model.TypeDevOps || cls.Type == model.TypeArchitecture {
			priority = priority.Max(model.PriorityHigh)
		}
	}
	return priority
}

// generateLabels builds the label set for the classification. The
// medium priority label is omitted as noise.
func generateLabels(cls model.Classification, org config.Organization) []string {
	labels := []string{"type:" + string(cls.Type)}
	if cls.Priority != model.PriorityMedium {
		labels = append(labels, "priority:"+string(cls.Priority))
	}
	if org.ID != "" {
		labels = append(labels, "org:"+strings.ToLower(org.ID))
	}
	return labels
}

// confidence reflects how much of the verdict came from explicit rule
// matches versus fallback defaults.
func confidence(typeMatched, priorityMatched, complexityMatched bool) float64 {
	score := 0.4
	if typeMatched {
		score += 0.3
	}
	if priorityMatched {
		score += 0.15
	}
	if complexityMatched {
		score += 0.15
	}
	return score
}
