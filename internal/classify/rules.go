package classify

import (
	"regexp"

	"github.com/devflowhq/devflow/internal/model"
)

// typeRule maps a set of patterns to an issue type. Rules are tested
// in order; the first match wins.
type typeRule struct {
	Type     model.IssueType
	Patterns []*regexp.Regexp
}

// priorityRule maps patterns to a priority level.
type priorityRule struct {
	Priority model.Priority
	Patterns []*regexp.Regexp
}

// complexityRule maps explicit keywords to a complexity bucket. When
// no rule matches, body length decides.
type complexityRule struct {
	Complexity model.Complexity
	Patterns   []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(expr))
	}
	return compiled
}

// DefaultTypeRules returns the ordered type pattern table.
func DefaultTypeRules() []typeRule {
	return []typeRule{
		{model.TypeBug, compileAll(`\bbug\b`, `\bfix(es|ed)?\b`, `\bbroken\b`, `\bcrash(es|ing)?\b`, `\bregression\b`, `\bdoesn'?t work\b`)},
		{model.TypeSecurity, compileAll(`\bsecurity\b`, `\bvulnerab`, `\bcve-\d`, `\bexploit\b`, `\bxss\b`, `\binjection\b`)},
		{model.TypePerformance, compileAll(`\bperformance\b`, `\bslow\b`, `\blatency\b`, `\boptimi[sz]`, `\bmemory leak\b`, `\bthroughput\b`)},
		{model.TypeDocumentation, compileAll(`\bdocs?\b`, `\bdocumentation\b`, `\breadme\b`, `\btypo\b`, `\btutorial\b`, `\bguide\b`)},
		{model.TypeTest, compileAll(`\btests?\b`, `\btesting\b`, `\bcoverage\b`, `\bflaky\b`, `\bunit test\b`)},
		{model.TypeRefactor, compileAll(`\brefactor`, `\bclean ?up\b`, `\btech(nical)? debt\b`, `\bsimplif(y|ication)\b`)},
		{model.TypeDevOps, compileAll(`\bci/?cd\b`, `\bpipeline\b`, `\bdeploy(ment)?\b`, `\bdocker\b`, `\bkubernetes\b`, `\bgithub actions?\b`)},
		{model.TypeArchitecture, compileAll(`\barchitecture\b`, `\barchitectural\b`, `\bredesign\b`, `\bsystem design\b`)},
		{model.TypeIntegration, compileAll(`\bintegrat(e|ion)\b`, `\bwebhook\b`, `\bthird[- ]party\b`, `\bexternal api\b`)},
		{model.TypeConfiguration, compileAll(`\bconfig(uration)?\b`, `\bsettings\b`, `\benv(ironment)? var`, `\bdotenv\b`)},
		{model.TypeUI, compileAll(`\bui\b`, `\bux\b`, `\bfrontend\b`, `\blayout\b`, `\bstyling\b`, `\bcss\b`)},
		{model.TypeFeature, compileAll(`\bfeature\b`, `\bimplement\b`, `\badd support\b`, `\benhancement\b`, `\bnew\b`)},
	}
}

// DefaultPriorityRules returns the ordered priority pattern table.
// Medium is the fallback and has no patterns of its own.
func DefaultPriorityRules() []priorityRule {
	return []priorityRule{
		{model.PriorityCritical, compileAll(`\bcritical\b`, `\burgent\b`, `\boutage\b`, `\bdata loss\b`, `\bproduction down\b`, `\bsev-?1\b`)},
		{model.PriorityHigh, compileAll(`\bhigh priority\b`, `\bimportant\b`, `\basap\b`, `\bblocker\b`, `\bblocking\b`, `\bsev-?2\b`)},
		{model.PriorityLow, compileAll(`\blow priority\b`, `\bminor\b`, `\bnice to have\b`, `\bsomeday\b`, `\bwhenever\b`)},
	}
}

// DefaultComplexityRules returns the explicit complexity keywords.
func DefaultComplexityRules() []complexityRule {
	return []complexityRule{
		{model.ComplexitySimple, compileAll(`\bsimple\b`, `\btrivial\b`, `\btypo\b`, `\bone[- ]liner\b`, `\bquick fix\b`)},
		{model.ComplexityComplex, compileAll(`\bcomplex\b`, `\bmajor\b`, `\boverhaul\b`, `\brewrite\b`, `\bacross multiple\b`, `\bbreaking change\b`)},
	}
}

// typeModifiers scale the effort estimate per issue type.
var typeModifiers = map[model.IssueType]float64{
	model.TypeBug:           0.8,
	model.TypeDocumentation: 0.6,
	model.TypeArchitecture:  1.5,
	model.TypeIntegration:   1.3,
}

// issueRefPattern matches "#123" style issue references.
var issueRefPattern = regexp.MustCompile(`#(\d+)`)

// blockerPhrasePattern captures the remainder of a line after a
// blocking phrase, which may or may not name a numeric issue.
var blockerPhrasePattern = regexp.MustCompile(`(?:blocked by|depends on|requires)\s+([^.\n;]+)`)
