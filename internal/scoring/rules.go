// Package scoring maps structured profile records onto normalized 0-100 trait
// scores via an explicit, inspectable rule table. Every rule is a pure function
// of the record; identical input always yields identical output.
package scoring

import (
	"strings"

	"github.com/priya/group-scout/internal/types"
)

// Feature is one weighted heuristic rule. Eval returns a value in [0,1] plus
// whether the record carried any input for this feature at all; a feature
// without input contributes nothing rather than zero, which is what lets sparse
// profiles land on the neutral default.
type Feature struct {
	Name   string
	Weight float64 // score points this feature can contribute
	Eval   func(r *types.ProfileRecord) (value float64, ok bool)
}

// RuleTable maps trait name to its weighted features. Weights per trait sum to
// 100 so a fully maxed trait hits the top of the range.
type RuleTable map[string][]Feature

// Keyword tables. The exact word lists are calibration surface, not ground
// truth; they mirror the proportions of the prototype analyzer.
var (
	leadershipKeywords = []string{
		"president", "director", "lead", "founder", "chair", "captain", "head",
	}
	communityKeywords = []string{
		"community", "team", "group", "club", "organization", "volunteer", "mentor",
	}
	communicationKeywords = []string{
		"communication", "public speaking", "marketing", "sales", "outreach",
	}
	technicalSkillKeywords = []string{
		"python", "java", "go", "c++", "javascript", "typescript", "sql",
		"machine learning", "data science", "deep learning", "cloud", "aws",
		"docker", "kubernetes", "react", "software", "algorithms",
	}
	technicalRoleKeywords = []string{
		"engineer", "developer", "programmer", "scientist", "researcher", "swe",
	}
)

// Completeness thresholds for the conscientiousness features.
const (
	detailedDescriptionWords = 20
	manyExperiences          = 4
	someExperiences          = 2
)

// DefaultRuleTable returns the standard trait rules.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		types.TraitExtraversion: {
			{
				Name:   "leadership_titles",
				Weight: 40,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					if len(r.Experience) == 0 && r.Headline == "" {
						return 0, false
					}
					hits := countKeywordHits(titlesAndHeadline(r), leadershipKeywords)
					return ratio(hits, 2), true
				},
			},
			{
				Name:   "community_involvement",
				Weight: 30,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					texts := descriptions(r)
					if len(texts) == 0 {
						return 0, false
					}
					return ratio(countKeywordHits(texts, communityKeywords), 2), true
				},
			},
			{
				Name:   "communication_signals",
				Weight: 30,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					if len(r.Skills) == 0 && r.Headline == "" {
						return 0, false
					}
					texts := append([]string{r.Headline}, r.Skills...)
					return ratio(countKeywordHits(texts, communicationKeywords), 2), true
				},
			},
		},
		types.TraitTechnical: {
			{
				Name:   "technical_skills",
				Weight: 60,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					if len(r.Skills) == 0 {
						return 0, false
					}
					return ratio(countKeywordHits(r.Skills, technicalSkillKeywords), 4), true
				},
			},
			{
				Name:   "technical_roles",
				Weight: 40,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					if len(r.Experience) == 0 {
						return 0, false
					}
					return ratio(countKeywordHits(titles(r), technicalRoleKeywords), 2), true
				},
			},
		},
		types.TraitConscientiousness: {
			{
				Name:   "entry_completeness",
				Weight: 40,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					if len(r.Experience) == 0 {
						return 0, false
					}
					complete := 0
					for _, exp := range r.Experience {
						if exp.Title != "" && exp.Org != "" && exp.DurationMonths > 0 {
							complete++
						}
					}
					return float64(complete) / float64(len(r.Experience)), true
				},
			},
			{
				Name:   "experience_depth",
				Weight: 25,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					if len(r.Experience) == 0 {
						return 0, false
					}
					switch {
					case len(r.Experience) >= manyExperiences:
						return 1.0, true
					case len(r.Experience) >= someExperiences:
						return 0.5, true
					default:
						return 0.25, true
					}
				},
			},
			{
				Name:   "description_detail",
				Weight: 20,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					if len(r.Experience) == 0 {
						return 0, false
					}
					detailed := 0
					for _, exp := range r.Experience {
						if len(strings.Fields(exp.Description)) >= detailedDescriptionWords {
							detailed++
						}
					}
					return float64(detailed) / float64(len(r.Experience)), true
				},
			},
			{
				Name:   "education_completeness",
				Weight: 15,
				Eval: func(r *types.ProfileRecord) (float64, bool) {
					if len(r.Education) == 0 {
						return 0, false
					}
					complete := 0
					for _, edu := range r.Education {
						if edu.Degree != "" && edu.Field != "" {
							complete++
						}
					}
					return float64(complete) / float64(len(r.Education)), true
				},
			},
		},
	}
}

// countKeywordHits counts how many keywords appear across the given texts. Each
// keyword counts at most once, so stacking one buzzword does not inflate scores.
func countKeywordHits(texts, keywords []string) int {
	joined := strings.ToLower(strings.Join(texts, " "))
	hits := 0
	for _, kw := range keywords {
		if containsWord(joined, kw) {
			hits++
		}
	}
	return hits
}

// containsWord does word-boundary matching so "go" does not match "google".
func containsWord(haystack, word string) bool {
	idx := 0
	for {
		found := strings.Index(haystack[idx:], word)
		if found < 0 {
			return false
		}
		start := idx + found
		end := start + len(word)
		beforeOK := start == 0 || !isAlnum(haystack[start-1])
		afterOK := end == len(haystack) || !isAlnum(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func ratio(hits, saturation int) float64 {
	v := float64(hits) / float64(saturation)
	if v > 1 {
		return 1
	}
	return v
}

func titles(r *types.ProfileRecord) []string {
	out := make([]string, 0, len(r.Experience))
	for _, exp := range r.Experience {
		out = append(out, exp.Title)
	}
	return out
}

func titlesAndHeadline(r *types.ProfileRecord) []string {
	return append(titles(r), r.Headline)
}

func descriptions(r *types.ProfileRecord) []string {
	out := make([]string, 0, len(r.Experience))
	for _, exp := range r.Experience {
		if exp.Description != "" {
			out = append(out, exp.Description)
		}
	}
	return out
}
