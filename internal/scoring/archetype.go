package scoring

import (
	"strings"

	"github.com/priya/group-scout/internal/types"
)

// Archetype labels. Advisory annotations for the team-formation consumer; the
// numeric trait scores never depend on them.
const (
	ArchetypeEngineering = "engineering"
	ArchetypeDataAI      = "data_ai"
	ArchetypeFinance     = "finance"
	ArchetypeBusiness    = "business"
	ArchetypeGeneralist  = "generalist"
)

// archetypeRule associates a label with its keyword table. Order matters: ties
// resolve to the earlier rule, deterministically.
type archetypeRule struct {
	label    string
	keywords []string
}

var archetypeRules = []archetypeRule{
	{ArchetypeDataAI, []string{
		"machine learning", "artificial intelligence", "deep learning", "neural",
		"data science", "nlp", "computer vision",
	}},
	{ArchetypeEngineering, []string{
		"software", "engineering", "development", "coding", "programming",
		"backend", "frontend", "web", "app",
	}},
	{ArchetypeFinance, []string{
		"finance", "investment", "banking", "trading", "portfolio", "analyst",
		"hedge fund", "equity",
	}},
	{ArchetypeBusiness, []string{
		"marketing", "communications", "sales", "business development",
		"strategy", "consulting", "operations",
	}},
}

// ClassifyArchetype picks the label whose keyword table matches the record's
// text most often. Records with no matches are generalists.
func ClassifyArchetype(record *types.ProfileRecord) string {
	var texts []string
	texts = append(texts, record.Headline)
	texts = append(texts, record.Skills...)
	for _, exp := range record.Experience {
		texts = append(texts, exp.Title, exp.Description)
	}
	joined := strings.ToLower(strings.Join(texts, " "))

	bestLabel := ArchetypeGeneralist
	bestHits := 0
	for _, rule := range archetypeRules {
		hits := 0
		for _, kw := range rule.keywords {
			hits += strings.Count(joined, kw)
		}
		if hits > bestHits {
			bestHits = hits
			bestLabel = rule.label
		}
	}
	return bestLabel
}
