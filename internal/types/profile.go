package types

// ExperienceEntry is one position parsed from a profile's experience section.
type ExperienceEntry struct {
	Title          string `json:"title"`
	Org            string `json:"org,omitempty"`
	DurationMonths int    `json:"duration_months,omitempty"`
	Description    string `json:"description,omitempty"`
}

// EducationEntry is one school parsed from a profile's education section.
type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
}

// ProfileRecord is the structured form of a fetched profile page. It is owned by
// the extractor and immutable once produced; exactly one per resolved roster entry.
// Missing sections are empty slices, never nil-vs-missing distinctions downstream
// code needs to care about.
type ProfileRecord struct {
	ProfileURL string            `json:"profile_url"`
	Headline   string            `json:"headline,omitempty"`
	Experience []ExperienceEntry `json:"experience_entries"`
	Skills     []string          `json:"skills"`
	Education  []EducationEntry  `json:"education_entries"`
}

// HasSignal reports whether the record carries anything the scorer can work with.
func (p *ProfileRecord) HasSignal() bool {
	return p.Headline != "" || len(p.Experience) > 0 || len(p.Skills) > 0 || len(p.Education) > 0
}
