package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/priya/group-scout/internal/types"
)

// headlineSelectors locate the headline text under the profile top card, most
// specific first.
var headlineSelectors = []string{
	"div.text-body-medium",
	"[data-generated-suggestion-target]",
	".top-card-layout__headline",
}

// interstitialMarkers identify pages that are not a profile at all: login
// walls, bot checkpoints, generic error pages.
var interstitialMarkers = []string{
	"form.login__form",
	"#challenge-form",
	".authwall",
	"main.error-404",
}

// Extract parses a fetched profile page into a ProfileRecord. Missing sections
// yield empty slices; only a structurally unrecognizable page yields ParseError.
func Extract(profileURL, html string) (*types.ProfileRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: profileURL, Message: "failed to parse HTML", Cause: err}
	}

	if marker := interstitialMarker(doc); marker != "" {
		return nil, &ParseError{URL: profileURL, Message: "page is an interstitial (" + marker + "), not a profile"}
	}

	record := &types.ProfileRecord{
		ProfileURL: profileURL,
		Headline:   extractHeadline(doc),
		Experience: extractExperience(doc),
		Skills:     extractSkills(doc),
		Education:  extractEducation(doc),
	}

	// A page with a body but nothing recognizably profile-shaped is treated the
	// same as an interstitial: the selectors missed, not the person.
	if doc.Find("h1").Length() == 0 && !record.HasSignal() {
		return nil, &ParseError{URL: profileURL, Message: "no recognizable profile structure"}
	}

	return record, nil
}

func interstitialMarker(doc *goquery.Document) string {
	for _, marker := range interstitialMarkers {
		if doc.Find(marker).Length() > 0 {
			return marker
		}
	}
	return ""
}

func extractHeadline(doc *goquery.Document) string {
	for _, selector := range headlineSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// extractExperience walks the experience section's item list. Each item carries
// its title in the bold span, org in the normal-weight span, and the date
// caption with the computed duration.
func extractExperience(doc *goquery.Document) []types.ExperienceEntry {
	entries := make([]types.ExperienceEntry, 0)

	section := doc.Find("#experience").First()
	if section.Length() == 0 {
		return entries
	}

	sectionItems(section).Each(func(_ int, item *goquery.Selection) {
		entry := types.ExperienceEntry{
			Title:       hiddenSpanText(item.Find("div.t-bold").First()),
			Org:         strings.TrimSpace(item.Find("span.t-14.t-normal").First().Text()),
			Description: strings.TrimSpace(item.Find("div.inline-show-more-text").First().Text()),
		}
		if caption := item.Find("span.pvs-entity__caption-wrapper").First(); caption.Length() > 0 {
			entry.DurationMonths = ParseDurationMonths(caption.Text())
		}
		if entry.Title != "" || entry.Org != "" || entry.Description != "" {
			entries = append(entries, entry)
		}
	})
	return entries
}

func extractSkills(doc *goquery.Document) []string {
	skills := make([]string, 0)
	seen := make(map[string]bool)

	section := doc.Find("#skills").First()
	if section.Length() == 0 {
		return skills
	}

	sectionItems(section).Each(func(_ int, item *goquery.Selection) {
		skill := hiddenSpanText(item)
		if skill == "" || seen[skill] {
			return
		}
		seen[skill] = true
		skills = append(skills, skill)
	})
	return skills
}

func extractEducation(doc *goquery.Document) []types.EducationEntry {
	entries := make([]types.EducationEntry, 0)

	section := doc.Find("#education").First()
	if section.Length() == 0 {
		return entries
	}

	sectionItems(section).Each(func(_ int, item *goquery.Selection) {
		entry := types.EducationEntry{
			School: hiddenSpanText(item.Find("div.t-bold").First()),
		}
		degreeField := strings.TrimSpace(item.Find("span.t-14.t-normal").First().Text())
		if degreeField != "" {
			entry.Degree, entry.Field = splitDegreeField(degreeField)
		}
		if entry.School != "" {
			entries = append(entries, entry)
		}
	})
	return entries
}

// sectionItems returns the list items of a profile section. The entry list
// usually nests inside the section container, but some page variants anchor the
// section with an empty id div whose sibling holds the list.
func sectionItems(section *goquery.Selection) *goquery.Selection {
	if items := section.Find("li.artdeco-list__item"); items.Length() > 0 {
		return items
	}
	return section.NextAllFiltered("ul, div").First().Find("li.artdeco-list__item")
}

// hiddenSpanText extracts the visually-hidden text span profile pages duplicate
// content into, falling back to the selection's own text.
func hiddenSpanText(sel *goquery.Selection) string {
	if span := sel.Find(`span[aria-hidden="true"]`).First(); span.Length() > 0 {
		return strings.TrimSpace(span.Text())
	}
	return strings.TrimSpace(sel.Text())
}

// splitDegreeField splits "BS, Computer Science" style text into degree and field.
func splitDegreeField(text string) (degree, field string) {
	if idx := strings.Index(text, ","); idx >= 0 {
		return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx+1:])
	}
	return text, ""
}
