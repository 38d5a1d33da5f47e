package assessment

import "strings"

// QuestionsPerCategory is the fixed battery size for every competency.
const QuestionsPerCategory = 25

// Category is one of the five fixed competency areas.
type Category struct {
	// Name is the canonical competency name used on the wire.
	Name string

	// DisplayName is the uppercase card title.
	DisplayName string

	// Order is the 1-based unlock order.
	Order int

	// Color is the card accent color (hex).
	Color string
}

// Categories is the fixed, ordered competency table.
var Categories = []Category{
	{Name: "Communication", DisplayName: "COMMUNICATION", Order: 1, Color: "#0001fc"},
	{Name: "Adaptability & Learning Agility", DisplayName: "ADAPTABILITY & LEARNING AGILITY", Order: 2, Color: "#d87e1d"},
	{Name: "Teamwork & Collaboration", DisplayName: "TEAMWORK & COLLABORATION", Order: 3, Color: "#41b64d"},
	{Name: "Accountability & Ownership", DisplayName: "ACCOUNTABILITY & OWNERSHIP", Order: 4, Color: "#880a0d"},
	{Name: "Problem Solving & Critical Thinking", DisplayName: "PROBLEM SOLVING & CRITICAL THINKING", Order: 5, Color: "#9338c3"},
}

// NumCategories is the number of competency areas in an assessment.
var NumCategories = len(Categories)

// CategoryAt returns the category at the given 0-based index, or nil if
// out of range.
func CategoryAt(index int) *Category {
	if index < 0 || index >= len(Categories) {
		return nil
	}
	return &Categories[index]
}

// MatchCategory resolves a remote competency name to its 0-based index.
// Matching is case-insensitive and ignores surrounding whitespace, since
// the service is loose about casing. Returns -1 when nothing matches.
func MatchCategory(name string) int {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return -1
	}
	for i, c := range Categories {
		if strings.ToLower(strings.TrimSpace(c.Name)) == normalized {
			return i
		}
	}
	return -1
}
