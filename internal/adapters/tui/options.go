package tui

import "github.com/Overland-East-Bay/family-planner-api/internal/domain"

// noChoice is offered first in every optional single-select prompt.
const noChoice = "(not sure yet)"

var (
	dietaryOptions = []string{"Vegetarian", "Vegan", "Gluten-free", "Lactose-free", "Halal", "Kosher"}
	allergyOptions = []string{"Peanuts", "Tree nuts", "Shellfish", "Eggs", "Soy", "Dairy"}

	activityOptions = []string{"Beach", "Hiking", "Museums", "Theme parks", "Zoo", "Food tours", "Water sports"}

	adultTravelExperienceOptions = []string{"First trip abroad", "Frequent traveler", "Backpacking", "Road trips", "Cruises"}
	adultInterestOptions         = []string{"Museums", "Hiking", "Food", "Nightlife", "Shopping", "Wellness"}
	accommodationOptions         = []string{"Hotel", "Apartment", "Camping", "Resort", "Bed & breakfast"}

	childInterestOptions = []string{"Animals", "Playgrounds", "Swimming", "Crafts", "Science"}
	attentionSpanOptions = []string{"Short activities", "Half-day outings", "Full-day outings"}
	comfortItemOptions   = []string{"Favorite toy", "Blanket", "Night light", "Snacks"}
	specialNeedOptions   = []string{"Stroller", "Nap time", "Wheelchair access", "Sensory-friendly"}
)

// withCurrent appends values already in the set that the catalog lacks, so a
// loaded profile never silently loses an entry.
func withCurrent(catalog []string, current domain.StringSet) []string {
	out := append([]string(nil), catalog...)
	for _, v := range current {
		if indexOf(out, v) < 0 {
			out = append(out, v)
		}
	}
	return out
}

func selectedIndices(options []string, current domain.StringSet) []int {
	var out []int
	for i, o := range options {
		if current.Contains(o) {
			out = append(out, i)
		}
	}
	return out
}

// enumOptions lists noChoice followed by the allowed values.
func enumOptions[T ~string](values []T) []string {
	out := []string{noChoice}
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

func enumIndex[T ~string](options []string, current T) int {
	if current == "" {
		return 0
	}
	if i := indexOf(options, string(current)); i >= 0 {
		return i
	}
	return 0
}

func enumValue(options []string, idx int) string {
	if idx <= 0 || idx >= len(options) {
		return ""
	}
	return options[idx]
}
