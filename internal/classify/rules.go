package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/AngelCh415/terrafedash/internal/models"
)

// InstituteMarker tags a campaign as belonging to the Institute line.
const InstituteMarker = "[INSTITUTO]"

// Rule maps product names matching Match to Category.
type Rule struct {
	Name     string
	Match    func(name string) bool
	Category models.Category
}

// Whole words only, where any Unicode letter, digit or '_' continues a word:
// "ÓCurso" and "Cursoé" do not match. \b in RE2 is ASCII-only.
var reCourse = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_])(curso|oficina|workshop)($|[^\p{L}\p{N}_])`)

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

// evaluated top-down; the first match wins
var rules = []Rule{
	{Name: "curso|oficina|workshop", Match: reCourse.MatchString, Category: models.CategoryCoursesWorkshops},
	{Name: "Café", Match: contains("Café"), Category: models.CategoryCoffee},
	{Name: "Kit", Match: contains("Kit"), Category: models.CategoryKits},
	{Name: "Xícara", Match: contains("Xícara"), Category: models.CategoryAccessories},
	{Name: "Aquarelas", Match: contains("Aquarelas"), Category: models.CategoryArt},
	{Name: "Doce", Match: contains("Doce"), Category: models.CategoryFood},
}

// Rules returns a copy of the ordered product rules.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Category classifies a product name. Unmatched names are Other.
func Category(productName string) models.Category {
	name := norm.NFC.String(productName)
	for _, r := range rules {
		if r.Match(name) {
			return r.Category
		}
	}
	return models.CategoryOther
}

func BusinessLineFor(c models.Category) models.BusinessLine {
	if c == models.CategoryCoursesWorkshops {
		return models.BusinessLineInstitute
	}
	return models.BusinessLineEcommerce
}

// CampaignBusinessLine looks for the literal InstituteMarker in the name.
func CampaignBusinessLine(campaignName string) models.BusinessLine {
	if strings.Contains(campaignName, InstituteMarker) {
		return models.BusinessLineInstitute
	}
	return models.BusinessLineEcommerce
}
