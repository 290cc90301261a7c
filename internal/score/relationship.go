package score

// kinship maps relationship keywords to a proximity score and a heuristic
// degree. Degree 0 means the relationship is outside the succession cascade.
type kinship struct {
	keywords []string
	great    bool // requires a "great" token in the label
	score    float64
	degree   int
}

var grandDescendants = []string{
	"grandchild", "grandchildren", "grandson", "grandsons", "granddaughter", "granddaughters",
}

// kinshipTable is ordered most specific first
var kinshipTable = []kinship{
	{keywords: grandDescendants, great: true, score: 70, degree: 3},
	{keywords: []string{"greatgrandchild", "greatgrandson", "greatgranddaughter"}, score: 70, degree: 3},
	{keywords: grandDescendants, score: 85, degree: 2},
	{keywords: []string{"son", "sons", "daughter", "daughters", "child", "children"}, score: 100, degree: 1},
	{keywords: []string{"spouse", "wife", "husband"}, score: 95},
	{keywords: []string{"mother", "father", "parent", "parents"}, score: 90},
	{keywords: []string{"sibling", "siblings", "brother", "brothers", "sister", "sisters"}, score: 75, degree: 2},
	{keywords: []string{"niece", "nieces", "nephew", "nephews"}, score: 65, degree: 3},
	{keywords: []string{"aunt", "aunts", "uncle", "uncles"}, score: 55, degree: 4},
	{keywords: []string{"cousin", "cousins"}, score: 45, degree: 5},
	// Compound words score like their base relation but sit outside the
	// cascade: step relatives are not blood kin and grandparents are ancestors.
	{keywords: []string{"stepson", "stepsons", "stepdaughter", "stepdaughters", "stepchild", "stepchildren"}, score: 100},
	{keywords: []string{"stepmother", "stepfather", "stepparent", "stepparents",
		"grandmother", "grandfather", "grandparent", "grandparents"}, score: 90},
	{keywords: []string{"stepbrother", "stepbrothers", "stepsister", "stepsisters", "stepsibling", "stepsiblings"}, score: 75},
}

// labelTokens splits a relationship label into lowercase words, so
// "Great-Grandson" yields [great grandson] and "person" never matches "son".
func labelTokens(label string) map[string]bool {
	return words(label)
}

func lookupKinship(label string) (kinship, bool) {
	tokens := labelTokens(label)
	if len(tokens) == 0 {
		return kinship{}, false
	}
	for _, k := range kinshipTable {
		if k.great && !tokens["great"] {
			continue
		}
		for _, kw := range k.keywords {
			if tokens[kw] {
				// "step son" and "step-son" are step relatives too
				if tokens["step"] {
					k.degree = 0
				}
				return k, true
			}
		}
	}
	return kinship{}, false
}

// LabelScore returns the proximity score of a relationship label
func LabelScore(label string) (float64, bool) {
	k, ok := lookupKinship(label)
	return k.score, ok
}

// DegreeForLabel estimates the relationship degree from a free-text label.
// Spouses, parents and unknown labels return 0.
func DegreeForLabel(label string) int {
	k, ok := lookupKinship(label)
	if !ok {
		return 0
	}
	return k.degree
}

// IsSpouseLabel reports whether a label describes a spouse
func IsSpouseLabel(label string) bool {
	tokens := labelTokens(label)
	return tokens["spouse"] || tokens["wife"] || tokens["husband"] || tokens["widow"] || tokens["widower"]
}
