// Package topic maps free-text legal questions onto the subject
// categories the reference corpus is organized by, and decides whether
// a question is worth a web search at all.
package topic

import "strings"

// Category is one of the fixed subject buckets a query can fall into.
type Category string

const (
	Tax   Category = "tax"   // НК РФ
	Admin Category = "admin" // КоАП РФ
	Trade Category = "trade" // ВЭД, валютное регулирование
)

// Rule binds a category to the keywords that select it. Rules are
// evaluated in order; the first rule with any substring match wins.
type Rule struct {
	Category Category
	Keywords []string
}

// DefaultRules mirrors the keyword sets the assistant was tuned with.
// Order matters: tax is checked before admin before trade.
func DefaultRules() []Rule {
	return []Rule{
		{Tax, []string{
			"налог", "ндс", "налоговая", "ип", "самозанятый", "усн", "осно",
			"вычет", "декларация", "отчет", "6-ндфл", "нк рф", "фнс",
		}},
		{Admin, []string{
			"штраф", "административ", "нарушение", "коап", "ответственность",
			"взыскание", "протокол",
		}},
		{Trade, []string{
			"вэд", "импорт", "экспорт", "таможня", "внешнеэкономическ",
			"контракт", "валют",
		}},
	}
}

// Classifier resolves a query to a Category using ordered keyword rules.
type Classifier struct {
	rules  []Rule
	defCat Category
}

// NewClassifier builds a classifier over the given rules. An empty rule
// set means every query resolves to the default category.
func NewClassifier(rules []Rule, def Category) *Classifier {
	return &Classifier{rules: rules, defCat: def}
}

// Classify returns the first matching category, or the default when no
// keyword matches. Total over any input including the empty string.
func (c *Classifier) Classify(query string) Category {
	q := strings.ToLower(query)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(q, kw) {
				return rule.Category
			}
		}
	}
	return c.defCat
}

// searchKeywords flag questions about recent or citable material where
// stale reference text alone would mislead.
var searchKeywords = []string{
	"санкц", "ндпи", "изменени", "закон", "новост", "указ",
	"постановлен", "письмо", "практик", "источник", "ссылка",
	"фнс", "минфин", "штраф",
}

// searchLengthThreshold is in runes: long questions tend to describe a
// concrete situation that benefits from fresh material.
const searchLengthThreshold = 50

// NeedsSearch reports whether the query justifies the latency and cost
// of a web search. Blank input never does.
func NeedsSearch(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if len([]rune(q)) > searchLengthThreshold {
		return true
	}
	for _, kw := range searchKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
