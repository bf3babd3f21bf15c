package classifier

import "github.com/nao1215/jpfill/internal/dom"

// NumericKind is the numeric sub-type of a numeric-input widget.
type NumericKind int

const (
	NumericGeneric NumericKind = iota
	NumericDailyWage
	NumericSalary
	NumericHeadcount
	NumericAge
	NumericDuration
)

// String returns the name used in logs.
func (k NumericKind) String() string {
	switch k {
	case NumericDailyWage:
		return "daily-wage"
	case NumericSalary:
		return "salary"
	case NumericHeadcount:
		return "headcount"
	case NumericAge:
		return "age"
	case NumericDuration:
		return "duration"
	default:
		return "generic"
	}
}

// numericRules checks wage patterns before the broader headcount ones.
var numericRules = []rule[NumericKind]{
	{"daily-wage", anyOf(`daily[ _-]?(?:wage|pay|rate)`, `day[ _-]?rate`, `日給`, `日当`), NumericDailyWage},
	{"salary", anyOf(`salary`, word(`wage`), `月給`, `月収`, `年収`, `給与`, `給料`, `賃金`, `報酬`), NumericSalary},
	{"headcount", anyOf(`headcount`, `number[ _-]?of[ _-]?(?:people|persons|positions|hires)`, `(?:recruit|hire)[a-z]*[ _-]?(?:count|number|num)`, `募集人数`, `採用人数`, `採用予定数`, `募集人員`, `人数`, `定員`), NumericHeadcount},
	{"age", anyOf(word(`age`), `年齢`, `歳`), NumericAge},
	{"duration", anyOf(`duration`, `period`, word(`months?`), `期間`, `ヶ月`, `か月`, `カ月`, `年数`), NumericDuration},
}

// ClassifyNumeric returns the numeric sub-type of a widget.
func (c *Classifier) ClassifyNumeric(el *dom.Element) NumericKind {
	if k, _, ok := firstMatch(numericRules, c.search(el)); ok {
		return k
	}
	return NumericGeneric
}
