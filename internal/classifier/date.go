package classifier

import "github.com/nao1215/jpfill/internal/dom"

// DateKind is the date sub-type of a date-picker widget.
type DateKind int

const (
	DateToday DateKind = iota
	DateBirth
	DateWork
	DateApplicationDeadline
	DateRecruitmentDeadline
	DateCancellationDeadline
	DateDeadline
	DateEnd
)

// String returns the name used in logs.
func (k DateKind) String() string {
	switch k {
	case DateBirth:
		return "birth-date"
	case DateWork:
		return "work-date"
	case DateApplicationDeadline:
		return "application-deadline"
	case DateRecruitmentDeadline:
		return "recruitment-deadline"
	case DateCancellationDeadline:
		return "cancellation-deadline"
	case DateDeadline:
		return "deadline"
	case DateEnd:
		return "end-date"
	default:
		return "today"
	}
}

// OffsetWeeks returns how many weeks after today the target date lies.
// Birth dates are taken from the record instead and report 0.
func (k DateKind) OffsetWeeks() int {
	switch k {
	case DateWork:
		return 5
	case DateApplicationDeadline:
		return 4
	case DateRecruitmentDeadline:
		return 3
	case DateCancellationDeadline:
		return 2
	case DateDeadline:
		return 1
	case DateEnd:
		return 6
	default:
		return 0
	}
}

// dateRules lists the most specific deadline categories first.
var dateRules = []rule[DateKind]{
	{"birth-date", anyOf(`birth`, word(`dob`), `生年月日`, `誕生日`), DateBirth},
	{"work-date", anyOf(`work[ _-]?(?:date|day)`, `勤務日`, `就業日`, `作業日`, `稼働日`, `出勤日`), DateWork},
	{"application-deadline", anyOf(word(`order`), `application`, word(`apply`), `発注`, `受注`, `応募`, `申込`, `申し込み`), DateApplicationDeadline},
	{"recruitment-deadline", anyOf(`recruit`, `募集`, `採用`), DateRecruitmentDeadline},
	{"cancellation-deadline", anyOf(`cancel`, `キャンセル`, `取消`, `取り消し`, `解約`), DateCancellationDeadline},
	{"deadline", anyOf(`deadline`, word(`due`), `start`, `締切`, `締め切り`, `期限`, `開始`, `入社`, `着任`), DateDeadline},
	{"end-date", anyOf(word(`end`), `finish`, word(`until`), `終了`, `満了`), DateEnd},
}

// ClassifyDate returns the date sub-type of a widget.
func (c *Classifier) ClassifyDate(el *dom.Element) DateKind {
	if k, _, ok := firstMatch(dateRules, c.search(el)); ok {
		return k
	}
	return DateToday
}
