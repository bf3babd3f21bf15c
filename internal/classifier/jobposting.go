package classifier

import (
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/model"
)

// jobRules is the job posting vocabulary. Title comes last because its
// generic name cues would otherwise shadow the others.
var jobRules = []rule[model.JobField]{
	{"job-skills", anyOf(`skill`, `スキル`, `必要な経験`, `経験`, `能力`, `required[ _-]?experience`), model.JobFieldSkills},
	{"job-qualifications", anyOf(`qualification`, `requirement`, `資格`, `免許`, `応募条件`), model.JobFieldQualifications},
	{"job-working-hours", anyOf(`work(?:ing)?[ _-]?hours?`, word(`hours`), `勤務時間`, `就業時間`, `労働時間`, `シフト`), model.JobFieldWorkingHours},
	{"job-comment", anyOf(`comment`, `remarks?`, word(`note`), `reason`, `message`, `コメント`, `備考`, `理由`, `メッセージ`, `自由記入`), model.JobFieldComment},
	{"job-description", anyOf(`description`, `job[ _-]?details?`, `業務内容`, `仕事内容`, `職務内容`, `詳細`, `説明`), model.JobFieldDescription},
	{"job-title", anyOf(`title`, `job[ _-]?name`, `タイトル`, `求人名`, `職種`, `件名`, `名称`, `名前`, `(?:^|[^a-z_])name(?:[^a-z]|$)`), model.JobFieldTitle},
}

// ClassifyJobField returns the job posting interpretation of a control, or
// JobFieldNone when its identifiers carry no job posting vocabulary.
func (c *Classifier) ClassifyJobField(el *dom.Element) model.JobField {
	if f, _, ok := firstMatch(jobRules, c.search(el)); ok {
		return f
	}
	return model.JobFieldNone
}
