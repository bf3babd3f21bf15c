package classifier

import (
	"github.com/nao1215/jpfill/internal/convention"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/model"
)

// Classifier assigns field types to controls. It holds no per-control state;
// Classify is a pure function of the control's current identifier set.
type Classifier struct {
	conv convention.Conventions
}

// New creates a Classifier that harvests form item labels using conv.
func New(conv convention.Conventions) *Classifier {
	return &Classifier{conv: conv.Merge(convention.Default())}
}

// ignorePattern always wins, whatever else the identifiers say.
var ignorePattern = anyOf(
	`password`, `passwd`, word(`pwd`), `captcha`, `hidden`, `secret`,
	word(`otp`), `one[ _-]?time`, `verification`, `csrf`, word(`token`),
	`パスワード`, `暗証`, `認証コード`, `確認コード`, `ワンタイム`,
)

// Token groups shared by several rules.
const (
	hiraganaCue = `hiragana|furigana|(?:^|[^a-z])kana(?:[^a-z]|$)|ふりがな|ひらがな`
	katakanaCue = `katakana|カタカナ|フリガナ|` + `(?:^|[^ァ-ヶー])カナ(?:[^ァ-ヶー]|$)`

	surnameCue = `surname|last[ _-]?name|family[ _-]?name|(?:^|[^a-z])sei(?:[^a-z]|$)|姓(?:[^名]|$)|苗字|名字|みょうじ|myouji`
	givenCue   = `given[ _-]?name|first[ _-]?name|(?:^|[^a-z])mei(?:[^a-z]|$)|(?:^|[^氏姓])名(?:[^前称字]|$)`
	fullCue    = `full[ _-]?name|氏名|姓名|shimei|お名前|名前|なまえ|(?:^|[^a-z])name(?:[^a-z]|$)`
)

// Script-qualified name rules need a name cue and a script cue anywhere in
// the identifiers, in either order.
var (
	hiraganaPattern = anyOf(hiraganaCue)
	katakanaPattern = anyOf(katakanaCue)
	surnamePattern  = anyOf(surnameCue)
	givenPattern    = anyOf(givenCue)
)

// fieldRules is evaluated in order; the first match wins. Company must come
// before every name rule, script-qualified name rules before plain kanji
// ones, and mobile before generic phone.
var fieldRules = []rule[model.FieldType]{
	{"company", anyOf(`company`, `corporat`, `employer`, `organi[sz]ation`, `会社`, `企業`, `法人`, `勤務先`, `きんむさき`, `kaisha`, `社名`, `屋号`), model.FieldCompanyName},
	{"email", anyOf(`e-?mail`, word(`mail`), `メール`, `めーる`), model.FieldEmail},
	{"mobile", anyOf(`mobile`, `cell[ _-]?phone`, `携帯`, `けいたい`, `keitai`, `スマホ`), model.FieldMobilePhone},
	{"phone", anyOf(`phone`, word(`tel`), `電話`, `でんわ`, `denwa`), model.FieldPhone},
	{"postal", anyOf(`postal`, `post[ _-]?code`, word(`zip`), `郵便`, `〒`, `ゆうびん`, `yuu?bin`), model.FieldPostalCode},
	{"prefecture", anyOf(`prefecture`, word(`pref`), `都道府県`, `とどうふけん`, `todou?fuken`), model.FieldPrefecture},
	{"city", anyOf(`city`, `市区町村`, `市町村`, `しくちょうそん`, `shikuchou?son`), model.FieldCity},
	{"full-address", anyOf(`full[ _-]?address`, `address[ _-]?full`, `所在地`, `住所全体`), model.FieldFullAddress},
	{"address", anyOf(`address`, word(`addr`), `street`, `住所`, `じゅうしょ`, `jusho`, `番地`), model.FieldAddress},
	{"birth-date", anyOf(`birth`, word(`dob`), `生年月日`, `誕生日`), model.FieldDate},
	{"url", anyOf(word(`url`), `website`, `homepage`, `ホームページ`, `webサイト`), model.FieldURL},

	{"surname-katakana", oneOf{allOf{surnamePattern, katakanaPattern}, anyOf(kana(`セイ`))}, model.FieldSurnameKatakana},
	{"given-katakana", oneOf{allOf{givenPattern, katakanaPattern}, anyOf(kana(`メイ`))}, model.FieldGivenNameKatakana},
	{"full-katakana", katakanaPattern, model.FieldFullNameKatakana},

	{"surname-hiragana", oneOf{allOf{surnamePattern, hiraganaPattern}, anyOf(hira(`せい`))}, model.FieldSurnameHiragana},
	{"given-hiragana", oneOf{allOf{givenPattern, hiraganaPattern}, anyOf(hira(`めい`))}, model.FieldGivenNameHiragana},
	{"full-hiragana", hiraganaPattern, model.FieldFullNameHiragana},

	{"surname-kanji", surnamePattern, model.FieldSurnameKanji},
	{"given-kanji", givenPattern, model.FieldGivenNameKanji},
	{"full-kanji", anyOf(fullCue, `name.*kanji`), model.FieldFullNameKanji},
}

// Classify returns the field type of a control or widget wrapper.
func (c *Classifier) Classify(el *dom.Element) model.FieldType {
	ft, _ := c.ClassifyWithRule(el)
	return ft
}

// ClassifyWithRule is Classify that also returns the name of the deciding
// rule ("ignore", a rule name, "type:<native type>" or "fallback").
func (c *Classifier) ClassifyWithRule(el *dom.Element) (model.FieldType, string) {
	if el.Tag() == "input" && el.Type() == "password" {
		return model.FieldIgnore, "ignore"
	}

	fragments, joined := c.Identifiers(el).normalized()
	for _, f := range fragments {
		if ignorePattern.MatchString(f) {
			return model.FieldIgnore, "ignore"
		}
	}

	if ft, name, ok := firstMatch(fieldRules, joined); ok {
		return ft, name
	}

	if el.Tag() == "input" {
		switch el.Type() {
		case "email":
			return model.FieldEmail, "type:email"
		case "tel":
			return model.FieldPhone, "type:tel"
		case "date":
			return model.FieldDate, "type:date"
		case "number":
			return model.FieldNumber, "type:number"
		case "url":
			return model.FieldURL, "type:url"
		}
	}
	return model.FieldGenericText, "fallback"
}

// search returns the joined normalized identifier string of el.
func (c *Classifier) search(el *dom.Element) string {
	_, joined := c.Identifiers(el).normalized()
	return joined
}
