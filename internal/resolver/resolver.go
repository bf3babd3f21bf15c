package resolver

import (

	"github.com/nao1215/jpfill/internal/classifier"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/lexicon"
	"github.com/nao1215/jpfill/internal/model"
)

const (
	// NameFormatSurnameFirst joins names as "{surname} {given}".
	NameFormatSurnameFirst = "surname-first"
	// NameFormatGivenFirst joins names as "{given} {surname}".
	NameFormatGivenFirst = "given-first"

	// PhoneStyleMobile answers generic phone fields with the mobile number.
	PhoneStyleMobile = "mobile"
	// PhoneStyleLandline answers generic phone fields with the landline number.
	PhoneStyleLandline = "landline"
)

// Resolver chooses the value written into a classified control.
type Resolver struct {
	cls        *classifier.Classifier
	givenFirst bool
	landline   bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithNameFormat selects the order of composite names. Unknown formats keep
// surname first.
func WithNameFormat(format string) Option {
	return func(r *Resolver) {
		r.givenFirst = format == NameFormatGivenFirst
	}
}

// WithPhoneStyle selects which number generic phone fields receive.
func WithPhoneStyle(style string) Option {
	return func(r *Resolver) {
		r.landline = style == PhoneStyleLandline
	}
}

// New creates a Resolver. cls is consulted for the job posting
// interpretation of a control.
func New(cls *classifier.Classifier, opts ...Option) *Resolver {
	r := &Resolver{cls: cls}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the value for a control of type ft, or false when the
// control must be left alone. On a job posting page the job posting
// vocabulary takes precedence over the generic mapping; jobFacts may be nil
// on other pages.
func (r *Resolver) Resolve(ft model.FieldType, rec *model.SyntheticRecord, pageCtx model.PageContext, jobFacts *model.JobPostingFacts, el *dom.Element) (string, bool) {
	if ft == model.FieldIgnore {
		return "", false
	}

	if pageCtx == model.PageJobPosting && jobFacts != nil && el != nil {
		if field := r.cls.ClassifyJobField(el); field != model.JobFieldNone {
			return jobFacts.Get(field)
		}
	}

	name := rec.Name
	switch ft {
	case model.FieldFullNameKanji:
		return r.join(name.SurnameKanji, name.GivenNameKanji), true
	case model.FieldSurnameKanji:
		return name.SurnameKanji, true
	case model.FieldGivenNameKanji:
		return name.GivenNameKanji, true
	case model.FieldFullNameHiragana:
		return r.join(name.SurnameHiragana, name.GivenNameHiragana), true
	case model.FieldSurnameHiragana:
		return name.SurnameHiragana, true
	case model.FieldGivenNameHiragana:
		return name.GivenNameHiragana, true
	case model.FieldFullNameKatakana:
		return r.join(name.SurnameKatakana, name.GivenNameKatakana), true
	case model.FieldSurnameKatakana:
		return name.SurnameKatakana, true
	case model.FieldGivenNameKatakana:
		return name.GivenNameKatakana, true
	case model.FieldEmail:
		return rec.Email, true
	case model.FieldPhone:
		if r.landline && rec.Landline != "" {
			return rec.Landline, true
		}
		return rec.Phone, true
	case model.FieldMobilePhone:
		return rec.Phone, true
	case model.FieldPostalCode:
		return rec.Address.PostalCode, true
	case model.FieldPrefecture:
		return rec.Address.Prefecture, true
	case model.FieldCity:
		return rec.Address.City, true
	case model.FieldAddress:
		return rec.Address.Street(), true
	case model.FieldFullAddress:
		return rec.Address.Full, true
	case model.FieldCompanyName:
		return rec.CompanyName, true
	case model.FieldDate:
		return rec.DateOfBirth, true
	case model.FieldGenericText:
		return lexicon.GenericText, true
	default:
		return "", false
	}
}

func (r *Resolver) join(surname, given string) string {
	if r.givenFirst {
		return given + " " + surname
	}
	return surname + " " + given
}
