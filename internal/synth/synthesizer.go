package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/jpfill/internal/lexicon"
	"github.com/nao1215/jpfill/internal/model"
)

const (
	minAge = 20
	maxAge = 70
	// maxDay avoids month-length edge cases.
	maxDay = 28
)

// Synthesizer produces synthetic records from the lexicon tables.
type Synthesizer struct {
	src       Source
	now       func() time.Time
	companies []string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithClock sets the clock used to compute birth years.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		s.now = now
	}
}

// WithCompanies replaces the company table. An empty list keeps the default.
func WithCompanies(companies []string) Option {
	return func(s *Synthesizer) {
		if len(companies) > 0 {
			s.companies = companies
		}
	}
}

// New creates a Synthesizer drawing from src.
func New(src Source, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		src:       src,
		now:       time.Now,
		companies: lexicon.Companies,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the random source shared with the writers.
func (s *Synthesizer) Source() Source {
	return s.src
}

// Synthesize generates one coherent identity. GenderUnspecified picks the
// male or female given-name table with equal probability.
func (s *Synthesizer) Synthesize(gender model.Gender) model.SyntheticRecord {
	if gender == model.GenderUnspecified {
		if s.src.Bool() {
			gender = model.GenderMale
		} else {
			gender = model.GenderFemale
		}
	}

	name := s.name(gender)
	return model.SyntheticRecord{
		Name:        name,
		Address:     s.address(),
		Phone:       s.MobilePhone(),
		Landline:    s.Landline(),
		Email:       s.Email(&name),
		CompanyName: Pick(s.src, s.companies),
		DateOfBirth: s.dateOfBirth(),
		Gender:      gender,
	}
}

func (s *Synthesizer) name(gender model.Gender) model.PersonName {
	surname := Pick(s.src, lexicon.Surnames)
	table := lexicon.MaleGivenNames
	if gender == model.GenderFemale {
		table = lexicon.FemaleGivenNames
	}
	given := Pick(s.src, table)

	return model.PersonName{
		SurnameKanji:      surname.Kanji,
		GivenNameKanji:    given.Kanji,
		SurnameHiragana:   surname.Hiragana,
		GivenNameHiragana: given.Hiragana,
		SurnameKatakana:   surname.Katakana,
		GivenNameKatakana: given.Katakana,
		SurnameRomaji:     surname.Romaji,
		GivenNameRomaji:   given.Romaji,
	}
}

func (s *Synthesizer) address() model.Address {
	prefecture := Pick(s.src, lexicon.Prefectures)
	city := Pick(s.src, lexicon.CitiesOf(prefecture))
	town := Pick(s.src, lexicon.Towns)
	postal := fmt.Sprintf("%d-%d", s.src.IntRange(100, 999), s.src.IntRange(1000, 9999))
	block := fmt.Sprintf("%d-%d-%d", s.src.IntRange(1, 9), s.src.IntRange(1, 30), s.src.IntRange(1, 20))

	return model.Address{
		PostalCode:  postal,
		Prefecture:  prefecture,
		City:        city,
		Town:        town,
		BlockNumber: block,
		Full:        fmt.Sprintf("〒%s %s%s%s%s", postal, prefecture, city, town, block),
	}
}

// MobilePhone returns a number formatted 0N0-NNNN-NNNN.
func (s *Synthesizer) MobilePhone() string {
	return fmt.Sprintf("%s-%d-%d", Pick(s.src, lexicon.MobilePrefixes), s.src.IntRange(1000, 9999), s.src.IntRange(1000, 9999))
}

// Landline returns a number formatted {area}-NNNN-NNNN.
func (s *Synthesizer) Landline() string {
	return fmt.Sprintf("%s-%d-%d", Pick(s.src, lexicon.LandlineAreaCodes), s.src.IntRange(1000, 9999), s.src.IntRange(1000, 9999))
}

// Email derives an address from the romaji name. Without a name it falls
// back to user{NNNN}@{domain}.
func (s *Synthesizer) Email(name *model.PersonName) string {
	domain := Pick(s.src, lexicon.EmailDomains)
	if name == nil || name.GivenNameRomaji == "" || name.SurnameRomaji == "" {
		return fmt.Sprintf("user%d@%s", s.src.IntRange(1000, 9999), domain)
	}
	return strings.ToLower(name.GivenNameRomaji) + "." + strings.ToLower(name.SurnameRomaji) + "@" + domain
}

func (s *Synthesizer) dateOfBirth() string {
	year := s.now().Year() - s.src.IntRange(minAge, maxAge)
	month := s.src.IntRange(1, 12)
	day := s.src.IntRange(1, maxDay)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// SynthesizeJobPosting draws one template per job posting category.
func (s *Synthesizer) SynthesizeJobPosting() model.JobPostingFacts {
	return model.JobPostingFacts{
		Title:          Pick(s.src, lexicon.JobTitles),
		Description:    Pick(s.src, lexicon.JobDescriptions),
		Skills:         Pick(s.src, lexicon.JobSkills),
		Qualifications: Pick(s.src, lexicon.JobQualifications),
		WorkingHours:   Pick(s.src, lexicon.JobWorkingHours),
		Comment:        Pick(s.src, lexicon.JobComments),
	}
}
