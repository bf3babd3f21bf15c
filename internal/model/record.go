package model

// Gender selects the given-name table for a pass.
type Gender int

const (
	// GenderUnspecified lets the synthesizer pick male or female with equal odds.
	GenderUnspecified Gender = iota
	GenderMale
	GenderFemale
)

// String returns "male", "female" or "random".
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "random"
	}
}

// ParseGender maps a settings value to a Gender. Anything other than
// "male" or "female" is treated as no preference.
func ParseGender(s string) Gender {
	switch s {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	default:
		return GenderUnspecified
	}
}

// PersonName holds one surname and one given name in every script.
// All eight fields describe the same person.
type PersonName struct {
	SurnameKanji      string `json:"surname_kanji"`
	GivenNameKanji    string `json:"given_name_kanji"`
	SurnameHiragana   string `json:"surname_hiragana"`
	GivenNameHiragana string `json:"given_name_hiragana"`
	SurnameKatakana   string `json:"surname_katakana"`
	GivenNameKatakana string `json:"given_name_katakana"`
	SurnameRomaji     string `json:"surname_romaji"`
	GivenNameRomaji   string `json:"given_name_romaji"`
}

// Address is a Japanese postal address.
type Address struct {
	// PostalCode is formatted NNN-NNNN.
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Town       string `json:"town"`
	// BlockNumber is formatted N-NN-NN (chome-ban-go).
	BlockNumber string `json:"block_number"`
	// Full is "〒{postal} {prefecture}{city}{town}{block}".
	Full string `json:"full"`
}

// Street returns the town followed by the block number.
func (a Address) Street() string {
	return a.Town + a.BlockNumber
}

// SyntheticRecord is one coherent fake identity used for every control
// of a single fill pass. It is never cached across passes.
type SyntheticRecord struct {
	Name    PersonName `json:"name"`
	Address Address    `json:"address"`
	// Phone is a mobile number formatted 0N0-NNNN-NNNN.
	Phone string `json:"phone"`
	// Landline is formatted {area}-NNNN-NNNN.
	Landline    string `json:"landline"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	// DateOfBirth is an ISO date (YYYY-MM-DD).
	DateOfBirth string `json:"date_of_birth"`
	Gender      Gender `json:"-"`
}

// JobPostingFacts is the bundle used on job posting pages.
type JobPostingFacts struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Skills         string `json:"skills"`
	Qualifications string `json:"qualifications"`
	WorkingHours   string `json:"working_hours"`
	Comment        string `json:"comment"`
}

// Get returns the fact that corresponds to a job posting field.
func (j JobPostingFacts) Get(field JobField) (string, bool) {
	switch field {
	case JobFieldTitle:
		return j.Title, true
	case JobFieldDescription:
		return j.Description, true
	case JobFieldSkills:
		return j.Skills, true
	case JobFieldQualifications:
		return j.Qualifications, true
	case JobFieldWorkingHours:
		return j.WorkingHours, true
	case JobFieldComment:
		return j.Comment, true
	default:
		return "", false
	}
}
