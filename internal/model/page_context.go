package model

import "regexp"

// PageContext is a page-level signal that changes how some controls are
// interpreted. It is derived once per pass from the URL path.
type PageContext int

const (
	// PageDefault is an ordinary form page.
	PageDefault PageContext = iota
	// PageJobPosting is a job posting create/edit form.
	PageJobPosting
)

// String returns the name used in reports and logs.
func (p PageContext) String() string {
	switch p {
	case PageJobPosting:
		return "job-posting"
	default:
		return "default"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PageContext) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode
// to PageDefault.
func (p *PageContext) UnmarshalText(text []byte) error {
	if string(text) == "job-posting" {
		*p = PageJobPosting
	} else {
		*p = PageDefault
	}
	return nil
}

var jobPostingPathPattern = regexp.MustCompile(`(?i)/(job[-_]?postings?|jobs/(new|create|edit)|recruit(ments?)?/(new|create|edit))(/|$)`)

// DetectPageContext classifies a URL path. Only the path is inspected;
// query strings and fragments should already be stripped.
func DetectPageContext(path string) PageContext {
	if jobPostingPathPattern.MatchString(path) {
		return PageJobPosting
	}
	return PageDefault
}

// JobField is the job posting interpretation of a control.
type JobField int

const (
	// JobFieldNone means the control has no job posting meaning.
	JobFieldNone JobField = iota
	JobFieldTitle
	JobFieldDescription
	JobFieldSkills
	JobFieldQualifications
	JobFieldWorkingHours
	JobFieldComment
)

// String returns the name used in reports and logs.
func (j JobField) String() string {
	switch j {
	case JobFieldTitle:
		return "job-title"
	case JobFieldDescription:
		return "job-description"
	case JobFieldSkills:
		return "job-skills"
	case JobFieldQualifications:
		return "job-qualifications"
	case JobFieldWorkingHours:
		return "job-working-hours"
	case JobFieldComment:
		return "job-comment"
	default:
		return "none"
	}
}
