package profile

import (
	"math"
	"strconv"
	"strings"
)

// Profile holds the user's answers to common application questions. It is
// built once from configuration and never mutated during a run.
type Profile struct {
	FirstName  string `mapstructure:"first-name"`
	MiddleName string `mapstructure:"middle-name"`
	LastName   string `mapstructure:"last-name"`

	PhoneNumber string `mapstructure:"phone-number"`
	Email       string `mapstructure:"email"`

	CurrentCity string `mapstructure:"current-city"`
	Street      string `mapstructure:"street"`
	State       string `mapstructure:"state"`
	Zipcode     string `mapstructure:"zipcode"`
	Country     string `mapstructure:"country"`

	// Equal opportunity answers. Empty values leave the question to the
	// fallback logic.
	Ethnicity        string `mapstructure:"ethnicity"`
	Gender           string `mapstructure:"gender"`
	DisabilityStatus string `mapstructure:"disability-status"`
	VeteranStatus    string `mapstructure:"veteran-status"`
	Citizenship      string `mapstructure:"citizenship"`
	RequireVisa      string `mapstructure:"require-visa"`

	YearsOfExperience string `mapstructure:"years-of-experience"`
	NoticePeriodDays  int    `mapstructure:"notice-period-days"`
	CurrentCTC        int    `mapstructure:"current-ctc"`
	DesiredSalary     int    `mapstructure:"desired-salary"`
	RecentEmployer    string `mapstructure:"recent-employer"`
	ConfidenceLevel   string `mapstructure:"confidence-level"`

	LinkedIn    string `mapstructure:"linkedin"`
	Website     string `mapstructure:"website"`
	Headline    string `mapstructure:"headline"`
	Summary     string `mapstructure:"summary"`
	CoverLetter string `mapstructure:"cover-letter"`
	Bio         string `mapstructure:"bio"`

	ResumePath string `mapstructure:"resume-path"`
}

// Normalize trims whitespace from the name and city fields.
func (p *Profile) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.MiddleName = strings.TrimSpace(p.MiddleName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.CurrentCity = strings.TrimSpace(p.CurrentCity)
}

// FullName joins the legal name parts, skipping an absent middle name.
func (p *Profile) FullName() string {
	if p.MiddleName != "" {
		return p.FirstName + " " + p.MiddleName + " " + p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// CurrentCTCLakhs returns the current annual compensation expressed in lakhs,
// rounded to two decimals.
func (p *Profile) CurrentCTCLakhs() string {
	return formatRounded(float64(p.CurrentCTC) / 100000)
}

// CurrentCTCMonthly returns the current compensation per month, rounded to
// two decimals.
func (p *Profile) CurrentCTCMonthly() string {
	return formatRounded(float64(p.CurrentCTC) / 12)
}

// DesiredSalaryLakhs returns the desired annual salary expressed in lakhs.
func (p *Profile) DesiredSalaryLakhs() string {
	return formatRounded(float64(p.DesiredSalary) / 100000)
}

// DesiredSalaryMonthly returns the desired salary per month.
func (p *Profile) DesiredSalaryMonthly() string {
	return formatRounded(float64(p.DesiredSalary) / 12)
}

// NoticePeriodMonths returns the notice period in whole months.
func (p *Profile) NoticePeriodMonths() string {
	return strconv.Itoa(p.NoticePeriodDays / 30)
}

// NoticePeriodWeeks returns the notice period in whole weeks.
func (p *Profile) NoticePeriodWeeks() string {
	return strconv.Itoa(p.NoticePeriodDays / 7)
}

// NoticePeriod returns the notice period in days.
func (p *Profile) NoticePeriod() string {
	return strconv.Itoa(p.NoticePeriodDays)
}

// formatRounded renders a value rounded to two decimals, always keeping at
// least one fractional digit ("15.0", not "15").
func formatRounded(v float64) string {
	r := math.Round(v*100) / 100
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
