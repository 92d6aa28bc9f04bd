package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// DateLayout is the accepted format for from/to dates in requests.
const DateLayout = "2006-01-02"

// Profile is a user's developer profile. Experience and education are stored newest first.
type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"-"`
	User           ProfileOwner `json:"user"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Bio            string       `json:"bio,omitempty"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"date"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ProfileOwner is the public part of the user that owns a profile.
type ProfileOwner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Social holds optional links to the owner's social accounts.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is a job entry on a profile.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a school entry on a profile.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// ProfileRequest creates or updates the caller's profile. Skills is a comma-separated list.
type ProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (r ProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required.Error("Status is required")),
		validation.Field(&r.Skills, validation.Required.Error("Skills is required")),
		validation.Field(&r.Website, is.URL.Error("Website must be a valid URL")),
		validation.Field(&r.YouTube, is.URL.Error("YouTube must be a valid URL")),
		validation.Field(&r.Twitter, is.URL.Error("Twitter must be a valid URL")),
		validation.Field(&r.Facebook, is.URL.Error("Facebook must be a valid URL")),
		validation.Field(&r.LinkedIn, is.URL.Error("LinkedIn must be a valid URL")),
		validation.Field(&r.Instagram, is.URL.Error("Instagram must be a valid URL")),
	)
}

// SkillList splits Skills on commas, trimming blanks.
func (r ProfileRequest) SkillList() []string {
	var skills []string
	for _, s := range strings.Split(r.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// ApplyTo copies the request fields onto p. Experience and education are left untouched.
func (r ProfileRequest) ApplyTo(p *Profile) {
	p.Company = strings.TrimSpace(r.Company)
	p.Website = strings.TrimSpace(r.Website)
	p.Location = strings.TrimSpace(r.Location)
	p.Status = strings.TrimSpace(r.Status)
	p.Skills = r.SkillList()
	p.Bio = strings.TrimSpace(r.Bio)
	p.GitHubUsername = strings.TrimSpace(r.GitHubUsername)
	p.Social = Social{
		YouTube:   strings.TrimSpace(r.YouTube),
		Twitter:   strings.TrimSpace(r.Twitter),
		Facebook:  strings.TrimSpace(r.Facebook),
		LinkedIn:  strings.TrimSpace(r.LinkedIn),
		Instagram: strings.TrimSpace(r.Instagram),
	}
}

// ExperienceRequest adds a job entry. Dates use DateLayout.
type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r ExperienceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title is required")),
		validation.Field(&r.Company, validation.Required.Error("Company is required")),
		validation.Field(&r.From,
			validation.Required.Error("From date is required"),
			validation.Date(DateLayout).Error("From date must be formatted as YYYY-MM-DD"),
		),
		validation.Field(&r.To,
			validation.Date(DateLayout).Error("To date must be formatted as YYYY-MM-DD"),
			validation.By(notBefore(r.From)),
		),
	)
}

// ToExperience converts a validated request into an Experience with the given id.
func (r ExperienceRequest) ToExperience(id string) (Experience, error) {
	from, to, err := parsePeriod(r.From, r.To, r.Current)
	if err != nil {
		return Experience{}, err
	}
	return Experience{
		ID:          id,
		Title:       strings.TrimSpace(r.Title),
		Company:     strings.TrimSpace(r.Company),
		Location:    strings.TrimSpace(r.Location),
		From:        from,
		To:          to,
		Current:     r.Current,
		Description: strings.TrimSpace(r.Description),
	}, nil
}

// EducationRequest adds a school entry. Dates use DateLayout.
type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r EducationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.School, validation.Required.Error("School is required")),
		validation.Field(&r.Degree, validation.Required.Error("Degree is required")),
		validation.Field(&r.FieldOfStudy, validation.Required.Error("Field of study is required")),
		validation.Field(&r.From,
			validation.Required.Error("From date is required"),
			validation.Date(DateLayout).Error("From date must be formatted as YYYY-MM-DD"),
		),
		validation.Field(&r.To,
			validation.Date(DateLayout).Error("To date must be formatted as YYYY-MM-DD"),
			validation.By(notBefore(r.From)),
		),
	)
}

// ToEducation converts a validated request into an Education with the given id.
func (r EducationRequest) ToEducation(id string) (Education, error) {
	from, to, err := parsePeriod(r.From, r.To, r.Current)
	if err != nil {
		return Education{}, err
	}
	return Education{
		ID:           id,
		School:       strings.TrimSpace(r.School),
		Degree:       strings.TrimSpace(r.Degree),
		FieldOfStudy: strings.TrimSpace(r.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      r.Current,
		Description:  strings.TrimSpace(r.Description),
	}, nil
}

// notBefore rejects a to-date earlier than from. Unparseable dates are left to the Date rule.
func notBefore(from string) validation.RuleFunc {
	return func(value interface{}) error {
		to, _ := value.(string)
		if to == "" || from == "" {
			return nil
		}
		f, errF := time.Parse(DateLayout, from)
		t, errT := time.Parse(DateLayout, to)
		if errF != nil || errT != nil {
			return nil
		}
		if t.Before(f) {
			return errors.New("To date must not be before from date")
		}
		return nil
	}
}

// parsePeriod drops the to-date for current positions.
func parsePeriod(fromStr, toStr string, current bool) (time.Time, *time.Time, error) {
	from, err := time.Parse(DateLayout, fromStr)
	if err != nil {
		return time.Time{}, nil, err
	}
	if current || toStr == "" {
		return from, nil, nil
	}
	to, err := time.Parse(DateLayout, toStr)
	if err != nil {
		return time.Time{}, nil, err
	}
	return from, &to, nil
}
