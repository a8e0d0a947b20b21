// Package models defines the records persisted by the job service and the
// explicit patch types used to update them.
package models

import (
	"fmt"
	"maps"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/artistkatta/jobservice/internal/common"
)

// Job is a job or gig posting. (JobID, PostedDate) is the record key;
// neither changes after creation.
type Job struct {
	JobID        string         `json:"jobId" dynamodbav:"jobId"`
	PostedDate   string         `json:"postedDate" dynamodbav:"postedDate"`
	Title        string         `json:"title" dynamodbav:"title"`
	Company      string         `json:"company,omitempty" dynamodbav:"company,omitempty"`
	CompanyLogo  string         `json:"companyLogo,omitempty" dynamodbav:"companyLogo,omitempty"`
	Location     string         `json:"location,omitempty" dynamodbav:"location,omitempty"`
	Type         string         `json:"type,omitempty" dynamodbav:"type,omitempty"`
	Category     string         `json:"category,omitempty" dynamodbav:"category,omitempty"`
	Salary       string         `json:"salary,omitempty" dynamodbav:"salary,omitempty"`
	Deadline     string         `json:"deadline,omitempty" dynamodbav:"deadline,omitempty"`
	Description  string         `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Requirements []string       `json:"requirements,omitempty" dynamodbav:"requirements,omitempty"`
	Featured     bool           `json:"featured,omitempty" dynamodbav:"featured,omitempty"`
	Extra        map[string]any `json:"extra,omitempty" dynamodbav:"extra,omitempty"`
	Version      int64          `json:"version" dynamodbav:"version"`
	CreatedAt    time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt" dynamodbav:"updatedAt"`
}

// JobPatch is an explicit set of job fields to change. A nil field is left
// untouched; a non-nil field is written even when it holds a zero value.
type JobPatch struct {
	Title        *string
	Company      *string
	CompanyLogo  *string
	Location     *string
	Type         *string
	Category     *string
	Salary       *string
	Deadline     *string
	Description  *string
	Requirements *[]string
	Featured     *bool
	Extra        map[string]any

	// ExpectedVersion, when set, makes the update fail with
	// common.ErrVersionConflict unless the stored version matches.
	ExpectedVersion *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p JobPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the attribute name to value map of the fields set in p.
// Names match the JSON and DynamoDB attribute names of Job.
func (p JobPatch) Fields() map[string]any {
	out := map[string]any{}
	setString := func(name string, v *string) {
		if v != nil {
			out[name] = *v
		}
	}
	setString("title", p.Title)
	setString("company", p.Company)
	setString("companyLogo", p.CompanyLogo)
	setString("location", p.Location)
	setString("type", p.Type)
	setString("category", p.Category)
	setString("salary", p.Salary)
	setString("deadline", p.Deadline)
	setString("description", p.Description)
	if p.Requirements != nil {
		out["requirements"] = *p.Requirements
	}
	if p.Featured != nil {
		out["featured"] = *p.Featured
	}
	if p.Extra != nil {
		out["extra"] = p.Extra
	}
	return out
}

// Apply writes the fields set in p onto j. Keys are never touched.
func (p JobPatch) Apply(j *Job) {
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&j.Title, p.Title)
	apply(&j.Company, p.Company)
	apply(&j.CompanyLogo, p.CompanyLogo)
	apply(&j.Location, p.Location)
	apply(&j.Type, p.Type)
	apply(&j.Category, p.Category)
	apply(&j.Salary, p.Salary)
	apply(&j.Deadline, p.Deadline)
	apply(&j.Description, p.Description)
	if p.Requirements != nil {
		j.Requirements = append([]string(nil), (*p.Requirements)...)
	}
	if p.Featured != nil {
		j.Featured = *p.Featured
	}
	if p.Extra != nil {
		j.Extra = maps.Clone(p.Extra)
	}
}

// Validate checks the fields set in p.
func (p JobPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be blank", common.ErrValidation)
	}
	if p.Title != nil && utf8.RuneCountInString(*p.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title is longer than %d characters", common.ErrValidation, MaxTitleLength)
	}
	return nil
}

// MaxTitleLength bounds job titles, counted in characters.
const MaxTitleLength = 200

// Validate checks a job about to be created.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if utf8.RuneCountInString(j.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title is longer than %d characters", common.ErrValidation, MaxTitleLength)
	}
	if _, err := ParseDate(j.PostedDate); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep enough copy of j for handing out of a store.
func (j *Job) Clone() *Job {
	c := *j
	if j.Requirements != nil {
		c.Requirements = append([]string(nil), j.Requirements...)
	}
	if j.Extra != nil {
		c.Extra = make(map[string]any, len(j.Extra))
		for k, v := range j.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}
