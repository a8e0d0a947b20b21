package rest

import (
	"reflect"
	"strings"
	"sync"

	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type createJobRequest struct {
	PostedDate   string         `json:"postedDate" binding:"omitempty,isodate"`
	Title        string         `json:"title" binding:"required,max=200"`
	Company      string         `json:"company"`
	CompanyLogo  string         `json:"companyLogo"`
	Location     string         `json:"location"`
	Type         string         `json:"type"`
	Category     string         `json:"category"`
	Salary       string         `json:"salary"`
	Deadline     string         `json:"deadline"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	Featured     bool           `json:"featured"`
	Extra        map[string]any `json:"extra"`
}

func (r createJobRequest) job() *models.Job {
	return &models.Job{
		PostedDate:   r.PostedDate,
		Title:        r.Title,
		Company:      r.Company,
		CompanyLogo:  r.CompanyLogo,
		Location:     r.Location,
		Type:         r.Type,
		Category:     r.Category,
		Salary:       r.Salary,
		Deadline:     r.Deadline,
		Description:  r.Description,
		Requirements: r.Requirements,
		Featured:     r.Featured,
		Extra:        r.Extra,
	}
}

// editJobRequest locates the job by path id plus postedDate. Fields left out
// of the body stay as they are.
type editJobRequest struct {
	PostedDate      string         `json:"postedDate" binding:"required,isodate"`
	ExpectedVersion *int64         `json:"expectedVersion"`
	Title           *string        `json:"title" binding:"omitempty,max=200"`
	Company         *string        `json:"company"`
	CompanyLogo     *string        `json:"companyLogo"`
	Location        *string        `json:"location"`
	Type            *string        `json:"type"`
	Category        *string        `json:"category"`
	Salary          *string        `json:"salary"`
	Deadline        *string        `json:"deadline"`
	Description     *string        `json:"description"`
	Requirements    *[]string      `json:"requirements"`
	Featured        *bool          `json:"featured"`
	Extra           map[string]any `json:"extra"`
}

func (r editJobRequest) patch() models.JobPatch {
	return models.JobPatch{
		Title:           r.Title,
		Company:         r.Company,
		CompanyLogo:     r.CompanyLogo,
		Location:        r.Location,
		Type:            r.Type,
		Category:        r.Category,
		Salary:          r.Salary,
		Deadline:        r.Deadline,
		Description:     r.Description,
		Requirements:    r.Requirements,
		Featured:        r.Featured,
		Extra:           r.Extra,
		ExpectedVersion: r.ExpectedVersion,
	}
}

type dateRangeQuery struct {
	Start string `form:"start" binding:"required,isodate"`
	End   string `form:"end" binding:"required,isodate"`
}

type uploadRequest struct {
	File        string `json:"file" binding:"required"`
	Folder      string `json:"folder" binding:"required"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

var registerOnce sync.Once

// registerValidators installs the isodate tag and JSON field names on gin's
// validator.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := models.ParseDate(fl.Field().String())
			return err == nil
		})
	})
}
