package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
)

// User is an artist or company profile. Both kinds share this shape;
// UserCategoryType tells them apart for presentation.
type User struct {
	UserID           string    `json:"userId" dynamodbav:"userId"`
	FullName         string    `json:"fullName" dynamodbav:"fullName"`
	EmailID          string    `json:"emailId" dynamodbav:"emailId"`
	Address          string    `json:"address" dynamodbav:"address"`
	PhoneNumber      string    `json:"phoneNumber" dynamodbav:"phoneNumber"`
	UserCategory     string    `json:"userCategory" dynamodbav:"userCategory"`
	UserCategoryType string    `json:"userCategoryType" dynamodbav:"userCategoryType"`
	ProfileImage     string    `json:"profileImage" dynamodbav:"profileImage"`
	CoverImage       string    `json:"coverImage" dynamodbav:"coverImage"`
	ResumeURL        string    `json:"resumeUrl" dynamodbav:"resumeUrl"`
	City             string    `json:"city" dynamodbav:"city"`
	Country          string    `json:"country" dynamodbav:"country"`
	Location         string    `json:"location" dynamodbav:"location"`
	Website          string    `json:"website" dynamodbav:"website"`
	Youtube          string    `json:"youtube" dynamodbav:"youtube"`
	Linkedin         string    `json:"linkedin" dynamodbav:"linkedin"`
	Instagram        string    `json:"instagram" dynamodbav:"instagram"`
	About            string    `json:"about" dynamodbav:"about"`
	AgencyName       string    `json:"agencyName" dynamodbav:"agencyName"`
	AboutAgency      string    `json:"aboutAgency" dynamodbav:"aboutAgency"`
	AgencyAddress    string    `json:"agencyAddress" dynamodbav:"agencyAddress"`
	AgencyPhone      string    `json:"agencyPhone" dynamodbav:"agencyPhone"`
	AgencyWebsite    string    `json:"agencyWebsite" dynamodbav:"agencyWebsite"`
	EstablishedYear  string    `json:"establishedYear" dynamodbav:"establishedYear"`
	Version          int64     `json:"version" dynamodbav:"version"`
	UpdatedAt        time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// userFields maps every editable attribute name to its field in User.
var userFields = map[string]func(u *User) *string{
	"fullName":         func(u *User) *string { return &u.FullName },
	"emailId":          func(u *User) *string { return &u.EmailID },
	"address":          func(u *User) *string { return &u.Address },
	"phoneNumber":      func(u *User) *string { return &u.PhoneNumber },
	"userCategory":     func(u *User) *string { return &u.UserCategory },
	"userCategoryType": func(u *User) *string { return &u.UserCategoryType },
	"profileImage":     func(u *User) *string { return &u.ProfileImage },
	"coverImage":       func(u *User) *string { return &u.CoverImage },
	"resumeUrl":        func(u *User) *string { return &u.ResumeURL },
	"city":             func(u *User) *string { return &u.City },
	"country":          func(u *User) *string { return &u.Country },
	"location":         func(u *User) *string { return &u.Location },
	"website":          func(u *User) *string { return &u.Website },
	"youtube":          func(u *User) *string { return &u.Youtube },
	"linkedin":         func(u *User) *string { return &u.Linkedin },
	"instagram":        func(u *User) *string { return &u.Instagram },
	"about":            func(u *User) *string { return &u.About },
	"agencyName":       func(u *User) *string { return &u.AgencyName },
	"aboutAgency":      func(u *User) *string { return &u.AboutAgency },
	"agencyAddress":    func(u *User) *string { return &u.AgencyAddress },
	"agencyPhone":      func(u *User) *string { return &u.AgencyPhone },
	"agencyWebsite":    func(u *User) *string { return &u.AgencyWebsite },
	"establishedYear":  func(u *User) *string { return &u.EstablishedYear },
}

// IsUserField reports whether name is an editable profile attribute.
func IsUserField(name string) bool {
	_, ok := userFields[name]
	return ok
}

// UserFieldNames lists the editable profile attributes in sorted order.
func UserFieldNames() []string {
	names := make([]string, 0, len(userFields))
	for n := range userFields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UserPatch is an explicit set of profile fields to write. Fields missing
// from the map are left untouched; a present empty string clears the field.
type UserPatch struct {
	UserID          string
	Fields          map[string]string
	ExpectedVersion *int64
}

// Validate checks the user id and that every field is editable.
func (p UserPatch) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("%w: userId is required", common.ErrValidation)
	}
	for name := range p.Fields {
		if !IsUserField(name) {
			return fmt.Errorf("%w: unknown profile field %q", common.ErrValidation, name)
		}
	}
	return nil
}

// Apply writes the patch fields onto u. Unknown names are ignored.
func (p UserPatch) Apply(u *User) {
	for name, v := range p.Fields {
		if field, ok := userFields[name]; ok {
			*field(u) = v
		}
	}
}

// Get returns the value of the named profile attribute.
func (u *User) Get(name string) (string, bool) {
	field, ok := userFields[name]
	if !ok {
		return "", false
	}
	return *field(u), true
}
