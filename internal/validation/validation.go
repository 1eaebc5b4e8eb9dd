// Package validation checks request bodies field by field.
//
// Every validator returns a map of field name → message, empty when the
// input is acceptable. The whole map is built before returning so a client
// gets every problem with its form in one response instead of fixing them
// one submit at a time. Services wrap a non-empty map with
// apperror.ValidationMap.
//
// The input structs double as the JSON request shapes — handlers decode
// straight into them.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// Field length bounds. The post text bounds are deliberately tight — the
// feed is for short status updates, not articles.
const (
	MinNameLength     = 2
	MaxNameLength     = 30
	MinPasswordLength = 6
	MaxPasswordLength = 30
	MinHandleLength   = 2
	MaxHandleLength   = 40
	MinPostLength     = 10
	MaxPostLength     = 300
)

// RegisterInput is the body of POST /api/users/register.
type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Register validates a registration body.
func Register(in RegisterInput) map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "name is required"
	case len(name) < MinNameLength || len(name) > MaxNameLength:
		errs["name"] = fmt.Sprintf("name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}

	checkEmail(errs, in.Email)

	switch {
	case in.Password == "":
		errs["password"] = "password is required"
	case len(in.Password) < MinPasswordLength || len(in.Password) > MaxPasswordLength:
		errs["password"] = fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}

	switch {
	case in.Password2 == "":
		errs["password2"] = "confirm password is required"
	case in.Password != "" && in.Password != in.Password2:
		errs["password2"] = "passwords must match"
	}

	return errs
}

// LoginInput is the body of POST /api/users/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates a login body. Only shape is checked here — whether the
// credentials are right is the service's concern.
func Login(in LoginInput) map[string]string {
	errs := make(map[string]string)
	checkEmail(errs, in.Email)
	if in.Password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

// ProfileInput is the body of POST /api/profile. All social links and
// descriptive fields are optional; handle, status and skills are not.
// Skills is a single comma-separated string, as the SPA's form sends it.
type ProfileInput struct {
	Handle         string `json:"handle"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// Profile validates a profile upsert body.
func Profile(in ProfileInput) map[string]string {
	errs := make(map[string]string)

	handle := strings.TrimSpace(in.Handle)
	switch {
	case handle == "":
		errs["handle"] = "profile handle is required"
	case len(handle) < MinHandleLength || len(handle) > MaxHandleLength:
		errs["handle"] = fmt.Sprintf("handle must be between %d and %d characters", MinHandleLength, MaxHandleLength)
	}

	if strings.TrimSpace(in.Status) == "" {
		errs["status"] = "status is required"
	}
	if strings.TrimSpace(in.Skills) == "" {
		errs["skills"] = "skills is required"
	}

	checkURL(errs, "website", in.Website)
	checkURL(errs, "youtube", in.YouTube)
	checkURL(errs, "twitter", in.Twitter)
	checkURL(errs, "facebook", in.Facebook)
	checkURL(errs, "linkedin", in.LinkedIn)
	checkURL(errs, "instagram", in.Instagram)

	return errs
}

// ExperienceInput is the body of POST /api/profile/experience.
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Experience validates a new experience entry.
func Experience(in ExperienceInput) map[string]string {
	errs := make(map[string]string)
	requireField(errs, "title", in.Title, "job title is required")
	requireField(errs, "company", in.Company, "company is required")
	requireField(errs, "from", in.From, "from date is required")
	return errs
}

// EducationInput is the body of POST /api/profile/education.
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// Education validates a new education entry.
func Education(in EducationInput) map[string]string {
	errs := make(map[string]string)
	requireField(errs, "school", in.School, "school is required")
	requireField(errs, "degree", in.Degree, "degree is required")
	requireField(errs, "fieldofstudy", in.FieldOfStudy, "field of study is required")
	requireField(errs, "from", in.From, "from date is required")
	return errs
}

// Post validates post and comment text.
func Post(text string) map[string]string {
	errs := make(map[string]string)
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		errs["text"] = "text is required"
	case len(trimmed) < MinPostLength || len(trimmed) > MaxPostLength:
		errs["text"] = fmt.Sprintf("text must be between %d and %d characters", MinPostLength, MaxPostLength)
	}
	return errs
}

// SplitSkills turns the comma-separated skills string into a trimmed list,
// dropping empty segments ("go, , sql" → ["go","sql"]).
func SplitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func requireField(errs map[string]string, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = message
	}
}

func checkEmail(errs map[string]string, email string) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		errs["email"] = "email is required"
		return
	}
	// mail.ParseAddress accepts "Name <addr>" forms; requiring the parsed
	// address to round-trip to the input keeps it to a bare address.
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		errs["email"] = "email is invalid"
	}
}

func checkURL(errs map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		return // optional
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs[field] = "not a valid URL"
	}
}
