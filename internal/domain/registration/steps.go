package registration

import "strings"

// FieldErrors maps a draft field key to the message shown next to it.
type FieldErrors map[string]string

// StepDefinition describes one wizard step for one role. Validate returns the
// blocking field errors; Advisory lists fields the form marks as required but
// which do not block advancement.
type StepDefinition struct {
	Number   int
	Key      string
	Title    string
	Required []string
	Advisory []string
	validate func(d *Draft) FieldErrors
}

var providerSteps = []StepDefinition{
	{
		Number:   1,
		Key:      "account",
		Title:    "Account",
		Required: []string{"name", "email", "password", "confirm_password"},
		validate: validateIdentity,
	},
	{
		Number:   2,
		Key:      "profile",
		Title:    "Profile & Verification",
		Required: []string{"bio", "location", "resume", "kyc_doc_type", "kyc_file"},
		validate: validateProviderProfile,
	},
	{
		Number:   3,
		Key:      "skills",
		Title:    "Skills & Experience",
		Advisory: []string{"skills", "years_experience"},
	},
	{
		Number: 4,
		Key:    "portfolio",
		Title:  "Portfolio",
	},
	{
		Number: 5,
		Key:    "certifications",
		Title:  "Certifications",
	},
	{
		Number: 6,
		Key:    "review",
		Title:  "Review",
	},
}

var customerSteps = []StepDefinition{
	{
		Number:   1,
		Key:      "account",
		Title:    "Account",
		Required: []string{"name", "email", "password", "confirm_password"},
		validate: validateIdentity,
	},
	{
		Number:   2,
		Key:      "company",
		Title:    "Company",
		Required: []string{"company_name", "location", "industry"},
		validate: validateCustomerProfile,
	},
	{
		Number: 3,
		Key:    "review",
		Title:  "Review",
	},
}

// Steps returns the step table of a role; nil while the role is unset.
func Steps(role Role) []StepDefinition {
	switch role {
	case RoleProvider:
		return providerSteps
	case RoleCustomer:
		return customerSteps
	}
	return nil
}

func TotalSteps(role Role) int {
	return len(Steps(role))
}

func Step(role Role, number int) (StepDefinition, bool) {
	steps := Steps(role)
	if number < 1 || number > len(steps) {
		return StepDefinition{}, false
	}
	return steps[number-1], true
}

// ValidateStep returns the blocking errors of one step. It never mutates the
// draft; a missing role, step or profile counts as a failure.
func ValidateStep(role Role, number int, d *Draft) FieldErrors {
	def, ok := Step(role, number)
	if !ok {
		return FieldErrors{"step": "Unknown step"}
	}
	if d == nil {
		return FieldErrors{"draft": "Nothing entered yet"}
	}
	if def.validate == nil {
		return nil
	}
	errs := def.validate(d)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func IsStepComplete(role Role, number int, d *Draft) bool {
	return len(ValidateStep(role, number, d)) == 0
}

// AdvisoryGaps lists the advisory fields of a step that are still empty.
func AdvisoryGaps(role Role, number int, d *Draft) []string {
	def, ok := Step(role, number)
	if !ok || d == nil || len(def.Advisory) == 0 {
		return nil
	}
	p := d.Provider()
	if p == nil {
		return nil
	}
	var gaps []string
	for _, field := range def.Advisory {
		switch field {
		case "skills":
			if len(p.Skills) == 0 {
				gaps = append(gaps, field)
			}
		case "years_experience":
			if blank(p.YearsExperience) {
				gaps = append(gaps, field)
			}
		}
	}
	return gaps
}

func validateIdentity(d *Draft) FieldErrors {
	errs := FieldErrors{}
	id := d.Identity
	if blank(id.Name) {
		errs["name"] = "Name is required"
	}
	if blank(id.Email) {
		errs["email"] = "Email is required"
	}
	switch {
	case id.Password == "":
		errs["password"] = "Password is required"
	case !PasswordStrong(id.Password):
		errs["password"] = "Password must be at least 8 characters and include upper and lower case letters, a number and a symbol"
	}
	switch {
	case id.ConfirmPassword == "":
		errs["confirm_password"] = "Please confirm your password"
	case id.Password != id.ConfirmPassword:
		errs["confirm_password"] = "Passwords do not match"
	}
	return errs
}

func validateProviderProfile(d *Draft) FieldErrors {
	p := d.Provider()
	if p == nil {
		return FieldErrors{"profile": "Provider profile is missing"}
	}
	errs := FieldErrors{}
	if blank(p.Bio) {
		errs["bio"] = "Tell clients about yourself"
	}
	if blank(p.Location) {
		errs["location"] = "Location is required"
	}
	if !d.ResumeFile.Present() {
		errs["resume"] = "Upload your resume"
	}
	if blank(d.KYCDocType) {
		errs["kyc_doc_type"] = "Choose a document type"
	}
	if !d.KYCFile.Present() {
		errs["kyc_file"] = "Upload your identity document"
	}
	return errs
}

func validateCustomerProfile(d *Draft) FieldErrors {
	c := d.Customer()
	if c == nil {
		return FieldErrors{"profile": "Company profile is missing"}
	}
	errs := FieldErrors{}
	if blank(c.CompanyName) {
		errs["company_name"] = "Company name is required"
	}
	if blank(c.Location) {
		errs["location"] = "Location is required"
	}
	if blank(c.Industry) {
		errs["industry"] = "Industry is required"
	}
	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
