package registration

type SelectRoleRequest struct {
	Role string `json:"role" binding:"required" validate:"oneof=provider customer"`
}

type UpdateIdentityRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=120"`
	Email           *string `json:"email" validate:"omitempty,max=254"`
	Password        *string `json:"password" validate:"omitempty,max=128"`
	ConfirmPassword *string `json:"confirm_password" validate:"omitempty,max=128"`
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
}

func (r UpdateIdentityRequest) Patch() IdentityPatch {
	return IdentityPatch{
		Name:            r.Name,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Phone:           r.Phone,
	}
}

type UpdateProviderRequest struct {
	Bio             *string   `json:"bio" validate:"omitempty,max=4000"`
	Location        *string   `json:"location" validate:"omitempty,max=200"`
	Website         *string   `json:"website" validate:"omitempty,max=500"`
	HourlyRate      *string   `json:"hourly_rate" validate:"omitempty,max=32"`
	YearsExperience *string   `json:"years_experience" validate:"omitempty,max=8"`
	LinkedIn        *string   `json:"linkedin" validate:"omitempty,max=500"`
	GitHub          *string   `json:"github" validate:"omitempty,max=500"`
	Skills          *[]string `json:"skills" validate:"omitempty,max=100"`
	Languages       *[]string `json:"languages" validate:"omitempty,max=50"`
	PortfolioURLs   *[]string `json:"portfolio_urls" validate:"omitempty,max=50"`
	KYCDocType      *string   `json:"kyc_doc_type"`
}

func (r UpdateProviderRequest) Patch() ProviderPatch {
	return ProviderPatch{
		Bio:             r.Bio,
		Location:        r.Location,
		Website:         r.Website,
		HourlyRate:      r.HourlyRate,
		YearsExperience: r.YearsExperience,
		LinkedIn:        r.LinkedIn,
		GitHub:          r.GitHub,
		Skills:          r.Skills,
		Languages:       r.Languages,
		PortfolioURLs:   r.PortfolioURLs,
		KYCDocType:      r.KYCDocType,
	}
}

type UpdateCustomerRequest struct {
	CompanyName            *string   `json:"company_name" validate:"omitempty,max=200"`
	Industry               *string   `json:"industry" validate:"omitempty,max=120"`
	CompanySize            *string   `json:"company_size" validate:"omitempty,max=60"`
	Location               *string   `json:"location" validate:"omitempty,max=200"`
	Website                *string   `json:"website" validate:"omitempty,max=500"`
	Description            *string   `json:"description" validate:"omitempty,max=4000"`
	EmployeeCount          *string   `json:"employee_count" validate:"omitempty,max=16"`
	EstablishedYear        *string   `json:"established_year" validate:"omitempty,max=8"`
	AnnualRevenue          *string   `json:"annual_revenue" validate:"omitempty,max=32"`
	AverageBudget          *string   `json:"average_budget" validate:"omitempty,max=32"`
	FundingStage           *string   `json:"funding_stage" validate:"omitempty,max=60"`
	RemotePolicy           *string   `json:"remote_policy" validate:"omitempty,max=60"`
	HiringFrequency        *string   `json:"hiring_frequency" validate:"omitempty,max=60"`
	Mission                *string   `json:"mission" validate:"omitempty,max=2000"`
	PreferredContractTypes *[]string `json:"preferred_contract_types" validate:"omitempty,max=20"`
	CategoriesHiringFor    *[]string `json:"categories_hiring_for" validate:"omitempty,max=50"`
	Values                 *[]string `json:"values" validate:"omitempty,max=20"`
}

func (r UpdateCustomerRequest) Patch() CustomerPatch {
	return CustomerPatch{
		CompanyName:            r.CompanyName,
		Industry:               r.Industry,
		CompanySize:            r.CompanySize,
		Location:               r.Location,
		Website:                r.Website,
		Description:            r.Description,
		EmployeeCount:          r.EmployeeCount,
		EstablishedYear:        r.EstablishedYear,
		AnnualRevenue:          r.AnnualRevenue,
		AverageBudget:          r.AverageBudget,
		FundingStage:           r.FundingStage,
		RemotePolicy:           r.RemotePolicy,
		HiringFrequency:        r.HiringFrequency,
		Mission:                r.Mission,
		PreferredContractTypes: r.PreferredContractTypes,
		CategoriesHiringFor:    r.CategoriesHiringFor,
		Values:                 r.Values,
	}
}

type AddCertificationRequest struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssuedDate   string `json:"issued_date"`
	SerialNumber string `json:"serial_number"`
	SourceURL    string `json:"source_url" validate:"omitempty,url"`
}

func (r AddCertificationRequest) Certification() Certification {
	return Certification{
		Name:         r.Name,
		Issuer:       r.Issuer,
		IssuedDate:   r.IssuedDate,
		SerialNumber: r.SerialNumber,
		SourceURL:    r.SourceURL,
	}
}

type StartResponse struct {
	Token   string `json:"token"`
	Session *View  `json:"session"`
}

type AdvanceResponse struct {
	Outcome AdvanceOutcome `json:"outcome"`
	Session *View          `json:"session"`
}

type SubmitResponse struct {
	Result  *SubmitResult `json:"result"`
	Session *View         `json:"session"`
}
