package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"techconnect/internal/domain/registration"
)

// ID accepts both string and numeric identifiers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out struct {
		Available *bool `json:"available"`
	}
	path := "/check-email?email=" + url.QueryEscape(email)
	if err := c.getJSON(ctx, "check_email", path, false, &out); err != nil {
		return false, err
	}
	if out.Available == nil {
		return false, fmt.Errorf("%w: check_email: missing available flag", ErrMalformedResponse)
	}
	return *out.Available, nil
}

type registerUser struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (c *Client) Register(ctx context.Context, role registration.Role, payload registration.RegistrationPayload) (*registration.RegisteredUser, error) {
	var out struct {
		User   *registerUser `json:"user"`
		ID     ID            `json:"id"`
		UserID ID            `json:"userId"`
	}
	path := "/" + url.PathEscape(string(role)) + "/auth/register"
	if err := c.sendJSON(ctx, "register", http.MethodPost, path, false, payload, &out); err != nil {
		return nil, err
	}

	user := &registration.RegisteredUser{}
	switch {
	case out.User != nil:
		user.ID = string(out.User.ID)
		user.Email = out.User.Email
		user.Name = out.User.Name
		user.Role = out.User.Role
	case out.UserID != "":
		user.ID = string(out.UserID)
	default:
		user.ID = string(out.ID)
	}
	return user, nil
}

func (c *Client) UploadKYC(ctx context.Context, u registration.KYCUpload) error {
	target := "provider"
	if u.Role == registration.RoleCustomer {
		target = "company"
	}
	return c.sendMultipart(ctx, "upload_kyc", "/kyc/upload/"+target,
		map[string]string{"userId": u.UserID, "docType": u.DocType},
		[]formFile{{field: "document", fileName: u.Document.FileName, contentType: u.Document.ContentType, data: u.Document.Data}},
		nil,
	)
}

func (c *Client) UploadResume(ctx context.Context, userID string, resume registration.Attachment) error {
	return c.sendMultipart(ctx, "upload_resume", "/resume/upload",
		map[string]string{"userId": userID},
		[]formFile{{field: "resume", fileName: resume.FileName, contentType: resume.ContentType, data: resume.Data}},
		nil,
	)
}

type certificationDTO struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssuedDate   string `json:"issuedDate"`
	Verified     bool   `json:"verified"`
	SerialNumber string `json:"serialNumber,omitempty"`
	SourceURL    string `json:"sourceUrl,omitempty"`
}

func (c *Client) UploadCertifications(ctx context.Context, userID string, certs []registration.Certification) error {
	body := struct {
		UserID         string             `json:"userId"`
		Certifications []certificationDTO `json:"certifications"`
	}{UserID: userID, Certifications: make([]certificationDTO, 0, len(certs))}
	for _, cert := range certs {
		body.Certifications = append(body.Certifications, certificationDTO{
			Name:         cert.Name,
			Issuer:       cert.Issuer,
			IssuedDate:   cert.IssuedDate,
			Verified:     cert.Verified,
			SerialNumber: cert.SerialNumber,
			SourceURL:    cert.SourceURL,
		})
	}
	return c.sendJSON(ctx, "upload_certifications", http.MethodPost, "/certifications/upload", false, body, nil)
}

func (c *Client) AnalyzeResume(ctx context.Context, resume registration.Attachment) (*registration.ResumeAnalysis, error) {
	var out struct {
		Bio                 string             `json:"bio"`
		Skills              []string           `json:"skills"`
		Languages           []string           `json:"languages"`
		YearsExperience     *float64           `json:"yearsExperience"`
		SuggestedHourlyRate *float64           `json:"suggestedHourlyRate"`
		Certifications      []certificationDTO `json:"certifications"`
	}
	err := c.sendMultipart(ctx, "analyze_resume", "/resume/analyze", nil,
		[]formFile{{field: "resume", fileName: resume.FileName, contentType: resume.ContentType, data: resume.Data}},
		&out,
	)
	if err != nil {
		return nil, err
	}

	a := &registration.ResumeAnalysis{
		Bio:                 strings.TrimSpace(out.Bio),
		Skills:              out.Skills,
		Languages:           out.Languages,
		YearsExperience:     out.YearsExperience,
		SuggestedHourlyRate: out.SuggestedHourlyRate,
	}
	for _, cert := range out.Certifications {
		a.Certifications = append(a.Certifications, registration.Certification{
			Name:         cert.Name,
			Issuer:       cert.Issuer,
			IssuedDate:   cert.IssuedDate,
			SerialNumber: cert.SerialNumber,
			SourceURL:    cert.SourceURL,
		})
	}
	return a, nil
}
