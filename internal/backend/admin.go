package backend

import (
	"context"
	"net/http"
	"net/url"
)

type KYCDocument struct {
	ID         ID     `json:"id"`
	UserID     ID     `json:"userId"`
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
	UserRole   string `json:"userRole"`
	DocType    string `json:"docType"`
	Status     string `json:"status"`
	FileURL    string `json:"fileUrl"`
	UploadedAt string `json:"uploadedAt"`
	ReviewedAt string `json:"reviewedAt"`
	Notes      string `json:"notes"`
}

type KYCReview struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type Dispute struct {
	ID          ID     `json:"id"`
	ProjectID   ID     `json:"projectId"`
	ProjectName string `json:"projectName"`
	RaisedBy    string `json:"raisedBy"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Resolution  string `json:"resolution"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type DisputeUpdate struct {
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
	Resolution  *string `json:"resolution,omitempty"`
}

type Project struct {
	ID           ID       `json:"id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Budget       *float64 `json:"budget"`
	CustomerName string   `json:"customerName"`
	ProviderName string   `json:"providerName"`
	CreatedAt    string   `json:"createdAt"`
}

type User struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
	CreatedAt  string `json:"createdAt"`
}

func (c *Client) ListKYC(ctx context.Context) ([]KYCDocument, error) {
	var out []KYCDocument
	if err := c.getJSON(ctx, "admin_list_kyc", "/admin/kyc", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReviewKYC(ctx context.Context, id string, review KYCReview) error {
	path := "/admin/kyc/" + url.PathEscape(id) + "/review"
	return c.sendJSON(ctx, "admin_review_kyc", http.MethodPost, path, true, review, nil)
}

func (c *Client) ListDisputes(ctx context.Context) ([]Dispute, error) {
	var out []Dispute
	if err := c.getJSON(ctx, "admin_list_disputes", "/admin/disputes", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDispute(ctx context.Context, id string) (*Dispute, error) {
	var out Dispute
	if err := c.getJSON(ctx, "admin_get_dispute", "/admin/disputes/"+url.PathEscape(id), true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDispute(ctx context.Context, id string, update DisputeUpdate) (*Dispute, error) {
	var out Dispute
	path := "/admin/disputes/" + url.PathEscape(id)
	if err := c.sendJSON(ctx, "admin_update_dispute", http.MethodPatch, path, true, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.getJSON(ctx, "admin_list_projects", "/admin/projects", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, "admin_list_users", "/admin/users", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}
