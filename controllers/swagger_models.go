package controllers

import (
	"insuranceapi/models"
	"insuranceapi/services/dto"
	"insuranceapi/services/job"
	"insuranceapi/utils"
)

// Response models for Swagger documentation

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}

// MessageResponse is returned by endpoints without a payload
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Client deleted"`
}

// SessionInfo is the payload of a successful login
type SessionInfo struct {
	User      models.User `json:"user"`
	CSRFToken string      `json:"csrf_token" example:"4f1c0c6a9e..."`
}

// LoginResponse represents the response of POST /api/auth/login
type LoginResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Logged in"`
	Data    SessionInfo `json:"data"`
}

// CSRFResponse represents the response of GET /api/auth/csrf
type CSRFResponse struct {
	Success bool `json:"success" example:"true"`
	Data    struct {
		CSRFToken string `json:"csrf_token" example:"4f1c0c6a9e..."`
	} `json:"data"`
}

// UserResponse wraps one user
type UserResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    models.User `json:"data"`
}

// UserListResponse wraps the user list
type UserListResponse struct {
	Success bool          `json:"success" example:"true"`
	Data    []models.User `json:"data"`
}

// ClientResponse wraps one client
type ClientResponse struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message,omitempty" example:"Client created"`
	Data    models.Client `json:"data"`
}

// ClientListResponse is a page of clients
type ClientListResponse struct {
	Success    bool                     `json:"success" example:"true"`
	Data       []models.Client          `json:"data"`
	Pagination utils.PaginationMetadata `json:"pagination"`
}

// ClientProfileResponse wraps the client profile
type ClientProfileResponse struct {
	Success bool              `json:"success" example:"true"`
	Data    dto.ClientProfile `json:"data"`
}

// EntryResponse wraps one entry of the requested type
type EntryResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"GIC entry 42 created"`
	Data    interface{} `json:"data"`
}

// EntryListResponse is a page of entries of the requested type
type EntryListResponse struct {
	Success    bool                     `json:"success" example:"true"`
	Data       []interface{}            `json:"data"`
	Pagination utils.PaginationMetadata `json:"pagination"`
}

// NextRegNumResponse carries the previewed reg_num
type NextRegNumResponse struct {
	Success bool `json:"success" example:"true"`
	Data    struct {
		RegNum int `json:"reg_num" example:"43"`
	} `json:"data"`
}

// ReminderAPIResponse wraps a reminder listing
type ReminderAPIResponse struct {
	Success bool                 `json:"success" example:"true"`
	Data    dto.ReminderResponse `json:"data"`
}

// ReminderSummaryResponse wraps the reminder counts
type ReminderSummaryResponse struct {
	Success bool                `json:"success" example:"true"`
	Data    dto.ReminderSummary `json:"data"`
}

// CategoryListResponse lists dropdown categories
type CategoryListResponse struct {
	Success bool     `json:"success" example:"true"`
	Data    []string `json:"data" example:"bank,agency"`
}

// DropdownResponse wraps one dropdown option
type DropdownResponse struct {
	Success bool                  `json:"success" example:"true"`
	Data    models.DropdownOption `json:"data"`
}

// DropdownListResponse lists the options of a category
type DropdownListResponse struct {
	Success bool                    `json:"success" example:"true"`
	Data    []models.DropdownOption `json:"data"`
}

// CityResponse wraps one city
type CityResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    models.City `json:"data"`
}

// CityListResponse lists cities
type CityListResponse struct {
	Success bool          `json:"success" example:"true"`
	Data    []models.City `json:"data"`
}

// DashboardResponse wraps the dashboard figures
type DashboardResponse struct {
	Success bool          `json:"success" example:"true"`
	Data    dto.Dashboard `json:"data"`
}

// AuditListResponse is a page of audit rows
type AuditListResponse struct {
	Success    bool                     `json:"success" example:"true"`
	Data       []models.AuditLog        `json:"data"`
	Pagination utils.PaginationMetadata `json:"pagination"`
}

// JobListResponse is a page of background jobs
type JobListResponse struct {
	Success    bool                     `json:"success" example:"true"`
	Data       []job.JobInfo            `json:"data"`
	Pagination utils.PaginationMetadata `json:"pagination"`
}

// JobResponse wraps one background job
type JobResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Job lookup-refresh finished"`
	Data    job.JobInfo `json:"data"`
}
