package dto

import (
	"insuranceapi/models"
	"insuranceapi/pkg/reminder"

	"github.com/shopspring/decimal"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"admin"`
	Password string `json:"password" validate:"required" example:"Admin@123"`
}

// DeleteRequest confirms a destructive action with the caller's password.
type DeleteRequest struct {
	Password string `json:"password" validate:"required" example:"Admin@123"`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

// ChangePasswordRequest is the body of PUT /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// Actor identifies the signed-in user performing an operation, for audit rows
// and password confirmation.
type Actor struct {
	UserID   uint
	Username string
	Role     string
}

// ReminderQuery is a parsed reminder request.
type ReminderQuery struct {
	Window  reminder.Window
	Kind    reminder.Kind
	Grouped bool
}

// ReminderResponse is the body of every reminder endpoint. Exactly one of
// Matches or Groups is set, depending on the grouped flag.
type ReminderResponse struct {
	Reference        string               `json:"reference_date"`
	Start            string               `json:"start_date"`
	End              string               `json:"end_date"`
	Type             reminder.Kind        `json:"type"`
	BirthdayCount    int                  `json:"birthday_count"`
	AnniversaryCount int                  `json:"anniversary_count"`
	Total            int                  `json:"total"`
	Matches          []reminder.Match     `json:"matches,omitempty"`
	Groups           []reminder.DateGroup `json:"groups,omitempty"`
	Skipped          int                  `json:"skipped"`
}

// ReminderSummary holds the counts shown on the dashboard badge.
type ReminderSummary struct {
	Today              int `json:"today"`
	TodayBirthdays     int `json:"today_birthdays"`
	TodayAnniversaries int `json:"today_anniversaries"`
	Upcoming           int `json:"upcoming"`
	UpcomingDays       int `json:"upcoming_days"`
}

// EntryGroup is one entry type's slice of a client profile.
type EntryGroup[T any] struct {
	Count   int             `json:"count"`
	Pending int             `json:"pending"`
	Total   decimal.Decimal `json:"total" swaggertype:"number"`
	Items   []T             `json:"items"`
}

// ClientProfile is the client-360 view.
type ClientProfile struct {
	Client      models.Client                `json:"client"`
	GIC         EntryGroup[models.GicEntry]  `json:"gic"`
	LIC         EntryGroup[models.LicEntry]  `json:"lic"`
	RTO         EntryGroup[models.RtoEntry]  `json:"rto"`
	BMDS        EntryGroup[models.BmdsEntry] `json:"bmds"`
	MF          EntryGroup[models.MfEntry]   `json:"mf"`
	Outstanding decimal.Decimal              `json:"outstanding" swaggertype:"number"`
	NextEvents  []reminder.Match             `json:"next_events"`
}

// EntryStats is the dashboard figure for one entry type.
type EntryStats struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

// Dashboard is the body of GET /api/dashboard.
type Dashboard struct {
	Clients   int64                 `json:"clients"`
	Entries   map[string]EntryStats `json:"entries"`
	Reminders ReminderSummary       `json:"reminders"`
}
