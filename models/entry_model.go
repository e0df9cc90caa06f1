package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is implemented by the five transaction types (GIC, LIC, RTO, BMDS, MF).
// Repositories and services are generic over it.
type Entry interface {
	TableName() string
	// Kind is the short lower-case type name used in routes and audit rows.
	Kind() string
	// DiscriminatorColumn names the column whose value selects the optional field groups.
	DiscriminatorColumn() string
	GetBase() *EntryBase
	// Normalize clears every field the discriminator does not select.
	Normalize()
	Validate() error
	// Derive recomputes the derived money fields. They are never persisted.
	Derive()
	// SummaryAmount is the figure totalled on the client profile.
	SummaryAmount() decimal.Decimal
	// DropdownRefs lists the dropdown-backed reference fields.
	DropdownRefs() []DropdownRef
}

// DropdownRef is a field holding the id of a dropdown option of Category.
type DropdownRef struct {
	Field    string
	Category string
	ID       *uint
}

// EntryBase holds the columns every entry type shares.
type EntryBase struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"id"`
	RegNum     int       `gorm:"column:reg_num;not null;uniqueIndex" json:"reg_num"`
	ClientID   uint      `gorm:"column:client_id;not null;index" json:"client_id" validate:"required"`
	Client     *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Date       Date      `gorm:"column:date;not null;index" json:"date" swaggertype:"string" example:"2024-06-01"`
	Time       *string   `gorm:"column:time;size:8" json:"time" example:"10:30"`
	FormStatus string    `gorm:"column:form_status;size:20;not null;index" json:"form_status" enums:"PENDING,COMPLETE,CDA,CANCELLED,OTHER"`
	Remark     *string   `gorm:"column:remark;type:text" json:"remark"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetBase exposes the shared columns.
func (b *EntryBase) GetBase() *EntryBase {
	return b
}

func (b *EntryBase) normalizeBase() {
	b.FormStatus = strings.ToUpper(strings.TrimSpace(b.FormStatus))
	if b.FormStatus == "" {
		b.FormStatus = StatusPending
	}
	b.Time = cleanString(b.Time)
	b.Remark = cleanString(b.Remark)
}

func (b *EntryBase) validateBase(statuses ...string) error {
	if b.ClientID == 0 {
		return fieldErr("client_id", "is required")
	}
	if b.Date.IsZero() {
		return fieldErr("date", "is required")
	}
	if b.Time != nil {
		if _, err := time.Parse("15:04", *b.Time); err != nil {
			if _, err := time.Parse("15:04:05", *b.Time); err != nil {
				return fieldErr("time", "must be HH:MM, got %q", *b.Time)
			}
		}
	}
	return checkEnum("form_status", b.FormStatus, statuses...)
}

// normalizePayment upper-cases the mode and keeps a cheque number only for cheque payments.
func normalizePayment(mode **string, cheque **string) {
	*mode = upperString(*mode)
	*cheque = cleanString(*cheque)
	if *mode == nil || **mode != PaymentCheque {
		*cheque = nil
	}
}

// AllEntries returns one zero value of each entry type, for migrations and registration.
func AllEntries() []Entry {
	return []Entry{&GicEntry{}, &LicEntry{}, &RtoEntry{}, &BmdsEntry{}, &MfEntry{}}
}

// All returns every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&City{},
		&DropdownOption{},
		&Client{},
		&GicEntry{},
		&LicEntry{},
		&RtoEntry{},
		&BmdsEntry{},
		&MfEntry{},
		&AuditLog{},
	}
}
