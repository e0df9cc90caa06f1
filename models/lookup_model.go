package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// City is a lookup row referenced by clients.
type City struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	CityName  string    `gorm:"column:city_name;size:100;not null;index" json:"city_name" validate:"required,max=100" example:"Ahmedabad"`
	Pincode   *string   `gorm:"column:pincode;size:6" json:"pincode" validate:"omitempty,pincode" example:"380001"`
	State     string    `gorm:"column:state;size:100" json:"state" example:"Gujarat"`
	Country   string    `gorm:"column:country;size:100" json:"country" example:"India"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the static table name for GORM.
func (City) TableName() string {
	return "cities"
}

// Normalize trims text fields and defaults the country.
func (c *City) Normalize() {
	c.CityName = strings.TrimSpace(c.CityName)
	c.State = strings.TrimSpace(c.State)
	c.Country = strings.TrimSpace(c.Country)
	if c.Country == "" {
		c.Country = "India"
	}
	c.Pincode = cleanString(c.Pincode)
}

// DropdownOption is an admin-editable lookup value. Reference fields on clients
// and entries store its id; Category says which list it belongs to.
type DropdownOption struct {
	ID           uint           `gorm:"primaryKey;column:id" json:"id"`
	Category     string         `gorm:"column:category;size:50;not null;uniqueIndex:idx_dropdown_category_value" json:"category" validate:"required,max=50" example:"bank"`
	Value        string         `gorm:"column:value;size:150;not null;uniqueIndex:idx_dropdown_category_value" json:"value" validate:"required,max=150" example:"State Bank of India"`
	Description  *string        `gorm:"column:description;size:255" json:"description"`
	Metadata     datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty" swaggertype:"object"`
	DisplayOrder int            `gorm:"column:display_order;not null;default:0" json:"display_order"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName specifies the static table name for GORM.
func (DropdownOption) TableName() string {
	return "dropdown_options"
}

// Normalize lower-cases the category and trims the value.
func (d *DropdownOption) Normalize() {
	d.Category = strings.ToLower(strings.TrimSpace(d.Category))
	d.Value = strings.TrimSpace(d.Value)
	d.Description = cleanString(d.Description)
}

// User is an operator account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint       `gorm:"primaryKey;column:id" json:"id"`
	Username     string     `gorm:"column:username;size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;size:100;not null" json:"-"`
	Role         string     `gorm:"column:role;size:10;not null" json:"role" enums:"admin,staff"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the static table name for GORM.
func (User) TableName() string {
	return "users"
}

// AuditLog records who changed what. Details is free text.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	UserID    *uint     `gorm:"column:user_id;index" json:"user_id"`
	Username  string    `gorm:"column:username;size:50" json:"username"`
	Entity    string    `gorm:"column:entity;size:30;not null;index:idx_audit_entity" json:"entity"`
	EntityID  uint      `gorm:"column:entity_id;index:idx_audit_entity" json:"entity_id"`
	Action    string    `gorm:"column:action;size:20;not null" json:"action"`
	Details   string    `gorm:"column:details;type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the static table name for GORM.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionLogin  = "LOGIN"
)
