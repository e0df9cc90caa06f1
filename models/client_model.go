package models

import (
	"strings"
	"time"

	"insuranceapi/pkg/reminder"

	"gorm.io/gorm"
)

// Client is the brokerage's customer record. Entries reference it by client_id
// and are not cascaded when it is deleted. Deletion is soft.
type Client struct {
	ID              uint            `gorm:"primaryKey;column:id" json:"id"`
	SrNo            int             `gorm:"column:sr_no;uniqueIndex;not null" json:"sr_no"`
	ClientName      string          `gorm:"column:client_name;size:150;not null;index" json:"client_name" validate:"required,max=150" example:"Asha Patel"`
	ClientType      string          `gorm:"column:client_type;size:20;not null" json:"client_type" validate:"required,oneof=INDIVIDUAL CORPORATE" enums:"INDIVIDUAL,CORPORATE"`
	Contact         string          `gorm:"column:contact;size:15;not null;index" json:"contact" validate:"required,phone" example:"9876543210"`
	AltContact      *string         `gorm:"column:alt_contact;size:15" json:"alt_contact" validate:"omitempty,phone"`
	Tag             string          `gorm:"column:tag;size:1;not null" json:"tag" validate:"required,oneof=A B C" enums:"A,B,C"`
	CityID          *uint           `gorm:"column:city_id;index" json:"city_id"`
	City            *City           `gorm:"foreignKey:CityID" json:"city,omitempty"`
	InquiryTypeID   *uint           `gorm:"column:inquiry_type_id" json:"inquiry_type_id"`
	InquiryType     *DropdownOption `gorm:"foreignKey:InquiryTypeID" json:"inquiry_type,omitempty"`
	BirthDate       *Date           `gorm:"column:birth_date" json:"birth_date" swaggertype:"string" example:"1990-06-15"`
	AnniversaryDate *Date           `gorm:"column:anniversary_date" json:"anniversary_date" swaggertype:"string" example:"2015-02-10"`
	AadharNo        *string         `gorm:"column:aadhar_no;size:12" json:"aadhar_no" validate:"omitempty,aadhar"`
	PanNo           *string         `gorm:"column:pan_no;size:10" json:"pan_no" validate:"omitempty,pan"`
	GstNo           *string         `gorm:"column:gst_no;size:15" json:"gst_no" validate:"omitempty,gstin"`
	Email           *string         `gorm:"column:email;size:150" json:"email" validate:"omitempty,email"`
	Reference       *string         `gorm:"column:reference;size:150" json:"reference"`
	Age             *int            `gorm:"-" json:"age"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-" swaggerignore:"true"`
}

// TableName specifies the static table name for GORM.
func (Client) TableName() string {
	return "clients"
}

// Normalize trims text, upper-cases codes and drops blank optional values.
func (c *Client) Normalize() {
	c.ClientName = strings.TrimSpace(c.ClientName)
	c.ClientType = strings.ToUpper(strings.TrimSpace(c.ClientType))
	if c.ClientType == "" {
		c.ClientType = ClientTypeIndividual
	}
	c.Contact = strings.TrimSpace(c.Contact)
	c.Tag = strings.ToUpper(strings.TrimSpace(c.Tag))
	if c.Tag == "" {
		c.Tag = TagC
	}
	c.AltContact = cleanString(c.AltContact)
	c.AadharNo = cleanString(c.AadharNo)
	c.PanNo = upperString(c.PanNo)
	c.GstNo = upperString(c.GstNo)
	c.Email = cleanString(c.Email)
	c.Reference = cleanString(c.Reference)
	c.CityID = cleanID(c.CityID)
	c.InquiryTypeID = cleanID(c.InquiryTypeID)
	c.BirthDate = c.BirthDate.OrNil()
	c.AnniversaryDate = c.AnniversaryDate.OrNil()
}

// Validate checks rules the struct tags cannot express.
func (c *Client) Validate(today time.Time) error {
	return firstErr(
		checkEnum("client_type", c.ClientType, ClientTypeIndividual, ClientTypeCorporate),
		checkEnum("tag", c.Tag, TagA, TagB, TagC),
		notAfter("birth_date", c.BirthDate, today),
		notAfter("anniversary_date", c.AnniversaryDate, today),
	)
}

func notAfter(field string, d *Date, today time.Time) error {
	if d != nil && d.After(NewDate(today).Time) {
		return fieldErr(field, "must not be in the future")
	}
	return nil
}

// DeriveAge sets Age from BirthDate as of today. A Feb 29 birthday counts on
// Feb 28 in non-leap years.
func (c *Client) DeriveAge(today time.Time) {
	c.Age = nil
	if c.BirthDate == nil || c.BirthDate.IsZero() {
		return
	}
	age := AgeOn(c.BirthDate.Time, today)
	if age < 0 {
		return
	}
	c.Age = &age
}

// AgeOn returns the number of completed years between birth and today.
func AgeOn(birth, today time.Time) int {
	ref := reminder.DateOf(today)
	next := reminder.NextOccurrence(birth, ref)
	years := next.Year() - birth.Year()
	if !next.Equal(ref) {
		years--
	}
	return years
}

// ReminderPerson projects the client onto the reminder matcher's input.
func (c *Client) ReminderPerson() reminder.Person {
	p := reminder.Person{
		ID:         c.ID,
		ClientName: c.ClientName,
		Contact:    c.Contact,
	}
	if c.Email != nil {
		p.Email = *c.Email
	}
	if c.City != nil {
		p.City = c.City.CityName
	}
	if c.BirthDate != nil {
		t := c.BirthDate.Time
		p.BirthDate = &t
	}
	if c.AnniversaryDate != nil {
		t := c.AnniversaryDate.Time
		p.AnniversaryDate = &t
	}
	return p
}
