package dto

import "insuranceapi/models"

// ClientFilter narrows the client list.
type ClientFilter struct {
	PageRequest
	// Search matches client name, contact, email or sr_no.
	Search     string
	Tag        string
	ClientType string
	CityID     *uint
}

// EntryFilter narrows an entry list. Discriminator filters on the type's
// discriminator column (policy_type, job_type, category, bmds_type, mf_type).
type EntryFilter struct {
	PageRequest
	ClientID      *uint
	FormStatus    string
	Discriminator string
	DateFrom      *models.Date
	DateTo        *models.Date
	RegNum        *int
	Search        string
}

// AuditFilter narrows the audit trail listing.
type AuditFilter struct {
	PageRequest
	Entity   string
	EntityID *uint
	UserID   *uint
}

// EntryFilterBuilder provides a builder pattern for constructing EntryFilter instances.
type EntryFilterBuilder struct {
	filter EntryFilter
}

// NewEntryFilterBuilder creates a builder for the first page of default size.
func NewEntryFilterBuilder() *EntryFilterBuilder {
	return &EntryFilterBuilder{filter: EntryFilter{PageRequest: PageRequest{Page: 1}}}
}

func (b *EntryFilterBuilder) SetPage(page, pageSize int) *EntryFilterBuilder {
	b.filter.Page = page
	b.filter.PageSize = pageSize
	return b
}

func (b *EntryFilterBuilder) SetClientID(id uint) *EntryFilterBuilder {
	b.filter.ClientID = &id
	return b
}

func (b *EntryFilterBuilder) SetFormStatus(status string) *EntryFilterBuilder {
	b.filter.FormStatus = status
	return b
}

func (b *EntryFilterBuilder) SetDiscriminator(value string) *EntryFilterBuilder {
	b.filter.Discriminator = value
	return b
}

// SetDateRange bounds the entry date; either end may be nil.
func (b *EntryFilterBuilder) SetDateRange(from, to *models.Date) *EntryFilterBuilder {
	b.filter.DateFrom = from
	b.filter.DateTo = to
	return b
}

func (b *EntryFilterBuilder) SetRegNum(regNum int) *EntryFilterBuilder {
	b.filter.RegNum = &regNum
	return b
}

func (b *EntryFilterBuilder) SetSearch(search string) *EntryFilterBuilder {
	b.filter.Search = search
	return b
}

// Build returns the constructed filter.
func (b *EntryFilterBuilder) Build() EntryFilter {
	return b.filter
}
