package models

import (
	"github.com/shopspring/decimal"
)

// LIC job types and collection types.
const (
	JobCollection = "COLLECTION"
	JobServicing  = "SERVICING"

	CollectionPremium = "PREMIUM"
	CollectionLoan    = "LOAN"
	CollectionRevival = "REVIVAL"
)

// LicEntry is a life insurance job: either a payment collected on a policy or a
// servicing request.
type LicEntry struct {
	EntryBase
	JobType string `gorm:"column:job_type;size:12;not null;index" json:"job_type" enums:"COLLECTION,SERVICING"`

	// COLLECTION
	CollectionType *string             `gorm:"column:collection_type;size:10" json:"collection_type" enums:"PREMIUM,LOAN,REVIVAL"`
	PolicyNum      *string             `gorm:"column:policy_num;size:50;index" json:"policy_num"`
	PremiumAmount  decimal.NullDecimal `gorm:"column:premium_amount;type:decimal(12,2)" json:"premium_amount" swaggertype:"number"`
	AgencyID       *uint               `gorm:"column:agency_id" json:"agency_id"`
	PaymentMode    *string             `gorm:"column:payment_mode;size:10" json:"payment_mode" enums:"CASH,CHEQUE,ONLINE,CARD"`
	BankID         *uint               `gorm:"column:bank_id" json:"bank_id"`
	ChequeNum      *string             `gorm:"column:cheque_num;size:20" json:"cheque_num"`

	// SERVICING
	ServicingTypeID *uint   `gorm:"column:servicing_type_id" json:"servicing_type_id"`
	ServicingPoNum  *string `gorm:"column:servicing_po_num;size:50" json:"servicing_po_num"`
}

func (LicEntry) TableName() string           { return "lic_entries" }
func (LicEntry) Kind() string                { return "lic" }
func (LicEntry) DiscriminatorColumn() string { return "job_type" }

func (e *LicEntry) Normalize() {
	e.normalizeBase()
	e.AgencyID = cleanID(e.AgencyID)
	e.BankID = cleanID(e.BankID)
	e.ServicingTypeID = cleanID(e.ServicingTypeID)
	e.JobType = upper(e.JobType)
	e.CollectionType = upperString(e.CollectionType)
	e.PolicyNum = cleanString(e.PolicyNum)
	e.ServicingPoNum = cleanString(e.ServicingPoNum)
	normalizePayment(&e.PaymentMode, &e.ChequeNum)

	switch e.JobType {
	case JobCollection:
		e.ServicingTypeID = nil
		e.ServicingPoNum = nil
	case JobServicing:
		e.CollectionType = nil
		e.PolicyNum = nil
		e.PremiumAmount = decimal.NullDecimal{}
		e.AgencyID = nil
		e.PaymentMode = nil
		e.BankID = nil
		e.ChequeNum = nil
	}
}

func (e *LicEntry) Validate() error {
	if err := e.validateBase(StatusPending, StatusComplete); err != nil {
		return err
	}
	if err := checkEnum("job_type", e.JobType, JobCollection, JobServicing); err != nil {
		return err
	}

	if e.JobType == JobServicing {
		return requireID("servicing_type_id", e.ServicingTypeID)
	}
	return firstErr(
		requireString("collection_type", e.CollectionType),
		checkOptionalEnum("collection_type", e.CollectionType, CollectionPremium, CollectionLoan, CollectionRevival),
		requireString("policy_num", e.PolicyNum),
		checkOptionalEnum("payment_mode", e.PaymentMode, paymentModes...),
		checkNonNegative("premium_amount", e.PremiumAmount),
	)
}

// Derive is a no-op: LIC entries carry no derived money fields.
func (e *LicEntry) Derive() {}

func (e *LicEntry) DropdownRefs() []DropdownRef {
	return []DropdownRef{
		{Field: "agency_id", Category: CategoryAgency, ID: e.AgencyID},
		{Field: "bank_id", Category: CategoryBank, ID: e.BankID},
		{Field: "servicing_type_id", Category: CategoryServicingType, ID: e.ServicingTypeID},
	}
}

func (e *LicEntry) SummaryAmount() decimal.Decimal {
	if !e.PremiumAmount.Valid {
		return decimal.Zero
	}
	return e.PremiumAmount.Decimal
}
