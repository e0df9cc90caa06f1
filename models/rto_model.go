package models

import (
	"insuranceapi/pkg/calculator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RTO categories and driving-licence work types.
const (
	RtoNewTransfer = "NT"
	RtoTransfer    = "TR"
	RtoLicence     = "DL"

	DLNew       = "NEW"
	DLRenewal   = "RENEWAL"
	DLDuplicate = "DUPLICATE"
)

// RtoEntry is transport-office paperwork. NT and TR are vehicle jobs, DL is a
// driving-licence job.
type RtoEntry struct {
	EntryBase
	Category string `gorm:"column:category;size:4;not null;index" json:"category" enums:"NT,TR,DL"`

	// NT / TR
	VehicleClassID *uint   `gorm:"column:vehicle_class_id" json:"vehicle_class_id"`
	VehicleNum     *string `gorm:"column:vehicle_num;size:20" json:"vehicle_num"`
	WorkTypeID     *uint   `gorm:"column:work_type_id" json:"work_type_id"`

	// DL
	DLType *string `gorm:"column:dl_type;size:10" json:"dl_type" enums:"NEW,RENEWAL,DUPLICATE"`
	DLNum  *string `gorm:"column:dl_num;size:20" json:"dl_num"`

	Premium     decimal.NullDecimal `gorm:"column:premium;type:decimal(12,2)" json:"premium" swaggertype:"number"`
	GovFee      decimal.NullDecimal `gorm:"column:gov_fee;type:decimal(12,2)" json:"gov_fee" swaggertype:"number"`
	Expense     decimal.NullDecimal `gorm:"column:expense;type:decimal(12,2)" json:"expense" swaggertype:"number"`
	Recovery    decimal.NullDecimal `gorm:"column:recovery;type:decimal(12,2)" json:"recovery" swaggertype:"number"`
	PaymentMode *string             `gorm:"column:payment_mode;size:10" json:"payment_mode" enums:"CASH,CHEQUE,ONLINE,CARD"`
	AdviserID   *uint               `gorm:"column:adviser_id" json:"adviser_id"`

	NewAmt decimal.Decimal `gorm:"-" json:"new_amt" swaggertype:"number"`
}

func (RtoEntry) TableName() string           { return "rto_entries" }
func (RtoEntry) Kind() string                { return "rto" }
func (RtoEntry) DiscriminatorColumn() string { return "category" }

func (e *RtoEntry) Normalize() {
	e.normalizeBase()
	e.VehicleClassID = cleanID(e.VehicleClassID)
	e.WorkTypeID = cleanID(e.WorkTypeID)
	e.AdviserID = cleanID(e.AdviserID)
	e.Category = upper(e.Category)
	e.VehicleNum = upperString(e.VehicleNum)
	e.DLType = upperString(e.DLType)
	e.DLNum = upperString(e.DLNum)
	e.PaymentMode = upperString(e.PaymentMode)

	switch e.Category {
	case RtoNewTransfer, RtoTransfer:
		e.DLType = nil
		e.DLNum = nil
	case RtoLicence:
		e.VehicleClassID = nil
		e.VehicleNum = nil
		e.WorkTypeID = nil
	}
}

func (e *RtoEntry) Validate() error {
	if err := e.validateBase(StatusPending, StatusComplete, StatusCancelled); err != nil {
		return err
	}
	if err := checkEnum("category", e.Category, RtoNewTransfer, RtoTransfer, RtoLicence); err != nil {
		return err
	}

	var group error
	if e.Category == RtoLicence {
		group = firstErr(
			requireString("dl_type", e.DLType),
			checkOptionalEnum("dl_type", e.DLType, DLNew, DLRenewal, DLDuplicate),
		)
	} else {
		group = requireString("vehicle_num", e.VehicleNum)
	}

	return firstErr(
		group,
		checkOptionalEnum("payment_mode", e.PaymentMode, paymentModes...),
		checkNonNegative("premium", e.Premium),
		checkNonNegative("gov_fee", e.GovFee),
		checkNonNegative("expense", e.Expense),
		checkNonNegative("recovery", e.Recovery),
	)
}

// Derive recomputes new_amt. It is not a balance; see calculator.RTONewAmount.
func (e *RtoEntry) Derive() {
	e.NewAmt = calculator.RTONewAmount(e.Premium, e.GovFee, e.Expense, e.Recovery)
}

func (e *RtoEntry) DropdownRefs() []DropdownRef {
	return []DropdownRef{
		{Field: "vehicle_class_id", Category: CategoryVehicleClass, ID: e.VehicleClassID},
		{Field: "work_type_id", Category: CategoryWorkType, ID: e.WorkTypeID},
		{Field: "adviser_id", Category: CategoryAdviser, ID: e.AdviserID},
	}
}

func (e *RtoEntry) SummaryAmount() decimal.Decimal {
	return e.NewAmt
}

func (e *RtoEntry) AfterFind(*gorm.DB) error {
	e.Derive()
	return nil
}
