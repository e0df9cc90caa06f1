package models

import (
	"insuranceapi/pkg/calculator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Driving-school entry types and learner licence subtypes.
const (
	BmdsLLR = "LLR"
	BmdsDL  = "DL"
	BmdsADM = "ADM"

	LLRFresh    = "FRESH"
	LLRExempted = "EXEMPTED"
)

// BmdsEntry is a driving-school booking: a learner licence test (LLR), a
// driving licence test (DL) or a course admission (ADM).
type BmdsEntry struct {
	EntryBase
	BmdsType string `gorm:"column:bmds_type;size:4;not null;index" json:"bmds_type" enums:"LLR,DL,ADM"`

	// LLR only
	LLRSubType *string `gorm:"column:llr_sub_type;size:10" json:"llr_sub_type" enums:"FRESH,EXEMPTED"`

	// LLR and DL
	TestPlaceID      *uint `gorm:"column:test_place_id" json:"test_place_id"`
	ClassOfVehicleID *uint `gorm:"column:class_of_vehicle_id" json:"class_of_vehicle_id"`

	// ADM
	StartDate *Date `gorm:"column:start_date" json:"start_date" swaggertype:"string"`
	EndDate   *Date `gorm:"column:end_date" json:"end_date" swaggertype:"string"`

	Quotation decimal.NullDecimal `gorm:"column:quotation;type:decimal(12,2)" json:"quotation" swaggertype:"number"`
	Advance   decimal.NullDecimal `gorm:"column:advance;type:decimal(12,2)" json:"advance" swaggertype:"number"`
	Excess    decimal.NullDecimal `gorm:"column:excess;type:decimal(12,2)" json:"excess" swaggertype:"number"`
	Recovery  decimal.NullDecimal `gorm:"column:recovery;type:decimal(12,2)" json:"recovery" swaggertype:"number"`

	Balance decimal.Decimal `gorm:"-" json:"balance" swaggertype:"number"`
}

func (BmdsEntry) TableName() string           { return "bmds_entries" }
func (BmdsEntry) Kind() string                { return "bmds" }
func (BmdsEntry) DiscriminatorColumn() string { return "bmds_type" }

func (e *BmdsEntry) Normalize() {
	e.normalizeBase()
	e.TestPlaceID = cleanID(e.TestPlaceID)
	e.ClassOfVehicleID = cleanID(e.ClassOfVehicleID)
	e.BmdsType = upper(e.BmdsType)
	e.LLRSubType = upperString(e.LLRSubType)
	e.StartDate = e.StartDate.OrNil()
	e.EndDate = e.EndDate.OrNil()

	if e.BmdsType != BmdsLLR {
		e.LLRSubType = nil
	}
	switch e.BmdsType {
	case BmdsLLR, BmdsDL:
		e.StartDate = nil
		e.EndDate = nil
	case BmdsADM:
		e.TestPlaceID = nil
		e.ClassOfVehicleID = nil
	}
}

func (e *BmdsEntry) Validate() error {
	if err := e.validateBase(StatusPending, StatusComplete); err != nil {
		return err
	}
	if err := checkEnum("bmds_type", e.BmdsType, BmdsLLR, BmdsDL, BmdsADM); err != nil {
		return err
	}

	var group error
	switch e.BmdsType {
	case BmdsLLR:
		group = firstErr(
			requireString("llr_sub_type", e.LLRSubType),
			checkOptionalEnum("llr_sub_type", e.LLRSubType, LLRFresh, LLRExempted),
		)
	case BmdsADM:
		group = checkDateOrder("end_date", e.StartDate, e.EndDate)
	}

	return firstErr(
		group,
		checkNonNegative("quotation", e.Quotation),
		checkNonNegative("advance", e.Advance),
		checkNonNegative("excess", e.Excess),
		checkNonNegative("recovery", e.Recovery),
	)
}

func (e *BmdsEntry) Derive() {
	e.Balance = calculator.BMDSBalance(e.Quotation, e.Advance, e.Excess, e.Recovery)
}

func (e *BmdsEntry) DropdownRefs() []DropdownRef {
	return []DropdownRef{
		{Field: "test_place_id", Category: CategoryTestPlace, ID: e.TestPlaceID},
		{Field: "class_of_vehicle_id", Category: CategoryClassOfVehicle, ID: e.ClassOfVehicleID},
	}
}

func (e *BmdsEntry) SummaryAmount() decimal.Decimal {
	return e.Balance
}

func (e *BmdsEntry) AfterFind(*gorm.DB) error {
	e.Derive()
	return nil
}
