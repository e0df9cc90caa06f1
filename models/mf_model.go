package models

import (
	"github.com/shopspring/decimal"
)

// MF entry types and their options.
const (
	MfTypeMF        = "MF"
	MfTypeInsurance = "INSURANCE"

	MfOptionSIP     = "SIP"
	MfOptionLumpsum = "LUMPSUM"
	MfOptionSWP     = "SWP"

	InsuranceTerm   = "TERM"
	InsuranceHealth = "HEALTH"
	InsuranceULIP   = "ULIP"

	FrequencyMonthly    = "MONTHLY"
	FrequencyQuarterly  = "QUARTERLY"
	FrequencyHalfYearly = "HALF_YEARLY"
	FrequencyYearly     = "YEARLY"
	FrequencyOneTime    = "ONE_TIME"
)

// MfEntry is a recurring mutual fund or insurance payment.
type MfEntry struct {
	EntryBase
	MfType string `gorm:"column:mf_type;size:10;not null;index" json:"mf_type" enums:"MF,INSURANCE"`

	// MF
	MfOption *string `gorm:"column:mf_option;size:10" json:"mf_option" enums:"SIP,LUMPSUM,SWP"`
	FolioNum *string `gorm:"column:folio_num;size:30" json:"folio_num"`
	AmcID    *uint   `gorm:"column:amc_id" json:"amc_id"`

	// INSURANCE
	InsuranceOption    *string `gorm:"column:insurance_option;size:10" json:"insurance_option" enums:"TERM,HEALTH,ULIP"`
	InsuranceCompanyID *uint   `gorm:"column:insurance_company_id" json:"insurance_company_id"`
	PolicyNum          *string `gorm:"column:policy_num;size:50" json:"policy_num"`

	Amount    decimal.NullDecimal `gorm:"column:amount;type:decimal(12,2)" json:"amount" swaggertype:"number"`
	Frequency *string             `gorm:"column:frequency;size:12" json:"frequency" enums:"MONTHLY,QUARTERLY,HALF_YEARLY,YEARLY,ONE_TIME"`
	StartDate *Date               `gorm:"column:start_date" json:"start_date" swaggertype:"string"`
}

func (MfEntry) TableName() string           { return "mf_entries" }
func (MfEntry) Kind() string                { return "mf" }
func (MfEntry) DiscriminatorColumn() string { return "mf_type" }

func (e *MfEntry) Normalize() {
	e.normalizeBase()
	e.AmcID = cleanID(e.AmcID)
	e.InsuranceCompanyID = cleanID(e.InsuranceCompanyID)
	e.MfType = upper(e.MfType)
	e.MfOption = upperString(e.MfOption)
	e.FolioNum = cleanString(e.FolioNum)
	e.InsuranceOption = upperString(e.InsuranceOption)
	e.PolicyNum = cleanString(e.PolicyNum)
	e.Frequency = upperString(e.Frequency)
	e.StartDate = e.StartDate.OrNil()

	switch e.MfType {
	case MfTypeMF:
		e.InsuranceOption = nil
		e.InsuranceCompanyID = nil
		e.PolicyNum = nil
	case MfTypeInsurance:
		e.MfOption = nil
		e.FolioNum = nil
		e.AmcID = nil
	}
}

func (e *MfEntry) Validate() error {
	if err := e.validateBase(StatusPending, StatusComplete); err != nil {
		return err
	}
	if err := checkEnum("mf_type", e.MfType, MfTypeMF, MfTypeInsurance); err != nil {
		return err
	}

	var group error
	if e.MfType == MfTypeMF {
		group = firstErr(
			requireString("mf_option", e.MfOption),
			checkOptionalEnum("mf_option", e.MfOption, MfOptionSIP, MfOptionLumpsum, MfOptionSWP),
		)
	} else {
		group = firstErr(
			requireString("insurance_option", e.InsuranceOption),
			checkOptionalEnum("insurance_option", e.InsuranceOption, InsuranceTerm, InsuranceHealth, InsuranceULIP),
		)
	}

	return firstErr(
		group,
		checkOptionalEnum("frequency", e.Frequency, FrequencyMonthly, FrequencyQuarterly, FrequencyHalfYearly, FrequencyYearly, FrequencyOneTime),
		checkNonNegative("amount", e.Amount),
	)
}

// Derive is a no-op: MF entries carry no derived money fields.
func (e *MfEntry) Derive() {}

func (e *MfEntry) DropdownRefs() []DropdownRef {
	return []DropdownRef{
		{Field: "amc_id", Category: CategoryAMC, ID: e.AmcID},
		{Field: "insurance_company_id", Category: CategoryInsuranceCo, ID: e.InsuranceCompanyID},
	}
}

func (e *MfEntry) SummaryAmount() decimal.Decimal {
	if !e.Amount.Valid {
		return decimal.Zero
	}
	return e.Amount.Decimal
}
