package models

import (
	"insuranceapi/pkg/calculator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GIC policy types and motor subtypes.
const (
	PolicyMotor    = "MOTOR"
	PolicyNonMotor = "NONMOTOR"

	MotorSubtypeA     = "A"
	MotorSubtypeB     = "B"
	MotorSubtypeSAOD  = "SAOD"
	MotorSubtypeEndst = "ENDST"
)

// GicEntry is a general insurance policy sale. PolicyType selects the motor or
// non-motor field group.
type GicEntry struct {
	EntryBase
	PolicyType string `gorm:"column:policy_type;size:10;not null;index" json:"policy_type" enums:"MOTOR,NONMOTOR"`

	// MOTOR
	MotorSubtype   *string `gorm:"column:motor_subtype;size:10" json:"motor_subtype" enums:"A,B,SAOD,ENDST"`
	VehicleNum     *string `gorm:"column:vehicle_num;size:20" json:"vehicle_num" example:"GJ01AB1234"`
	VehicleClassID *uint   `gorm:"column:vehicle_class_id" json:"vehicle_class_id"`

	// NONMOTOR
	NonmotorSubtypeID   *uint   `gorm:"column:nonmotor_subtype_id" json:"nonmotor_subtype_id"`
	NonmotorDescription *string `gorm:"column:nonmotor_description;size:255" json:"nonmotor_description"`

	PolicyCompanyID *uint               `gorm:"column:policy_company_id" json:"policy_company_id"`
	PolicyNum       *string             `gorm:"column:policy_num;size:50;index" json:"policy_num"`
	StartDate       *Date               `gorm:"column:start_date" json:"start_date" swaggertype:"string"`
	EndDate         *Date               `gorm:"column:end_date" json:"end_date" swaggertype:"string"`
	Premium         decimal.NullDecimal `gorm:"column:premium;type:decimal(12,2)" json:"premium" swaggertype:"number"`
	Advance         decimal.NullDecimal `gorm:"column:advance;type:decimal(12,2)" json:"advance" swaggertype:"number"`
	Recovery        decimal.NullDecimal `gorm:"column:recovery;type:decimal(12,2)" json:"recovery" swaggertype:"number"`
	PaymentMode     *string             `gorm:"column:payment_mode;size:10" json:"payment_mode" enums:"CASH,CHEQUE,ONLINE,CARD"`
	BankID          *uint               `gorm:"column:bank_id" json:"bank_id"`
	ChequeNum       *string             `gorm:"column:cheque_num;size:20" json:"cheque_num"`
	AdviserID       *uint               `gorm:"column:adviser_id" json:"adviser_id"`

	Balance decimal.Decimal `gorm:"-" json:"balance" swaggertype:"number"`
}

func (GicEntry) TableName() string           { return "gic_entries" }
func (GicEntry) Kind() string                { return "gic" }
func (GicEntry) DiscriminatorColumn() string { return "policy_type" }

func (e *GicEntry) Normalize() {
	e.normalizeBase()
	e.VehicleClassID = cleanID(e.VehicleClassID)
	e.NonmotorSubtypeID = cleanID(e.NonmotorSubtypeID)
	e.PolicyCompanyID = cleanID(e.PolicyCompanyID)
	e.BankID = cleanID(e.BankID)
	e.AdviserID = cleanID(e.AdviserID)
	e.PolicyType = upper(e.PolicyType)
	e.MotorSubtype = upperString(e.MotorSubtype)
	e.VehicleNum = upperString(e.VehicleNum)
	e.NonmotorDescription = cleanString(e.NonmotorDescription)
	e.PolicyNum = cleanString(e.PolicyNum)
	e.StartDate = e.StartDate.OrNil()
	e.EndDate = e.EndDate.OrNil()
	normalizePayment(&e.PaymentMode, &e.ChequeNum)

	switch e.PolicyType {
	case PolicyMotor:
		e.NonmotorSubtypeID = nil
		e.NonmotorDescription = nil
	case PolicyNonMotor:
		e.MotorSubtype = nil
		e.VehicleNum = nil
		e.VehicleClassID = nil
	}
}

func (e *GicEntry) Validate() error {
	if err := e.validateBase(StatusPending, StatusComplete, StatusCDA, StatusCancelled, StatusOther); err != nil {
		return err
	}
	if err := checkEnum("policy_type", e.PolicyType, PolicyMotor, PolicyNonMotor); err != nil {
		return err
	}

	var group error
	if e.PolicyType == PolicyMotor {
		group = firstErr(
			requireString("motor_subtype", e.MotorSubtype),
			checkOptionalEnum("motor_subtype", e.MotorSubtype, MotorSubtypeA, MotorSubtypeB, MotorSubtypeSAOD, MotorSubtypeEndst),
			requireString("vehicle_num", e.VehicleNum),
		)
	} else {
		group = requireID("nonmotor_subtype_id", e.NonmotorSubtypeID)
	}

	return firstErr(
		group,
		checkOptionalEnum("payment_mode", e.PaymentMode, paymentModes...),
		checkNonNegative("premium", e.Premium),
		checkNonNegative("advance", e.Advance),
		checkNonNegative("recovery", e.Recovery),
		checkDateOrder("end_date", e.StartDate, e.EndDate),
	)
}

func (e *GicEntry) Derive() {
	e.Balance = calculator.GICBalance(e.Premium, e.Advance, e.Recovery)
}

func (e *GicEntry) DropdownRefs() []DropdownRef {
	return []DropdownRef{
		{Field: "vehicle_class_id", Category: CategoryVehicleClass, ID: e.VehicleClassID},
		{Field: "nonmotor_subtype_id", Category: CategoryNonmotorSubtype, ID: e.NonmotorSubtypeID},
		{Field: "policy_company_id", Category: CategoryPolicyCompany, ID: e.PolicyCompanyID},
		{Field: "bank_id", Category: CategoryBank, ID: e.BankID},
		{Field: "adviser_id", Category: CategoryAdviser, ID: e.AdviserID},
	}
}

func (e *GicEntry) SummaryAmount() decimal.Decimal {
	return e.Balance
}

func (e *GicEntry) AfterFind(*gorm.DB) error {
	e.Derive()
	return nil
}
