package models

// Fixed string sets. Everything admin-editable lives in dropdown_options instead.
const (
	ClientTypeIndividual = "INDIVIDUAL"
	ClientTypeCorporate  = "CORPORATE"

	TagA = "A"
	TagB = "B"
	TagC = "C"

	PaymentCash   = "CASH"
	PaymentCheque = "CHEQUE"
	PaymentOnline = "ONLINE"
	PaymentCard   = "CARD"

	StatusPending   = "PENDING"
	StatusComplete  = "COMPLETE"
	StatusCDA       = "CDA"
	StatusCancelled = "CANCELLED"
	StatusOther     = "OTHER"

	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var paymentModes = []string{PaymentCash, PaymentCheque, PaymentOnline, PaymentCard}

// Dropdown categories referenced by entity fields.
const (
	CategoryBank            = "bank"
	CategoryPolicyCompany   = "policy_company"
	CategoryVehicleClass    = "vehicle_class"
	CategoryNonmotorSubtype = "nonmotor_subtype"
	CategoryAgency          = "agency"
	CategoryServicingType   = "servicing_type"
	CategoryWorkType        = "work_type"
	CategoryTestPlace       = "test_place"
	CategoryClassOfVehicle  = "class_of_vehicle"
	CategoryAMC             = "amc"
	CategoryInsuranceCo     = "insurance_company"
	CategoryAdviser         = "adviser"
	CategoryInquiryType     = "inquiry_type"
)

// DropdownCategories lists every category the application reads.
var DropdownCategories = []string{
	CategoryBank,
	CategoryPolicyCompany,
	CategoryVehicleClass,
	CategoryNonmotorSubtype,
	CategoryAgency,
	CategoryServicingType,
	CategoryWorkType,
	CategoryTestPlace,
	CategoryClassOfVehicle,
	CategoryAMC,
	CategoryInsuranceCo,
	CategoryAdviser,
	CategoryInquiryType,
}
