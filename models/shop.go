package models

import (
	"strings"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/shopspring/decimal"
)

// Shop is a business profile as stored by the platform backend. This service
// never persists shops itself; it reads them in bulk for dashboards and
// forwards creates/updates through the platform client.
type Shop struct {
	ID            string `json:"id"`
	ShopName      string `json:"shop_name" validate:"required"`
	OwnerName     string `json:"owner_name"`
	OwnerIdNumber string `json:"owner_id_number"`
	PhoneNumber   string `json:"phone_number"`

	Municipality  string  `json:"municipality"`
	Ward          string  `json:"ward"`
	GpsLatitude   float64 `json:"gps_latitude"`
	GpsLongitude  float64 `json:"gps_longitude"`
	StructureType string  `json:"structure_type"`

	ComplianceStatus ComplianceStatus `json:"compliance_status"`
	ComplianceScore  int              `json:"compliance_score" validate:"gte=0,lte=100"`
	RiskLevel        RiskLevel        `json:"risk_level"`
	FundingStatus    FundingStatus    `json:"funding_status"`
	FundingAmount    decimal.Decimal  `json:"funding_amount"`
	MonthlyRent      decimal.Decimal  `json:"monthly_rent"`

	TenureSecurityStatus TenureStatus `json:"tenure_security_status"`
	TradingMonths        int          `json:"trading_months"`
	TradingPermitNumber  string       `json:"trading_permit_number"`

	HasCoa                 bool `json:"has_coa"`
	HasBusinessBankAccount bool `json:"has_business_bank_account"`
	IsSarsRegistered       bool `json:"is_sars_registered"`

	NumEmployees int `json:"num_employees"`

	LastInspectionDate *time.Time `json:"last_inspection_date"`
	CreatedBy          string     `json:"created_by"`
	CreatedDate        time.Time  `json:"created_date"`
	UpdatedDate        time.Time  `json:"updated_date"`
}

// NewShop is the create payload accepted from the shop-registration wizard.
// Binding tags cover the required-field gates the wizard enforces per step.
type NewShop struct {
	ShopName      string `json:"shop_name" binding:"required"`
	OwnerName     string `json:"owner_name" binding:"required"`
	OwnerIdNumber string `json:"owner_id_number"`
	PhoneNumber   string `json:"phone_number"`

	Municipality  string  `json:"municipality" binding:"required"`
	Ward          string  `json:"ward"`
	GpsLatitude   float64 `json:"gps_latitude"`
	GpsLongitude  float64 `json:"gps_longitude"`
	StructureType string  `json:"structure_type"`

	TenureSecurityStatus TenureStatus    `json:"tenure_security_status"`
	TradingMonths        int             `json:"trading_months"`
	TradingPermitNumber  string          `json:"trading_permit_number"`
	MonthlyRent          decimal.Decimal `json:"monthly_rent"`

	HasCoa                 bool `json:"has_coa"`
	HasBusinessBankAccount bool `json:"has_business_bank_account"`
	IsSarsRegistered       bool `json:"is_sars_registered"`

	NumEmployees int `json:"num_employees"`
}

// Validate runs the field checks the platform cannot do for us before the
// record is forwarded: a ZA-parseable phone number when one is supplied.
func (input *NewShop) Validate() error {
	if strings.TrimSpace(input.PhoneNumber) != "" {
		if err := utils.ValidatePhoneNumber(input.PhoneNumber, utils.CountryCode); err != nil {
			return err
		}
	}
	return nil
}
