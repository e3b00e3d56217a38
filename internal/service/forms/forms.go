// Package forms validates sign-up and login forms and packages them into
// registration payloads. Validation is synchronous and never calls a backend.
package forms

import (
	"fmt"
	"strings"
	"time"

	"virtual-vr-console/internal/domain"
)

const dateLayout = "2006-01-02"

// Selectable values offered by the courier form.
var (
	BloodTypes        = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	LicenseCategories = []string{"A1", "A2", "B1", "B2", "B3", "C1", "C2", "C3"}
	Banks             = []string{
		"Bancolombia", "Banco de Bogotá", "Davivienda", "BBVA Colombia",
		"Banco de Occidente", "Banco Popular", "Banco AV Villas", "Banco Caja Social",
		"Scotiabank Colpatria", "Banco Agrario", "Nequi", "Daviplata", "Otro",
	}
)

// Courier form defaults.
const (
	DefaultVehicleType         = domain.VehicleMotorcycle
	DefaultAccountType         = domain.AccountSavings
	DefaultMaxDeliveryDistance = "10"
)

// Account holds the credential fields shared by every sign-up form.
type Account struct {
	Email           string `json:"email" validate:"notblank,mailaddr"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Personal holds the identity and address fields of customers and couriers.
type Personal struct {
	FirstName    string `json:"firstName" validate:"notblank"`
	LastName     string `json:"lastName" validate:"notblank"`
	IDCard       string `json:"idCard" validate:"notblank"`
	Phone        string `json:"phone" validate:"notblank"`
	Address      string `json:"address" validate:"notblank"`
	Neighborhood string `json:"neighborhood" validate:"notblank"`
}

// AdminSignUp is the administrator sign-up form.
type AdminSignUp struct {
	Account
}

// CustomerSignUp is the customer sign-up form.
type CustomerSignUp struct {
	Account
	Personal
}

// CourierSignUp is the courier sign-up form. Dates are YYYY-MM-DD.
type CourierSignUp struct {
	Account
	Personal

	BirthDate             string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	BloodType             string `json:"bloodType" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	EmergencyContactName  string `json:"emergencyContactName" validate:"notblank"`
	EmergencyContactPhone string `json:"emergencyContactPhone" validate:"notblank"`

	VehicleType               string `json:"vehicleType" validate:"oneof=motorcycle bicycle car scooter"`
	VehiclePlate              string `json:"vehiclePlate" validate:"notblank"`
	VehicleBrand              string `json:"vehicleBrand" validate:"notblank"`
	VehicleModel              string `json:"vehicleModel" validate:"notblank"`
	VehicleColor              string `json:"vehicleColor" validate:"notblank"`
	SoatExpiryDate            string `json:"soatExpiryDate" validate:"required,datetime=2006-01-02"`
	TechnicalReviewExpiryDate string `json:"technicalReviewExpiryDate" validate:"required,datetime=2006-01-02"`

	DrivingLicenseNumber   string `json:"drivingLicenseNumber" validate:"notblank"`
	DrivingLicenseCategory string `json:"drivingLicenseCategory" validate:"required,oneof=A1 A2 B1 B2 B3 C1 C2 C3"`
	DrivingLicenseExpiry   string `json:"drivingLicenseExpiry" validate:"required,datetime=2006-01-02"`

	BankName      string `json:"bankName" validate:"required"`
	AccountType   string `json:"accountType" validate:"oneof=savings checking"`
	AccountNumber string `json:"accountNumber" validate:"notblank"`

	AcceptsMessaging    *bool   `json:"acceptsMessaging"`
	AcceptsErrands      *bool   `json:"acceptsErrands"`
	AcceptsTransport    *bool   `json:"acceptsTransport"`
	MaxDeliveryDistance *string `json:"maxDeliveryDistance" validate:"positivenum"`
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Role     string `json:"role" validate:"oneof=user delivery admin"`
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

// ApplyDefaults fills the fields the courier form pre-selects.
func (f *CourierSignUp) ApplyDefaults() {
	if f.VehicleType == "" {
		f.VehicleType = string(DefaultVehicleType)
	}
	if f.AccountType == "" {
		f.AccountType = string(DefaultAccountType)
	}
	if f.AcceptsMessaging == nil {
		f.AcceptsMessaging = boolPtr(true)
	}
	if f.AcceptsErrands == nil {
		f.AcceptsErrands = boolPtr(true)
	}
	if f.AcceptsTransport == nil {
		f.AcceptsTransport = boolPtr(false)
	}
	if f.MaxDeliveryDistance == nil {
		d := DefaultMaxDeliveryDistance
		f.MaxDeliveryDistance = &d
	}
}

func boolPtr(b bool) *bool { return &b }

func (a Account) credentials() domain.Credentials {
	return domain.Credentials{Email: strings.TrimSpace(a.Email), Password: a.Password}
}

// Registration packages a validated form.
func (f AdminSignUp) Registration() domain.AdminRegistration {
	return domain.AdminRegistration{Credentials: f.credentials()}
}

// Registration packages a validated form.
func (f CustomerSignUp) Registration() domain.CustomerRegistration {
	return domain.CustomerRegistration{
		Credentials:  f.credentials(),
		FirstName:    strings.TrimSpace(f.FirstName),
		LastName:     strings.TrimSpace(f.LastName),
		IDCard:       strings.TrimSpace(f.IDCard),
		Phone:        strings.TrimSpace(f.Phone),
		Address:      strings.TrimSpace(f.Address),
		Neighborhood: strings.TrimSpace(f.Neighborhood),
	}
}

// Registration packages a validated form; it fails only on input Validate would reject.
func (f CourierSignUp) Registration() (domain.CourierRegistration, error) {
	f.ApplyDefaults()

	birth, err := time.Parse(dateLayout, f.BirthDate)
	if err != nil {
		return domain.CourierRegistration{}, fmt.Errorf("birthDate: %w", err)
	}
	soat, err := parseOptionalDate(f.SoatExpiryDate)
	if err != nil {
		return domain.CourierRegistration{}, fmt.Errorf("soatExpiryDate: %w", err)
	}
	review, err := parseOptionalDate(f.TechnicalReviewExpiryDate)
	if err != nil {
		return domain.CourierRegistration{}, fmt.Errorf("technicalReviewExpiryDate: %w", err)
	}
	license, err := parseOptionalDate(f.DrivingLicenseExpiry)
	if err != nil {
		return domain.CourierRegistration{}, fmt.Errorf("drivingLicenseExpiry: %w", err)
	}
	distance, ok := parsePositive(*f.MaxDeliveryDistance)
	if !ok {
		return domain.CourierRegistration{}, fmt.Errorf("maxDeliveryDistance: invalid value %q", *f.MaxDeliveryDistance)
	}

	p := CustomerSignUp{Account: f.Account, Personal: f.Personal}.Registration()
	return domain.CourierRegistration{
		Credentials:  p.Credentials,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		IDCard:       p.IDCard,
		Phone:        p.Phone,
		Address:      p.Address,
		Neighborhood: p.Neighborhood,

		BirthDate:             birth,
		BloodType:             f.BloodType,
		EmergencyContactName:  strings.TrimSpace(f.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(f.EmergencyContactPhone),

		VehicleType:               domain.VehicleType(f.VehicleType),
		VehiclePlate:              strings.TrimSpace(f.VehiclePlate),
		VehicleBrand:              strings.TrimSpace(f.VehicleBrand),
		VehicleModel:              strings.TrimSpace(f.VehicleModel),
		VehicleColor:              strings.TrimSpace(f.VehicleColor),
		SoatExpiryDate:            soat,
		TechnicalReviewExpiryDate: review,

		DrivingLicenseNumber:   strings.TrimSpace(f.DrivingLicenseNumber),
		DrivingLicenseCategory: f.DrivingLicenseCategory,
		DrivingLicenseExpiry:   license,

		BankName:      f.BankName,
		AccountType:   domain.BankAccountType(f.AccountType),
		AccountNumber: strings.TrimSpace(f.AccountNumber),

		AcceptsMessaging:    *f.AcceptsMessaging,
		AcceptsErrands:      *f.AcceptsErrands,
		AcceptsTransport:    *f.AcceptsTransport,
		MaxDeliveryDistance: distance,
	}, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
