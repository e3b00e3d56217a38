package domain

import "time"

// Credentials are what an account signs in with.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CustomerRegistration is the validated sign-up payload of a customer.
type CustomerRegistration struct {
	Credentials
	FirstName    string
	LastName     string
	IDCard       string
	Phone        string
	Address      string
	Neighborhood string
}

// CourierRegistration is the validated sign-up payload of a courier.
type CourierRegistration struct {
	Credentials
	FirstName    string
	LastName     string
	IDCard       string
	Phone        string
	Address      string
	Neighborhood string

	BirthDate             time.Time
	BloodType             string
	EmergencyContactName  string
	EmergencyContactPhone string

	VehicleType               VehicleType
	VehiclePlate              string
	VehicleBrand              string
	VehicleModel              string
	VehicleColor              string
	SoatExpiryDate            *time.Time
	TechnicalReviewExpiryDate *time.Time

	DrivingLicenseNumber   string
	DrivingLicenseCategory string
	DrivingLicenseExpiry   *time.Time

	BankName      string
	AccountType   BankAccountType
	AccountNumber string

	AcceptsMessaging    bool
	AcceptsErrands      bool
	AcceptsTransport    bool
	MaxDeliveryDistance float64
}

// AdminRegistration is the validated sign-up payload of an administrator.
type AdminRegistration struct {
	Credentials
}
