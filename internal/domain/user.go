package domain

import "time"

// Service area shared by every customer and courier address.
const (
	LocationCity    = "Cúcuta"
	LocationState   = "Norte de Santander"
	LocationCountry = "Colombia"
)

// BaseUser holds the fields every account document carries.
type BaseUser struct {
	ID        string    `json:"id" firestore:"-"`
	Email     string    `json:"email" firestore:"email"`
	Role      Role      `json:"role" firestore:"role"`
	IsActive  bool      `json:"isActive" firestore:"isActive"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Customer is an account with role "user" (collection users).
type Customer struct {
	BaseUser
	UID string `json:"uid" firestore:"uid"`

	FirstName string `json:"firstName" firestore:"firstName"`
	LastName  string `json:"lastName" firestore:"lastName"`
	IDCard    string `json:"idCard" firestore:"idCard"`
	Phone     string `json:"phone" firestore:"phone"`

	Address      string `json:"address" firestore:"address"`
	Neighborhood string `json:"neighborhood" firestore:"neighborhood"`

	ProfileImageURL *string   `json:"profileImageURL" firestore:"profileImageURL"`
	RegisterDate    time.Time `json:"registerDate" firestore:"registerDate"`

	IsPreferential bool    `json:"isPreferential" firestore:"isPreferential"`
	RateTableID    *string `json:"rateTableId" firestore:"rateTableId"`
}

// Courier is an account with role "delivery" (collection deliveries).
type Courier struct {
	BaseUser
	UID string `json:"uid" firestore:"uid"`

	FirstName string `json:"firstName" firestore:"firstName"`
	LastName  string `json:"lastName" firestore:"lastName"`
	IDCard    string `json:"idCard" firestore:"idCard"`
	Phone     string `json:"phone" firestore:"phone"`

	Address      string `json:"address" firestore:"address"`
	Neighborhood string `json:"neighborhood" firestore:"neighborhood"`

	BirthDate             time.Time `json:"birthDate" firestore:"birthDate"`
	BloodType             string    `json:"bloodType" firestore:"bloodType"`
	EmergencyContactName  string    `json:"emergencyContactName" firestore:"emergencyContactName"`
	EmergencyContactPhone string    `json:"emergencyContactPhone" firestore:"emergencyContactPhone"`

	VehicleType               VehicleType `json:"vehicleType" firestore:"vehicleType"`
	VehiclePlate              string      `json:"vehiclePlate" firestore:"vehiclePlate"`
	VehicleBrand              string      `json:"vehicleBrand" firestore:"vehicleBrand"`
	VehicleModel              string      `json:"vehicleModel" firestore:"vehicleModel"`
	VehicleColor              string      `json:"vehicleColor" firestore:"vehicleColor"`
	SoatExpiryDate            *time.Time  `json:"soatExpiryDate" firestore:"soatExpiryDate"`
	TechnicalReviewExpiryDate *time.Time  `json:"technicalReviewExpiryDate" firestore:"technicalReviewExpiryDate"`

	DrivingLicenseNumber   string     `json:"drivingLicenseNumber" firestore:"drivingLicenseNumber"`
	DrivingLicenseCategory string     `json:"drivingLicenseCategory" firestore:"drivingLicenseCategory"`
	DrivingLicenseExpiry   *time.Time `json:"drivingLicenseExpiry" firestore:"drivingLicenseExpiry"`

	BankName      string          `json:"bankName" firestore:"bankName"`
	AccountType   BankAccountType `json:"accountType" firestore:"accountType"`
	AccountNumber string          `json:"accountNumber" firestore:"accountNumber"`

	AcceptsMessaging    bool    `json:"acceptsMessaging" firestore:"acceptsMessaging"`
	AcceptsErrands      bool    `json:"acceptsErrands" firestore:"acceptsErrands"`
	AcceptsTransport    bool    `json:"acceptsTransport" firestore:"acceptsTransport"`
	MaxDeliveryDistance float64 `json:"maxDeliveryDistance" firestore:"maxDeliveryDistance"`

	IsProfileComplete bool          `json:"isProfileComplete" firestore:"isProfileComplete"`
	Status            CourierStatus `json:"status" firestore:"status"`
	CurrentOrderID    *string       `json:"currentOrderId" firestore:"currentOrderId"`
	RegisterDate      time.Time     `json:"registerDate" firestore:"registerDate"`
	IsApproved        bool          `json:"isApproved" firestore:"isApproved"`

	TotalDeliveries int     `json:"totalDeliveries" firestore:"totalDeliveries"`
	Rating          float64 `json:"rating" firestore:"rating"`
	TotalEarnings   float64 `json:"totalEarnings" firestore:"totalEarnings"`
}

// Admin is an account with role "admin" (collection admins).
type Admin struct {
	BaseUser
}

// ReviewState returns the derived administrator review state of the courier.
func (c Courier) ReviewState() ReviewState {
	return DeriveReviewState(c.IsApproved, c.IsActive)
}

// FullName joins first and last name.
func (c Courier) FullName() string { return joinName(c.FirstName, c.LastName) }

// FullName joins first and last name.
func (c Customer) FullName() string { return joinName(c.FirstName, c.LastName) }

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// Normalize replaces missing timestamps with now so that formatting never sees a zero date.
func (b *BaseUser) Normalize(now time.Time) {
	b.CreatedAt = orNow(b.CreatedAt, now)
	b.UpdatedAt = orNow(b.UpdatedAt, now)
}

// Normalize replaces missing timestamps with now.
func (c *Customer) Normalize(now time.Time) {
	c.BaseUser.Normalize(now)
	c.RegisterDate = orNow(c.RegisterDate, now)
}

// Normalize replaces missing required timestamps with now; optional expiry dates stay nil.
func (c *Courier) Normalize(now time.Time) {
	c.BaseUser.Normalize(now)
	c.RegisterDate = orNow(c.RegisterDate, now)
	c.BirthDate = orNow(c.BirthDate, now)
	c.SoatExpiryDate = zeroToNil(c.SoatExpiryDate)
	c.TechnicalReviewExpiryDate = zeroToNil(c.TechnicalReviewExpiryDate)
	c.DrivingLicenseExpiry = zeroToNil(c.DrivingLicenseExpiry)
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}

func zeroToNil(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}
