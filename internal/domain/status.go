package domain

type (
	// VehicleType represents the vehicle a courier delivers with.
	VehicleType string
	// BankAccountType represents the kind of bank account a courier is paid to.
	BankAccountType string
	// CourierStatus represents the live availability of a courier.
	CourierStatus string
	// ReviewState is the administrator review state derived from the approval flags.
	ReviewState string
)

// List of possible vehicle types
const (
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleBicycle    VehicleType = "bicycle"
	VehicleCar        VehicleType = "car"
	VehicleScooter    VehicleType = "scooter"
)

// List of possible bank account types
const (
	AccountSavings  BankAccountType = "savings"
	AccountChecking BankAccountType = "checking"
)

// List of possible courier statuses
const (
	StatusOffline   CourierStatus = "offline"
	StatusAvailable CourierStatus = "available"
	StatusBusy      CourierStatus = "busy"
)

// List of derived review states
const (
	ReviewPending  ReviewState = "pending"
	ReviewApproved ReviewState = "approved"
	ReviewRejected ReviewState = "rejected"
)

var allowedVehicleTypes = [...]VehicleType{
	VehicleMotorcycle, VehicleBicycle, VehicleCar, VehicleScooter,
}

var allowedAccountTypes = [...]BankAccountType{
	AccountSavings, AccountChecking,
}

var allowedStatuses = [...]CourierStatus{
	StatusOffline, StatusAvailable, StatusBusy,
}

var vehicleLabels = map[VehicleType]string{
	VehicleMotorcycle: "Motocicleta",
	VehicleBicycle:    "Bicicleta",
	VehicleCar:        "Automóvil",
	VehicleScooter:    "Scooter",
}

var accountLabels = map[BankAccountType]string{
	AccountSavings:  "Ahorros",
	AccountChecking: "Corriente",
}

var statusLabels = map[CourierStatus]string{
	StatusOffline:   "Desconectado",
	StatusAvailable: "Disponible",
	StatusBusy:      "Ocupado",
}

// VehicleTypes returns every known vehicle type.
func VehicleTypes() []VehicleType {
	return allowedVehicleTypes[:]
}

// Valid checks if the VehicleType is valid
func (v VehicleType) Valid() bool {
	for _, t := range allowedVehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Label returns the Spanish display name.
func (v VehicleType) Label() string { return vehicleLabels[v] }

// Valid checks if the BankAccountType is valid
func (a BankAccountType) Valid() bool {
	for _, t := range allowedAccountTypes {
		if a == t {
			return true
		}
	}
	return false
}

// Label returns the Spanish display name.
func (a BankAccountType) Label() string { return accountLabels[a] }

// Valid checks if the CourierStatus is valid
func (s CourierStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns the Spanish display name.
func (s CourierStatus) Label() string { return statusLabels[s] }

// DeriveReviewState maps the approval flag pair onto a review state.
// Approved wins over the active flag; the remaining two combinations split on isActive.
func DeriveReviewState(isApproved, isActive bool) ReviewState {
	switch {
	case isApproved:
		return ReviewApproved
	case isActive:
		return ReviewPending
	default:
		return ReviewRejected
	}
}
