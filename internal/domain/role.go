package domain

// Role tags every account and selects the document shape and collection.
type Role string

// List of account roles
const (
	RoleUser     Role = "user"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

// Firestore collection names per role.
const (
	CollectionUsers      = "users"
	CollectionDeliveries = "deliveries"
	CollectionAdmins     = "admins"
)

var allowedRoles = [...]Role{RoleUser, RoleDelivery, RoleAdmin}

var roleCollections = map[Role]string{
	RoleUser:     CollectionUsers,
	RoleDelivery: CollectionDeliveries,
	RoleAdmin:    CollectionAdmins,
}

var roleNames = map[Role]string{
	RoleUser:     "Cliente",
	RoleDelivery: "Domiciliario",
	RoleAdmin:    "Administrador",
}

var roleLanding = map[Role]string{
	RoleUser:     "/dashboard/user",
	RoleDelivery: "/dashboard/delivery",
	RoleAdmin:    "/dashboard/admin",
}

// Roles returns every known role in display order.
func Roles() []Role {
	return allowedRoles[:]
}

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Collection returns the document collection that stores accounts of this role.
func (r Role) Collection() string {
	return roleCollections[r]
}

// DisplayName returns the Spanish name shown to end users.
func (r Role) DisplayName() string {
	return roleNames[r]
}

// LandingPath returns the page an account of this role lands on after login or sign-up.
func (r Role) LandingPath() string {
	if p, ok := roleLanding[r]; ok {
		return p
	}
	return "/login"
}
