package forms

// anyTag matches every failed rule of a field without a more specific entry.
const anyTag = "*"

func required(msg string) map[string]string { return map[string]string{anyTag: msg} }

var signUpMessages = map[string]map[string]string{
	"email": {
		notBlankTag: "El correo electrónico es requerido",
		mailAddrTag: "Ingresa un correo electrónico válido",
	},
	"password": {
		"required": "La contraseña es requerida",
		"min":      "La contraseña debe tener al menos 6 caracteres",
	},
	"confirmPassword": {
		"required": "Confirma tu contraseña",
		"eqfield":  "Las contraseñas no coinciden",
	},

	"firstName":    required("El nombre es requerido"),
	"lastName":     required("El apellido es requerido"),
	"idCard":       required("La cédula es requerida"),
	"phone":        required("El teléfono es requerido"),
	"address":      required("La dirección es requerida"),
	"neighborhood": required("El barrio es requerido"),

	"birthDate": {
		"required": "La fecha de nacimiento es requerida",
		"datetime": "Ingresa una fecha válida",
	},
	"bloodType": {
		"required": "El tipo de sangre es requerido",
		"oneof":    "Selecciona un tipo de sangre válido",
	},
	"emergencyContactName":  required("El contacto de emergencia es requerido"),
	"emergencyContactPhone": required("El teléfono de emergencia es requerido"),

	"vehicleType":  required("Selecciona un tipo de vehículo válido"),
	"vehiclePlate": required("La placa es requerida"),
	"vehicleBrand": required("La marca es requerida"),
	"vehicleModel": required("El modelo es requerido"),
	"vehicleColor": required("El color es requerido"),
	"soatExpiryDate": {
		"required": "La fecha de vencimiento del SOAT es requerida",
		"datetime": "Ingresa una fecha válida",
	},
	"technicalReviewExpiryDate": {
		"required": "La fecha de vencimiento de la revisión es requerida",
		"datetime": "Ingresa una fecha válida",
	},

	"drivingLicenseNumber": required("El número de licencia es requerido"),
	"drivingLicenseCategory": {
		"required": "La categoría es requerida",
		"oneof":    "Selecciona una categoría válida",
	},
	"drivingLicenseExpiry": {
		"required": "La fecha de vencimiento es requerida",
		"datetime": "Ingresa una fecha válida",
	},

	"bankName":      required("El banco es requerido"),
	"accountType":   required("Selecciona un tipo de cuenta válido"),
	"accountNumber": required("El número de cuenta es requerido"),

	"maxDeliveryDistance": required("Ingresa una distancia válida"),
}

var loginOrder = []string{"role", "email", "password"}

var loginMessages = map[string]map[string]string{
	"role":     required("Selecciona un tipo de usuario"),
	"email":    required("Por favor ingresa tu correo electrónico"),
	"password": required("Por favor ingresa tu contraseña"),
}
