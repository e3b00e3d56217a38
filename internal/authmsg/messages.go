// Package authmsg maps identity provider error codes to Spanish user-facing messages.
package authmsg

import (
	"strings"

	"virtual-vr-console/internal/apperr"
)

// Known provider error codes.
const (
	CodeInvalidEmail       = "auth/invalid-email"
	CodeUserDisabled       = "auth/user-disabled"
	CodeUserNotFound       = "auth/user-not-found"
	CodeWrongPassword      = "auth/wrong-password"
	CodeEmailInUse         = "auth/email-already-in-use"
	CodeWeakPassword       = "auth/weak-password"
	CodeNetworkFailed      = "auth/network-request-failed"
	CodeTooManyRequests    = "auth/too-many-requests"
	CodeInvalidCredential  = "auth/invalid-credential"
	CodeProfileNotFound    = "app/profile-not-found"
	CodeUnknown            = "auth/unknown"
	fallbackMessage        = "Ha ocurrido un error. Intenta nuevamente"
	profileNotFoundPrefix  = "Usuario no encontrado en el sistema como "
	restWeakPasswordPrefix = "WEAK_PASSWORD"
)

var messages = map[string]string{
	CodeInvalidEmail:      "El correo electrónico no es válido",
	CodeUserDisabled:      "Esta cuenta ha sido deshabilitada",
	CodeUserNotFound:      "No existe una cuenta con este correo",
	CodeWrongPassword:     "La contraseña es incorrecta",
	CodeEmailInUse:        "Este correo ya está registrado",
	CodeWeakPassword:      "La contraseña debe tener al menos 6 caracteres",
	CodeNetworkFailed:     "Error de conexión. Verifica tu internet",
	CodeTooManyRequests:   "Demasiados intentos. Intenta más tarde",
	CodeInvalidCredential: "Las credenciales proporcionadas son inválidas",
}

// Identity Toolkit REST error messages → provider codes.
var restCodes = map[string]string{
	"INVALID_EMAIL":               CodeInvalidEmail,
	"USER_DISABLED":               CodeUserDisabled,
	"EMAIL_NOT_FOUND":             CodeUserNotFound,
	"INVALID_PASSWORD":            CodeWrongPassword,
	"EMAIL_EXISTS":                CodeEmailInUse,
	"TOO_MANY_ATTEMPTS_TRY_LATER": CodeTooManyRequests,
	"INVALID_LOGIN_CREDENTIALS":   CodeInvalidCredential,
	"INVALID_IDP_RESPONSE":        CodeInvalidCredential,
}

// Message returns the user-facing message for code, or the generic fallback.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return fallbackMessage
}

// Fallback returns the generic "try again" message.
func Fallback() string { return fallbackMessage }

// Known reports whether code has a dedicated message.
func Known(code string) bool {
	_, ok := messages[code]
	return ok
}

// FromREST converts an Identity Toolkit error message (e.g. "WEAK_PASSWORD : Password should be...")
// into a provider code. Unrecognised messages map to CodeUnknown.
func FromREST(msg string) string {
	msg = strings.TrimSpace(msg)
	if strings.HasPrefix(msg, restWeakPasswordPrefix) {
		return CodeWeakPassword
	}
	if i := strings.Index(msg, " "); i > 0 {
		msg = msg[:i]
	}
	if code, ok := restCodes[msg]; ok {
		return code
	}
	return CodeUnknown
}

// ProfileNotFound returns the message shown when an account has no profile for the chosen role.
func ProfileNotFound(roleName string) string {
	return profileNotFoundPrefix + roleName
}

// Error builds the user-facing AuthError for code, keeping cause for logs.
func Error(code string, cause error) error {
	return &apperr.AuthError{Code: code, Message: Message(code), Err: cause}
}
