package admin

import "virtual-vr-console/internal/domain"

// Alert texts shown to the administrator when a mutation fails.
const (
	AlertApproveFailed      = "Error al aprobar el domiciliario"
	AlertRejectFailed       = "Error al rechazar el domiciliario"
	AlertStatusFailed       = "Error al cambiar el estado del usuario"
	AlertPreferentialFailed = "Error al cambiar el estado preferencial"
	AlertSaveFailed         = "Error al guardar los cambios"
)

var alerts = map[domain.ModerationAction]string{
	domain.ActionApprove:         AlertApproveFailed,
	domain.ActionReject:          AlertRejectFailed,
	domain.ActionSetActive:       AlertStatusFailed,
	domain.ActionSetPreferential: AlertPreferentialFailed,
	domain.ActionUpdate:          AlertSaveFailed,
}

// Alert returns the fixed message for a failed action.
func Alert(action domain.ModerationAction) string {
	if m, ok := alerts[action]; ok {
		return m
	}
	return AlertSaveFailed
}
