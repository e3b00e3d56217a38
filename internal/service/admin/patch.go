package admin

import (
	"fmt"
	"math"
	"strings"
	"time"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindOptString
	kindBool
	kindNumber
	kindPositive
	kindInt
	kindDate
	kindOptDate
	kindVehicle
	kindAccount
	kindStatus
)

const (
	msgUnknownField = "Campo no editable"
	msgInvalidValue = "Valor inválido"
	msgEmptyPatch   = "No hay cambios para guardar"
)

// stripped never reach the document store.
var stripped = map[string]struct{}{
	"id":        {},
	"uid":       {},
	"role":      {},
	"createdAt": {},
	"updatedAt": {},
}

var customerFields = map[string]fieldKind{
	"email":           kindString,
	"isActive":        kindBool,
	"firstName":       kindString,
	"lastName":        kindString,
	"idCard":          kindString,
	"phone":           kindString,
	"address":         kindString,
	"neighborhood":    kindString,
	"profileImageURL": kindOptString,
	"registerDate":    kindDate,
	"isPreferential":  kindBool,
	"rateTableId":     kindOptString,
}

var courierFields = map[string]fieldKind{
	"email":                     kindString,
	"isActive":                  kindBool,
	"firstName":                 kindString,
	"lastName":                  kindString,
	"idCard":                    kindString,
	"phone":                     kindString,
	"address":                   kindString,
	"neighborhood":              kindString,
	"birthDate":                 kindDate,
	"bloodType":                 kindString,
	"emergencyContactName":      kindString,
	"emergencyContactPhone":     kindString,
	"vehicleType":               kindVehicle,
	"vehiclePlate":              kindString,
	"vehicleBrand":              kindString,
	"vehicleModel":              kindString,
	"vehicleColor":              kindString,
	"soatExpiryDate":            kindOptDate,
	"technicalReviewExpiryDate": kindOptDate,
	"drivingLicenseNumber":      kindString,
	"drivingLicenseCategory":    kindString,
	"drivingLicenseExpiry":      kindOptDate,
	"bankName":                  kindString,
	"accountType":               kindAccount,
	"accountNumber":             kindString,
	"acceptsMessaging":          kindBool,
	"acceptsErrands":            kindBool,
	"acceptsTransport":          kindBool,
	"maxDeliveryDistance":       kindPositive,
	"isProfileComplete":         kindBool,
	"status":                    kindStatus,
	"currentOrderId":            kindOptString,
	"registerDate":              kindDate,
	"isApproved":                kindBool,
	"totalDeliveries":           kindInt,
	"rating":                    kindNumber,
	"totalEarnings":             kindNumber,
}

// sanitize drops immutable keys and converts the remaining values to their
// stored types. Unknown keys and badly typed values fail as a ValidationError.
func sanitize(patch map[string]any, schema map[string]fieldKind) (map[string]any, error) {
	out := make(map[string]any, len(patch))
	problems := make(map[string]string)

	for k, v := range patch {
		if _, skip := stripped[k]; skip {
			continue
		}
		kind, ok := schema[k]
		if !ok {
			problems[k] = msgUnknownField
			continue
		}
		cv, err := convert(kind, v)
		if err != nil {
			problems[k] = msgInvalidValue
			continue
		}
		out[k] = cv
	}
	if err := apperr.NewValidationError(problems); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.NewValidationError(map[string]string{"fields": msgEmptyPatch})
	}
	return out, nil
}

func convert(kind fieldKind, v any) (any, error) {
	switch kind {
	case kindString:
		s, ok := v.(string)
		if !ok {
			return nil, errType(v)
		}
		return strings.TrimSpace(s), nil
	case kindOptString:
		if v == nil {
			return nil, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, errType(v)
		}
		return s, nil
	case kindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, errType(v)
		}
		return b, nil
	case kindNumber:
		f, ok := toFloat(v)
		if !ok || f < 0 {
			return nil, errType(v)
		}
		return f, nil
	case kindPositive:
		f, ok := toFloat(v)
		if !ok || f <= 0 {
			return nil, errType(v)
		}
		return f, nil
	case kindInt:
		f, ok := toFloat(v)
		if !ok || f < 0 || f != math.Trunc(f) {
			return nil, errType(v)
		}
		return int64(f), nil
	case kindDate:
		return parseDate(v)
	case kindOptDate:
		if v == nil {
			return nil, nil
		}
		return parseDate(v)
	case kindVehicle:
		s, _ := v.(string)
		if !domain.VehicleType(s).Valid() {
			return nil, errType(v)
		}
		return s, nil
	case kindAccount:
		s, _ := v.(string)
		if !domain.BankAccountType(s).Valid() {
			return nil, errType(v)
		}
		return s, nil
	case kindStatus:
		s, _ := v.(string)
		if !domain.CourierStatus(s).Valid() {
			return nil, errType(v)
		}
		return s, nil
	}
	return nil, errType(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// parseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func parseDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		if d, err := time.Parse(time.DateOnly, s); err == nil {
			return d, nil
		}
		d, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
		return d.UTC(), nil
	}
	return time.Time{}, errType(v)
}

func errType(v any) error {
	return fmt.Errorf("%w: unexpected value %v (%T)", apperr.ErrInvalid, v, v)
}
