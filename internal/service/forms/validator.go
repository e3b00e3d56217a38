package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"virtual-vr-console/internal/apperr"
)

const (
	notBlankTag    = "notblank"
	mailAddrTag    = "mailaddr"
	positiveNumTag = "positivenum"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator validates forms and reports Spanish field messages.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with the custom tags and the Spanish fallback translations.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	locale := es.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("es")
	if err := es_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		notBlankTag:    notBlank,
		mailAddrTag:    mailAddr,
		positiveNumTag: positiveNumber,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, err
		}
		if err := v.RegisterTranslation(tag, trans,
			func(ut.Translator) error { return nil },
			translateCustom,
		); err != nil {
			return nil, err
		}
	}

	return &Validator{validate: v, trans: trans}, nil
}

// MustNew is New for wiring code.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateAdmin checks the administrator sign-up form.
func (v *Validator) ValidateAdmin(f AdminSignUp) error {
	return v.check(f, signUpMessages)
}

// ValidateCustomer checks the customer sign-up form.
func (v *Validator) ValidateCustomer(f CustomerSignUp) error {
	return v.check(f, signUpMessages)
}

// ValidateCourier applies the form defaults and checks the courier sign-up form.
func (v *Validator) ValidateCourier(f *CourierSignUp) error {
	f.ApplyDefaults()
	return v.check(*f, signUpMessages)
}

// ValidateLogin checks the login form and reports only the first problem.
func (v *Validator) ValidateLogin(f LoginForm) error {
	err := v.check(f, loginMessages)
	ve, ok := apperr.AsValidation(err)
	if !ok {
		return err
	}
	for _, field := range loginOrder {
		if msg, ok := ve.Fields[field]; ok {
			return apperr.NewValidationError(map[string]string{field: msg})
		}
	}
	return err
}

func (v *Validator) check(form any, table map[string]map[string]string) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = v.message(fe, table)
	}
	return apperr.NewValidationError(fields)
}

func (v *Validator) message(fe validator.FieldError, table map[string]map[string]string) string {
	if byTag, ok := table[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
		if msg, ok := byTag[anyTag]; ok {
			return msg
		}
	}
	return fe.Translate(v.trans)
}

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return false
}

func mailAddr(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && emailPattern.MatchString(s)
}

func positiveNumber(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, valid := parsePositive(s)
	return valid
}

func parsePositive(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " no puede estar vacío"
	case mailAddrTag:
		return fe.Field() + " debe ser un correo electrónico válido"
	case positiveNumTag:
		return fe.Field() + " debe ser un número positivo"
	default:
		return ""
	}
}
