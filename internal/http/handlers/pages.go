package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/service/forms"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin          = "login.html"
	pageSignUp         = "signup.html"
	pageDashboardAdmin = "dashboard_admin.html"
	pageDashboard      = "dashboard.html"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type field struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Options []option
}

type section struct {
	Title  string
	Fields []field
}

type pageData struct {
	Title    string
	City     string
	Role     domain.Role
	RoleName string
	Roles    []option
	Vehicles []option
	Sections []section
}

// PageHandler renders the server-side pages.
type PageHandler struct {
	logger logx.Logger
	pages  map[string]*template.Template
}

// NewPageHandler parses the embedded templates.
func NewPageHandler(logger logx.Logger) (*PageHandler, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageLogin, pageSignUp, pageDashboardAdmin, pageDashboard} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &PageHandler{logger: loggerOrNop(logger), pages: pages}, nil
}

// Root handles GET / by sending the visitor to the login page.
func (h *PageHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Login handles GET /login.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	roles := make([]option, 0, len(domain.Roles()))
	for i, role := range domain.Roles() {
		roles = append(roles, option{Value: string(role), Label: role.DisplayName(), Selected: i == 0})
	}
	h.render(w, r, pageLogin, pageData{Title: "Iniciar sesión", Roles: roles})
}

// SignUp returns the handler of /{role}/signup.
func (h *PageHandler) SignUp(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, pageSignUp, pageData{
			Title:    "Registro",
			Role:     role,
			RoleName: role.DisplayName(),
			Sections: signUpSections(role),
		})
	}
}

// AdminDashboard handles GET /dashboard/admin.
func (h *PageHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, pageDashboardAdmin, pageData{
		Title:    "Panel de administración",
		Role:     domain.RoleAdmin,
		RoleName: domain.RoleAdmin.DisplayName(),
		Vehicles: vehicleOptions(),
	})
}

// Dashboard handles GET /dashboard/{role}. Unknown roles get the customer page.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(chi.URLParam(r, "role"))
	if role != domain.RoleDelivery {
		role = domain.RoleUser
	}
	h.render(w, r, pageDashboard, pageData{Title: "Panel", Role: role, RoleName: role.DisplayName()})
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.City = domain.LocationCity
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("render page failed", logx.String("page", name), logx.String("req_id", reqID(r.Context())), logx.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Debug("page write failed", logx.String("page", name), logx.Err(err))
	}
}

func vehicleOptions() []option {
	out := make([]option, 0, len(domain.VehicleTypes()))
	for _, v := range domain.VehicleTypes() {
		out = append(out, option{Value: string(v), Label: v.Label()})
	}
	return out
}

func plainOptions(values []string) []option {
	out := make([]option, 0, len(values))
	for _, v := range values {
		out = append(out, option{Value: v, Label: v})
	}
	return out
}

func signUpSections(role domain.Role) []section {
	account := section{Title: "Cuenta", Fields: []field{
		{Name: "email", Label: "Correo electrónico", Type: "email"},
		{Name: "password", Label: "Contraseña", Type: "password"},
		{Name: "confirmPassword", Label: "Confirmar contraseña", Type: "password"},
	}}
	if role == domain.RoleAdmin {
		return []section{account}
	}

	personal := section{Title: "Datos personales", Fields: []field{
		{Name: "firstName", Label: "Nombres", Type: "text"},
		{Name: "lastName", Label: "Apellidos", Type: "text"},
		{Name: "idCard", Label: "Cédula", Type: "text"},
		{Name: "phone", Label: "Teléfono", Type: "tel"},
		{Name: "address", Label: "Dirección", Type: "text"},
		{Name: "neighborhood", Label: "Barrio", Type: "text"},
	}}
	if role != domain.RoleDelivery {
		return []section{account, personal}
	}

	personal.Fields = append(personal.Fields,
		field{Name: "birthDate", Label: "Fecha de nacimiento", Type: "date"},
		field{Name: "bloodType", Label: "Tipo de sangre", Options: plainOptions(forms.BloodTypes)},
		field{Name: "emergencyContactName", Label: "Contacto de emergencia", Type: "text"},
		field{Name: "emergencyContactPhone", Label: "Teléfono de emergencia", Type: "tel"},
	)
	accountTypes := []option{
		{Value: string(domain.AccountSavings), Label: domain.AccountSavings.Label()},
		{Value: string(domain.AccountChecking), Label: domain.AccountChecking.Label()},
	}
	return []section{
		account,
		personal,
		{Title: "Vehículo", Fields: []field{
			{Name: "vehicleType", Label: "Tipo de vehículo", Value: string(forms.DefaultVehicleType), Options: vehicleOptions()},
			{Name: "vehiclePlate", Label: "Placa", Type: "text"},
			{Name: "vehicleBrand", Label: "Marca", Type: "text"},
			{Name: "vehicleModel", Label: "Modelo", Type: "text"},
			{Name: "vehicleColor", Label: "Color", Type: "text"},
			{Name: "soatExpiryDate", Label: "Vencimiento SOAT", Type: "date"},
			{Name: "technicalReviewExpiryDate", Label: "Vencimiento revisión técnico-mecánica", Type: "date"},
		}},
		{Title: "Licencia de conducción", Fields: []field{
			{Name: "drivingLicenseNumber", Label: "Número de licencia", Type: "text"},
			{Name: "drivingLicenseCategory", Label: "Categoría", Options: plainOptions(forms.LicenseCategories)},
			{Name: "drivingLicenseExpiry", Label: "Vencimiento", Type: "date"},
		}},
		{Title: "Datos bancarios", Fields: []field{
			{Name: "bankName", Label: "Banco", Options: plainOptions(forms.Banks)},
			{Name: "accountType", Label: "Tipo de cuenta", Value: string(forms.DefaultAccountType), Options: accountTypes},
			{Name: "accountNumber", Label: "Número de cuenta", Type: "text"},
		}},
		{Title: "Preferencias", Fields: []field{
			{Name: "acceptsMessaging", Label: "Acepto mensajería", Type: "checkbox", Value: "true"},
			{Name: "acceptsErrands", Label: "Acepto diligencias", Type: "checkbox", Value: "true"},
			{Name: "acceptsTransport", Label: "Acepto transporte", Type: "checkbox", Value: "false"},
			{Name: "maxDeliveryDistance", Label: "Distancia máxima (km)", Type: "number", Value: forms.DefaultMaxDeliveryDistance},
		}},
	}
}
