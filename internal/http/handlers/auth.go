package handlers

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/authmsg"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/service/auth"
	"virtual-vr-console/internal/service/forms"
)

// Operation labels of auth_failures_total.
const (
	opLogin          = "login"
	opSignUpAdmin    = "signup_admin"
	opSignUpCustomer = "signup_user"
	opSignUpCourier  = "signup_delivery"
)

// AuthHandler serves sign-in, sign-up and session endpoints.
type AuthHandler struct {
	logger   logx.Logger
	uc       authUsecase
	forms    *forms.Validator
	failures *prometheus.CounterVec
}

// NewAuthHandler creates an AuthHandler. failures may be nil.
func NewAuthHandler(logger logx.Logger, uc authUsecase, v *forms.Validator, failures *prometheus.CounterVec) *AuthHandler {
	return &AuthHandler{logger: loggerOrNop(logger), uc: uc, forms: v, failures: failures}
}

type meResponse struct {
	Session  any    `json:"session"`
	Profile  any    `json:"profile"`
	Redirect string `json:"redirect"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req forms.LoginForm
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.forms.ValidateLogin(req); err != nil {
		msg := "invalid input"
		if ve, ok := apperr.AsValidation(err); ok {
			msg = ve.Message()
		}
		writeError(h.logger, w, r, http.StatusBadRequest, msg)
		return
	}

	res, err := h.uc.SignIn(r.Context(), domain.Credentials{Email: req.Email, Password: req.Password}, domain.Role(req.Role))
	if err != nil {
		h.fail(w, r, opLogin, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, res)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	if err := h.uc.SignOut(r.Context(), s); err != nil {
		h.logger.Error("sign out failed", logx.String("uid", s.UID), logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, authmsg.Fallback())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(h.logger, w, r)
	if !ok {
		return
	}
	profile, err := h.uc.GetByRole(r.Context(), s.UID, s.Role)
	switch {
	case err != nil:
		h.logger.Error("profile lookup failed", logx.String("uid", s.UID), logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, authmsg.Fallback())
	case profile == nil:
		writeError(h.logger, w, r, http.StatusNotFound, authmsg.ProfileNotFound(s.Role.DisplayName()))
	default:
		writeJSON(h.logger, w, r, http.StatusOK, meResponse{Session: s, Profile: profile, Redirect: s.Role.LandingPath()})
	}
}

// SignUpAdmin handles POST /api/auth/signup/admin.
func (h *AuthHandler) SignUpAdmin(w http.ResponseWriter, r *http.Request) {
	var req forms.AdminSignUp
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if !h.validForm(w, r, h.forms.ValidateAdmin(req)) {
		return
	}
	res, err := h.uc.SignUpAdmin(r.Context(), req.Registration())
	h.signedUp(w, r, opSignUpAdmin, res, err)
}

// SignUpCustomer handles POST /api/auth/signup/user.
func (h *AuthHandler) SignUpCustomer(w http.ResponseWriter, r *http.Request) {
	var req forms.CustomerSignUp
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if !h.validForm(w, r, h.forms.ValidateCustomer(req)) {
		return
	}
	res, err := h.uc.SignUpCustomer(r.Context(), req.Registration())
	h.signedUp(w, r, opSignUpCustomer, res, err)
}

// SignUpCourier handles POST /api/auth/signup/delivery.
func (h *AuthHandler) SignUpCourier(w http.ResponseWriter, r *http.Request) {
	var req forms.CourierSignUp
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if !h.validForm(w, r, h.forms.ValidateCourier(&req)) {
		return
	}
	reg, err := req.Registration()
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
		return
	}
	res, err := h.uc.SignUpCourier(r.Context(), reg)
	h.signedUp(w, r, opSignUpCourier, res, err)
}

func (h *AuthHandler) validForm(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return true
	}
	if ve, ok := apperr.AsValidation(err); ok {
		writeFieldErrors(h.logger, w, r, ve)
		return false
	}
	writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	return false
}

func (h *AuthHandler) signedUp(w http.ResponseWriter, r *http.Request, op string, res auth.Result, err error) {
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, res)
}

// fail answers an identity failure with its localized message.
func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := authmsg.CodeUnknown
	msg := authmsg.Fallback()
	status := http.StatusInternalServerError

	var ae *apperr.AuthError
	switch {
	case errors.As(err, &ae):
		code, msg, status = ae.Code, ae.Message, authStatus(ae.Code)
	case errors.Is(err, apperr.ErrInvalid):
		status = http.StatusBadRequest
	}

	if h.failures != nil {
		h.failures.WithLabelValues(op, code).Inc()
	}
	h.logger.Warn("auth failed",
		logx.String("req_id", reqID(r.Context())),
		logx.String("op", op),
		logx.String("code", code),
		logx.Err(err),
	)
	writeJSON(h.logger, w, r, status, errResponse{Error: msg, Code: code})
}

func authStatus(code string) int {
	switch code {
	case authmsg.CodeEmailInUse:
		return http.StatusConflict
	case authmsg.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case authmsg.CodeInvalidEmail, authmsg.CodeWeakPassword:
		return http.StatusBadRequest
	case authmsg.CodeNetworkFailed:
		return http.StatusServiceUnavailable
	case authmsg.CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}
