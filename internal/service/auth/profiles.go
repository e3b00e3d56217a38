package auth

import (
	"strings"
	"time"

	"virtual-vr-console/internal/domain"
)

func newCustomer(uid string, reg domain.CustomerRegistration, now time.Time) *domain.Customer {
	return &domain.Customer{
		BaseUser: domain.BaseUser{
			ID:        uid,
			Email:     reg.Email,
			Role:      domain.RoleUser,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UID:          uid,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		IDCard:       reg.IDCard,
		Phone:        reg.Phone,
		Address:      reg.Address,
		Neighborhood: reg.Neighborhood,
		RegisterDate: now,
	}
}

func newCourier(uid string, reg domain.CourierRegistration, now time.Time) *domain.Courier {
	return &domain.Courier{
		BaseUser: domain.BaseUser{
			ID:        uid,
			Email:     reg.Email,
			Role:      domain.RoleDelivery,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UID:          uid,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		IDCard:       reg.IDCard,
		Phone:        reg.Phone,
		Address:      reg.Address,
		Neighborhood: reg.Neighborhood,

		BirthDate:             reg.BirthDate,
		BloodType:             reg.BloodType,
		EmergencyContactName:  reg.EmergencyContactName,
		EmergencyContactPhone: reg.EmergencyContactPhone,

		VehicleType:               reg.VehicleType,
		VehiclePlate:              strings.ToUpper(reg.VehiclePlate),
		VehicleBrand:              reg.VehicleBrand,
		VehicleModel:              reg.VehicleModel,
		VehicleColor:              reg.VehicleColor,
		SoatExpiryDate:            reg.SoatExpiryDate,
		TechnicalReviewExpiryDate: reg.TechnicalReviewExpiryDate,

		DrivingLicenseNumber:   reg.DrivingLicenseNumber,
		DrivingLicenseCategory: reg.DrivingLicenseCategory,
		DrivingLicenseExpiry:   reg.DrivingLicenseExpiry,

		BankName:      reg.BankName,
		AccountType:   reg.AccountType,
		AccountNumber: reg.AccountNumber,

		AcceptsMessaging:    reg.AcceptsMessaging,
		AcceptsErrands:      reg.AcceptsErrands,
		AcceptsTransport:    reg.AcceptsTransport,
		MaxDeliveryDistance: reg.MaxDeliveryDistance,

		IsProfileComplete: true,
		Status:            domain.StatusOffline,
		RegisterDate:      now,
		IsApproved:        false,
	}
}

func newAdmin(uid string, reg domain.AdminRegistration, now time.Time) *domain.Admin {
	return &domain.Admin{BaseUser: domain.BaseUser{
		ID:        uid,
		Email:     reg.Email,
		Role:      domain.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}}
}
