package audit

import (
	"fmt"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/gateway/mail"
)

const (
	approvedSubject = "Tu cuenta de domiciliario fue aprobada"
	rejectedSubject = "Tu solicitud de domiciliario fue rechazada"
)

func approvedMessage(c domain.Courier) mail.Message {
	return mail.Message{
		ToName:  c.FullName(),
		ToEmail: c.Email,
		Subject: approvedSubject,
		Text: fmt.Sprintf("Hola %s,\n\nTu cuenta de domiciliario en Virtual VR fue aprobada. "+
			"Ya puedes iniciar sesión y empezar a recibir pedidos en %s.\n", c.FirstName, domain.LocationCity),
	}
}

func rejectedMessage(c domain.Courier) mail.Message {
	return mail.Message{
		ToName:  c.FullName(),
		ToEmail: c.Email,
		Subject: rejectedSubject,
		Text: fmt.Sprintf("Hola %s,\n\nRevisamos tu solicitud de domiciliario en Virtual VR y no fue aprobada. "+
			"Si crees que se trata de un error, responde a este correo.\n", c.FirstName),
	}
}
