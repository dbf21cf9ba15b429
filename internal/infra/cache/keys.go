package cache

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

const (
	FamilyAvailability             = "availability"
	FamilyPatientAppointments      = "appointments:patient"
	FamilyProfessionalAppointments = "appointments:professional"
	FamilyExpress                  = "express"
	FamilyPayments                 = "payments"
)

func AvailabilityKey(professionalID int64) string {
	return fmt.Sprintf("%s:%d", FamilyAvailability, professionalID)
}

func PatientAppointmentsKey(patientID int64) string {
	return fmt.Sprintf("%s:%d", FamilyPatientAppointments, patientID)
}

func ProfessionalAppointmentsKey(professionalID int64) string {
	return fmt.Sprintf("%s:%d", FamilyProfessionalAppointments, professionalID)
}

func ExpressKey(professionalID int64) string {
	return fmt.Sprintf("%s:%d", FamilyExpress, professionalID)
}

func PaymentsKey(professionalID int64) string {
	return fmt.Sprintf("%s:%d", FamilyPayments, professionalID)
}

// AppointmentKeys возвращает все ключи, затронутые изменением записи, для обеих сторон
func AppointmentKeys(a *domain.Appointment) []string {
	return []string{
		AvailabilityKey(a.ProfessionalID),
		PatientAppointmentsKey(a.PatientID),
		ProfessionalAppointmentsKey(a.ProfessionalID),
		ExpressKey(a.ProfessionalID),
		PaymentsKey(a.ProfessionalID),
	}
}

// family отрезает идентификатор: "appointments:patient:7" -> "appointments:patient"
func family(key string) string {
	if i := strings.LastIndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
