package models

import (
	appointmentsModels "github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
)

// Request модели

// CreateRequest запрос пациента на экспресс-турн
type CreateRequest struct {
	PatientID      int64
	ProfessionalID int64
	Notes          *string
}

// ProposeRequest предложение профессионала. Поля в исходном виде: формат проверяет сервис
type ProposeRequest struct {
	ProfessionalID int64 // ID профессионала (из X-User-ID)
	AppointmentID  int64
	Date           string // YYYY-MM-DD
	Start          string // HH:MM
	End            string // HH:MM
}

// Response модели

// ExpressListResponse открытые экспресс-запросы профессионала
type ExpressListResponse struct {
	ProfessionalID int64                                     `json:"professionalId"`
	Requests       []*appointmentsModels.AppointmentResponse `json:"requests"`
	Total          int                                       `json:"total"`
}
