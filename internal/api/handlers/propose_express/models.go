package propose_express

import "github.com/m04kA/SMC-TurnosService/internal/service/express/models"

// ProposeRequest HTTP request model. Формат даты и времени проверяет сервис
type ProposeRequest struct {
	Date  string `json:"date"`  // "2025-11-20"
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "10:00"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ProposeRequest) ToServiceRequest(professionalID, appointmentID int64) *models.ProposeRequest {
	return &models.ProposeRequest{
		ProfessionalID: professionalID,
		AppointmentID:  appointmentID,
		Date:           r.Date,
		Start:          r.Start,
		End:            r.End,
	}
}
