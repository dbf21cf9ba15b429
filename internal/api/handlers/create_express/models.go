package create_express

import "github.com/m04kA/SMC-TurnosService/internal/service/express/models"

// CreateExpressRequest HTTP request model
type CreateExpressRequest struct {
	ProfessionalID int64   `json:"professionalId"`
	Notes          *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateExpressRequest) ToServiceRequest(patientID int64) *models.CreateRequest {
	return &models.CreateRequest{
		PatientID:      patientID,
		ProfessionalID: r.ProfessionalID,
		Notes:          r.Notes,
	}
}
