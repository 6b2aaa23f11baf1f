package handler

import (
	"time"

	"auditflow/internal/program/models"
	id "auditflow/pkg/domain"
)

// acceptanceResponse is the POST /api/audits/{id}/accept response body.
type acceptanceResponse struct {
	AuditID    id.AuditID `json:"auditId"`
	AuditorID  string     `json:"auditorId"`
	AcceptedAt time.Time  `json:"acceptedAt"`
}

func toAcceptanceResponse(acc *models.AcceptedAudit) acceptanceResponse {
	return acceptanceResponse{
		AuditID:    acc.AuditID,
		AuditorID:  acc.AuditorID.String(),
		AcceptedAt: acc.AcceptedAt,
	}
}

// listResponse wraps collection endpoints so clients get a stable envelope.
type listResponse struct {
	Programs []models.AuditProgram `json:"programs"`
}

func toListResponse(programs []models.AuditProgram) listResponse {
	if programs == nil {
		programs = []models.AuditProgram{}
	}
	return listResponse{Programs: programs}
}
