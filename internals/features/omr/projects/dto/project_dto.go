// file: internals/features/omr/projects/dto/project_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "omrku_backend/internals/features/omr/projects/model"
)

type CreateProjectRequest struct {
	OmrProjectName string `json:"omr_project_name" validate:"required,max=160"`
}

type ProjectResponse struct {
	OmrProjectID         uuid.UUID `json:"omr_project_id"`
	OmrProjectName       string    `json:"omr_project_name"`
	OmrProjectStatus     string    `json:"omr_project_status"`
	OmrProjectAuditCycle int       `json:"omr_project_audit_cycle"`
	OmrProjectCreatedAt  time.Time `json:"omr_project_created_at"`
	OmrProjectUpdatedAt  time.Time `json:"omr_project_updated_at"`
}

func NewProjectResponse(m *model.OmrProjectModel) ProjectResponse {
	return ProjectResponse{
		OmrProjectID:         m.OmrProjectID,
		OmrProjectName:       m.OmrProjectName,
		OmrProjectStatus:     m.OmrProjectStatus,
		OmrProjectAuditCycle: m.OmrProjectAuditCycle,
		OmrProjectCreatedAt:  m.OmrProjectCreatedAt,
		OmrProjectUpdatedAt:  m.OmrProjectUpdatedAt,
	}
}
