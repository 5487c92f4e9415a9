package handler

import "github.com/greenhouse/plants-api/internal/core/domain"

type createPlantRequest struct {
	Name      string `json:"name"       validate:"required,notblank"`
	Type      string `json:"type"       validate:"required,notblank"`
	CareLevel string `json:"care_level"`
}

// updatePlantRequest is a partial update; absent fields stay nil.
type updatePlantRequest struct {
	Name      *string `json:"name"`
	Type      *string `json:"type"`
	CareLevel *string `json:"care_level"`
}

type createPlantResponse struct {
	Message string        `json:"message"`
	ID      string        `json:"id"`
	Data    *domain.Plant `json:"data"`
}

type plantResponse struct {
	Message string        `json:"message"`
	Data    *domain.Plant `json:"data"`
}
