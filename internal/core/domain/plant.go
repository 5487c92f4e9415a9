package domain

import "time"

const (
	CareLevelDefault = "medium"
	// CareLevelUnknown is reported for stored plants that never had a care level.
	CareLevelUnknown = "unknown"
)

// Plant is the resource managed by the /plants endpoints.
type Plant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CareLevel string    `json:"care_level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlantPatch carries a partial update. Nil fields are left untouched.
type PlantPatch struct {
	Name      *string
	Type      *string
	CareLevel *string
}

// Empty reports whether the patch would change nothing.
func (p PlantPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.CareLevel == nil
}

// PlantFilter narrows plant listings. Zero values do not filter.
type PlantFilter struct {
	CareLevel string
}
