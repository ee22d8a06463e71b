package entity

import "time"

// MinHarvestYear is the earliest accepted harvest year.
const MinHarvestYear = 1900

type Harvest struct {
	ID         string     `json:"id"`
	Year       int        `json:"year"`
	PropertyID string     `json:"propertyId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"deletedAt"`
	Property   *Property  `json:"property,omitempty"`
	Crops      []Crop     `json:"crops,omitempty"`
}

func (h *Harvest) IsDeleted() bool { return h.DeletedAt != nil }

// Crop is something planted in a harvest, e.g. "Soja" or "Milho".
type Crop struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	HarvestID string     `json:"harvestId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

func (c *Crop) IsDeleted() bool { return c.DeletedAt != nil }
