package entity

import "time"

// Property is a farm owned by a producer. Areas are whole hectares.
type Property struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	TotalArea        int        `json:"totalArea"`
	AgriculturalArea int        `json:"agriculturalArea"`
	VegetationArea   int        `json:"vegetationArea"`
	ProducerID       string     `json:"producerId"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	DeletedAt        *time.Time `json:"deletedAt"`
	Producer         *Producer  `json:"producer,omitempty"`
	Harvests         []Harvest  `json:"harvests,omitempty"`
}

func (p *Property) IsDeleted() bool { return p.DeletedAt != nil }

// AreasFit reports whether the arable and vegetation areas fit in the total.
func (p *Property) AreasFit() bool {
	return p.AgriculturalArea+p.VegetationArea <= p.TotalArea
}

// PropertySearchHit is a property document returned by full-text search.
type PropertySearchHit struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	TotalArea    int     `json:"totalArea"`
	ProducerID   string  `json:"producerId"`
	ProducerName string  `json:"producerName"`
	Score        float64 `json:"score"`
}
