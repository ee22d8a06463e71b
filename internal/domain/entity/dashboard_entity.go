package entity

type CropCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

// Dashboard aggregates live harvests and crops. CropsByState counts harvests
// grouped by the state of their property.
type Dashboard struct {
	TotalHarvests int64        `json:"totalHarvests"`
	TotalCrops    int64        `json:"totalCrops"`
	CropsByType   []CropCount  `json:"cropsByType"`
	CropsByState  []StateCount `json:"cropsByState"`
}
