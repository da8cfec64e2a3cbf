package model

// BirthData identifies one subject for the external computation service.
type BirthData struct {
	Name      string  `json:"name"`
	BirthTime string  `json:"birth_time"` // RFC3339
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Location  string  `json:"location,omitempty"`
}

// ChartRequest is a chart computation order: who to cast for, which chart
// type, and which points the user has enabled.
type ChartRequest struct {
	ChartType    string     `json:"chart_type"`
	First        BirthData  `json:"first_subject"`
	Second       *BirthData `json:"second_subject,omitempty"`
	ActivePoints []string   `json:"active_points,omitempty"`
}
