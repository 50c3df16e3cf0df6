package location

// Location is the normalized first result of a geocode lookup.
type Location struct {
	FormattedQuery string  `json:"formatted_query"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}
