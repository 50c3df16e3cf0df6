package concert

// SearchParams are forwarded as-is to the discovery API. Empty values are sent
// as empty strings.
type SearchParams struct {
	Keyword string
	City    string
}

type NearbyParams struct {
	Lat     float64
	Long    float64
	Radius  int
	Keyword string
}

const (
	DefaultRadius  = 25
	MaxRadius      = 500
	DefaultKeyword = "concert"
)

// Summary is the trimmed view of an upstream event returned by the nearby lookup.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	Venue     string `json:"venue,omitempty"`
	City      string `json:"city,omitempty"`
}
