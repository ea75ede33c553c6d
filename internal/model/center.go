package model

// CenterType distinguishes the kinds of disposal locations in the directory.
type CenterType string

// Directory center types.
const (
	CenterRecycling CenterType = "recycling"
	CenterDonation  CenterType = "donation"
	CenterSpecial   CenterType = "special"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Center is one entry of the static disposal-location directory.
type Center struct {
	Name       string     `json:"name" yaml:"name"`
	Type       CenterType `json:"type" yaml:"type"`
	Address    string     `json:"address" yaml:"address"`
	Phone      string     `json:"phone" yaml:"phone"`
	Hours      string     `json:"hours" yaml:"hours"`
	Website    string     `json:"website" yaml:"website"`
	Directions string     `json:"directions,omitempty" yaml:"directions"`
	Services   []string   `json:"services" yaml:"services"`
	Transport  []string   `json:"transport,omitempty" yaml:"transport"`
	Landmarks  []string   `json:"landmarks,omitempty" yaml:"landmarks"`
	ID         int        `json:"id" yaml:"id"`
	Rating     float64    `json:"rating" yaml:"rating"`
	Lat        float64    `json:"lat" yaml:"lat"`
	Lng        float64    `json:"lng" yaml:"lng"`
}

// Coordinates returns the center's position as a Coordinates value.
func (c Center) Coordinates() Coordinates {
	return Coordinates{Lat: c.Lat, Lng: c.Lng}
}
