package models

// Coordinates is a latitude/longitude pair as delivered by a map click.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Pin is a saved map location with the user's remark and its resolved address.
// Position in the saved list is the only identity a pin has.
type Pin struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Remark    string  `json:"remark"`
	Address   string  `json:"address"`
}

// Coordinates returns the pin's position.
func (p Pin) Coordinates() Coordinates {
	return Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}

// DisplayRemark returns the remark, or "No remark" when it is empty.
func (p Pin) DisplayRemark() string {
	if p.Remark == "" {
		return "No remark"
	}
	return p.Remark
}

// DisplayAddress returns the address, or "Loading..." while it is unresolved.
func (p Pin) DisplayAddress() string {
	if p.Address == "" {
		return "Loading..."
	}
	return p.Address
}
