package model

type Category string

const (
	CategoryCooling       Category = "Cooling"
	CategoryLighting      Category = "Lighting"
	CategoryEntertainment Category = "Entertainment"
	CategoryKitchen       Category = "Kitchen"
	CategoryWashing       Category = "Washing"
	CategoryOther         Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCooling,
	CategoryLighting,
	CategoryEntertainment,
	CategoryKitchen,
	CategoryWashing,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Device struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Wattage     float64  `json:"wattage"`
	HoursPerDay float64  `json:"hours_per_day"`
	Category    Category `json:"category"`
	RoomID      string   `json:"room_id,omitempty"`
	IsCustom    bool     `json:"is_custom"`
}

type Room struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Icon    string   `json:"icon"`
	Devices []Device `json:"devices"`
}

// Clone returns a copy of the room that shares no backing storage with r.
func (r Room) Clone() Room {
	out := r
	out.Devices = make([]Device, len(r.Devices))
	copy(out.Devices, r.Devices)
	return out
}

func CloneRooms(rooms []Room) []Room {
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out
}

// Location is the selected region and the rate applied to it. ManualRate is
// set when the rate was entered by hand instead of taken from the tariff table.
type Location struct {
	State       string  `json:"state"`
	RatePerUnit float64 `json:"rate_per_unit"`
	ManualRate  bool    `json:"manual_rate"`
}

// BillHistory is a point-in-time snapshot of the rooms and their derived totals.
type BillHistory struct {
	ID          string  `json:"id"`
	Timestamp   int64   `json:"timestamp"` // unix milliseconds
	Month       string  `json:"month"`     // e.g. "November 2025"
	TotalCost   float64 `json:"total_cost"`
	TotalUnits  float64 `json:"total_units"`
	TotalCO2    float64 `json:"total_co2"`
	DeviceCount int     `json:"device_count"`
	Rooms       []Room  `json:"rooms"`
	State       string  `json:"state"`
	RatePerUnit float64 `json:"rate_per_unit"`
}

func (b BillHistory) Clone() BillHistory {
	out := b
	out.Rooms = CloneRooms(b.Rooms)
	return out
}
