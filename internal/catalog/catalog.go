// Package catalog is the static appliance database and the room templates
// offered when creating a room.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

var ErrUnknownCategory = errors.New("unknown category")

const (
	// DefaultHoursPerDay is used when a device is added without a usage figure.
	DefaultHoursPerDay = 8
	// CustomBrand labels a hand-entered device that has no brand.
	CustomBrand = "Custom"
)

type Entry struct {
	Name     string         `json:"name"`
	Brand    string         `json:"brand"`
	Wattage  float64        `json:"wattage"`
	Category model.Category `json:"category"`
}

// Key is the "<name> - <brand>" label used to pick an entry.
func (e Entry) Key() string {
	return fmt.Sprintf("%s - %s", e.Name, e.Brand)
}

// NewDevice turns a catalog entry into a device for roomID.
func (e Entry) NewDevice(id, roomID string, hoursPerDay float64) model.Device {
	return model.Device{
		ID:          id,
		Name:        e.Name,
		Brand:       e.Brand,
		Wattage:     e.Wattage,
		HoursPerDay: hoursPerDay,
		Category:    e.Category,
		RoomID:      roomID,
	}
}

var entries = []Entry{
	// Cooling
	{"Samsung 1.5 Ton 3 Star Split AC", "Samsung", 1500, model.CategoryCooling},
	{"LG 1.5 Ton 5 Star Inverter AC", "LG", 1200, model.CategoryCooling},
	{"Voltas 1 Ton 3 Star AC", "Voltas", 1000, model.CategoryCooling},
	{"Godrej 1.5 Ton AC", "Godrej", 1400, model.CategoryCooling},
	{"Havells Ceiling Fan", "Havells", 75, model.CategoryCooling},
	{"Crompton Table Fan", "Crompton", 50, model.CategoryCooling},
	{"Bajaj Tower Fan", "Bajaj", 60, model.CategoryCooling},
	{"Usha Cooler", "Usha", 180, model.CategoryCooling},

	// Lighting
	{"Philips 9W LED Bulb", "Philips", 9, model.CategoryLighting},
	{"Syska 12W LED Bulb", "Syska", 12, model.CategoryLighting},
	{"Havells 20W LED Tubelight", "Havells", 20, model.CategoryLighting},
	{"Bajaj 40W CFL", "Bajaj", 40, model.CategoryLighting},
	{"Crompton LED Strip Light", "Crompton", 15, model.CategoryLighting},

	// Entertainment
	{`Samsung 55" 4K Smart TV`, "Samsung", 150, model.CategoryEntertainment},
	{`LG 43" Full HD TV`, "LG", 100, model.CategoryEntertainment},
	{`Sony 65" OLED TV`, "Sony", 200, model.CategoryEntertainment},
	{`Mi 32" HD TV`, "Mi", 60, model.CategoryEntertainment},
	{"Sony Home Theater System", "Sony", 120, model.CategoryEntertainment},
	{"JBL Soundbar", "JBL", 80, model.CategoryEntertainment},
	{"PS5 Gaming Console", "Sony", 200, model.CategoryEntertainment},

	// Kitchen
	{"Samsung 253L Refrigerator", "Samsung", 150, model.CategoryKitchen},
	{"LG 190L Single Door Fridge", "LG", 100, model.CategoryKitchen},
	{"Whirlpool 292L Double Door Fridge", "Whirlpool", 180, model.CategoryKitchen},
	{"Godrej 196L Refrigerator", "Godrej", 120, model.CategoryKitchen},
	{"IFB 20L Microwave Oven", "IFB", 1200, model.CategoryKitchen},
	{"Samsung 28L Convection Microwave", "Samsung", 1400, model.CategoryKitchen},
	{"Philips Air Fryer", "Philips", 1400, model.CategoryKitchen},
	{"Prestige Induction Cooktop", "Prestige", 2000, model.CategoryKitchen},
	{"Bajaj Mixer Grinder", "Bajaj", 750, model.CategoryKitchen},
	{"Philips Electric Kettle", "Philips", 1500, model.CategoryKitchen},
	{"Panasonic Rice Cooker", "Panasonic", 650, model.CategoryKitchen},
	{"Butterfly Wet Grinder", "Butterfly", 150, model.CategoryKitchen},

	// Washing
	{"Samsung 6.5kg Washing Machine", "Samsung", 500, model.CategoryWashing},
	{"LG 7kg Fully Automatic", "LG", 600, model.CategoryWashing},
	{"Whirlpool 6kg Semi-Automatic", "Whirlpool", 400, model.CategoryWashing},
	{"IFB 8kg Front Load Washer", "IFB", 700, model.CategoryWashing},
	{"Havells Water Heater Geyser 15L", "Havells", 2000, model.CategoryWashing},
	{"Crompton Instant Water Heater 3L", "Crompton", 3000, model.CategoryWashing},

	// Other
	{"Eureka Forbes Vacuum Cleaner", "Eureka Forbes", 1400, model.CategoryOther},
	{"Philips Iron", "Philips", 1000, model.CategoryOther},
	{"HP Desktop Computer", "HP", 300, model.CategoryOther},
	{"Dell Laptop", "Dell", 65, model.CategoryOther},
	{"Crompton Water Motor 0.5HP", "Crompton", 370, model.CategoryOther},
	{"Havells Immersion Rod", "Havells", 1500, model.CategoryOther},
	{"Kent RO Water Purifier", "Kent", 60, model.CategoryOther},
}

func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// ByCategory returns the entries of one category, in catalog order.
func ByCategory(category model.Category) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Filter narrows the catalog by a search query and a category. Either may be
// empty.
func Filter(query string, category model.Category) ([]Entry, error) {
	if category == "" {
		return Search(query), nil
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownCategory, category)
	}

	matches := ByCategory(category)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return matches, nil
	}
	out := matches[:0]
	for _, e := range matches {
		if e.matches(q) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (e Entry) matches(q string) bool {
	return strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Brand), q)
}

// Find looks an entry up by its Key.
func Find(key string) (Entry, bool) {
	for _, e := range entries {
		if e.Key() == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Search returns entries whose name or brand contains query, case-insensitively.
func Search(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Entries()
	}
	var out []Entry
	for _, e := range entries {
		if e.matches(q) {
			out = append(out, e)
		}
	}
	return out
}
