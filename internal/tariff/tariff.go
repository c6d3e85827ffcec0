// Package tariff holds the static per-region reference data: the domestic
// electricity rate and the average peak sun-hours used for solar sizing.
package tariff

// DefaultAvgSunHours applies when no region is selected or the region is unknown.
const DefaultAvgSunHours = 4.5

type Rate struct {
	State       string  `json:"state"`
	RatePerUnit float64 `json:"rate_per_unit"`
}

type Irradiance struct {
	State       string  `json:"state"`
	AvgSunHours float64 `json:"avg_sun_hours"`
}

// Approximate average domestic slab rates in ₹/kWh.
var rates = []Rate{
	{"Andhra Pradesh", 6.70},
	{"Arunachal Pradesh", 4.00},
	{"Assam", 6.95},
	{"Bihar", 7.42},
	{"Chhattisgarh", 5.40},
	{"Goa", 3.80},
	{"Gujarat", 5.50},
	{"Haryana", 6.50},
	{"Himachal Pradesh", 5.50},
	{"Jharkhand", 6.25},
	{"Karnataka", 7.00},
	{"Kerala", 6.40},
	{"Madhya Pradesh", 6.70},
	{"Maharashtra", 8.50},
	{"Manipur", 6.00},
	{"Meghalaya", 6.60},
	{"Mizoram", 5.60},
	{"Nagaland", 6.00},
	{"Odisha", 5.70},
	{"Punjab", 6.96},
	{"Rajasthan", 7.95},
	{"Sikkim", 3.50},
	{"Tamil Nadu", 5.50},
	{"Telangana", 7.00},
	{"Tripura", 6.30},
	{"Uttar Pradesh", 6.50},
	{"Uttarakhand", 5.30},
	{"West Bengal", 7.80},
	{"Delhi", 6.50},
	{"Jammu & Kashmir", 4.40},
	{"Ladakh", 4.40},
	{"Puducherry", 4.50},
	{"Chandigarh", 4.75},
	{"Andaman & Nicobar Islands", 5.00},
	{"Dadra & Nagar Haveli and Daman & Diu", 3.50},
	{"Lakshadweep", 5.00},
}

// Rough average peak sun hours per day. Ballpark figures only.
var irradiance = []Irradiance{
	{"Andhra Pradesh", 5.0},
	{"Arunachal Pradesh", 3.5},
	{"Assam", 4.0},
	{"Bihar", 4.5},
	{"Chhattisgarh", 5.0},
	{"Goa", 5.0},
	{"Gujarat", 5.8},
	{"Haryana", 5.0},
	{"Himachal Pradesh", 4.0},
	{"Jharkhand", 4.8},
	{"Karnataka", 5.0},
	{"Kerala", 4.0},
	{"Madhya Pradesh", 5.3},
	{"Maharashtra", 5.0},
	{"Manipur", 4.0},
	{"Meghalaya", 3.8},
	{"Mizoram", 3.8},
	{"Nagaland", 3.8},
	{"Odisha", 4.8},
	{"Punjab", 5.2},
	{"Rajasthan", 6.0},
	{"Sikkim", 3.5},
	{"Tamil Nadu", 4.5},
	{"Telangana", 5.2},
	{"Tripura", 4.0},
	{"Uttar Pradesh", 4.8},
	{"Uttarakhand", 4.0},
	{"West Bengal", 4.5},
	{"Delhi", 5.0},
	{"Jammu & Kashmir", 4.0},
	{"Ladakh", 5.5},
	{"Puducherry", 4.8},
	{"Chandigarh", 5.0},
	{"Andaman & Nicobar Islands", 4.2},
	{"Dadra & Nagar Haveli and Daman & Diu", 5.0},
	{"Lakshadweep", 4.5},
}

// Rates returns a copy of the tariff table in display order.
func Rates() []Rate {
	out := make([]Rate, len(rates))
	copy(out, rates)
	return out
}

func IrradianceTable() []Irradiance {
	out := make([]Irradiance, len(irradiance))
	copy(out, irradiance)
	return out
}

// RateFor looks a region up by exact name.
func RateFor(state string) (float64, bool) {
	for _, r := range rates {
		if r.State == state {
			return r.RatePerUnit, true
		}
	}
	return 0, false
}

// SunHoursFor returns the region's average sun-hours, or DefaultAvgSunHours
// when state is empty or not in the table.
func SunHoursFor(state string) float64 {
	if state == "" {
		return DefaultAvgSunHours
	}
	for _, r := range irradiance {
		if r.State == state {
			return r.AvgSunHours
		}
	}
	return DefaultAvgSunHours
}
