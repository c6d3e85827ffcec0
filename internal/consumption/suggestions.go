package consumption

import (
	"strconv"
	"strings"

	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Savings     string `json:"savings"`
}

// Suggest runs the saving rules over the current devices. The maintenance tip
// is always last.
func Suggest(devices []model.Device) []Suggestion {
	var out []Suggestion

	if n := count(devices, func(d model.Device) bool { return d.Wattage > 1000 }); n > 0 {
		out = append(out, Suggestion{
			Title:       "Replace High-Power Appliances",
			Description: pluralDevices(n) + " draw more than 1000W. Consider replacing them with energy-efficient inverter models.",
			Savings:     "Save up to 30-40%",
		})
	}

	if anyDevice(devices, func(d model.Device) bool { return isAirConditioner(d) && d.HoursPerDay > 8 }) {
		out = append(out, Suggestion{
			Title:       "Optimize AC Temperature",
			Description: "Set your AC to 24-26°C instead of lower temperatures. Each degree higher saves 3-5% energy.",
			Savings:     "Save ₹500-800/month",
		})
	}

	if anyDevice(devices, func(d model.Device) bool { return nameHas(d, "refrigerator", "fridge") }) {
		out = append(out, Suggestion{
			Title:       "Upgrade to Inverter Refrigerator",
			Description: "Inverter refrigerators consume 30-40% less energy than conventional models.",
			Savings:     "Save ₹300-500/month",
		})
	}

	if anyDevice(devices, func(d model.Device) bool { return d.Category == model.CategoryLighting && d.Wattage > 15 }) {
		out = append(out, Suggestion{
			Title:       "Switch to LED Lights",
			Description: "Replace all CFL and incandescent bulbs with LED. LEDs use 75% less energy.",
			Savings:     "Save ₹200-400/month",
		})
	}

	if anyDevice(devices, func(d model.Device) bool { return nameHas(d, "washing") }) {
		out = append(out, Suggestion{
			Title:       "Optimize Washing Schedule",
			Description: "Run washing machine and water motor during off-peak hours (10 PM - 6 AM) if available in your area.",
			Savings:     "Save 10-15% on costs",
		})
	}

	if anyDevice(devices, func(d model.Device) bool { return d.Category == model.CategoryEntertainment }) {
		out = append(out, Suggestion{
			Title:       "Eliminate Standby Power",
			Description: "Turn off TVs, gaming consoles, and entertainment systems completely. Standby mode wastes 5-10W continuously.",
			Savings:     "Save ₹100-200/month",
		})
	}

	if anyDevice(devices, func(d model.Device) bool { return nameHas(d, "heater", "geyser") && d.Wattage > 2000 }) {
		out = append(out, Suggestion{
			Title:       "Reduce Water Heater Usage",
			Description: "Use water heater only when needed. Consider solar water heater for long-term savings.",
			Savings:     "Save ₹400-600/month",
		})
	}

	if len(devices) >= 5 {
		out = append(out, Suggestion{
			Title:       "Smart Automation",
			Description: "Install smart plugs and automate device schedules based on your usage patterns. Turn off devices automatically when not in use.",
			Savings:     "Save 15-20% overall",
		})
	}

	out = append(out, Suggestion{
		Title:       "Regular Maintenance",
		Description: "Clean AC filters monthly, defrost refrigerator regularly, and service appliances annually for optimal efficiency.",
		Savings:     "Maintain peak efficiency",
	})
	return out
}

// isAirConditioner matches "AC" as a whole word so names like "Vacuum" do not count.
func isAirConditioner(d model.Device) bool {
	for _, word := range strings.Fields(strings.ToLower(d.Name)) {
		if word == "ac" {
			return true
		}
	}
	return false
}

func nameHas(d model.Device, needles ...string) bool {
	name := strings.ToLower(d.Name)
	for _, n := range needles {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}

func count(devices []model.Device, pred func(model.Device) bool) int {
	n := 0
	for _, d := range devices {
		if pred(d) {
			n++
		}
	}
	return n
}

func anyDevice(devices []model.Device, pred func(model.Device) bool) bool {
	return count(devices, pred) > 0
}

func pluralDevices(n int) string {
	if n == 1 {
		return "1 device"
	}
	return strconv.Itoa(n) + " devices"
}
