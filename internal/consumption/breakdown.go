package consumption

import (
	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

type CategoryShare struct {
	Category     model.Category `json:"category"`
	MonthlyUnits float64        `json:"monthly_units"`
	MonthlyCost  float64        `json:"monthly_cost"`
	DeviceCount  int            `json:"device_count"`
	Percentage   float64        `json:"percentage"`
}

type RoomShare struct {
	RoomID       string  `json:"room_id"`
	RoomName     string  `json:"room_name"`
	MonthlyUnits float64 `json:"monthly_units"`
	MonthlyCost  float64 `json:"monthly_cost"`
	DeviceCount  int     `json:"device_count"`
	Percentage   float64 `json:"percentage"`
}

// ByCategory groups cost by device category. Only categories that have at
// least one device are returned, in model.Categories order.
func ByCategory(devices []model.Device, rate float64) []CategoryShare {
	grouped := make(map[model.Category]*CategoryShare)
	var total float64
	for _, d := range devices {
		u := ForDevice(d, rate)
		share, ok := grouped[d.Category]
		if !ok {
			share = &CategoryShare{Category: d.Category}
			grouped[d.Category] = share
		}
		share.MonthlyUnits += u.MonthlyKWh
		share.MonthlyCost += u.MonthlyCost
		share.DeviceCount++
		total += u.MonthlyCost
	}

	var out []CategoryShare
	for _, c := range model.Categories {
		if share, ok := grouped[c]; ok {
			share.Percentage = percentOf(share.MonthlyCost, total)
			out = append(out, *share)
			delete(grouped, c)
		}
	}
	// devices restored from storage may carry a category outside the known set
	for _, share := range grouped {
		share.Percentage = percentOf(share.MonthlyCost, total)
		out = append(out, *share)
	}
	return out
}

// ByRoom groups cost by room, keeping every room including empty ones.
func ByRoom(rooms []model.Room, rate float64) []RoomShare {
	out := make([]RoomShare, 0, len(rooms))
	var total float64
	for _, r := range rooms {
		t := Aggregate(r.Devices, rate)
		total += t.MonthlyCost
		out = append(out, RoomShare{
			RoomID:       r.ID,
			RoomName:     r.Name,
			MonthlyUnits: t.MonthlyUnits,
			MonthlyCost:  t.MonthlyCost,
			DeviceCount:  t.DeviceCount,
		})
	}
	for i := range out {
		out[i].Percentage = percentOf(out[i].MonthlyCost, total)
	}
	return out
}

func percentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
