package catalog

// CustomTemplate is the template whose room name is supplied by the user.
const CustomTemplate = "Custom"

type RoomTemplate struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var roomTemplates = []RoomTemplate{
	{"Living Room", "Sofa"},
	{"Bedroom", "Bed"},
	{"Kitchen", "ChefHat"},
	{"Bathroom", "Bath"},
	{"Office", "Briefcase"},
	{"Dining Room", "UtensilsCrossed"},
	{"Garage", "Car"},
	{"Balcony", "Home"},
	{"Study Room", "BookOpen"},
	{"Guest Room", "Users"},
	{CustomTemplate, "Plus"},
}

func RoomTemplates() []RoomTemplate {
	out := make([]RoomTemplate, len(roomTemplates))
	copy(out, roomTemplates)
	return out
}

func FindTemplate(name string) (RoomTemplate, bool) {
	for _, t := range roomTemplates {
		if t.Name == name {
			return t, true
		}
	}
	return RoomTemplate{}, false
}
