package relay

import "firedev/api"

// CategoryOption is one inline keyboard choice; Data doubles as the
// stored category value.
type CategoryOption struct {
	Label string
	Data  string
}

var CategoryOptions = []CategoryOption{
	{Label: "🔥 Fire Source", Data: api.CategoryFire},
	{Label: "👤 Volunteer Position", Data: api.CategoryVolunteer},
	{Label: "🚒 Fire Brigade", Data: api.CategoryBrigade},
	{Label: "✈️ Fireplane Flight", Data: api.CategoryPlane},
}

// IsCategory reports whether a callback payload is one of the four
// category choices.
func IsCategory(data string) bool {
	for _, opt := range CategoryOptions {
		if opt.Data == data {
			return true
		}
	}
	return false
}

var categoryEmoji = map[string]string{
	api.CategoryFire:      "🔥",
	api.CategoryVolunteer: "👤",
	api.CategoryBrigade:   "🚒",
	api.CategoryPlane:     "✈️",
}

func emojiFor(category string) string {
	if e, ok := categoryEmoji[category]; ok {
		return e
	}
	return "📍"
}

const mapURL = "https://whereismyguts.github.io/firedev/"

const startText = "🔥 Fire Coordination Bot\n\n" +
	"Send your location (static or live) and I'll ask what category it represents.\n\n" +
	"Commands:\n" +
	"/help - Show this help\n" +
	"/cancel - Cancel current operation\n" +
	"/stop_live - Stop live location updates"

const helpText = "📍 How to use:\n\n" +
	"1. Share your location (tap 📎 → Location)\n" +
	"2. Choose what the location represents\n" +
	"3. Watch it appear on the map!\n\n" +
	"🎯 Live Locations:\n" +
	"Enable live location sharing for real-time tracking.\n" +
	"Use /stop_live to end live updates."

const (
	locationPrompt     = "📍 Location received!\nWhat does this location represent?"
	liveLocationPrompt = "📍 Live location detected!\nChoose category and I'll track updates in real-time:"

	canceledText = "❌ Operation canceled."
	stopLiveText = "⏹️ Live location updates stopped."

	staleChoiceText    = "❌ No location found. Please send your location first."
	saveFailedText     = "❌ Failed to save location. Try again."
	liveSaveFailedText = "❌ Failed to save live location. Try again."
)
