package summarize

import "strings"

// Hook type labels rendered as badges on the page.
const (
	HookSports      = "SPORTS"
	HookTransit     = "TRANSIT"
	HookPolitics    = "POLITICS"
	HookWeather     = "WEATHER"
	HookLocalImpact = "LOCAL_IMPACT"
	HookNews        = "NEWS"
)

var (
	sportsWords   = []string{"patriots", "celtics", "bruins", "red sox"}
	transitWords  = []string{"mbta", "orange line", "green line", "commuter rail", "traffic"}
	politicsWords = []string{"mayor", "city council", "election", "vote"}
	weatherWords  = []string{"weather", "storm", "snow", "rain"}
	localWords    = []string{"boston", "cambridge", "somerville", "brookline"}
)

// ClassifyHook derives a coarse story category from the title and content.
func ClassifyHook(title, content string) string {
	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)
	switch {
	case containsAny(titleLower, sportsWords):
		return HookSports
	case containsAny(titleLower, transitWords):
		return HookTransit
	case containsAny(titleLower, politicsWords):
		return HookPolitics
	case containsAny(titleLower, weatherWords):
		return HookWeather
	case containsAny(contentLower, localWords):
		return HookLocalImpact
	default:
		return HookNews
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
