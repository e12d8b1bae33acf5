package weather

import (
	"sort"
	"time"
)

// MergeReadings combines provider readings into a single Snapshot.
// Readings are taken in order: each field uses the first reading that supplied
// a valid value, and falls back to prior when none did.
func MergeReadings(loc Location, prior State, readings []Reading) Snapshot {
	if len(readings) == 0 {
		return Snapshot{
			Location:  loc,
			Timestamp: time.Now().UTC(),
			State:     prior,
			Condition: prior.Condition(),
		}
	}

	field := func(get func(Reading) *float64, fallback float64) float64 {
		candidates := make([]*float64, 0, len(readings))
		for _, r := range readings {
			candidates = append(candidates, get(r))
		}
		return PickOr(fallback, candidates...)
	}

	state := State{
		CloudCover: field(func(r Reading) *float64 { return r.CloudCover }, prior.CloudCover),
		RainRate:   field(func(r Reading) *float64 { return r.RainRate }, prior.RainRate),
		SnowRate:   field(func(r Reading) *float64 { return r.SnowRate }, prior.SnowRate),
		TempF:      field(func(r Reading) *float64 { return r.TempF }, prior.TempF),
		WindSpeed:  field(func(r Reading) *float64 { return r.WindSpeed }, prior.WindSpeed),
		WindDir:    field(func(r Reading) *float64 { return r.WindDir }, prior.WindDir),
		Humidity:   field(func(r Reading) *float64 { return r.Humidity }, prior.Humidity),
		Visibility: field(func(r Reading) *float64 { return r.Visibility }, prior.Visibility),
	}

	codes := make([]*int, 0, len(readings))
	for _, r := range readings {
		codes = append(codes, r.WeatherCode)
	}
	if code, ok := PickInt(codes...); ok {
		state.WeatherCode = code
	} else {
		state.WeatherCode = prior.WeatherCode
	}

	var newestTS time.Time
	providers := make([]ProviderContribution, 0, len(readings))
	for _, r := range readings {
		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}
		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    r.Timestamp,
		})
	}
	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	return Snapshot{
		Location:  loc,
		Timestamp: newestTS,
		State:     state,
		Condition: state.Condition(),
		Providers: providers,
	}
}

// orderReadings sorts readings to match the configured provider order.
func orderReadings(readings []Reading, providers []Provider) {
	rank := make(map[string]int, len(providers))
	for i, p := range providers {
		rank[p.Name()] = i
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return rank[readings[i].ProviderName] < rank[readings[j].ProviderName]
	})
}
