// Package music exposes the optional music-suggestion capability.
package music

import (
	"context"
	"strings"

	"reelplan/internal/domain"
)

// Provider returns a small ranked list of track suggestions for a mood and
// energy hint, or domain.ErrUnavailable when no catalog can be reached.
type Provider interface {
	Suggest(ctx context.Context, mood string, energy domain.EnergyLevel) ([]domain.MusicSuggestion, error)
}

// Disabled is the no-op provider wired when the feature is unconfigured.
type Disabled struct{}

func (Disabled) Suggest(context.Context, string, domain.EnergyLevel) ([]domain.MusicSuggestion, error) {
	return nil, domain.ErrUnavailable
}

var _ Provider = Disabled{}

// EnergyForTone maps a free-form tone onto an energy level, defaulting to
// medium for tones the table does not know. Keywords are checked in a fixed
// order so a tone matching several of them always resolves the same way.
func EnergyForTone(tone string) domain.EnergyLevel {
	toneLower := strings.ToLower(tone)
	for _, entry := range toneEnergy {
		if strings.Contains(toneLower, entry.keyword) {
			return entry.energy
		}
	}
	return domain.EnergyMedium
}

var toneEnergy = []struct {
	keyword string
	energy  domain.EnergyLevel
}{
	{"energetic", domain.EnergyHigh},
	{"upbeat", domain.EnergyHigh},
	{"motivational", domain.EnergyHigh},
	{"happy", domain.EnergyMedium},
	{"casual", domain.EnergyMedium},
	{"professional", domain.EnergyMedium},
	{"calm", domain.EnergyLow},
	{"relaxed", domain.EnergyLow},
	{"chill", domain.EnergyLow},
	{"sad", domain.EnergyLow},
}
