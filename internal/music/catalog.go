package music

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelplan/internal/domain"
)

// CatalogProvider serves suggestions from a built-in catalog keyed by energy
// level. It is deterministic: the same mood and energy always return the same
// ranked list.
type CatalogProvider struct {
	catalog map[domain.EnergyLevel][]domain.MusicSuggestion
}

func NewCatalogProvider() *CatalogProvider {
	return &CatalogProvider{catalog: defaultCatalog}
}

func (p *CatalogProvider) Suggest(ctx context.Context, mood string, energy domain.EnergyLevel) ([]domain.MusicSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tracks, ok := p.catalog[energy]
	if !ok || len(tracks) == 0 {
		return nil, domain.ErrUnavailable
	}
	out := make([]domain.MusicSuggestion, 0, len(tracks)+1)
	if mood != "" {
		title := cases.Title(language.English).String(mood)
		out = append(out, domain.MusicSuggestion{
			Name:        fmt.Sprintf("%s Sessions", title),
			Artist:      "Catalog",
			EnergyLevel: energy,
		})
	}
	out = append(out, tracks...)
	return out, nil
}

var defaultCatalog = map[domain.EnergyLevel][]domain.MusicSuggestion{
	domain.EnergyHigh: {
		{Name: "Pump Up Track", Artist: "Volt Array", EnergyLevel: domain.EnergyHigh},
		{Name: "High Energy Beat", Artist: "Neon Relay", EnergyLevel: domain.EnergyHigh},
	},
	domain.EnergyMedium: {
		{Name: "Uplifting Tune", Artist: "Daylight Motif", EnergyLevel: domain.EnergyMedium},
		{Name: "Joyful Melody", Artist: "Paper Kites Club", EnergyLevel: domain.EnergyMedium},
	},
	domain.EnergyLow: {
		{Name: "Peaceful Ambient", Artist: "Slow Harbor", EnergyLevel: domain.EnergyLow},
		{Name: "Gentle Background", Artist: "Field Notes", EnergyLevel: domain.EnergyLow},
	},
}

var _ Provider = (*CatalogProvider)(nil)
