package trends

import (
	"context"
	"strings"

	"reelplan/internal/domain"
)

var platformSeeds = map[domain.Platform][]string{
	domain.PlatformInstagram:     {"reels", "instagram", "viral", "trending", "explore"},
	domain.PlatformYouTubeShorts: {"shorts", "youtube", "viral", "trending", "youtuber"},
	domain.PlatformTikTok:        {"tiktok", "fyp", "foryou", "viral", "trending"},
}

var platformTips = map[domain.Platform]string{
	domain.PlatformInstagram:     "Use Reels features, add captions, lean on trending audio",
	domain.PlatformYouTubeShorts: "Put keywords in the title, hook inside five seconds",
	domain.PlatformTikTok:        "Use trending sounds, post at peak hours, reply to comments fast",
}

// StaticProvider derives a deterministic trend signal from topic keywords and
// per-platform seed hashtags. It stands in when no live trend source is
// configured.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) Lookup(ctx context.Context, topic string, platform domain.Platform) (*domain.TrendSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seeds, ok := platformSeeds[platform]
	if !ok {
		return nil, domain.ErrUnavailable
	}
	base := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topic)), " ", "")
	hashtags := append([]string{base, base + "tips"}, seeds...)
	return &domain.TrendSignal{
		Hashtags:       hashtags,
		Topics:         []string{topic, topic + " tips"},
		EngagementTips: platformTips[platform],
		Score:          0.6,
	}, nil
}

var _ Provider = (*StaticProvider)(nil)
