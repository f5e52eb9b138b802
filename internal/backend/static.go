package backend

import (
	"context"
	"fmt"
	"strings"
)

const staticProviderName = "static"

// StaticGenerator is a deterministic backend used when no API key is
// configured and as the stub in tests. It recognizes the built-in step
// templates by their instruction line and derives its output from the quoted
// topic, so identical prompts always produce identical text.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Name() string { return staticProviderName }

func (s *StaticGenerator) Complete(ctx context.Context, prompt string, params Params) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	topic := quotedTopic(prompt)

	switch {
	case strings.Contains(prompt, "scene timestamps"):
		return strings.Join([]string{
			"0-4|opening|Hook: why this matters right now",
			"4-12|body|Step one, keep it simple",
			"12-20|body|Step two, stay consistent",
			"20-27|body|Step three, watch what changes",
			"27-33|closing|Call to action: try it today",
		}, "\n"), nil
	case strings.Contains(prompt, "hashtag list"):
		tag := compactTag(topic)
		return fmt.Sprintf("#%s #%stips #shortform #creatortips #watchthis", tag, tag), nil
	case strings.Contains(prompt, "Outline the storyline"):
		return fmt.Sprintf("We open on the hook and promise a payoff in under a minute. "+
			"Then we walk through %s in three quick beats, each one a concrete step with a reason it works. "+
			"The video closes with a simple call to action inviting viewers to try it today.", topic), nil
	case strings.Contains(prompt, "opening hook"):
		return fmt.Sprintf("What if you could get %s right in just 60 seconds?", topic), nil
	case strings.Contains(prompt, "narration script"):
		return fmt.Sprintf("What if you could get %s right in just 60 seconds? "+
			"Here is the short version. "+
			"Step one, keep it simple and start with the basics. "+
			"Step two, stay consistent every single day. "+
			"Step three, watch for what actually changes. "+
			"Most people overcomplicate %s and give up too early. "+
			"All you need is a routine you can repeat. "+
			"Save this and try it tomorrow.", topic, topic), nil
	default:
		return fmt.Sprintf("Here is a short take on %s.", topic), nil
	}
}

// quotedTopic pulls the first double-quoted fragment out of a prompt. The
// built-in templates always quote the topic.
func quotedTopic(prompt string) string {
	start := strings.Index(prompt, `"`)
	if start < 0 {
		return "this topic"
	}
	rest := prompt[start+1:]
	end := strings.Index(rest, `"`)
	if end <= 0 {
		return "this topic"
	}
	return rest[:end]
}

func compactTag(topic string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(topic) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "shortformvideo"
	}
	return b.String()
}

var _ Generator = (*StaticGenerator)(nil)
