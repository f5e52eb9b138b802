package template

// Built-in step templates, version 1. YAML packs loaded at startup may
// register higher versions of the same names.
var builtinTemplates = []Template{
	{
		Name:    "hook",
		Version: 1,
		Text: `Write the opening hook for a short {platform} video about "{topic}".
Tone: {tone}. Target audience: {audience}.
The hook covers the first 3-5 seconds and must stop the scroll immediately.
Techniques that work: a curiosity question, a surprising fact, a bold claim, a pattern interrupt.
Respond with the hook sentence only, no labels.`,
	},
	{
		Name:    "hook_strict",
		Version: 1,
		Text: `Write the opening hook for a short {platform} video about "{topic}".
Tone: {tone}. Target audience: {audience}.
Respond with EXACTLY one plain sentence. No quotes, no markdown, no preamble.`,
	},
	{
		Name:    "storyline",
		Version: 1,
		Text: `Outline the storyline for a short {platform} video about "{topic}".
Tone: {tone}. Target audience: {audience}.
The video opens with this hook: {hook}
Describe the narrative arc in two to four sentences: how the video moves from the hook to the payoff.
Respond with the storyline text only, no labels.`,
	},
	{
		Name:    "storyline_strict",
		Version: 1,
		Text: `Outline the storyline for a short {platform} video about "{topic}".
Hook: {hook}
Respond with two to four plain sentences. No lists, no markdown, no preamble.`,
	},
	{
		Name:    "script",
		Version: 1,
		Text: `Write the full narration script for a short {platform} video about "{topic}".
Tone: {tone}. Target audience: {audience}. Maximum duration: {max_duration} seconds.
Hook: {hook}
Storyline: {storyline}
The script is spoken word for word. Keep sentences short and concrete, open with the hook, end with a clear call to action.
Respond with the script text only, no labels.`,
	},
	{
		Name:    "script_strict",
		Version: 1,
		Text: `Write the full narration script for a short {platform} video about "{topic}".
Hook: {hook}
Storyline: {storyline}
Maximum duration: {max_duration} seconds.
Respond with plain sentences separated by periods. No headings, no markdown, no stage directions.`,
	},
	{
		Name:    "timestamps",
		Version: 1,
		Text: `Break the script into scene timestamps for a {platform} video with a maximum duration of {max_duration} seconds.
Script: {script}
Respond with one scene per line in the exact format start-end|type|text
where start and end are integer seconds, type is one of opening, body, closing,
scenes do not overlap and the first scene starts at 0. No other output.`,
	},
	{
		Name:    "timestamps_strict",
		Version: 1,
		Text: `Break the script into scene timestamps. Maximum duration: {max_duration} seconds.
Script: {script}
Output ONLY lines of the form start-end|type|text with integer seconds,
type in {opening, body, closing}, strictly increasing and non-overlapping, first start 0.`,
	},
	{
		Name:    "hashtags",
		Version: 1,
		Text: `Generate a hashtag list for a {platform} video about "{topic}" targeting {audience}.
Mix high-volume trending tags with niche-specific ones.
Provide between {min_tags} and {max_tags} hashtags on a single line, each starting with #, separated by spaces. No other output.`,
	},
	{
		Name:    "hashtags_strict",
		Version: 1,
		Text: `Generate a hashtag list for a {platform} video about "{topic}".
Output ONE line containing {min_tags} to {max_tags} space-separated hashtags.
Every token must start with # and contain no spaces. Nothing else.`,
	},
}
