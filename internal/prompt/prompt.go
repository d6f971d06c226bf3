// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt turns generation options into the natural-language
// instruction sent to the language model. Building a prompt is a pure
// function of Options: the same input always yields the same string.
package prompt

import (
	"fmt"
	"strings"
)

const closingInstruction = "Do not include any introductory or concluding remarks. Just provide the final post."

// Build assembles the prompt for opts. Clauses are complete sentences
// joined by single spaces, always in the same order: framing, topic,
// template, tone, length, hashtags, emojis, closing.
func Build(opts Options) string {
	parts := make([]string, 0, 8)

	if opts.Platform != "" {
		parts = append(parts, fmt.Sprintf(
			"Act as a social media expert. Your goal is to generate a single, professional post for the platform '%s'.",
			opts.Platform))
	} else {
		parts = append(parts,
			"Act as a social media expert. Your goal is to generate a single, professional social media post.")
	}

	// No topic means no topic sentence rather than an empty quoted one.
	if opts.Topic != "" {
		parts = append(parts, fmt.Sprintf("The post should be about the following topic: '%s'.", opts.Topic))
	}

	parts = append(parts, opts.Template.instruction())

	if opts.Tone != "" {
		parts = append(parts, fmt.Sprintf("The tone of voice should be: '%s'.", opts.Tone))
	}

	if opts.WordCount.IsSet() {
		parts = append(parts, fmt.Sprintf("The post should be approximately %s words long.", opts.WordCount))
	}

	if opts.IncludeHashtags {
		parts = append(parts, "Include 3-5 relevant and popular hashtags.")
	} else {
		parts = append(parts, "Do not include any hashtags.")
	}

	if opts.IncludeEmojis {
		parts = append(parts, "Include relevant emojis to make the post visually appealing.")
	} else {
		parts = append(parts, "Do not include any emojis.")
	}

	parts = append(parts, closingInstruction)

	return strings.Join(parts, " ")
}
