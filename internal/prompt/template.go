// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package prompt

import (
	"encoding/json"
	"fmt"
)

// Template selects the style instruction added to a prompt.
// The zero value is TemplateStandard.
type Template int

const (
	TemplateStandard Template = iota
	TemplateRewrite
	TemplateEdit
	TemplateSummarize
	TemplatePromotional
	TemplateCompanyRelated
	TemplateExplain
)

var templateNames = map[Template]string{
	TemplateStandard:       "standard",
	TemplateRewrite:        "rewrite",
	TemplateEdit:           "edit",
	TemplateSummarize:      "summarize",
	TemplatePromotional:    "promotional",
	TemplateCompanyRelated: "company-related",
	TemplateExplain:        "explain",
}

// ParseTemplate maps a wire name to a Template. Matching is exact; any
// unknown or empty name yields TemplateStandard.
func ParseTemplate(name string) Template {
	switch name {
	case "rewrite":
		return TemplateRewrite
	case "edit":
		return TemplateEdit
	case "summarize":
		return TemplateSummarize
	case "promotional":
		return TemplatePromotional
	case "company-related":
		return TemplateCompanyRelated
	case "explain":
		return TemplateExplain
	default:
		return TemplateStandard
	}
}

// Templates returns the named templates a client may request, in a stable order.
func Templates() []Template {
	return []Template{
		TemplateRewrite,
		TemplateEdit,
		TemplateSummarize,
		TemplatePromotional,
		TemplateCompanyRelated,
		TemplateExplain,
	}
}

func (t Template) String() string {
	if name, ok := templateNames[t]; ok {
		return name
	}
	return templateNames[TemplateStandard]
}

// MarshalJSON encodes the template by name.
func (t Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts a string or null. Unknown names decode to
// TemplateStandard rather than failing.
func (t *Template) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TemplateStandard
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("template must be a string")
	}
	*t = ParseTemplate(name)
	return nil
}

// instruction returns the fixed sentence for the template.
func (t Template) instruction() string {
	switch t {
	case TemplateRewrite:
		return "Rewrite the following text to make it more engaging and suitable for social media."
	case TemplateEdit:
		return "Proofread and edit the following text for grammar, spelling, and clarity."
	case TemplateSummarize:
		return "Summarize the key points of the following text into a concise social media post."
	case TemplatePromotional:
		return "The post's style is promotional. It should be compelling, focus on benefits, and include a clear call-to-action."
	case TemplateCompanyRelated:
		return "The post should be about a company, focusing on its recent news, achievements, or a specific product/service."
	case TemplateExplain:
		return "The post should be an explanation of a concept, breaking down a complex idea into simple points and providing a clear takeaway."
	default:
		return "The post's style is standard and engaging."
	}
}
