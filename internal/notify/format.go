package notify

import (
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

// reviewPolicy strips unsafe markup from reviews before they are rendered.
var reviewPolicy = bluemonday.UGCPolicy()

// Discord rejects embeds beyond these lengths.
const (
	maxTitleLen       = 256
	maxDescriptionLen = 4096
	maxContentLen     = 2000
)

type webhookPayload struct {
	Content string         `json:"content"`
	Embeds  []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	Author      *embedAuthor `json:"author,omitempty"`
	Image       *embedImage  `json:"image,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedAuthor struct {
	Name string `json:"name"`
}

type embedImage struct {
	URL string `json:"url"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// buildPayload formats the chat message. Reviews may carry HTML from the
// rich-text editor; they are sanitised and converted to Markdown, falling
// back to the sanitised text if conversion fails.
func buildPayload(s Submission) webhookPayload {
	review := reviewPolicy.Sanitize(strings.TrimSpace(s.Review))
	if md, err := htmltomarkdown.ConvertString(review); err == nil {
		review = strings.TrimSpace(md)
	}

	content := "📚 **" + s.SubmitterName + "** just shared **" + s.ResourceName + "**"

	return webhookPayload{
		Content: truncate(content, maxContentLen),
		Embeds: []webhookEmbed{{
			Title:       truncate(s.ResourceName, maxTitleLen),
			URL:         s.Permalink,
			Description: truncate(review, maxDescriptionLen),
			Author:      &embedAuthor{Name: s.SubmitterName},
			Image:       &embedImage{URL: s.ThumbnailURL},
			Footer:      &embedFooter{Text: s.Permalink},
		}},
	}
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
