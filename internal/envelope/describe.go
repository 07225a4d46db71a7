package envelope

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxDescription = 120

// Describe returns a short human readable summary of a non-JSON body: the page
// title for HTML, otherwise the leading text.
func Describe(raw []byte) string {
	if looksLikeHTML(raw) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
		if err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return truncate(title)
			}
			if heading := strings.TrimSpace(doc.Find("h1").First().Text()); heading != "" {
				return truncate(heading)
			}
			return truncate(strings.Join(strings.Fields(doc.Text()), " "))
		}
	}

	return truncate(strings.Join(strings.Fields(string(raw)), " "))
}

func looksLikeHTML(raw []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(raw))
	if len(head) > 64 {
		head = head[:64]
	}

	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.HasPrefix(head, []byte("<head")) ||
		bytes.HasPrefix(head, []byte("<body"))
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescription {
		return s
	}

	return string(runes[:maxDescription]) + "..."
}
