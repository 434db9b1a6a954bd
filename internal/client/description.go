package client

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// PlainText strips markup and entities from a product description.
// Descriptions without markup are returned unchanged.
func PlainText(description string) string {
	if !strings.ContainsAny(description, "<&") {
		return description
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		log.Warnf("Failed to parse description markup, keeping raw text: %v", err)
		return description
	}

	// Block-level breaks would otherwise glue words together
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, li, div").AppendHtml(" ")

	return strings.Join(strings.Fields(doc.Text()), " ")
}
