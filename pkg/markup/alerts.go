package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// alertAliases maps legacy flash category classes to their canonical names.
var alertAliases = map[string]string{
	"alert-warn":  "alert-warning",
	"alert-error": "alert-danger",
}

const alertCloseMarkup = `<button type="button" class="alert-close" aria-label="Close">&times;</button>`

// EnhanceAlerts normalises server-rendered flash-message markup: legacy
// category classes are aliased to their canonical names and a dismiss
// control is appended to any alert missing one. The input is an HTML
// fragment; the enhanced fragment is returned.
func EnhanceAlerts(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("markup: parse alerts: %w", err)
	}

	doc.Find(".alert").Each(func(_ int, sel *goquery.Selection) {
		for legacy, canonical := range alertAliases {
			if sel.HasClass(legacy) {
				sel.RemoveClass(legacy)
				sel.AddClass(canonical)
			}
		}
		if sel.Find(".alert-close").Length() == 0 {
			sel.AppendHtml(alertCloseMarkup)
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("markup: serialise alerts: %w", err)
	}
	return out, nil
}
