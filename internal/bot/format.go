package bot

import (
	"fmt"
	"strings"

	"buyee_bot/internal/model"
)

// FormatListing formats a listing as a notification caption: translated
// title, native name with price, source label, and link.
func FormatListing(l model.Listing) string {
	var b strings.Builder
	b.WriteString(l.TitleTranslated)
	b.WriteString("\n\n")
	b.WriteString(l.Title)
	if l.Price != "" {
		b.WriteString("\nPrice: ")
		b.WriteString(l.Price)
	}
	fmt.Fprintf(&b, "\n\n%s\n%s", l.Source.Label(), l.URL)
	return b.String()
}

// FormatAlertList formats a user's alerts for display.
func FormatAlertList(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return "You have no alerts! Use /register <name> to add one."
	}
	var b strings.Builder
	b.WriteString("Your alerts:\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "\n%s (%s)", a.Name, a.Currency)
	}
	return b.String()
}
