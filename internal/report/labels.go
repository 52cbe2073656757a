package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fieldLabel turns a record field name into a display label:
// "timezone" becomes "Timezone" and "ip" becomes "IP".
func fieldLabel(name string) string {
	if strings.EqualFold(name, "ip") {
		return "IP"
	}
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// algorithmLabel turns an algorithm name into a display label:
// "sha3-256" becomes "SHA3-256".
func algorithmLabel(name string) string {
	return cases.Upper(language.English).String(name)
}
