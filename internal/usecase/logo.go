package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sporating/sporating/internal/domain/event"
)

// Each sport gets one badge color so every synthesized crest inside a
// competition looks like part of the same set.
var sportLogoColors = map[string]string{
	event.SportFootball:   "#1d4ed8",
	event.SportBasketball: "#b91c1c",
	event.SportRugby:      "#047857",
	event.SportFormula1:   "#7c3aed",
	event.SportMMA:        "#b45309",
	event.SportTennis:     "#0e7490",
}

const defaultLogoColor = "#334155"

// placeholderLogo renders a deterministic SVG data URL for participants
// whose provider sent no crest: the sport picks the color, the name
// contributes only its first letter. Re-imports always regenerate the
// identical badge.
func placeholderLogo(sport, name string) string {
	trimmed := strings.TrimSpace(name)
	initial := "?"
	if trimmed != "" {
		initial = strings.ToUpper(string([]rune(trimmed)[0]))
	}

	color, ok := sportLogoColors[sport]
	if !ok {
		color = defaultLogoColor
	}

	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64"><rect width="64" height="64" rx="12" fill="%s"/><text x="32" y="42" font-family="sans-serif" font-size="30" fill="#fff" text-anchor="middle">%s</text></svg>`,
		color, initial,
	)
	return "data:image/svg+xml;utf8," + url.PathEscape(svg)
}
