package output

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNoColorDisablesANSICodes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	stringGen := gen.AnyString()

	properties.Property("Sprintf contains no ANSI codes when NoColor is set", prop.ForAll(
		func(text string) bool {
			NoColor()
			defer ForceColor()

			colors := []*color.Color{Success, Warning, Error, Info, Dim, Header, App}
			for _, c := range colors {
				result := Sprintf(c, "%s", text)
				if strings.Contains(result, "\x1b[") || strings.Contains(result, "\033[") {
					return false
				}
			}
			return true
		},
		stringGen,
	))

	properties.Property("FormatApp contains no ANSI codes when NoColor is set", prop.ForAll(
		func(name string) bool {
			NoColor()
			defer ForceColor()

			formatted := FormatApp(name)
			return !strings.Contains(formatted, "\x1b[") && !strings.Contains(formatted, "\033[")
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestFormatAppContainsName(t *testing.T) {
	NoColor()
	defer ForceColor()

	formatted := FormatApp("Remini")
	if !strings.Contains(formatted, "Remini") {
		t.Errorf("FormatApp should contain the app name, got %q", formatted)
	}
}
