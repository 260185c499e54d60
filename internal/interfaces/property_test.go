package interfaces

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Only retry continues a resolution step; every other choice value cancels.
func TestChoiceProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-retry choices render as cancel", prop.ForAll(
		func(n int) bool {
			c := Choice(n)
			if c == ChoiceRetry {
				return c.String() == "retry"
			}
			return c.String() == "cancel"
		},
		gen.IntRange(-5, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
