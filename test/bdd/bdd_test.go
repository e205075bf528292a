package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/acquisition-pricing/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/valuation", "features/adapters"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// One world backs every step so "today" and the pricing configuration
	// reach domain, application and store scenarios alike
	steps.InitializeValuationScenario(sc)
}
