package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the feature files against a running server at
// E2E_BASE_URL, e.g. `E2E_BASE_URL=http://localhost:8080 go test ./...`.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("E2E_BASE_URL")
	if baseURL == "" {
		t.Skip("E2E_BASE_URL not set")
	}

	suite := godog.TestSuite{
		Name: "lendmatch",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			tc := NewTestContext(baseURL)
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				tc.LenderID, tc.BorrowerID = "", ""
				return ctx, nil
			})
			RegisterSteps(sc, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("feature scenarios failed")
	}
}
