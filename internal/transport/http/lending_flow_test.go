package httptransport_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	borrowerhandler "lendmatch/internal/borrower/handler"
	borrowerservice "lendmatch/internal/borrower/service"
	borrowerstore "lendmatch/internal/borrower/store"
	"lendmatch/internal/fields"
	fieldshandler "lendmatch/internal/fields/handler"
	lenderhandler "lendmatch/internal/lender/handler"
	lenderservice "lendmatch/internal/lender/service"
	lenderstore "lendmatch/internal/lender/store"
	matchinghandler "lendmatch/internal/matching/handler"
	matchingservice "lendmatch/internal/matching/service"
	matchingstore "lendmatch/internal/matching/store"
	policyhandler "lendmatch/internal/policy/handler"
	policyservice "lendmatch/internal/policy/service"
	policystore "lendmatch/internal/policy/store"
	httptransport "lendmatch/internal/transport/http"
	"lendmatch/pkg/platform/audit/publishers/compliance"
	auditmemory "lendmatch/pkg/platform/audit/store/memory"
	"lendmatch/pkg/testutil"
)

// newApp wires the in-memory configuration of cmd/server.
func newApp(t *testing.T) (http.Handler, *auditmemory.InMemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := fields.Default()
	auditStore := auditmemory.NewInMemoryStore()
	publisher := compliance.New(auditStore, compliance.WithLogger(logger))

	lenders := lenderstore.NewInMemory()
	policies := policystore.NewInMemoryStore()
	borrowers := borrowerstore.NewInMemory()

	lenderLookup := lenderservice.New(lenders)
	matching := matchingservice.New(policies, borrowers, matchingstore.NewInMemory(),
		matchingservice.WithLogger(logger),
		matchingservice.WithLenderLookup(lenderLookup),
		matchingservice.WithWorkers(4),
	)
	t.Cleanup(matching.Close)

	policySvc := policyservice.New(policies, registry,
		policyservice.WithLogger(logger),
		policyservice.WithSweepScheduler(matching),
		policyservice.WithLenderLookup(lenderLookup),
		policyservice.WithAuditPublisher(publisher),
	)
	lenderSvc := lenderservice.New(lenders,
		lenderservice.WithLogger(logger),
		lenderservice.WithPolicyResetter(policySvc),
		lenderservice.WithMatchDiscarder(matching),
		lenderservice.WithAuditPublisher(publisher),
	)
	borrowerSvc := borrowerservice.New(borrowers, registry, matching,
		borrowerservice.WithLogger(logger),
		borrowerservice.WithMatchDiscarder(matching),
	)
	schema, err := policyhandler.NewDraftSchema()
	require.NoError(t, err)

	router := httptransport.NewRouter(httptransport.RouterConfig{Logger: logger},
		fieldshandler.New(registry),
		lenderhandler.New(lenderSvc, logger),
		policyhandler.New(policySvc, schema, logger),
		borrowerhandler.New(borrowerSvc, logger),
		matchinghandler.New(matching, logger),
	)
	return router, auditStore
}

const corePolicy = `{
	"restricted_states": ["TX"],
	"programs": [{
		"name": "Core",
		"min_loan_amount": 10000,
		"max_loan_amount": 100000,
		"rules": [
			{"field_key": "guarantor_fico", "operator": ">=", "operand": 650, "strict": true},
			{"field_key": "nsf_count", "operator": "<=", "operand": 2, "failure_reason": "Too many NSFs"}
		]
	}]
}`

func borrowerBody(email, state string, nsf int) map[string]any {
	return map[string]any{
		"full_name":     "Dana Reyes",
		"email":         email,
		"phone":         "555-0100",
		"business_name": "Reyes Hauling",
		"attributes": map[string]any{
			"guarantor_fico": 720,
			"business_state": state,
			"loan_amount":    50000,
			"nsf_count":      nsf,
		},
	}
}

type lenderResp struct {
	ID string `json:"id"`
}

type policyResp struct {
	VersionID string `json:"version_id"`
	IsActive  bool   `json:"is_active"`
}

type submitResp struct {
	Borrower struct {
		ID string `json:"id"`
	} `json:"borrower"`
	MatchCount int `json:"match_count"`
}

type matchRow struct {
	BorrowerID  string   `json:"borrower_id"`
	Status      string   `json:"status"`
	ProgramName *string  `json:"program_name"`
	Reasons     []string `json:"reasons"`
}

func TestLendingFlow(t *testing.T) {
	app, auditStore := newApp(t)

	testutil.Given(t, "a registered lender with an active policy", func(t *testing.T) {
		rr := testutil.Do(t, app, http.MethodPost, "/lenders", map[string]string{"name": "Acme Capital", "email": "ops@acme.test"})
		testutil.AssertStatus(t, rr, http.StatusCreated)
		lender := testutil.UnmarshalResponse[lenderResp](t, rr)

		rr = testutil.Do(t, app, http.MethodPut, "/lenders/"+lender.ID+"/policy", corePolicy)
		testutil.AssertStatus(t, rr, http.StatusOK)
		first := testutil.UnmarshalResponse[policyResp](t, rr)
		require.True(t, first.IsActive)
		var matchedBorrower string

		testutil.When(t, "borrowers submit applications", func(t *testing.T) {
			rr := testutil.Do(t, app, http.MethodPost, "/borrowers", borrowerBody("dana@example.test", "CA", 0))
			testutil.AssertStatus(t, rr, http.StatusCreated)
			perfect := testutil.UnmarshalResponse[submitResp](t, rr)

			rr = testutil.Do(t, app, http.MethodPost, "/borrowers", borrowerBody("lee@example.test", "TX", 0))
			testutil.AssertStatus(t, rr, http.StatusCreated)
			knockedOut := testutil.UnmarshalResponse[submitResp](t, rr)
			matchedBorrower = perfect.Borrower.ID

			testutil.Then(t, "each submission reports its match count", func(t *testing.T) {
				assert.Equal(t, 1, perfect.MatchCount)
				assert.Equal(t, 0, knockedOut.MatchCount)
			})

			testutil.Then(t, "the lender dashboard ranks the match first", func(t *testing.T) {
				rr := testutil.Do(t, app, http.MethodGet, "/lenders/"+lender.ID+"/matches", nil)
				testutil.AssertStatus(t, rr, http.StatusOK)
				rows := *testutil.UnmarshalResponse[[]matchRow](t, rr)
				require.Len(t, rows, 2)
				assert.Equal(t, perfect.Borrower.ID, rows[0].BorrowerID)
				assert.Equal(t, "perfect", rows[0].Status)
				require.NotNil(t, rows[0].ProgramName)
				assert.Equal(t, "Core", *rows[0].ProgramName)
				assert.Equal(t, "rejected", rows[1].Status)
				assert.Nil(t, rows[1].ProgramName)
				assert.Equal(t, []string{"state TX is restricted by lender policy"}, rows[1].Reasons)
			})

			testutil.Then(t, "only a matched borrower's full record is released to the lender", func(t *testing.T) {
				rr := testutil.Do(t, app, http.MethodGet, "/lenders/"+lender.ID+"/borrowers/"+perfect.Borrower.ID, nil)
				testutil.AssertStatus(t, rr, http.StatusOK)
				detail := testutil.UnmarshalResponse[struct {
					BorrowerID string `json:"borrower_id"`
					Contact    struct {
						Phone string `json:"phone"`
					} `json:"contact"`
					Match matchRow `json:"match"`
				}](t, rr)
				assert.Equal(t, perfect.Borrower.ID, detail.BorrowerID)
				assert.Equal(t, "555-0100", detail.Contact.Phone)
				assert.Equal(t, "perfect", detail.Match.Status)

				rr = testutil.Do(t, app, http.MethodGet, "/lenders/"+lender.ID+"/borrowers/"+knockedOut.Borrower.ID, nil)
				testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
			})
		})

		testutil.When(t, "a save is based on a superseded version", func(t *testing.T) {
			rr := testutil.Do(t, app, http.MethodPut, "/lenders/"+lender.ID+"/policy", corePolicy)
			testutil.AssertStatus(t, rr, http.StatusOK)

			stale := `{"base_version": "` + first.VersionID + `", "programs": []}`
			rr = testutil.Do(t, app, http.MethodPut, "/lenders/"+lender.ID+"/policy", stale)

			testutil.Then(t, "it is rejected as stale", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusConflict, "stale_version")
			})
		})

		testutil.When(t, "a draft references an unknown field", func(t *testing.T) {
			bad := `{"programs": [{"name": "X", "min_loan_amount": 0, "max_loan_amount": 10,
				"rules": [{"field_key": "shoe_size", "operator": ">=", "operand": 9}]}]}`
			rr := testutil.Do(t, app, http.MethodPut, "/lenders/"+lender.ID+"/policy", bad)

			testutil.Then(t, "nothing is saved and the rule path is reported", func(t *testing.T) {
				errResp := testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "unknown_field")
				require.NotEmpty(t, errResp.Details)
				assert.Contains(t, errResp.Details[0], "programs[0].rules[0]")

				rr := testutil.Do(t, app, http.MethodGet, "/lenders/"+lender.ID+"/policy/history", nil)
				history := testutil.UnmarshalResponse[struct {
					Versions []policyResp `json:"versions"`
				}](t, rr)
				assert.Len(t, history.Versions, 2)
			})
		})

		testutil.When(t, "a draft uses an unsupported operator", func(t *testing.T) {
			bad := `{"programs": [
				{"name": "A", "min_loan_amount": 0, "max_loan_amount": 10},
				{"name": "B", "min_loan_amount": 0, "max_loan_amount": 10,
				 "rules": [{"field_key": "guarantor_fico", "operator": "~=", "operand": 650}]}]}`
			rr := testutil.Do(t, app, http.MethodPut, "/lenders/"+lender.ID+"/policy", bad)

			testutil.Then(t, "the offending rule is named", func(t *testing.T) {
				errResp := testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
				require.Len(t, errResp.Details, 1)
				assert.Contains(t, errResp.Details[0], "programs[1].rules[0]")
			})
		})

		testutil.When(t, "the lender is deleted", func(t *testing.T) {
			rr := testutil.Do(t, app, http.MethodDelete, "/lenders/"+lender.ID, nil)
			testutil.AssertStatus(t, rr, http.StatusNoContent)

			testutil.Then(t, "its matches are gone and the account reads as deleted", func(t *testing.T) {
				assert.Eventually(t, func() bool {
					rr := testutil.Do(t, app, http.MethodGet, "/borrowers/"+matchedBorrower+"/matches", nil)
					return rr.Code == http.StatusOK && rr.Body.String() == "[]\n"
				}, 2*time.Second, 10*time.Millisecond)

				rr := testutil.Do(t, app, http.MethodGet, "/lenders/"+lender.ID+"/matches", nil)
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
				rr = testutil.Do(t, app, http.MethodGet, "/lenders/"+lender.ID+"/borrowers/"+matchedBorrower, nil)
				testutil.AssertStatus(t, rr, http.StatusNotFound)

				rr = testutil.Do(t, app, http.MethodGet, "/lenders/"+lender.ID, nil)
				testutil.AssertStatus(t, rr, http.StatusOK)
				assert.Contains(t, rr.Body.String(), `"deleted_at"`)
			})
		})
	})

	testutil.And(t, "every change left an audit event", func(t *testing.T) {
		events, err := auditStore.ListAll(t.Context())
		require.NoError(t, err)
		assert.NotEmpty(t, events)
	})
}

func TestSubmissionValidation(t *testing.T) {
	app, _ := newApp(t)

	body := borrowerBody("not-an-email", "CA", 0)
	body["attributes"].(map[string]any)["guarantor_fico"] = "excellent"
	rr := testutil.Do(t, app, http.MethodPost, "/borrowers", body)

	errResp := testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	assert.Len(t, errResp.Details, 2)
}
