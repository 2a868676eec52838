package e2e

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cucumber/godog"
)

var emailSeq atomic.Int64

// uniqueEmail keeps reruns against a long-lived server from colliding on
// email uniqueness.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@e2e.test", prefix, time.Now().UnixNano(), emailSeq.Add(1))
}

type matchRow struct {
	BorrowerID  string   `json:"borrower_id"`
	Status      string   `json:"status"`
	ProgramName *string  `json:"program_name"`
	Reasons     []string `json:"reasons"`
}

type borrowerMatchRow struct {
	LenderID string `json:"lender_id"`
	Status   string `json:"status"`
}

// RegisterSteps binds the lending step definitions to tc.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	s := &lendingSteps{tc: tc}

	ctx.Step(`^a registered lender "([^"]*)"$`, s.registeredLender)
	ctx.Step(`^the lender saves the policy:$`, s.savesPolicy)
	ctx.Step(`^the lender is deleted$`, s.lenderDeleted)
	ctx.Step(`^a borrower from "([^"]*)" with FICO (\d+) applies for (\d+)$`, s.borrowerApplies)
	ctx.Step(`^the lender opens its dashboard$`, s.opensDashboard)
	ctx.Step(`^the lender opens the borrower's record$`, s.opensBorrowerRecord)

	ctx.Step(`^the response status should be (\d+)$`, s.responseStatusShouldBe)
	ctx.Step(`^the response error should be "([^"]*)"$`, s.responseErrorShouldBe)
	ctx.Step(`^the submission should report (\d+) match(?:es)?$`, s.submissionShouldReport)
	ctx.Step(`^the lender dashboard should list the borrower as "([^"]*)" in program "([^"]*)"$`, s.dashboardListsProgram)
	ctx.Step(`^the lender dashboard should list the borrower as "([^"]*)" with reason "([^"]*)"$`, s.dashboardListsReason)
	ctx.Step(`^the borrower should eventually have no matches$`, s.borrowerEventuallyUnmatched)
}

type lendingSteps struct {
	tc *TestContext
}

func (s *lendingSteps) registeredLender(ctx context.Context, name string) error {
	body := map[string]string{"name": name, "email": uniqueEmail("lender")}
	if err := s.tc.Do(ctx, http.MethodPost, "/lenders", body); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusCreated {
		return fmt.Errorf("register lender: status %d: %s", s.tc.LastStatus(), s.tc.LastBody())
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := s.tc.Decode(&resp); err != nil {
		return err
	}
	s.tc.LenderID = resp.ID
	return nil
}

func (s *lendingSteps) savesPolicy(ctx context.Context, doc *godog.DocString) error {
	return s.tc.Do(ctx, http.MethodPut, "/lenders/"+s.tc.LenderID+"/policy", doc.Content)
}

func (s *lendingSteps) lenderDeleted(ctx context.Context) error {
	return s.tc.Do(ctx, http.MethodDelete, "/lenders/"+s.tc.LenderID, nil)
}

func (s *lendingSteps) borrowerApplies(ctx context.Context, state string, fico, amount int) error {
	body := map[string]any{
		"full_name":     "Dana Reyes",
		"email":         uniqueEmail("borrower"),
		"phone":         "555-0100",
		"business_name": "Reyes Hauling",
		"attributes": map[string]any{
			"guarantor_fico": fico,
			"business_state": state,
			"loan_amount":    amount,
		},
	}
	if err := s.tc.Do(ctx, http.MethodPost, "/borrowers", body); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusCreated {
		return nil
	}
	var resp struct {
		Borrower struct {
			ID string `json:"id"`
		} `json:"borrower"`
	}
	if err := s.tc.Decode(&resp); err != nil {
		return err
	}
	s.tc.BorrowerID = resp.Borrower.ID
	return nil
}

func (s *lendingSteps) responseStatusShouldBe(status int) error {
	if s.tc.LastStatus() != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.tc.LastStatus(), s.tc.LastBody())
	}
	return nil
}

func (s *lendingSteps) responseErrorShouldBe(code string) error {
	var resp struct {
		Error string `json:"error"`
	}
	if err := s.tc.Decode(&resp); err != nil {
		return err
	}
	if resp.Error != code {
		return fmt.Errorf("expected error %q, got %q", code, resp.Error)
	}
	return nil
}

func (s *lendingSteps) submissionShouldReport(count int) error {
	var resp struct {
		MatchCount int `json:"match_count"`
	}
	if err := s.tc.Decode(&resp); err != nil {
		return err
	}
	if resp.MatchCount != count {
		return fmt.Errorf("expected %d matches, got %d", count, resp.MatchCount)
	}
	return nil
}

func (s *lendingSteps) dashboardRow(ctx context.Context) (*matchRow, error) {
	if err := s.tc.Do(ctx, http.MethodGet, "/lenders/"+s.tc.LenderID+"/matches", nil); err != nil {
		return nil, err
	}
	var rows []matchRow
	if err := s.tc.Decode(&rows); err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].BorrowerID == s.tc.BorrowerID {
			return &rows[i], nil
		}
	}
	return nil, fmt.Errorf("borrower %s not on dashboard of lender %s", s.tc.BorrowerID, s.tc.LenderID)
}

func (s *lendingSteps) dashboardListsProgram(ctx context.Context, status, program string) error {
	row, err := s.dashboardRow(ctx)
	if err != nil {
		return err
	}
	if row.Status != status {
		return fmt.Errorf("expected status %q, got %q", status, row.Status)
	}
	if row.ProgramName == nil || *row.ProgramName != program {
		return fmt.Errorf("expected program %q, got %v", program, row.ProgramName)
	}
	return nil
}

func (s *lendingSteps) dashboardListsReason(ctx context.Context, status, reason string) error {
	row, err := s.dashboardRow(ctx)
	if err != nil {
		return err
	}
	if row.Status != status {
		return fmt.Errorf("expected status %q, got %q", status, row.Status)
	}
	if !slices.Contains(row.Reasons, reason) {
		return fmt.Errorf("expected reason %q in [%s]", reason, strings.Join(row.Reasons, "; "))
	}
	return nil
}

func (s *lendingSteps) opensDashboard(ctx context.Context) error {
	return s.tc.Do(ctx, http.MethodGet, "/lenders/"+s.tc.LenderID+"/matches", nil)
}

func (s *lendingSteps) opensBorrowerRecord(ctx context.Context) error {
	return s.tc.Do(ctx, http.MethodGet, "/lenders/"+s.tc.LenderID+"/borrowers/"+s.tc.BorrowerID, nil)
}

func (s *lendingSteps) borrowerEventuallyUnmatched(ctx context.Context) error {
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := s.tc.Do(ctx, http.MethodGet, "/borrowers/"+s.tc.BorrowerID+"/matches", nil); err != nil {
			return err
		}
		var rows []borrowerMatchRow
		if err := s.tc.Decode(&rows); err != nil {
			return err
		}
		if !slices.ContainsFunc(rows, func(r borrowerMatchRow) bool { return r.LenderID == s.tc.LenderID }) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("borrower %s still matched to lender %s", s.tc.BorrowerID, s.tc.LenderID)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
