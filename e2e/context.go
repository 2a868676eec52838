package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries HTTP state across the steps of one scenario.
type TestContext struct {
	BaseURL    string
	HTTPClient *http.Client

	LenderID   string
	BorrowerID string

	lastStatus int
	lastBody   []byte
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Do sends body as JSON. A string body is sent verbatim.
func (tc *TestContext) Do(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) LastStatus() int { return tc.lastStatus }

func (tc *TestContext) LastBody() []byte { return tc.lastBody }

// Decode unmarshals the last response body into v.
func (tc *TestContext) Decode(v any) error {
	if err := json.Unmarshal(tc.lastBody, v); err != nil {
		return fmt.Errorf("decode response %q: %w", string(tc.lastBody), err)
	}
	return nil
}
