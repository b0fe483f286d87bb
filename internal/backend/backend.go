// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend is the HTTP+JSON client for the external generation API.
// It owns no generation logic itself: planning, searching, outlining, and
// drafting all happen server-side. The client preserves the operation
// contract the workflow depends on and nothing more.
//
// See docs/ARCHITECTURE.md § Generation Backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/meshintel/scribe/internal/httputil"
	"github.com/meshintel/scribe/pkg/types"
)

// Endpoint paths under the configured base URL.
const (
	planPath     = "/plan"
	mindMapPath  = "/mindmap"
	researchPath = "/research/step"
	outlinePath  = "/outline"
	contentPath  = "/content/stream"
	finalizePath = "/document/finalize"
)

// Client calls the generation API. Construct with New; the zero value is
// not usable.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	maxRetries int
	httpClient *http.Client
}

// New returns a Client configured from cfg. A zero timeout falls back to
// the http.Client default (no timeout), matching cfg semantics elsewhere.
func New(cfg types.BackendConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// StepResult is the outcome of one research step as returned by the API.
type StepResult struct {
	Summary string                 `json:"summary"`
	Sources []types.AcademicSource `json:"sources"`
}

// FinalizeResult is the backend's acknowledgement of document finalization.
// Finalization deducts credits server-side, so the call that produced this
// result is a billing event.
type FinalizeResult struct {
	WordCount        int    `json:"word_count"`
	RemainingCredits int    `json:"remaining_credits"`
	Message          string `json:"message"`
}

// GeneratePlan asks the backend to turn a user query into a TaskPlan.
func (c *Client) GeneratePlan(ctx context.Context, query string) (types.TaskPlan, error) {
	var plan types.TaskPlan
	body := map[string]any{"query": query}
	if err := c.post(ctx, planPath, body, &plan, c.maxRetries); err != nil {
		return types.TaskPlan{}, fmt.Errorf("generating plan: %w", err)
	}
	return plan, nil
}

// GenerateMindMap asks the backend for the thinking-phase mind map.
func (c *Client) GenerateMindMap(ctx context.Context, plan types.TaskPlan) (types.MindMapData, error) {
	var mm types.MindMapData
	body := map[string]any{"task_plan": plan}
	if err := c.post(ctx, mindMapPath, body, &mm, c.maxRetries); err != nil {
		return types.MindMapData{}, fmt.Errorf("generating mind map: %w", err)
	}
	return mm, nil
}

// PerformResearchStep runs one research step. The original query travels
// with the step so the backend can keep results on topic.
func (c *Client) PerformResearchStep(ctx context.Context, stepText, originalQuery string) (StepResult, error) {
	var res StepResult
	body := map[string]any{"step": stepText, "original_query": originalQuery}
	if err := c.post(ctx, researchPath, body, &res, c.maxRetries); err != nil {
		return StepResult{}, fmt.Errorf("research step %q: %w", stepText, err)
	}
	return res, nil
}

// GenerateOutline asks the backend for an outline over the accumulated
// research results.
func (c *Client) GenerateOutline(ctx context.Context, plan types.TaskPlan, results []types.ResearchResult) (string, error) {
	var resp struct {
		Outline string `json:"outline"`
	}
	body := map[string]any{"task_plan": plan, "research_results": results}
	if err := c.post(ctx, outlinePath, body, &resp, c.maxRetries); err != nil {
		return "", fmt.Errorf("generating outline: %w", err)
	}
	return resp.Outline, nil
}

// FinalizeDocument records the document as finalized and deducts credits.
// It is a billing event: the request is attempted exactly once, with no
// HTTP-level retry, so a failure never risks a silent double charge.
func (c *Client) FinalizeDocument(ctx context.Context, content, title string) (FinalizeResult, error) {
	var res FinalizeResult
	body := map[string]any{"content": content, "title": title}
	if err := c.post(ctx, finalizePath, body, &res, -1); err != nil {
		return FinalizeResult{}, fmt.Errorf("finalizing document: %w", err)
	}
	return res, nil
}

// post sends a JSON body to path and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, body, out any, maxRetries int) error {
	req, err := c.newRequest(ctx, path, body)
	if err != nil {
		return err
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, maxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// newRequest builds an authenticated JSON POST request for path.
func (c *Client) newRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

// apiError turns a non-200 response into an error, including the server's
// message when the body carries one.
func apiError(resp *http.Response) error {
	var e struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &e) == nil && e.Message != "" {
		return fmt.Errorf("API returned HTTP %d: %s", resp.StatusCode, e.Message)
	}
	return fmt.Errorf("API returned HTTP %d", resp.StatusCode)
}
