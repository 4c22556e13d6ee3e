package net

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mchmarny/bendable/pkg/score"
	"github.com/mchmarny/bendable/pkg/store"
)

// doJSON sends body (when not nil) as JSON and decodes the response into target.
func doJSON[T any](ctx context.Context, c *Client, method, path string, body any, target *T) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("error creating HTTP %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", clientAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("error executing HTTP %s request: %w", method, err)
	}
	defer resp.Body.Close()
	debugResponse(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("error decoding content: %w", err)
	}
	return nil
}

// responseError maps the API error statuses back to the score and store sentinels.
func responseError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
		msg = e.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", store.ErrNotFound, msg)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", score.ErrIncompatible, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", score.ErrParse, msg)
	default:
		return fmt.Errorf("%w (status: %d): %s", ErrRemote, resp.StatusCode, msg)
	}
}
