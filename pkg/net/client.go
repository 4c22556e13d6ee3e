package net

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mchmarny/bendable/pkg/score"
	"github.com/mchmarny/bendable/pkg/store"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60
	clientAgent      = "bendable-client/1"
)

// ErrRemote is returned for any non-success response without a more specific cause.
var ErrRemote = errors.New("remote score API error")

// Client talks to the score HTTP API started by the server command.
type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient validates baseURL, e.g. http://127.0.0.1:8080.
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %s: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %s: scheme and host required", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout: timeoutInSeconds * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:          maxIdleConns,
				IdleConnTimeout:       timeoutInSeconds * time.Second,
				ResponseHeaderTimeout: timeoutInSeconds * time.Second,
			},
		},
	}, nil
}

// Compare returns -1, 0 or 1 as computed by the server.
func (c *Client) Compare(ctx context.Context, a, b score.Bendable) (int, error) {
	var res struct {
		Result int `json:"result"`
	}
	req := map[string]string{"a": a.String(), "b": b.String()}
	if err := doJSON(ctx, c, http.MethodPost, "/api/compare", req, &res); err != nil {
		return 0, err
	}
	return res.Result, nil
}

// Rank returns the best score and all scores best first.
func (c *Client) Rank(ctx context.Context, scores []score.Bendable) (score.Bendable, []score.Bendable, error) {
	req := struct {
		Scores []score.Bendable `json:"scores"`
	}{Scores: scores}
	var res struct {
		Best   score.Bendable   `json:"best"`
		Scores []score.Bendable `json:"scores"`
	}
	if err := doJSON(ctx, c, http.MethodPost, "/api/rank", req, &res); err != nil {
		return score.Bendable{}, nil, err
	}
	return res.Best, res.Scores, nil
}

func (c *Client) Record(ctx context.Context, run string, s score.Bendable) (*store.Entry, error) {
	var e store.Entry
	req := map[string]string{"score": s.String()}
	if err := doJSON(ctx, c, http.MethodPost, "/api/history/"+url.PathEscape(run), req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) Best(ctx context.Context, run string, feasibleOnly bool) (*store.Entry, error) {
	var e store.Entry
	path := "/api/history/" + url.PathEscape(run) + "/best?feasible=" + strconv.FormatBool(feasibleOnly)
	if err := doJSON(ctx, c, http.MethodGet, path, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
