package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tictactoe/communication"
	"tictactoe/game"
)

type Client struct {
	serverURL string
	http      *http.Client
}

// New returns a client for the move server at serverURL. A nil httpClient
// means http.DefaultClient.
func New(serverURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      httpClient,
	}
}

func (c *Client) Move(ctx context.Context, board game.Board, player game.Player, iterations int) (communication.MoveResponse, error) {
	var resp communication.MoveResponse
	req := communication.MoveRequest{
		Board:      board.String(),
		Player:     player.String(),
		Iterations: iterations,
	}
	err := c.do(ctx, http.MethodPost, "/move", req, http.StatusOK, &resp)
	return resp, err
}

func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/clear", nil, http.StatusNoContent, nil)
}

func (c *Client) Stats(ctx context.Context) (communication.StatsResponse, error) {
	var resp communication.StatsResponse
	err := c.do(ctx, http.MethodGet, "/stats", nil, http.StatusOK, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
		}
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
