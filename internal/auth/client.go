// Package auth talks to the cloud account service: it fetches the signed-in
// profile and team list and clears them on sign out.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/sidenote/internal/state"
)

// ErrUnauthorized is returned when the token is rejected.
var ErrUnauthorized = errors.New("unauthorized")

// Profile is the signed-in account and the teams it belongs to.
type Profile struct {
	User  *state.CloudUser
	Teams []state.Team
}

// ProfileMsg carries the result of a background profile fetch.
type ProfileMsg struct {
	Profile *Profile
	Err     error
}

// Client fetches profiles from {baseURL}/api/desktop.
type Client struct {
	baseURL string
	http    *http.Client
	state   *state.Store
	logger  *slog.Logger
}

// NewClient creates a client. st receives the fetched account; it may be
// nil in tests.
func NewClient(baseURL string, timeout time.Duration, st *state.Store, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		state:   st,
		logger:  logger,
	}
}

type desktopData struct {
	User *struct {
		ID          string `json:"id"`
		UniqueName  string `json:"uniqueName"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	Teams []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Domain  string `json:"domain"`
		IconURL string `json:"iconUrl"`
	} `json:"teams"`
}

// FetchProfile requests the account data for token. A response without a
// user yields a Profile with a nil User.
func (c *Client) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/desktop", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch profile: HTTP %d", resp.StatusCode)
	}

	var data desktopData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	p := &Profile{Teams: make([]state.Team, 0, len(data.Teams))}
	if data.User != nil {
		p.User = &state.CloudUser{
			ID:          data.User.ID,
			UniqueName:  data.User.UniqueName,
			DisplayName: data.User.DisplayName,
		}
	}
	for _, t := range data.Teams {
		p.Teams = append(p.Teams, state.Team{ID: t.ID, Name: t.Name, Domain: t.Domain, IconURL: t.IconURL})
	}
	return p, nil
}

// Sync fetches the profile and stores it in the UI state.
func (c *Client) Sync(ctx context.Context, token string) (*Profile, error) {
	p, err := c.FetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	if c.state != nil {
		err = c.state.Update(func(st *state.State) {
			st.CloudUser = p.User
			st.BoostHubTeams = p.Teams
		})
	}
	return p, err
}

// SyncCmd runs Sync in the background and reports a ProfileMsg. An empty
// token returns nil.
func (c *Client) SyncCmd(token string) tea.Cmd {
	if token == "" {
		return nil
	}
	return func() tea.Msg {
		p, err := c.Sync(context.Background(), token)
		if err != nil {
			c.logger.Warn("profile sync failed", "err", err)
		}
		return ProfileMsg{Profile: p, Err: err}
	}
}

// SignOut forgets the cached account and team list.
func (c *Client) SignOut() error {
	if c.state == nil {
		return nil
	}
	return c.state.Update(func(st *state.State) {
		st.CloudUser = nil
		st.BoostHubTeams = nil
	})
}
