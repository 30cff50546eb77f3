// Package plex talks to a Plex Media Server and to the plex.tv account API:
// token validation, server discovery, library listing and the pin-based
// sign-in flow.
package plex

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kometawizard/kometawizard/internal/profile"
)

var (
	ErrUnauthorized = errors.New("plex token rejected")
	ErrUnreachable  = errors.New("plex server unreachable")
	ErrAPIError     = errors.New("plex API error")
)

const plexTVBaseURL = "https://plex.tv"

// Client is a Plex API client. One client serves all servers; the server URL
// and token are passed per call because the wizard works with whatever the
// active profile currently holds.
type Client struct {
	httpClient         *http.Client
	insecureHTTPClient *http.Client
	clientID           string
	logger             zerolog.Logger
}

// NewClient creates a new Plex client. clientID is the stable X-Plex-Client-
// Identifier for this installation.
func NewClient(clientID string, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		insecureHTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		clientID: clientID,
		logger:   logger.With().Str("component", "plex").Logger(),
	}
}

// ValidateToken checks that the token is accepted by the server at serverURL.
func (c *Client) ValidateToken(ctx context.Context, serverURL, token string, verifySSL bool) error {
	endpoint := strings.TrimRight(serverURL, "/") + "/identity"

	var result identityResponse
	if err := c.doRequest(ctx, endpoint, token, verifySSL, &result); err != nil {
		return err
	}
	if result.MediaContainer.MachineIdentifier == "" {
		return fmt.Errorf("%w: no machine identifier in response", ErrAPIError)
	}
	return nil
}

// GetLibraries lists the library sections of the server at serverURL.
func (c *Client) GetLibraries(ctx context.Context, serverURL, token string, verifySSL bool) ([]profile.LibraryInfo, error) {
	endpoint := strings.TrimRight(serverURL, "/") + "/library/sections"

	var result sectionsResponse
	if err := c.doRequest(ctx, endpoint, token, verifySSL, &result); err != nil {
		return nil, err
	}

	libraries := make([]profile.LibraryInfo, 0, len(result.MediaContainer.Directory))
	for _, dir := range result.MediaContainer.Directory {
		if dir.Type != "movie" && dir.Type != "show" {
			continue
		}
		libraries = append(libraries, profile.LibraryInfo{
			Name: dir.Title,
			Type: dir.Type,
		})
	}

	c.logger.Debug().Int("count", len(libraries)).Msg("fetched plex libraries")
	return libraries, nil
}

// DiscoverServers asks plex.tv for the servers linked to the account behind
// the token.
func (c *Client) DiscoverServers(ctx context.Context, token string) ([]profile.DiscoveredServer, error) {
	endpoint := plexTVBaseURL + "/api/v2/resources?" + url.Values{
		"includeHttps": {"1"},
	}.Encode()

	var resources []resource
	if err := c.doRequest(ctx, endpoint, token, true, &resources); err != nil {
		return nil, err
	}

	var servers []profile.DiscoveredServer
	for _, r := range resources {
		if !strings.Contains(r.Provides, "server") {
			continue
		}
		srv := profile.DiscoveredServer{Name: r.Name}
		for _, conn := range r.Connections {
			srv.Addresses = append(srv.Addresses, conn.URI)
			if srv.Port == 0 {
				srv.Port = conn.Port
			}
		}
		if len(srv.Addresses) == 0 {
			continue
		}
		servers = append(servers, srv)
	}

	c.logger.Info().Int("count", len(servers)).Msg("discovered plex servers")
	return servers, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint, token string, verifySSL bool, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	c.setPlexHeaders(req, token)

	client := c.httpClient
	if !verifySSL {
		client = c.insecureHTTPClient
	}

	resp, err := client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setPlexHeaders(req *http.Request, token string) {
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("X-Plex-Version", productVersion)
	req.Header.Set("X-Plex-Client-Identifier", c.clientID)
	if token != "" {
		req.Header.Set("X-Plex-Token", token)
	}
}
