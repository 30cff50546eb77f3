package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
)

var ErrNoPendingPin = errors.New("no sign-in in progress")

// OAuth runs the plex.tv pin flow: request a pin, hand the user an approval
// URL, then poll the pin until plex.tv attaches an auth token. At most one
// pin is pending at a time.
type OAuth struct {
	client *Client
	logger zerolog.Logger

	mu  sync.Mutex
	pin *pinResponse
}

// NewOAuth creates the pin-flow helper on top of an existing client.
func NewOAuth(client *Client, logger zerolog.Logger) *OAuth {
	return &OAuth{
		client: client,
		logger: logger.With().Str("component", "plex-oauth").Logger(),
	}
}

// Start requests a new pin and returns the URL the user must open to approve
// the sign-in. Any previously pending pin is discarded.
func (o *OAuth) Start(ctx context.Context) (*PinStatus, error) {
	endpoint := plexTVBaseURL + "/api/v2/pins?strong=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	o.client.setPlexHeaders(req, "")

	resp, err := o.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var pin pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pin); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}

	o.mu.Lock()
	o.pin = &pin
	o.mu.Unlock()

	o.logger.Info().Int64("pin", pin.ID).Msg("plex sign-in started")
	return &PinStatus{
		Pending: true,
		AuthURL: o.authURL(pin.Code),
	}, nil
}

// Check polls the pending pin. When the user has approved the sign-in the
// returned status carries the account token and the pin is cleared.
func (o *OAuth) Check(ctx context.Context) (*PinStatus, error) {
	o.mu.Lock()
	pin := o.pin
	o.mu.Unlock()
	if pin == nil {
		return nil, ErrNoPendingPin
	}

	endpoint := fmt.Sprintf("%s/api/v2/pins/%d", plexTVBaseURL, pin.ID)

	var result pinResponse
	if err := o.client.doRequest(ctx, endpoint, "", true, &result); err != nil {
		return nil, err
	}

	if result.AuthToken == "" {
		return &PinStatus{
			Pending: true,
			AuthURL: o.authURL(pin.Code),
		}, nil
	}

	o.mu.Lock()
	o.pin = nil
	o.mu.Unlock()

	o.logger.Info().Msg("plex sign-in completed")
	return &PinStatus{AuthToken: result.AuthToken}, nil
}

// Cancel discards the pending pin, if any.
func (o *OAuth) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pin = nil
}

func (o *OAuth) authURL(code string) string {
	params := url.Values{
		"clientID":                 {o.client.clientID},
		"code":                     {code},
		"context[device][product]": {productName},
	}
	return "https://app.plex.tv/auth#?" + params.Encode()
}
