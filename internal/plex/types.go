package plex

// Identifying headers sent on every Plex request. Plex rejects API calls
// that do not identify a product.
const (
	productName    = "KometaWizard"
	productVersion = "1.0"
)

// identityResponse is the payload of GET {server}/identity.
type identityResponse struct {
	MediaContainer struct {
		MachineIdentifier string `json:"machineIdentifier"`
		Version           string `json:"version"`
	} `json:"MediaContainer"`
}

// sectionsResponse is the payload of GET {server}/library/sections.
type sectionsResponse struct {
	MediaContainer struct {
		Directory []struct {
			Key   string `json:"key"`
			Title string `json:"title"`
			Type  string `json:"type"`
		} `json:"Directory"`
	} `json:"MediaContainer"`
}

// resource is one entry of GET plex.tv/api/v2/resources.
type resource struct {
	Name        string `json:"name"`
	Provides    string `json:"provides"`
	Connections []struct {
		URI     string `json:"uri"`
		Address string `json:"address"`
		Port    int    `json:"port"`
		Local   bool   `json:"local"`
	} `json:"connections"`
}

// pinResponse is the payload of the plex.tv v2 pins endpoints.
type pinResponse struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	AuthToken string `json:"authToken"`
}

// PinStatus is what the UI polls while waiting for the user to approve the
// sign-in request on plex.tv.
type PinStatus struct {
	Pending   bool   `json:"pending"`
	AuthURL   string `json:"authUrl,omitempty"`
	AuthToken string `json:"authToken,omitempty"`
}
