// Package profile defines the canonical in-memory representation of a user's
// Kometa configuration and its JSON persistence.
package profile

import (
	"strings"
	"time"
)

// Media type labels as they appear in composite overlay keys and the UI.
const (
	MediaTypeMovies  = "Movies"
	MediaTypeTVShows = "TV Shows"
)

// Profile is the root aggregate: one named bundle of all configuration for a
// single Kometa setup.
type Profile struct {
	Name         string    `json:"name"`
	CreatedDate  time.Time `json:"createdDate"`
	LastModified time.Time `json:"lastModified"`

	// KometaDirectory is the filesystem path to a Kometa installation.
	// It is not validated by the mapping layer.
	KometaDirectory string `json:"kometaDirectory"`

	Plex PlexConfig `json:"plex"`
	TMDb TMDbConfig `json:"tmdb"`

	// SelectedLibraries holds the names of the Plex libraries Kometa should
	// manage. Ordering is irrelevant.
	SelectedLibraries []string `json:"selectedLibraries"`

	// SelectedCharts maps a namespaced collection id (movie_* or show_*) to
	// an enabled flag. Ids come from the static defaults catalog.
	SelectedCharts map[string]bool `json:"selectedCharts"`

	// OverlaySettings maps a composite "{overlayId}_{MediaType}" key (spaces
	// replaced by underscores) to an overlay configuration.
	OverlaySettings map[string]*OverlayConfiguration `json:"overlaySettings"`

	// CollectionAdvancedSettings configures catalog collections; the parallel
	// MyCollectionAdvancedSettings map covers Plex-native smart collections,
	// distinguished by a "plex_" key prefix.
	CollectionAdvancedSettings   map[string]*CollectionAdvancedConfig `json:"collectionAdvancedSettings"`
	MyCollectionAdvancedSettings map[string]*CollectionAdvancedConfig `json:"myCollectionAdvancedSettings"`

	// OptionalServices is a flat "{service}_{field}" -> value map (e.g.
	// "tautulli_url", "trakt_client_secret"). EnabledServices toggles each
	// service block independently.
	OptionalServices map[string]string `json:"optionalServices"`
	EnabledServices  map[string]bool   `json:"enabledServices"`

	Settings WizardSettings `json:"settings"`

	// CustomCollections are user-authored collections sourced from a URL,
	// independent of the built-in catalog.
	CustomCollections []CustomCollection `json:"customCollections"`
}

// PlexConfig is the Plex connection block.
type PlexConfig struct {
	URL             string `json:"url"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Timeout         int    `json:"timeout"`
	DBCache         int    `json:"dbCache"`
	CleanBundles    bool   `json:"cleanBundles"`
	EmptyTrash      bool   `json:"emptyTrash"`
	Optimize        bool   `json:"optimize"`
	VerifySSL       bool   `json:"verifySSL"`

	// AvailableLibraries and DiscoveredServers cache the results of a prior
	// server discovery so the UI can render without re-querying Plex.
	AvailableLibraries []LibraryInfo      `json:"availableLibraries"`
	DiscoveredServers  []DiscoveredServer `json:"discoveredServers"`

	// ManualURLMode is true when the user typed the URL instead of picking a
	// discovered server from the dropdown.
	ManualURLMode bool `json:"manualUrlMode"`
}

// TMDbConfig is the TMDb connection block.
type TMDbConfig struct {
	APIKey          string `json:"apiKey"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	CacheExpiration int    `json:"cacheExpiration"`
	Language        string `json:"language"`
	Region          string `json:"region"`
}

// LibraryInfo describes one Plex library section.
type LibraryInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // "movie" or "show"
	Selected bool   `json:"selected"`
}

// DiscoveredServer describes one Plex server found during discovery.
type DiscoveredServer struct {
	Name      string   `json:"name"`
	Addresses []string `json:"addresses"`
	Port      int      `json:"port"`
}

// OverlayConfiguration configures one overlay for one media type.
type OverlayConfiguration struct {
	Enabled              bool   `json:"enabled"`
	OverlayType          string `json:"overlayType"`
	UseAdvancedVariables bool   `json:"useAdvancedVariables"`

	// BuilderLevel / BuilderLevels apply to TV overlays only (show, season,
	// episode). BuilderLevel is the single level seeded by an import;
	// BuilderLevels is the multi-select the UI maintains.
	BuilderLevel  string   `json:"builderLevel,omitempty"`
	BuilderLevels []string `json:"builderLevels,omitempty"`

	// TemplateVariables is a free-form passthrough map of Kometa template
	// variables; values are preserved verbatim.
	TemplateVariables map[string]string `json:"templateVariables,omitempty"`

	// RatingConfig is only populated for the "ratings" overlay.
	RatingConfig *RatingConfig `json:"ratingConfig,omitempty"`
}

// RatingConfig holds the structured settings of the ratings overlay: three
// independent sub-ratings plus a shared horizontal position.
type RatingConfig struct {
	Rating1            RatingSlot `json:"rating1"` // user rating
	Rating2            RatingSlot `json:"rating2"` // critic rating
	Rating3            RatingSlot `json:"rating3"` // audience rating
	HorizontalPosition string     `json:"horizontalPosition"` // "left" or "right"
}

// RatingSlot is one of the three rating positions on the ratings overlay.
type RatingSlot struct {
	Enabled    bool   `json:"enabled"`
	Source     string `json:"source"` // rt_tomato, imdb or tmdb
	CustomFont string `json:"customFont,omitempty"`
	FontSize   int    `json:"fontSize"` // 30-100
}

// CollectionAdvancedConfig holds the per-collection advanced options, each
// sub-section independently toggleable.
type CollectionAdvancedConfig struct {
	Enabled   bool   `json:"enabled"`
	MediaType string `json:"mediaType,omitempty"`

	UseDataRange bool   `json:"useDataRange"`
	StartingYear string `json:"startingYear,omitempty"`
	EndingYear   string `json:"endingYear,omitempty"`

	UseSeparator   bool   `json:"useSeparator"`
	SeparatorStyle string `json:"separatorStyle,omitempty"`

	UseVisibility  bool `json:"useVisibility"`
	VisibleLibrary bool `json:"visibleLibrary"`
	VisibleHome    bool `json:"visibleHome"`
	VisibleShared  bool `json:"visibleShared"`

	UseContentFilter bool `json:"useContentFilter"`
	OriginalsOnly    bool `json:"originalsOnly"`
	Depth            int  `json:"depth,omitempty"`
	Limit            int  `json:"limit,omitempty"`
}

// CustomCollection is a user-authored collection defined by a source URL.
type CustomCollection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SourceURL   string    `json:"sourceUrl"`
	Poster      string    `json:"poster,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedDate time.Time `json:"createdDate"`
}

// New creates an empty, defaulted profile with the given name.
func New(name string) *Profile {
	now := time.Now().UTC()
	return &Profile{
		Name:         name,
		CreatedDate:  now,
		LastModified: now,
		Plex: PlexConfig{
			Timeout:   60,
			DBCache:   40,
			VerifySSL: true,
		},
		TMDb: TMDbConfig{
			CacheExpiration: 60,
			Language:        "en",
		},
		SelectedLibraries:            []string{},
		SelectedCharts:               map[string]bool{},
		OverlaySettings:              map[string]*OverlayConfiguration{},
		CollectionAdvancedSettings:   map[string]*CollectionAdvancedConfig{},
		MyCollectionAdvancedSettings: map[string]*CollectionAdvancedConfig{},
		OptionalServices:             map[string]string{},
		EnabledServices:              map[string]bool{},
		Settings:                     DefaultSettings(),
	}
}

// OverlayKey builds the composite overlay-settings key for an overlay id and
// media type. Spaces in the media type become underscores, so "ratings" for
// "TV Shows" yields "ratings_TV_Shows".
func OverlayKey(overlayID, mediaType string) string {
	return overlayID + "_" + strings.ReplaceAll(mediaType, " ", "_")
}

// SplitOverlayKey recovers the overlay id and media type from a composite key.
// Overlay ids may themselves contain underscores, so only the two known media
// type suffixes are recognized.
func SplitOverlayKey(key string) (overlayID, mediaType string, ok bool) {
	switch {
	case strings.HasSuffix(key, "_TV_Shows"):
		return strings.TrimSuffix(key, "_TV_Shows"), MediaTypeTVShows, true
	case strings.HasSuffix(key, "_Movies"):
		return strings.TrimSuffix(key, "_Movies"), MediaTypeMovies, true
	default:
		return "", "", false
	}
}
