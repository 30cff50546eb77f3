package catalog

// Overlay is one entry of the Kometa overlay defaults catalog.
type Overlay struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Media applicability. Overlays marked show-only never appear in movie
	// library overlay_files.
	Movies bool `json:"movies"`
	Shows  bool `json:"shows"`

	// SupportsBuilderLevels is true for overlays that can be applied at the
	// show, season or episode level of TV content.
	SupportsBuilderLevels bool `json:"supportsBuilderLevels"`

	// DefaultVariables holds the template defaults built into the Kometa
	// catalog. The generator omits any template variable whose value matches
	// the default here, keeping the emitted YAML minimal.
	DefaultVariables map[string]string `json:"defaultVariables,omitempty"`
}

// Overlays returns the overlay catalog in its fixed display order.
func Overlays() []Overlay {
	return defaultOverlays
}

// FindOverlay looks up an overlay definition by id.
func FindOverlay(id string) (Overlay, bool) {
	for _, o := range defaultOverlays {
		if o.ID == id {
			return o, true
		}
	}
	return Overlay{}, false
}

var defaultOverlays = []Overlay{
	{ID: "aspect", Name: "Aspect Ratio", Movies: true, Shows: true, SupportsBuilderLevels: true},
	{ID: "audio_codec", Name: "Audio Codec", Movies: true, Shows: true, SupportsBuilderLevels: true},
	{ID: "commonsense", Name: "Common Sense Age Rating", Movies: true, Shows: true},
	{ID: "direct_play", Name: "Direct Play Only", Movies: true, Shows: true, SupportsBuilderLevels: true},
	{ID: "episode_info", Name: "Episode Info", Shows: true, SupportsBuilderLevels: true},
	{ID: "language_count", Name: "Language Count", Movies: true, Shows: true},
	{ID: "mediastinger", Name: "Mediastinger", Movies: true, Shows: true},
	{ID: "network", Name: "Network", Shows: true, SupportsBuilderLevels: true},
	{
		ID: "ratings", Name: "Ratings", Movies: true, Shows: true, SupportsBuilderLevels: true,
		DefaultVariables: map[string]string{
			"horizontal_position": "left",
			"rating1_font_size":   "63",
			"rating2_font_size":   "63",
			"rating3_font_size":   "63",
		},
	},
	{ID: "resolution", Name: "Resolution", Movies: true, Shows: true, SupportsBuilderLevels: true},
	{
		ID: "ribbon", Name: "Ribbon", Movies: true, Shows: true,
		DefaultVariables: map[string]string{"style": "yellow"},
	},
	{ID: "runtimes", Name: "Runtimes", Movies: true, Shows: true, SupportsBuilderLevels: true},
	{ID: "status", Name: "Airing Status", Shows: true},
	{ID: "streaming", Name: "Streaming Services", Movies: true, Shows: true},
	{ID: "studio", Name: "Studio", Movies: true, Shows: true, SupportsBuilderLevels: true},
	{ID: "versions", Name: "Versions", Movies: true, Shows: true, SupportsBuilderLevels: true},
	{ID: "video_format", Name: "Video Format", Movies: true, Shows: true, SupportsBuilderLevels: true},
}
