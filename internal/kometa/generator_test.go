package kometa

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/kometawizard/kometawizard/internal/profile"
)

func newTestGenerator() *Generator {
	return NewGenerator(zerolog.Nop())
}

func baseProfile() *profile.Profile {
	p := profile.New("Test")
	p.Plex.URL = "http://localhost:32400"
	p.Plex.Token = "token"
	p.TMDb.APIKey = "apikey"
	return p
}

func decode(t *testing.T, text string) map[string]any {
	t.Helper()
	var root map[string]any
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		t.Fatalf("generated YAML does not parse: %v\n%s", err, text)
	}
	return root
}

func section(t *testing.T, root map[string]any, key string) map[string]any {
	t.Helper()
	m, ok := root[key].(map[string]any)
	if !ok {
		t.Fatalf("missing or malformed %q section", key)
	}
	return m
}

func TestGenerateDeterministic(t *testing.T) {
	p := baseProfile()
	p.SelectedLibraries = []string{"Movies", "TV Shows"}
	p.SelectedCharts["movie_basic"] = true
	p.SelectedCharts["show_basic"] = true
	p.OverlaySettings[profile.OverlayKey("resolution", profile.MediaTypeMovies)] = &profile.OverlayConfiguration{
		Enabled:              true,
		OverlayType:          "resolution",
		UseAdvancedVariables: true,
		TemplateVariables:    map[string]string{"z_last": "1", "a_first": "2", "m_mid": "3"},
	}
	p.EnabledServices["radarr"] = true
	p.OptionalServices["radarr_url"] = "http://localhost:7878"
	p.OptionalServices["radarr_key"] = "secret"

	g := newTestGenerator()
	first, err := g.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := g.Generate(p)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if next != first {
			t.Fatalf("output differs between runs:\n%s\n---\n%s", first, next)
		}
	}
}

func TestGeneratePlexAndTMDbSections(t *testing.T) {
	p := baseProfile()
	p.Plex.CleanBundles = true
	p.TMDb.Region = "US"

	text, err := newTestGenerator().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	root := decode(t, text)

	plexSection := section(t, root, "plex")
	if plexSection["url"] != "http://localhost:32400" {
		t.Errorf("plex url = %v", plexSection["url"])
	}
	if plexSection["timeout"] != 60 {
		t.Errorf("plex timeout = %v, want 60", plexSection["timeout"])
	}
	if plexSection["clean_bundles"] != true {
		t.Errorf("clean_bundles = %v, want true", plexSection["clean_bundles"])
	}

	tmdbSection := section(t, root, "tmdb")
	if tmdbSection["apikey"] != "apikey" {
		t.Errorf("tmdb apikey = %v", tmdbSection["apikey"])
	}
	if tmdbSection["region"] != "US" {
		t.Errorf("tmdb region = %v, want US", tmdbSection["region"])
	}

	// No libraries selected: the section is omitted entirely.
	if _, ok := root["libraries"]; ok {
		t.Error("libraries section should be omitted when none are selected")
	}
}

func TestGenerateSettingsScalarTypes(t *testing.T) {
	p := baseProfile()
	text, err := newTestGenerator().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	settings := section(t, decode(t, text), "settings")

	if settings["cache"] != true {
		t.Errorf("settings.cache = %v (%T), want bool true", settings["cache"], settings["cache"])
	}
	if settings["cache_expiration"] != 60 {
		t.Errorf("settings.cache_expiration = %v (%T), want int 60", settings["cache_expiration"], settings["cache_expiration"])
	}
	if settings["sync_mode"] != "append" {
		t.Errorf("settings.sync_mode = %v, want append", settings["sync_mode"])
	}
}

func TestGenerateLibraryMediaTypeInference(t *testing.T) {
	p := baseProfile()
	p.SelectedLibraries = []string{"Movies", "TV Shows"}
	p.SelectedCharts["movie_basic"] = true
	p.SelectedCharts["show_basic"] = true
	// "network" only applies to show libraries.
	p.SelectedCharts["show_network"] = true

	text, err := newTestGenerator().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	libraries := section(t, decode(t, text), "libraries")

	movieLib, _ := libraries["Movies"].(map[string]any)
	showLib, _ := libraries["TV Shows"].(map[string]any)
	if movieLib == nil || showLib == nil {
		t.Fatalf("libraries = %v", libraries)
	}

	movieDefaults := collectionDefaults(movieLib)
	showDefaults := collectionDefaults(showLib)

	if !contains(movieDefaults, "basic") {
		t.Errorf("movie library defaults = %v, want basic", movieDefaults)
	}
	if contains(movieDefaults, "network") {
		t.Errorf("network must not appear in a movie library: %v", movieDefaults)
	}
	if !contains(showDefaults, "basic") || !contains(showDefaults, "network") {
		t.Errorf("show library defaults = %v, want basic and network", showDefaults)
	}
}

func TestGenerateRatingsOverlay(t *testing.T) {
	p := baseProfile()
	p.SelectedLibraries = []string{"Movies"}
	p.OverlaySettings[profile.OverlayKey("ratings", profile.MediaTypeMovies)] = &profile.OverlayConfiguration{
		Enabled:              true,
		OverlayType:          "ratings",
		UseAdvancedVariables: true,
		RatingConfig: &profile.RatingConfig{
			Rating1:            profile.RatingSlot{Enabled: true, Source: "imdb", FontSize: 63},
			Rating2:            profile.RatingSlot{Enabled: true, Source: "rt_tomato", FontSize: 70},
			HorizontalPosition: "left",
		},
	}

	text, err := newTestGenerator().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	libraries := section(t, decode(t, text), "libraries")
	movieLib, _ := libraries["Movies"].(map[string]any)
	overlays, _ := movieLib["overlay_files"].([]any)
	if len(overlays) != 1 {
		t.Fatalf("overlay_files = %v, want one entry", overlays)
	}
	entry, _ := overlays[0].(map[string]any)
	if entry["default"] != "ratings" {
		t.Fatalf("entry = %v", entry)
	}
	vars, _ := entry["template_variables"].(map[string]any)
	if vars == nil {
		t.Fatal("missing template_variables")
	}

	if vars["rating1"] != "user" {
		t.Errorf("rating1 = %v, want user", vars["rating1"])
	}
	if vars["rating1_image"] != "imdb" {
		t.Errorf("rating1_image = %v, want imdb", vars["rating1_image"])
	}
	if vars["rating2"] != "critic" {
		t.Errorf("rating2 = %v, want critic", vars["rating2"])
	}
	// 63 is the catalog default and must be omitted; 70 is not.
	if _, ok := vars["rating1_font_size"]; ok {
		t.Error("rating1_font_size at default should be omitted")
	}
	if vars["rating2_font_size"] != 70 {
		t.Errorf("rating2_font_size = %v, want 70", vars["rating2_font_size"])
	}
	// "left" is the catalog default horizontal position.
	if _, ok := vars["horizontal_position"]; ok {
		t.Error("default horizontal_position should be omitted")
	}
	// rating3 disabled: nothing emitted.
	if _, ok := vars["rating3"]; ok {
		t.Error("disabled rating3 should be omitted")
	}
}

func TestGenerateOmitsDefaultTemplateVariables(t *testing.T) {
	p := baseProfile()
	p.SelectedLibraries = []string{"Movies"}
	p.OverlaySettings[profile.OverlayKey("ratings", profile.MediaTypeMovies)] = &profile.OverlayConfiguration{
		Enabled:              true,
		OverlayType:          "ratings",
		UseAdvancedVariables: true,
		TemplateVariables: map[string]string{
			"horizontal_position": "left", // catalog default
			"custom_var":          "value",
		},
	}

	text, err := newTestGenerator().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(text, "horizontal_position") {
		t.Error("catalog-default variable should be omitted")
	}
	if !strings.Contains(text, "custom_var: value") {
		t.Errorf("non-default variable missing:\n%s", text)
	}
}

func TestGenerateServiceBlocks(t *testing.T) {
	p := baseProfile()
	p.EnabledServices["radarr"] = true
	p.OptionalServices["radarr_url"] = "http://localhost:7878"
	p.OptionalServices["radarr_key"] = "secret"
	p.EnabledServices["omdb"] = true
	p.OptionalServices["omdb_apikey"] = "omdbkey"
	p.OptionalServices["omdb_cache_expiration"] = "30"

	text, err := newTestGenerator().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	root := decode(t, text)

	radarrSection := section(t, root, "radarr")
	if radarrSection["url"] != "http://localhost:7878" {
		t.Errorf("radarr url = %v", radarrSection["url"])
	}
	// The profile key is radarr_key but the YAML field is token.
	if radarrSection["token"] != "secret" {
		t.Errorf("radarr token = %v, want secret", radarrSection["token"])
	}

	omdbSection := section(t, root, "omdb")
	if omdbSection["cache_expiration"] != 30 {
		t.Errorf("omdb cache_expiration = %v (%T), want int 30", omdbSection["cache_expiration"], omdbSection["cache_expiration"])
	}

	if _, ok := root["sonarr"]; ok {
		t.Error("disabled services must not be emitted")
	}
}

func TestGenerateThenImportRoundTrip(t *testing.T) {
	p := baseProfile()
	p.SelectedLibraries = []string{"Movies"}
	p.SelectedCharts["movie_basic"] = true
	p.EnabledServices["radarr"] = true
	p.OptionalServices["radarr_url"] = "http://localhost:7878"
	p.OptionalServices["radarr_key"] = "secret"

	text, err := newTestGenerator().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	result := newTestImporter().Import(text)
	if !result.Success {
		t.Fatalf("re-import failed: %+v", result.Warnings)
	}
	got := result.Profile
	if got.Plex.URL != p.Plex.URL || got.Plex.Token != p.Plex.Token {
		t.Errorf("plex connection lost in round trip: %+v", got.Plex)
	}
	if got.TMDb.APIKey != p.TMDb.APIKey {
		t.Errorf("tmdb key lost in round trip: %+v", got.TMDb)
	}
	if !got.SelectedCharts["movie_basic"] {
		t.Error("movie_basic lost in round trip")
	}
	if !got.EnabledServices["radarr"] || got.OptionalServices["radarr_key"] != "secret" {
		t.Errorf("radarr lost in round trip: %v %v", got.EnabledServices, got.OptionalServices)
	}
}

func collectionDefaults(lib map[string]any) []string {
	entries, _ := lib["collection_files"].([]any)
	var out []string
	for _, e := range entries {
		if m, ok := e.(map[string]any); ok {
			if id, ok := m["default"].(string); ok {
				out = append(out, id)
			}
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
