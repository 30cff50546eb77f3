package kometa

import (
	"testing"

	"github.com/kometawizard/kometawizard/internal/profile"
)

func TestPreviewCounts(t *testing.T) {
	p := baseProfile()
	p.SelectedLibraries = []string{"Movies", "TV Shows"}
	p.SelectedCharts["movie_basic"] = true
	p.SelectedCharts["show_basic"] = true
	p.SelectedCharts["movie_awards"] = false
	p.CustomCollections = append(p.CustomCollections, profile.CustomCollection{Name: "Favorites"})
	p.OverlaySettings[profile.OverlayKey("resolution", profile.MediaTypeMovies)] = &profile.OverlayConfiguration{
		Enabled:     true,
		OverlayType: "resolution",
	}
	p.OverlaySettings[profile.OverlayKey("ratings", profile.MediaTypeMovies)] = &profile.OverlayConfiguration{
		Enabled:     false,
		OverlayType: "ratings",
	}
	p.EnabledServices["radarr"] = true
	p.EnabledServices["sonarr"] = false

	pv := BuildPreview(p)
	if pv.LibraryCount != 2 {
		t.Errorf("LibraryCount = %d, want 2", pv.LibraryCount)
	}
	if pv.CollectionCount != 3 {
		t.Errorf("CollectionCount = %d, want 3", pv.CollectionCount)
	}
	if pv.OverlayCount != 1 {
		t.Errorf("OverlayCount = %d, want 1", pv.OverlayCount)
	}
	if len(pv.OverlayTypes) != 1 || pv.OverlayTypes[0] != "resolution" {
		t.Errorf("OverlayTypes = %v", pv.OverlayTypes)
	}
	if len(pv.EnabledServices) != 1 || pv.EnabledServices[0] != "radarr" {
		t.Errorf("EnabledServices = %v", pv.EnabledServices)
	}
	if pv.Summary == "" {
		t.Error("Summary should not be empty")
	}
}

func TestPreviewBuilderLevelBreakdown(t *testing.T) {
	p := baseProfile()
	// Multi-select levels on a TV overlay count once per level.
	p.OverlaySettings[profile.OverlayKey("resolution", profile.MediaTypeTVShows)] = &profile.OverlayConfiguration{
		Enabled:       true,
		OverlayType:   "resolution",
		BuilderLevels: []string{"season", "episode"},
	}
	// Single imported level.
	p.OverlaySettings[profile.OverlayKey("status", profile.MediaTypeTVShows)] = &profile.OverlayConfiguration{
		Enabled:      true,
		OverlayType:  "status",
		BuilderLevel: "show",
	}
	// No level set falls back to show.
	p.OverlaySettings[profile.OverlayKey("ratings", profile.MediaTypeMovies)] = &profile.OverlayConfiguration{
		Enabled:     true,
		OverlayType: "ratings",
	}

	pv := BuildPreview(p)
	if pv.OverlayCount != 3 {
		t.Errorf("OverlayCount = %d, want 3", pv.OverlayCount)
	}
	want := map[string]int{"show": 2, "season": 1, "episode": 1}
	for level, count := range want {
		if pv.ByBuilderLevel[level] != count {
			t.Errorf("ByBuilderLevel[%q] = %d, want %d", level, pv.ByBuilderLevel[level], count)
		}
	}
	if len(pv.ByBuilderLevel) != len(want) {
		t.Errorf("ByBuilderLevel = %v", pv.ByBuilderLevel)
	}
}
