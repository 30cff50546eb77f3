package kometa

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kometawizard/kometawizard/internal/profile"
)

// BuildPreview derives the informational summary for a profile: counts of
// selected libraries, collections and overlays, the distinct overlay types,
// the enabled services and an overlay breakdown by builder level.
func BuildPreview(p *profile.Profile) *Preview {
	pv := &Preview{
		LibraryCount:   len(p.SelectedLibraries),
		ByBuilderLevel: map[string]int{},
	}

	for _, enabled := range p.SelectedCharts {
		if enabled {
			pv.CollectionCount++
		}
	}
	pv.CollectionCount += len(p.CustomCollections)

	types := map[string]bool{}
	for _, cfg := range p.OverlaySettings {
		if cfg == nil || !cfg.Enabled {
			continue
		}
		pv.OverlayCount++
		types[cfg.OverlayType] = true

		levels := cfg.BuilderLevels
		if len(levels) == 0 {
			level := cfg.BuilderLevel
			if level == "" {
				level = "show"
			}
			levels = []string{level}
		}
		for _, level := range levels {
			pv.ByBuilderLevel[level]++
		}
	}
	for t := range types {
		pv.OverlayTypes = append(pv.OverlayTypes, t)
	}
	sort.Strings(pv.OverlayTypes)

	for id, enabled := range p.EnabledServices {
		if enabled {
			pv.EnabledServices = append(pv.EnabledServices, id)
		}
	}
	sort.Strings(pv.EnabledServices)

	pv.Summary = summarize(pv)
	return pv
}

func summarize(pv *Preview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d libraries, %d collections, %d overlays", pv.LibraryCount, pv.CollectionCount, pv.OverlayCount)
	if len(pv.OverlayTypes) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(pv.OverlayTypes, ", "))
	}
	if len(pv.EnabledServices) > 0 {
		fmt.Fprintf(&b, "; services: %s", strings.Join(pv.EnabledServices, ", "))
	}
	return b.String()
}
