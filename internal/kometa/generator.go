package kometa

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/kometawizard/kometawizard/internal/catalog"
	"github.com/kometawizard/kometawizard/internal/profile"
)

// Generator renders a profile into Kometa's YAML configuration format.
//
// Output is deterministic: the same profile state always yields byte-identical
// YAML. Iteration follows the static catalog order and the profile's own
// insertion order; passthrough maps are sorted. The generator never fails on
// an incomplete profile - it emits best-effort YAML and leaves validation to
// Kometa itself.
type Generator struct {
	logger zerolog.Logger
}

// NewGenerator creates a new YAML generator.
func NewGenerator(logger zerolog.Logger) *Generator {
	return &Generator{logger: logger.With().Str("component", "generator").Logger()}
}

// Generate renders the profile as a Kometa YAML document.
func (g *Generator) Generate(p *profile.Profile) (string, error) {
	root := mapping()

	libraries := mapping()
	for _, name := range p.SelectedLibraries {
		put(libraries, name, g.libraryNode(p, name))
	}
	if len(libraries.Content) > 0 {
		put(root, "libraries", libraries)
	}

	put(root, "plex", g.plexNode(&p.Plex))
	put(root, "tmdb", g.tmdbNode(&p.TMDb))
	put(root, "settings", g.settingsNode(&p.Settings))

	for _, svc := range catalog.Services() {
		if !p.EnabledServices[svc.ID] {
			continue
		}
		put(root, svc.ID, g.serviceNode(p, svc))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize config: %w", err)
	}
	return buf.String(), nil
}

// Save renders the profile and writes the YAML to path, creating parent
// directories as needed.
func (g *Generator) Save(p *profile.Profile, path string) error {
	text, err := g.Generate(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	g.logger.Info().Str("path", path).Str("profile", p.Name).Msg("wrote Kometa config")
	return nil
}

// libraryNode builds one library block: collection_files for enabled charts
// applicable to the library's inferred media type, entries for custom
// collections, and overlay_files for enabled overlays.
func (g *Generator) libraryNode(p *profile.Profile, name string) *yaml.Node {
	isShow := g.isShowLibrary(p, name)

	prefix := "movie_"
	mediaLabel := profile.MediaTypeMovies
	if isShow {
		prefix = "show_"
		mediaLabel = profile.MediaTypeTVShows
	}

	collFiles := sequence()
	for _, c := range catalog.Collections() {
		if isShow && !c.AppliesToShows() {
			continue
		}
		if !isShow && !c.AppliesToMovies() {
			continue
		}
		key := prefix + c.ID
		if !p.SelectedCharts[key] {
			continue
		}

		entry := mapping()
		put(entry, "default", str(c.ID))
		if adv := p.CollectionAdvancedSettings[key]; adv != nil && adv.Enabled {
			if vars := collectionVariables(adv); len(vars.Content) > 0 {
				put(entry, "template_variables", vars)
			}
		}
		collFiles.Content = append(collFiles.Content, entry)
	}

	for _, cc := range p.CustomCollections {
		if cc.SourceURL == "" {
			continue
		}
		entry := mapping()
		put(entry, "url", str(cc.SourceURL))
		collFiles.Content = append(collFiles.Content, entry)
	}

	overlayFiles := sequence()
	for _, o := range catalog.Overlays() {
		if isShow && !o.Shows {
			continue
		}
		if !isShow && !o.Movies {
			continue
		}
		key := profile.OverlayKey(o.ID, mediaLabel)
		cfg := p.OverlaySettings[key]
		if cfg == nil || !cfg.Enabled {
			continue
		}

		for _, level := range builderLevels(cfg, o, isShow) {
			entry := mapping()
			put(entry, "default", str(o.ID))
			if vars := overlayVariables(cfg, o, level); len(vars.Content) > 0 {
				put(entry, "template_variables", vars)
			}
			overlayFiles.Content = append(overlayFiles.Content, entry)
		}
	}

	lib := mapping()
	if len(collFiles.Content) > 0 {
		put(lib, "collection_files", collFiles)
	}
	if len(overlayFiles.Content) > 0 {
		put(lib, "overlay_files", overlayFiles)
	}
	return lib
}

// isShowLibrary infers the library's media type from the cached Plex library
// list, falling back to a name heuristic when the library was never
// discovered.
func (g *Generator) isShowLibrary(p *profile.Profile, name string) bool {
	for _, lib := range p.Plex.AvailableLibraries {
		if lib.Name == name {
			return lib.Type == "show"
		}
	}
	lower := strings.ToLower(name)
	return strings.Contains(lower, "tv") || strings.Contains(lower, "show") ||
		strings.Contains(lower, "series") || strings.Contains(lower, "anime")
}

// builderLevels returns the overlay_files entries to emit for one overlay:
// one per selected builder level on TV overlays that support them, otherwise
// a single entry with no level.
func builderLevels(cfg *profile.OverlayConfiguration, o catalog.Overlay, isShow bool) []string {
	if !isShow || !o.SupportsBuilderLevels {
		return []string{""}
	}
	if len(cfg.BuilderLevels) > 0 {
		return cfg.BuilderLevels
	}
	if cfg.BuilderLevel != "" {
		return []string{cfg.BuilderLevel}
	}
	return []string{""}
}

// overlayVariables builds the template_variables block for one overlay entry.
// Advanced variables are only embedded when the profile opted in, and values
// matching the catalog's built-in defaults are omitted to keep the output
// minimal. builder_level is a basic setting and is emitted regardless.
func overlayVariables(cfg *profile.OverlayConfiguration, o catalog.Overlay, level string) *yaml.Node {
	vars := mapping()

	// "show" is Kometa's implicit level, so only deeper levels are emitted.
	if level != "" && level != "show" {
		put(vars, "builder_level", str(level))
	}

	if !cfg.UseAdvancedVariables {
		return vars
	}

	if o.ID == "ratings" && cfg.RatingConfig != nil {
		putRatingVariables(vars, cfg.RatingConfig, o)
	}

	keys := make([]string, 0, len(cfg.TemplateVariables))
	for k := range cfg.TemplateVariables {
		if k == "builder_level" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := cfg.TemplateVariables[k]
		if def, ok := o.DefaultVariables[k]; ok && def == v {
			continue
		}
		put(vars, k, str(v))
	}
	return vars
}

// putRatingVariables reconstructs Kometa's rating-overlay structure from the
// three independent sub-rating toggles. Each enabled slot contributes its own
// rating{n} / rating{n}_image pair plus optional font overrides.
func putRatingVariables(vars *yaml.Node, rc *profile.RatingConfig, o catalog.Overlay) {
	slots := []struct {
		n    int
		kind string
		slot profile.RatingSlot
	}{
		{1, "user", rc.Rating1},
		{2, "critic", rc.Rating2},
		{3, "audience", rc.Rating3},
	}

	for _, s := range slots {
		if !s.slot.Enabled {
			continue
		}
		put(vars, fmt.Sprintf("rating%d", s.n), str(s.kind))
		if s.slot.Source != "" {
			put(vars, fmt.Sprintf("rating%d_image", s.n), str(s.slot.Source))
		}
		if s.slot.CustomFont != "" {
			put(vars, fmt.Sprintf("rating%d_font", s.n), str(s.slot.CustomFont))
		}
		if s.slot.FontSize > 0 {
			key := fmt.Sprintf("rating%d_font_size", s.n)
			if def := o.DefaultVariables[key]; def != strconv.Itoa(s.slot.FontSize) {
				put(vars, key, intNode(s.slot.FontSize))
			}
		}
	}

	if rc.HorizontalPosition != "" && rc.HorizontalPosition != o.DefaultVariables["horizontal_position"] {
		put(vars, "horizontal_position", str(rc.HorizontalPosition))
	}
}

// collectionVariables builds the template_variables block for a collection
// with advanced settings, one sub-section per independently enabled toggle.
func collectionVariables(adv *profile.CollectionAdvancedConfig) *yaml.Node {
	vars := mapping()

	if adv.UseDataRange {
		if adv.StartingYear != "" {
			put(vars, "starting", str(adv.StartingYear))
		}
		if adv.EndingYear != "" {
			put(vars, "ending", str(adv.EndingYear))
		}
	}
	if adv.UseSeparator && adv.SeparatorStyle != "" {
		put(vars, "sep_style", str(adv.SeparatorStyle))
	}
	if adv.UseVisibility {
		put(vars, "visible_library", boolNode(adv.VisibleLibrary))
		put(vars, "visible_home", boolNode(adv.VisibleHome))
		put(vars, "visible_shared", boolNode(adv.VisibleShared))
	}
	if adv.UseContentFilter {
		if adv.OriginalsOnly {
			put(vars, "originals_only", boolNode(true))
		}
		if adv.Depth > 0 {
			put(vars, "depth", intNode(adv.Depth))
		}
		if adv.Limit > 0 {
			put(vars, "limit", intNode(adv.Limit))
		}
	}
	return vars
}

func (g *Generator) plexNode(cfg *profile.PlexConfig) *yaml.Node {
	n := mapping()
	put(n, "url", str(cfg.URL))
	put(n, "token", str(cfg.Token))
	put(n, "timeout", intNode(cfg.Timeout))
	put(n, "db_cache", intNode(cfg.DBCache))
	put(n, "clean_bundles", boolNode(cfg.CleanBundles))
	put(n, "empty_trash", boolNode(cfg.EmptyTrash))
	put(n, "optimize", boolNode(cfg.Optimize))
	put(n, "verify_ssl", boolNode(cfg.VerifySSL))
	return n
}

func (g *Generator) tmdbNode(cfg *profile.TMDbConfig) *yaml.Node {
	n := mapping()
	put(n, "apikey", str(cfg.APIKey))
	put(n, "cache_expiration", intNode(cfg.CacheExpiration))
	put(n, "language", str(cfg.Language))
	if cfg.Region != "" {
		put(n, "region", str(cfg.Region))
	}
	return n
}

// settingsNode walks the settings registry, so the emitted keys, order and
// scalar types always match the schema the importer reads.
func (g *Generator) settingsNode(s *profile.WizardSettings) *yaml.Node {
	n := mapping()
	for _, spec := range profile.SettingSpecs() {
		put(n, spec.Key, scalar(spec.Get(s)))
	}
	return n
}

// serviceNode builds the YAML block for one enabled optional service from the
// flat OptionalServices map.
func (g *Generator) serviceNode(p *profile.Profile, svc catalog.Service) *yaml.Node {
	n := mapping()
	for _, f := range svc.Fields {
		v, ok := p.OptionalServices[svc.ProfileKey(f)]
		if !ok || v == "" {
			continue
		}
		// Numeric service fields keep Kometa's native scalar form.
		if f.YAMLKey == "cache_expiration" || f.YAMLKey == "version" {
			if iv, err := cast.ToIntE(v); err == nil {
				put(n, f.YAMLKey, intNode(iv))
				continue
			}
		}
		put(n, f.YAMLKey, str(v))
	}
	return n
}

// yaml.Node constructors. Building the document as explicit nodes keeps map
// ordering under our control, which the idempotence guarantee depends on.

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func scalar(v any) *yaml.Node {
	switch t := v.(type) {
	case bool:
		return boolNode(t)
	case int:
		return intNode(t)
	case string:
		return str(t)
	default:
		return str(fmt.Sprintf("%v", t))
	}
}

func put(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}
