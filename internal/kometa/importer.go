package kometa

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/kometawizard/kometawizard/internal/catalog"
	"github.com/kometawizard/kometawizard/internal/profile"
)

// Importer reverse-maps an existing Kometa YAML file into a new profile.
//
// Parsing is tolerant by design: unknown keys are ignored, malformed scalars
// fall back to defaults, and missing sections produce warnings instead of
// failures. Each call is a pure function of its input; the importer keeps no
// state between calls.
type Importer struct {
	logger zerolog.Logger
}

// NewImporter creates a new YAML importer.
func NewImporter(logger zerolog.Logger) *Importer {
	return &Importer{logger: logger.With().Str("component", "importer").Logger()}
}

// Import parses raw YAML text into an ImportResult. The returned profile is
// always populated, even on partial success. The required-section checks run
// unconditionally so the caller gets the complete diagnostic picture in one
// pass.
func (im *Importer) Import(yamlText string) *ImportResult {
	result := &ImportResult{
		Profile: profile.New("Imported Config"),
	}

	var root map[string]any
	if err := yaml.Unmarshal([]byte(yamlText), &root); err != nil {
		result.Warnings = append(result.Warnings, Warning{
			Section:  "Document",
			Message:  "file is not a valid YAML mapping: " + err.Error(),
			Severity: SeverityError,
		})
	}
	if root == nil {
		root = map[string]any{}
	}

	im.importPlex(root, result)
	im.importTMDb(root, result)
	im.importLibraries(root, result)
	im.importSettings(root, result)
	im.importServices(root, result)

	result.Success = !result.HasErrors()
	if !result.Success {
		result.ErrorMessage = "configuration is missing required fields"
	}
	result.Preview = BuildPreview(result.Profile)
	return result
}

func (im *Importer) importPlex(root map[string]any, result *ImportResult) {
	plex, ok := getMap(root, "plex")
	if !ok {
		result.Warnings = append(result.Warnings, Warning{
			Section:  "Plex",
			Message:  "missing required plex section",
			Severity: SeverityError,
		})
		return
	}

	p := &result.Profile.Plex
	p.URL = getString(plex, "url", "")
	p.Token = getString(plex, "token", "")
	p.Timeout = getInt(plex, "timeout", 60)
	p.DBCache = getInt(plex, "db_cache", 40)
	p.CleanBundles = getBool(plex, "clean_bundles", false)
	p.EmptyTrash = getBool(plex, "empty_trash", false)
	p.Optimize = getBool(plex, "optimize", false)
	p.VerifySSL = getBool(plex, "verify_ssl", true)
	p.ManualURLMode = true

	if p.URL == "" {
		result.Warnings = append(result.Warnings, Warning{
			Section:  "Plex",
			Message:  "plex.url is required",
			Severity: SeverityError,
		})
	}
	if p.Token == "" {
		result.Warnings = append(result.Warnings, Warning{
			Section:  "Plex",
			Message:  "plex.token is required",
			Severity: SeverityError,
		})
	}
	p.IsAuthenticated = p.URL != "" && p.Token != ""
}

func (im *Importer) importTMDb(root map[string]any, result *ImportResult) {
	tmdb, ok := getMap(root, "tmdb")
	if !ok {
		result.Warnings = append(result.Warnings, Warning{
			Section:  "TMDb",
			Message:  "missing required tmdb section",
			Severity: SeverityError,
		})
		return
	}

	t := &result.Profile.TMDb
	t.APIKey = getString(tmdb, "apikey", "")
	t.CacheExpiration = getInt(tmdb, "cache_expiration", 60)
	t.Language = getString(tmdb, "language", "en")
	t.Region = getString(tmdb, "region", "")

	if t.APIKey == "" {
		result.Warnings = append(result.Warnings, Warning{
			Section:  "TMDb",
			Message:  "tmdb.apikey is required",
			Severity: SeverityError,
		})
	}
	t.IsAuthenticated = t.APIKey != ""
}

// importLibraries walks the libraries section. The YAML does not say whether
// a library holds movies or shows, so every recognized default collection id
// is registered under both the movie_ and show_ namespaces, and every overlay
// gets a configuration for both media types. This over-inclusion is a
// deliberate conservative reconstruction: re-generating immediately after an
// import will not byte-match the original file.
func (im *Importer) importLibraries(root map[string]any, result *ImportResult) {
	libraries, ok := getMap(root, "libraries")
	if !ok || len(libraries) == 0 {
		result.Warnings = append(result.Warnings, Warning{
			Section:  "Libraries",
			Message:  "no libraries section found; library selections must be configured manually",
			Severity: SeverityWarning,
		})
		return
	}

	p := result.Profile
	for name, raw := range libraries {
		p.SelectedLibraries = append(p.SelectedLibraries, name)
		p.Plex.AvailableLibraries = append(p.Plex.AvailableLibraries, profile.LibraryInfo{
			Name:     name,
			Selected: true,
		})

		lib, _ := raw.(map[string]any)
		if lib == nil {
			continue
		}

		for _, entry := range getSlice(lib, "collection_files") {
			im.importCollectionEntry(entry, result)
		}
		for _, entry := range getSlice(lib, "overlay_files") {
			im.importOverlayEntry(entry, result)
		}
	}
}

func (im *Importer) importCollectionEntry(entry any, result *ImportResult) {
	m, ok := entry.(map[string]any)
	if !ok {
		return
	}
	p := result.Profile

	if id := getString(m, "default", ""); id != "" {
		if _, known := catalog.FindCollection(id); !known {
			im.logger.Debug().Str("id", id).Msg("ignoring unrecognized default collection")
			return
		}
		p.SelectedCharts["movie_"+id] = true
		p.SelectedCharts["show_"+id] = true

		if vars, ok := getMap(m, "template_variables"); ok {
			adv := collectionAdvancedFromVariables(vars)
			p.CollectionAdvancedSettings["movie_"+id] = adv
			p.CollectionAdvancedSettings["show_"+id] = cloneAdvanced(adv)
		}
		return
	}

	source := getString(m, "url", "")
	if source == "" {
		source = getString(m, "file", "")
	}
	if source == "" {
		return
	}
	name := strings.TrimSuffix(path.Base(source), path.Ext(source))
	p.CustomCollections = append(p.CustomCollections, profile.CustomCollection{
		ID:          uuid.NewString(),
		Name:        name,
		SourceURL:   source,
		CreatedDate: time.Now().UTC(),
	})
}

func (im *Importer) importOverlayEntry(entry any, result *ImportResult) {
	m, ok := entry.(map[string]any)
	if !ok {
		return
	}
	id := getString(m, "default", "")
	if id == "" {
		return
	}

	cfg := &profile.OverlayConfiguration{
		Enabled:     true,
		OverlayType: id,
	}

	if vars, ok := getMap(m, "template_variables"); ok {
		// builder_level (singular, from the source file) seeds BuilderLevel;
		// everything else is preserved verbatim in the passthrough map.
		cfg.BuilderLevel = getString(vars, "builder_level", "")

		if id == "ratings" {
			cfg.RatingConfig = ratingConfigFromVariables(vars)
		}

		passthrough := map[string]string{}
		for k, v := range vars {
			if k == "builder_level" {
				continue
			}
			if id == "ratings" && isRatingVariable(k) {
				continue
			}
			if s, err := cast.ToStringE(v); err == nil {
				passthrough[k] = s
			}
		}
		if len(passthrough) > 0 {
			cfg.TemplateVariables = passthrough
		}
		cfg.UseAdvancedVariables = len(passthrough) > 0 || cfg.RatingConfig != nil
	}

	p := result.Profile
	p.OverlaySettings[profile.OverlayKey(id, profile.MediaTypeMovies)] = cfg
	p.OverlaySettings[profile.OverlayKey(id, profile.MediaTypeTVShows)] = cloneOverlay(cfg)
}

func (im *Importer) importSettings(root map[string]any, result *ImportResult) {
	settings, ok := getMap(root, "settings")
	if !ok {
		result.Warnings = append(result.Warnings, Warning{
			Section:  "Settings",
			Message:  "no settings section found; using Kometa defaults",
			Severity: SeverityInfo,
		})
		return
	}

	s := &result.Profile.Settings
	for _, spec := range profile.SettingSpecs() {
		if v, present := settings[spec.Key]; present {
			spec.Set(s, v)
		}
	}
}

// importServices detects each optional-service block independently by the
// presence of its top-level key. Presence alone enables the service; known
// sub-fields are copied into the flat OptionalServices map.
func (im *Importer) importServices(root map[string]any, result *ImportResult) {
	p := result.Profile
	for _, svc := range catalog.Services() {
		block, ok := getMap(root, svc.ID)
		if !ok {
			if _, present := root[svc.ID]; !present {
				continue
			}
			// Key present but not a mapping: still counts as enabled.
			p.EnabledServices[svc.ID] = true
			continue
		}
		p.EnabledServices[svc.ID] = true
		for _, f := range svc.Fields {
			if v := getString(block, f.YAMLKey, ""); v != "" {
				p.OptionalServices[svc.ProfileKey(f)] = v
			}
		}
	}
}

// ratingConfigFromVariables inverts the generator's rating emission: the
// rating{n} value names the slot kind, and the image/font variables fill the
// matching sub-rating.
func ratingConfigFromVariables(vars map[string]any) *profile.RatingConfig {
	rc := &profile.RatingConfig{
		HorizontalPosition: getString(vars, "horizontal_position", "left"),
	}

	slots := map[string]*profile.RatingSlot{
		"user":     &rc.Rating1,
		"critic":   &rc.Rating2,
		"audience": &rc.Rating3,
	}

	found := false
	for _, n := range []string{"rating1", "rating2", "rating3"} {
		kind := getString(vars, n, "")
		slot, ok := slots[kind]
		if !ok {
			continue
		}
		found = true
		slot.Enabled = true
		slot.Source = getString(vars, n+"_image", "")
		slot.CustomFont = getString(vars, n+"_font", "")
		slot.FontSize = getInt(vars, n+"_font_size", 63)
	}

	if !found {
		return nil
	}
	return rc
}

func isRatingVariable(key string) bool {
	if key == "horizontal_position" {
		return true
	}
	for _, n := range []string{"rating1", "rating2", "rating3"} {
		if key == n || strings.HasPrefix(key, n+"_") {
			return true
		}
	}
	return false
}

func collectionAdvancedFromVariables(vars map[string]any) *profile.CollectionAdvancedConfig {
	adv := &profile.CollectionAdvancedConfig{Enabled: true}

	adv.StartingYear = getString(vars, "starting", "")
	adv.EndingYear = getString(vars, "ending", "")
	adv.UseDataRange = adv.StartingYear != "" || adv.EndingYear != ""

	adv.SeparatorStyle = getString(vars, "sep_style", "")
	adv.UseSeparator = adv.SeparatorStyle != ""

	if _, ok := vars["visible_library"]; ok {
		adv.UseVisibility = true
		adv.VisibleLibrary = getBool(vars, "visible_library", false)
		adv.VisibleHome = getBool(vars, "visible_home", false)
		adv.VisibleShared = getBool(vars, "visible_shared", false)
	}

	adv.OriginalsOnly = getBool(vars, "originals_only", false)
	adv.Depth = getInt(vars, "depth", 0)
	adv.Limit = getInt(vars, "limit", 0)
	adv.UseContentFilter = adv.OriginalsOnly || adv.Depth > 0 || adv.Limit > 0

	return adv
}

func cloneAdvanced(adv *profile.CollectionAdvancedConfig) *profile.CollectionAdvancedConfig {
	c := *adv
	return &c
}

func cloneOverlay(cfg *profile.OverlayConfiguration) *profile.OverlayConfiguration {
	c := *cfg
	if cfg.TemplateVariables != nil {
		c.TemplateVariables = make(map[string]string, len(cfg.TemplateVariables))
		for k, v := range cfg.TemplateVariables {
			c.TemplateVariables[k] = v
		}
	}
	if cfg.RatingConfig != nil {
		rc := *cfg.RatingConfig
		c.RatingConfig = &rc
	}
	return &c
}
