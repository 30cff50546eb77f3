package profile

import "github.com/spf13/cast"

// WizardSettings is the flat bag of tunable Kometa settings the wizard
// exposes. Field defaults mirror Kometa's documented defaults.
type WizardSettings struct {
	Cache                    bool   `json:"cache"`
	CacheExpiration          int    `json:"cacheExpiration"`
	AssetDirectory           string `json:"assetDirectory"`
	AssetFolders             bool   `json:"assetFolders"`
	AssetDepth               int    `json:"assetDepth"`
	CreateAssetFolders       bool   `json:"createAssetFolders"`
	PrioritizeAssets         bool   `json:"prioritizeAssets"`
	DimensionalAssetRename   bool   `json:"dimensionalAssetRename"`
	DownloadURLAssets        bool   `json:"downloadUrlAssets"`
	ShowMissingSeasonAssets  bool   `json:"showMissingSeasonAssets"`
	ShowMissingEpisodeAssets bool   `json:"showMissingEpisodeAssets"`
	ShowAssetNotNeeded       bool   `json:"showAssetNotNeeded"`
	SyncMode                 string `json:"syncMode"`
	MinimumItems             int    `json:"minimumItems"`
	DefaultCollectionOrder   string `json:"defaultCollectionOrder"`
	DeleteBelowMinimum       bool   `json:"deleteBelowMinimum"`
	DeleteNotScheduled       bool   `json:"deleteNotScheduled"`
	RunAgainDelay            int    `json:"runAgainDelay"`
	MissingOnlyReleased      bool   `json:"missingOnlyReleased"`
	OnlyFilterMissing        bool   `json:"onlyFilterMissing"`
	ShowUnmanaged            bool   `json:"showUnmanaged"`
	ShowUnconfigured         bool   `json:"showUnconfigured"`
	ShowFiltered             bool   `json:"showFiltered"`
	ShowOptions              bool   `json:"showOptions"`
	ShowMissing              bool   `json:"showMissing"`
	ShowMissingAssets        bool   `json:"showMissingAssets"`
	SaveReport               bool   `json:"saveReport"`
	TVDbLanguage             string `json:"tvdbLanguage"`
	IgnoreIDs                string `json:"ignoreIds"`
	IgnoreIMDbIDs            string `json:"ignoreImdbIds"`
	ItemRefreshDelay         int    `json:"itemRefreshDelay"`
	PlaylistSyncToUsers      string `json:"playlistSyncToUsers"`
	PlaylistExcludeUsers     string `json:"playlistExcludeUsers"`
	PlaylistReport           bool   `json:"playlistReport"`
	VerifySSL                bool   `json:"verifySSL"`
	CustomRepo               string `json:"customRepo"`
	OverlayArtworkFiletype   string `json:"overlayArtworkFiletype"`
	OverlayArtworkQuality    int    `json:"overlayArtworkQuality"`
}

// DefaultSettings returns Kometa's documented defaults.
func DefaultSettings() WizardSettings {
	return WizardSettings{
		Cache:                  true,
		CacheExpiration:        60,
		AssetDirectory:         "config/assets",
		AssetFolders:           true,
		ShowAssetNotNeeded:     true,
		SyncMode:               "append",
		MinimumItems:           1,
		DeleteBelowMinimum:     true,
		RunAgainDelay:          2,
		ShowUnmanaged:          true,
		ShowUnconfigured:       true,
		ShowMissing:            true,
		ShowMissingAssets:      true,
		TVDbLanguage:           "eng",
		PlaylistSyncToUsers:    "all",
		VerifySSL:              true,
		OverlayArtworkFiletype: "jpg",
		OverlayArtworkQuality:  75,
	}
}

// SettingSpec binds one Kometa settings key to its typed accessors and
// documented default. The registry replaces reflection-based binding: the
// generator and importer both walk it, so the settings schema lives in
// exactly one place.
type SettingSpec struct {
	Key     string
	Default any
	Get     func(s *WizardSettings) any
	Set     func(s *WizardSettings, v any)
}

// SettingSpecs returns the settings registry in Kometa's documented key
// order. Setters coerce tolerantly and keep the current value when coercion
// fails.
func SettingSpecs() []SettingSpec {
	return []SettingSpec{
		boolSpec("cache", true, func(s *WizardSettings) *bool { return &s.Cache }),
		intSpec("cache_expiration", 60, func(s *WizardSettings) *int { return &s.CacheExpiration }),
		stringSpec("asset_directory", "config/assets", func(s *WizardSettings) *string { return &s.AssetDirectory }),
		boolSpec("asset_folders", true, func(s *WizardSettings) *bool { return &s.AssetFolders }),
		intSpec("asset_depth", 0, func(s *WizardSettings) *int { return &s.AssetDepth }),
		boolSpec("create_asset_folders", false, func(s *WizardSettings) *bool { return &s.CreateAssetFolders }),
		boolSpec("prioritize_assets", false, func(s *WizardSettings) *bool { return &s.PrioritizeAssets }),
		boolSpec("dimensional_asset_rename", false, func(s *WizardSettings) *bool { return &s.DimensionalAssetRename }),
		boolSpec("download_url_assets", false, func(s *WizardSettings) *bool { return &s.DownloadURLAssets }),
		boolSpec("show_missing_season_assets", false, func(s *WizardSettings) *bool { return &s.ShowMissingSeasonAssets }),
		boolSpec("show_missing_episode_assets", false, func(s *WizardSettings) *bool { return &s.ShowMissingEpisodeAssets }),
		boolSpec("show_asset_not_needed", true, func(s *WizardSettings) *bool { return &s.ShowAssetNotNeeded }),
		stringSpec("sync_mode", "append", func(s *WizardSettings) *string { return &s.SyncMode }),
		intSpec("minimum_items", 1, func(s *WizardSettings) *int { return &s.MinimumItems }),
		stringSpec("default_collection_order", "", func(s *WizardSettings) *string { return &s.DefaultCollectionOrder }),
		boolSpec("delete_below_minimum", true, func(s *WizardSettings) *bool { return &s.DeleteBelowMinimum }),
		boolSpec("delete_not_scheduled", false, func(s *WizardSettings) *bool { return &s.DeleteNotScheduled }),
		intSpec("run_again_delay", 2, func(s *WizardSettings) *int { return &s.RunAgainDelay }),
		boolSpec("missing_only_released", false, func(s *WizardSettings) *bool { return &s.MissingOnlyReleased }),
		boolSpec("only_filter_missing", false, func(s *WizardSettings) *bool { return &s.OnlyFilterMissing }),
		boolSpec("show_unmanaged", true, func(s *WizardSettings) *bool { return &s.ShowUnmanaged }),
		boolSpec("show_unconfigured", true, func(s *WizardSettings) *bool { return &s.ShowUnconfigured }),
		boolSpec("show_filtered", false, func(s *WizardSettings) *bool { return &s.ShowFiltered }),
		boolSpec("show_options", false, func(s *WizardSettings) *bool { return &s.ShowOptions }),
		boolSpec("show_missing", true, func(s *WizardSettings) *bool { return &s.ShowMissing }),
		boolSpec("show_missing_assets", true, func(s *WizardSettings) *bool { return &s.ShowMissingAssets }),
		boolSpec("save_report", false, func(s *WizardSettings) *bool { return &s.SaveReport }),
		stringSpec("tvdb_language", "eng", func(s *WizardSettings) *string { return &s.TVDbLanguage }),
		stringSpec("ignore_ids", "", func(s *WizardSettings) *string { return &s.IgnoreIDs }),
		stringSpec("ignore_imdb_ids", "", func(s *WizardSettings) *string { return &s.IgnoreIMDbIDs }),
		intSpec("item_refresh_delay", 0, func(s *WizardSettings) *int { return &s.ItemRefreshDelay }),
		stringSpec("playlist_sync_to_users", "all", func(s *WizardSettings) *string { return &s.PlaylistSyncToUsers }),
		stringSpec("playlist_exclude_users", "", func(s *WizardSettings) *string { return &s.PlaylistExcludeUsers }),
		boolSpec("playlist_report", false, func(s *WizardSettings) *bool { return &s.PlaylistReport }),
		boolSpec("verify_ssl", true, func(s *WizardSettings) *bool { return &s.VerifySSL }),
		stringSpec("custom_repo", "", func(s *WizardSettings) *string { return &s.CustomRepo }),
		stringSpec("overlay_artwork_filetype", "jpg", func(s *WizardSettings) *string { return &s.OverlayArtworkFiletype }),
		intSpec("overlay_artwork_quality", 75, func(s *WizardSettings) *int { return &s.OverlayArtworkQuality }),
	}
}

func boolSpec(key string, def bool, field func(*WizardSettings) *bool) SettingSpec {
	return SettingSpec{
		Key:     key,
		Default: def,
		Get:     func(s *WizardSettings) any { return *field(s) },
		Set: func(s *WizardSettings, v any) {
			if b, err := cast.ToBoolE(v); err == nil {
				*field(s) = b
			}
		},
	}
}

func intSpec(key string, def int, field func(*WizardSettings) *int) SettingSpec {
	return SettingSpec{
		Key:     key,
		Default: def,
		Get:     func(s *WizardSettings) any { return *field(s) },
		Set: func(s *WizardSettings, v any) {
			if n, err := cast.ToIntE(v); err == nil {
				*field(s) = n
			}
		},
	}
}

func stringSpec(key, def string, field func(*WizardSettings) *string) SettingSpec {
	return SettingSpec{
		Key:     key,
		Default: def,
		Get:     func(s *WizardSettings) any { return *field(s) },
		Set: func(s *WizardSettings, v any) {
			if str, err := cast.ToStringE(v); err == nil {
				*field(s) = str
			}
		},
	}
}
