package catalog

// ServiceField maps one field of an optional-service YAML block to the suffix
// it carries in the profile's flat OptionalServices map. The profile key is
// always "{service id}_{suffix}"; the YAML key can differ (Radarr's "token"
// is stored as "radarr_key").
type ServiceField struct {
	YAMLKey string `json:"yamlKey"`
	Suffix  string `json:"suffix"`
}

// Service describes one optional service block Kometa understands.
type Service struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Fields []ServiceField `json:"fields"`
}

// ProfileKey returns the OptionalServices map key for a field of this service.
func (s Service) ProfileKey(f ServiceField) string {
	return s.ID + "_" + f.Suffix
}

// Services returns the optional-service schema in Kometa's documented block
// order. The importer detects each block independently by its top-level key.
func Services() []Service {
	return optionalServices
}

// FindService looks up a service schema by id.
func FindService(id string) (Service, bool) {
	for _, s := range optionalServices {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

func field(key string) ServiceField { return ServiceField{YAMLKey: key, Suffix: key} }

var optionalServices = []Service{
	{
		ID: "tautulli", Name: "Tautulli",
		Fields: []ServiceField{field("url"), field("apikey")},
	},
	{
		ID: "radarr", Name: "Radarr",
		Fields: []ServiceField{
			field("url"),
			{YAMLKey: "token", Suffix: "key"},
			field("root_folder_path"),
			field("quality_profile"),
			field("monitor"),
			field("availability"),
		},
	},
	{
		ID: "sonarr", Name: "Sonarr",
		Fields: []ServiceField{
			field("url"),
			{YAMLKey: "token", Suffix: "key"},
			field("root_folder_path"),
			field("quality_profile"),
			field("language_profile"),
			field("series_type"),
			field("monitor"),
		},
	},
	{
		ID: "github", Name: "GitHub",
		Fields: []ServiceField{field("token")},
	},
	{
		ID: "omdb", Name: "OMDb",
		Fields: []ServiceField{field("apikey"), field("cache_expiration")},
	},
	{
		ID: "mdblist", Name: "MDBList",
		Fields: []ServiceField{field("apikey"), field("cache_expiration")},
	},
	{
		ID: "notifiarr", Name: "Notifiarr",
		Fields: []ServiceField{field("apikey")},
	},
	{
		ID: "gotify", Name: "Gotify",
		Fields: []ServiceField{field("url"), field("token")},
	},
	{
		ID: "ntfy", Name: "ntfy",
		Fields: []ServiceField{field("url"), field("token"), field("topic")},
	},
	{
		ID: "anidb", Name: "AniDB",
		Fields: []ServiceField{
			field("client"),
			field("version"),
			field("language"),
			field("username"),
			field("password"),
		},
	},
	{
		ID: "trakt", Name: "Trakt",
		Fields: []ServiceField{field("client_id"), field("client_secret"), field("pin")},
	},
	{
		ID: "mal", Name: "MyAnimeList",
		Fields: []ServiceField{field("client_id"), field("client_secret")},
	},
}
