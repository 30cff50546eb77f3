// Package catalog holds the static Kometa defaults catalog: the built-in
// collection templates, overlay definitions and optional-service schemas the
// wizard can configure. The mapping layer walks these tables in both
// directions, so they are the single source of schema knowledge.
package catalog

// Category groups default collections by where they apply.
type Category string

const (
	CategoryChart Category = "chart"
	CategoryAward Category = "award"
	CategoryMovie Category = "movie"
	CategoryShow  Category = "show"
	CategoryBoth  Category = "both"
)

// Collection is one entry of the Kometa defaults catalog.
type Collection struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// AppliesToMovies reports whether the collection can be used in a movie library.
func (c Collection) AppliesToMovies() bool {
	return c.Category != CategoryShow
}

// AppliesToShows reports whether the collection can be used in a show library.
func (c Collection) AppliesToShows() bool {
	return c.Category != CategoryMovie
}

// Collections returns the full defaults catalog in its fixed display order.
func Collections() []Collection {
	return defaultCollections
}

// FindCollection looks up a catalog entry by bare id.
func FindCollection(id string) (Collection, bool) {
	for _, c := range defaultCollections {
		if c.ID == id {
			return c, true
		}
	}
	return Collection{}, false
}

var defaultCollections = []Collection{
	// Charts
	{ID: "basic", Name: "Basic Charts", Category: CategoryChart},
	{ID: "imdb", Name: "IMDb Charts", Category: CategoryChart},
	{ID: "tmdb", Name: "TMDb Charts", Category: CategoryChart},
	{ID: "trakt", Name: "Trakt Charts", Category: CategoryChart},
	{ID: "tautulli", Name: "Tautulli Charts", Category: CategoryChart},
	{ID: "letterboxd", Name: "Letterboxd Lists", Category: CategoryChart},
	{ID: "anilist", Name: "AniList Charts", Category: CategoryChart},
	{ID: "myanimelist", Name: "MyAnimeList Charts", Category: CategoryChart},
	{ID: "other_chart", Name: "Other Charts", Category: CategoryChart},

	// Awards
	{ID: "bafta", Name: "BAFTA Awards", Category: CategoryAward},
	{ID: "berlinale", Name: "Berlinale Awards", Category: CategoryAward},
	{ID: "cannes", Name: "Cannes Awards", Category: CategoryAward},
	{ID: "cesar", Name: "Cesar Awards", Category: CategoryAward},
	{ID: "choice", Name: "Critics Choice Awards", Category: CategoryAward},
	{ID: "emmy", Name: "Emmy Awards", Category: CategoryAward},
	{ID: "golden", Name: "Golden Globes", Category: CategoryAward},
	{ID: "oscars", Name: "Academy Awards", Category: CategoryAward},
	{ID: "razzie", Name: "Razzie Awards", Category: CategoryAward},
	{ID: "sag", Name: "SAG Awards", Category: CategoryAward},
	{ID: "spirit", Name: "Independent Spirit Awards", Category: CategoryAward},
	{ID: "sundance", Name: "Sundance Awards", Category: CategoryAward},
	{ID: "venice", Name: "Venice Awards", Category: CategoryAward},

	// Movies only
	{ID: "continent", Name: "Continents", Category: CategoryMovie},
	{ID: "country", Name: "Countries", Category: CategoryMovie},
	{ID: "director", Name: "Directors", Category: CategoryMovie},
	{ID: "franchise", Name: "Franchises", Category: CategoryMovie},
	{ID: "producer", Name: "Producers", Category: CategoryMovie},
	{ID: "seasonal", Name: "Seasonal", Category: CategoryMovie},
	{ID: "universe", Name: "Universes", Category: CategoryMovie},
	{ID: "writer", Name: "Writers", Category: CategoryMovie},

	// Shows only
	{ID: "network", Name: "Networks", Category: CategoryShow},

	// Both
	{ID: "actor", Name: "Actors", Category: CategoryBoth},
	{ID: "audio_language", Name: "Audio Languages", Category: CategoryBoth},
	{ID: "based", Name: "Based On...", Category: CategoryBoth},
	{ID: "collectionless", Name: "Collectionless", Category: CategoryBoth},
	{ID: "content_rating_us", Name: "US Content Ratings", Category: CategoryBoth},
	{ID: "decade", Name: "Decades", Category: CategoryBoth},
	{ID: "genre", Name: "Genres", Category: CategoryBoth},
	{ID: "resolution", Name: "Resolutions", Category: CategoryBoth},
	{ID: "streaming", Name: "Streaming Services", Category: CategoryBoth},
	{ID: "studio", Name: "Studios", Category: CategoryBoth},
	{ID: "subtitle_language", Name: "Subtitle Languages", Category: CategoryBoth},
	{ID: "year", Name: "Years", Category: CategoryBoth},
}
