// Package tmdb provides a client for The Movie Database API.
package tmdb

import (
	"encoding/json"
	"strconv"
)

// MediaType is a TMDB media type path segment.
type MediaType string

const (
	Movie MediaType = "movie"
	TV    MediaType = "tv"
)

// Details is the get-by-id response with credits, videos and similar titles
// appended. Movies fill Title and ReleaseDate, shows fill Name and FirstAirDate.
type Details struct {
	ID              int64    `json:"id"`
	IMDBID          string   `json:"imdb_id,omitempty"`
	Title           string   `json:"title,omitempty"`
	Name            string   `json:"name,omitempty"`
	Overview        string   `json:"overview"`
	Tagline         string   `json:"tagline,omitempty"`
	ReleaseDate     string   `json:"release_date,omitempty"`
	FirstAirDate    string   `json:"first_air_date,omitempty"`
	PosterPath      string   `json:"poster_path"`
	BackdropPath    string   `json:"backdrop_path"`
	VoteAverage     float64  `json:"vote_average"`
	VoteCount       int      `json:"vote_count"`
	Runtime         int      `json:"runtime,omitempty"`
	NumberOfSeasons int      `json:"number_of_seasons,omitempty"`
	Genres          []Genre  `json:"genres"`
	Credits         *Credits `json:"credits,omitempty"`
	Videos          *Videos  `json:"videos,omitempty"`
	Similar         *Page    `json:"similar,omitempty"`

	// Raw is the unmodified response body.
	Raw json.RawMessage `json:"-"`
}

// DisplayTitle returns Title for movies and Name for shows.
func (d *Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Year extracts the year from the release or first air date.
func (d *Details) Year() int {
	date := d.ReleaseDate
	if date == "" {
		date = d.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// HasGenre reports whether the title is tagged with genre id.
func (d *Details) HasGenre(id int) bool {
	for _, g := range d.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

// Genre represents a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type Videos struct {
	Results []Video `json:"results"`
}

// Video is a trailer or clip hosted on a third-party site.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"` // "YouTube"
	Type string `json:"type"` // "Trailer", "Teaser"
}

// Page is a paginated list of titles, as returned by search and similar.
type Page struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Result is one entry of a Page.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

// DisplayTitle returns Title for movies and Name for shows.
func (r Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Season is a TV season with its episodes.
type Season struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	SeasonNumber int       `json:"season_number"`
	AirDate      string    `json:"air_date"`
	PosterPath   string    `json:"poster_path"`
	Episodes     []Episode `json:"episodes"`
}

type Episode struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	SeasonNumber  int     `json:"season_number"`
	EpisodeNumber int     `json:"episode_number"`
	AirDate       string  `json:"air_date"`
	StillPath     string  `json:"still_path"`
	Runtime       int     `json:"runtime"`
	VoteAverage   float64 `json:"vote_average"`
}
