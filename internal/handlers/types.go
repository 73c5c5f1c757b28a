package handlers

import "time"

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// CreateShortURLResponse is the response for a created or reused short URL.
type CreateShortURLResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code     string `doc:"The short code"                example:"abc123"                             json:"code"`
		ShortURL string `doc:"The full short URL"            example:"http://localhost:8888/abc123"       json:"shortUrl"`
		LongURL  string `doc:"The normalized destination URL" example:"https://example.com/very/long/path" json:"longUrl"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse sends the client to the destination URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// URLStatsRequest asks for a single mapping by code.
type URLStatsRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// URLStats is the public view of a mapping.
type URLStats struct {
	Code       string    `doc:"The short code"                  example:"abc123"              json:"code"`
	ShortURL   string    `doc:"The full short URL"              json:"shortUrl"`
	LongURL    string    `doc:"The destination URL"             json:"longUrl"`
	CreatedAt  time.Time `doc:"When the mapping was created"    json:"createdAt"`
	ClickCount int64     `doc:"Number of successful redirects" json:"clickCount"`
}

// URLStatsResponse returns a single mapping.
type URLStatsResponse struct {
	Body URLStats
}

// TopURLsRequest asks for the most clicked mappings.
type TopURLsRequest struct {
	Limit int `default:"50" doc:"Maximum number of entries" maximum:"500" minimum:"1" query:"limit"`
}

// TopURLsResponse lists mappings by click count, most clicked first.
type TopURLsResponse struct {
	Body struct {
		URLs []URLStats `json:"urls"`
	}
}
