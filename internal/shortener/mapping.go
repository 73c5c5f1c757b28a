package shortener

import "time"

// MaxURLLength is the longest destination URL a mapping can hold.
const MaxURLLength = 2048

// Code represents a short URL code.
type Code string

// URLMapping is a persisted long URL to short code association.
type URLMapping struct {
	ID         int64
	LongURL    string
	ShortCode  Code
	CreatedAt  time.Time
	ClickCount int64
}
