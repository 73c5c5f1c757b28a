package analytics

import "time"

const (
	// TopicURLCreated carries URLCreatedEvent.
	TopicURLCreated = "url.created"
	// TopicURLAccessed carries URLAccessedEvent.
	TopicURLAccessed = "url.accessed"
)

// URLCreatedEvent is emitted when a new short code is assigned.
// Deduplicated requests do not emit it.
type URLCreatedEvent struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"longUrl"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// URLAccessedEvent is emitted for every successful redirect.
type URLAccessedEvent struct {
	Code       string    `json:"code"`
	LongURL    string    `json:"longUrl"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}
