package container

import "fmt"

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
)

// Event buses.
const (
	EventsNone  = "none"
	EventsRedis = "redis"
)

// Options configures the server and CLI commands. Fields are bound to flags
// and SERVICE_* environment variables by humacli.
type Options struct {
	Port        int    `default:"8888" help:"Port to listen on" short:"p"`
	BaseURL     string `help:"Public base URL for short links (default http://localhost:<port>)"`
	CodeLength  int    `default:"6" help:"Length of generated short codes (5-16)" short:"c"`
	Store       string `default:"memory" help:"Storage backend: memory, postgres, sqlite or redis" short:"s"`
	DatabaseURL string `default:"postgres://localhost:5432/shortener?sslmode=disable" help:"PostgreSQL connection string"`
	SQLitePath  string `default:"shortener.db" help:"SQLite database file"`
	RedisAddr   string `default:"localhost:6379" help:"Redis server address" short:"r"`
	Events      string `default:"none" help:"Analytics event bus: none or redis"`
	LogFormat   string `default:"console" help:"Log format: console or json"`
	Migrate     bool   `default:"true" help:"Apply PostgreSQL migrations on startup"`
}

// PublicBaseURL returns BaseURL, falling back to the local listen address.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}
