package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/garden/internal/manifest"
	"github.com/starford/garden/internal/markdown"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Garden GardenConfig      `yaml:"garden"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
	Events EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Garden.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// GardenConfig locates the content collections.
//
// Posts, Trains and Labs are directories relative to Root unless absolute.
// Trains and Labs may be empty to disable those collections. ManifestFile is
// relative to the posts directory.
type GardenConfig struct {
	Root         string   `yaml:"root"`
	Posts        string   `yaml:"posts"`
	Trains       string   `yaml:"trains"`
	Labs         string   `yaml:"labs"`
	ManifestFile string   `yaml:"manifest_file"`
	AssetRoot    string   `yaml:"asset_root"`
	HiddenTags   []string `yaml:"hidden_tags"`
}

// Validate validates the garden configuration.
func (c *GardenConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Posts, validation.Required),
		validation.Field(&c.ManifestFile, validation.Required),
		validation.Field(&c.AssetRoot, validation.Required, validation.By(leadingSlash)),
	)
}

// PostsDir returns the resolved posts directory.
func (c *GardenConfig) PostsDir() string { return c.resolve(c.Posts) }

// TrainsDir returns the resolved thought-train directory, or "" when disabled.
func (c *GardenConfig) TrainsDir() string { return c.resolve(c.Trains) }

// LabsDir returns the resolved lab directory, or "" when disabled.
func (c *GardenConfig) LabsDir() string { return c.resolve(c.Labs) }

func (c *GardenConfig) resolve(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Root, dir)
}

func leadingSlash(value any) error {
	s, _ := value.(string)
	if s != "" && s[0] != '/' {
		return errors.New("must start with /")
	}
	return nil
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// EventsConfig tunes the live-update stream.
type EventsConfig struct {
	// TagsThrottle is the minimum interval between tags.updated events.
	TagsThrottle time.Duration `yaml:"tags_throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TagsThrottle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Garden: GardenConfig{
			Root:         "./content",
			Posts:        "posts",
			Trains:       "trains",
			Labs:         "labs",
			ManifestFile: manifest.DefaultFile,
			AssetRoot:    markdown.DefaultAssetRoot,
		},
		SQLite: SQLiteConfig{
			Path: "./garden.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Events: EventsConfig{
			TagsThrottle: 2 * time.Second,
		},
	}
}
