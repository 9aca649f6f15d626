package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/garden/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Garden.AssetRoot != "/posts/" {
		t.Errorf("asset root = %q", cfg.Garden.AssetRoot)
	}
}

func TestGardenConfig_ResolvesDirs(t *testing.T) {
	cfg := GardenConfig{Root: "/srv/garden", Posts: "posts", Trains: "/abs/trains", Labs: ""}
	if got := cfg.PostsDir(); got != filepath.Join("/srv/garden", "posts") {
		t.Errorf("posts dir = %q", got)
	}
	if got := cfg.TrainsDir(); got != "/abs/trains" {
		t.Errorf("trains dir = %q", got)
	}
	if got := cfg.LabsDir(); got != "" {
		t.Errorf("labs dir = %q, want disabled", got)
	}
}

func TestGardenConfig_Invalid(t *testing.T) {
	cases := map[string]func(*GardenConfig){
		"no root":          func(c *GardenConfig) { c.Root = "" },
		"no posts":         func(c *GardenConfig) { c.Posts = "" },
		"no manifest":      func(c *GardenConfig) { c.ManifestFile = "" },
		"relative assets":  func(c *GardenConfig) { c.AssetRoot = "posts/" },
		"empty asset root": func(c *GardenConfig) { c.AssetRoot = "" },
	}
	for name, mutate := range cases {
		cfg := NewDefaultConfig()
		mutate(&cfg.Garden)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestEventsConfig_NegativeThrottle(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Events.TagsThrottle = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative throttle should fail validation")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	t.Setenv("GARDEN_TEST_TOKEN", "s3cret")
	content := `app:
  log_level: debug
  http:
    port: 9090
garden:
  root: ` + dir + `
  posts: notes
  trains: ""
  hidden_tags: [private, drafts]
auth:
  mode: token
  token: ${GARDEN_TEST_TOKEN}
events:
  tags_throttle: 500ms
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(file, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug || cfg.App.HTTP.Port != 9090 {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Garden.PostsDir() != filepath.Join(dir, "notes") || cfg.Garden.TrainsDir() != "" {
		t.Errorf("garden = %+v", cfg.Garden)
	}
	if cfg.Garden.Labs != "labs" || cfg.Garden.ManifestFile != "manifest.json" {
		t.Errorf("defaults lost: %+v", cfg.Garden)
	}
	if len(cfg.Garden.HiddenTags) != 2 {
		t.Errorf("hidden tags = %v", cfg.Garden.HiddenTags)
	}
	if cfg.Auth.Token != "s3cret" || !cfg.Auth.AuthEnabled() {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Events.TagsThrottle != 500*time.Millisecond {
		t.Errorf("throttle = %v", cfg.Events.TagsThrottle)
	}
}
