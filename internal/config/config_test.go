package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "grimoire-test"

log:
  level: "debug"
  format: "text"

wiki:
  base_url: "https://wiki.example.com/"
  search_limit: 3
  kits_page: "Character Kits"
  race_pages: "Dwarf, Elf ,,Gnome"

cache:
  redis_addr: "localhost:6379"
  ttl: "1h"

extraction:
  model: "test-model"
  max_tokens: 1024

validator:
  min_structural_markers: 2
  structural_markers: "range,duration,components"
  edition_markers: "2nd edition"

hydrate:
  spell_reference_path: "/data/spells"
  default_limit: 2
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Auth
	if cfg.Auth.JWTIssuer != "grimoire-test" || !cfg.Auth.HasJWT() || cfg.Auth.HasBasic() {
		t.Errorf("auth = %+v", cfg.Auth)
	}

	// Log
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}

	// Wiki
	if cfg.Wiki.BaseURL != "https://wiki.example.com" {
		t.Errorf("wiki.base_url = %q, want trailing slash trimmed", cfg.Wiki.BaseURL)
	}
	if cfg.Wiki.APIPath != "/api.php" {
		t.Errorf("wiki.api_path = %q, want default", cfg.Wiki.APIPath)
	}
	if cfg.Wiki.SearchLimit != 3 || cfg.Wiki.KitsPage != "Character Kits" {
		t.Errorf("wiki = %+v", cfg.Wiki)
	}
	if cfg.Wiki.EquipmentPage != "Equipment" {
		t.Errorf("wiki.equipment_page = %q, want default", cfg.Wiki.EquipmentPage)
	}
	if want := []string{"Dwarf", "Elf", "Gnome"}; !slices.Equal(cfg.Wiki.RacePages, want) {
		t.Errorf("wiki.race_pages = %v, want %v", cfg.Wiki.RacePages, want)
	}

	// Cache
	if !cfg.Cache.Enabled() || cfg.Cache.TTL != time.Hour || cfg.Cache.KeyPrefix != "wiki:" {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	// Extraction
	if cfg.Extraction.Model != "test-model" || cfg.Extraction.MaxTokens != 1024 {
		t.Errorf("extraction = %+v", cfg.Extraction)
	}

	// Validator
	if cfg.Validator.MinStructuralMarkers != 2 || len(cfg.Validator.StructuralMarkers) != 3 {
		t.Errorf("validator = %+v", cfg.Validator)
	}
	if !slices.Equal(cfg.Validator.EditionMarkers, []string{"2nd edition"}) {
		t.Errorf("validator.edition_markers = %v", cfg.Validator.EditionMarkers)
	}

	// Hydrate
	if cfg.Hydrate.SpellReferencePath != "/data/spells" || cfg.Hydrate.DefaultLimit != 2 {
		t.Errorf("hydrate = %+v", cfg.Hydrate)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("WIKI_BASE_URL", "https://other.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
	if cfg.Wiki.BaseURL != "https://other.example.com" {
		t.Errorf("wiki.base_url = %q (ENV override)", cfg.Wiki.BaseURL)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	t.Setenv("CONFIG_PATH", "")
	// Set working dir to a temp dir with no config.yaml
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Cache.Enabled() {
		t.Error("cache should be disabled without an address")
	}
	if cfg.Validator.MinStructuralMarkers != 3 || len(cfg.Validator.StructuralMarkers) != 5 {
		t.Errorf("validator defaults = %+v", cfg.Validator)
	}
	if len(cfg.Wiki.RacePages) != 6 {
		t.Errorf("wiki.race_pages defaults = %v", cfg.Wiki.RacePages)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no admin auth is allowed", mutate: func(c *Config) { c.Auth = AuthConfig{} }},
		{name: "short jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: true},
		{name: "basic auth", mutate: func(c *Config) {
			c.Auth.AdminUser = "admin"
			c.Auth.AdminPasswordHash = string(hash)
		}},
		{name: "user without hash", mutate: func(c *Config) { c.Auth.AdminUser = "admin" }, wantErr: true},
		{name: "hash is not bcrypt", mutate: func(c *Config) {
			c.Auth.AdminUser = "admin"
			c.Auth.AdminPasswordHash = "plaintext"
		}, wantErr: true},
		{name: "empty base url", mutate: func(c *Config) { c.Wiki.BaseURL = "" }, wantErr: true},
		{name: "zero search limit", mutate: func(c *Config) { c.Wiki.SearchLimit = 0 }, wantErr: true},
		{name: "zero fan out", mutate: func(c *Config) { c.Wiki.FanOut = 0 }, wantErr: true},
		{name: "marker threshold above marker count", mutate: func(c *Config) { c.Validator.MinStructuralMarkers = 6 }, wantErr: true},
		{name: "no edition markers", mutate: func(c *Config) { c.Validator.EditionMarkersRaw = " , " }, wantErr: true},
		{name: "default limit above max", mutate: func(c *Config) { c.Hydrate.DefaultLimit = 11 }, wantErr: true},
		{name: "zero default limit", mutate: func(c *Config) { c.Hydrate.DefaultLimit = 0 }, wantErr: true},
		{name: "jwt without ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: true},
		{name: "basic only without ttl", mutate: func(c *Config) {
			c.Auth.JWTSecret = ""
			c.Auth.TokenTTL = 0
		}, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthConfig_HasAdminAuth(t *testing.T) {
	t.Parallel()

	if (AuthConfig{}).HasAdminAuth() {
		t.Error("empty auth config reports admin auth")
	}
	if !(AuthConfig{JWTSecret: "x"}).HasAdminAuth() {
		t.Error("jwt secret not recognized")
	}
	if (AuthConfig{AdminUser: "admin"}).HasBasic() {
		t.Error("basic auth without hash reported as configured")
	}
}

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{"a,,b,", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := ParseList(tt.raw); !slices.Equal(got, tt.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func validConfig() Config {
	return Config{
		Auth: AuthConfig{
			JWTSecret: "this-is-a-very-long-jwt-secret-for-testing-32+",
			JWTIssuer: "grimoire",
			TokenTTL:  time.Hour,
		},
		Wiki: WikiConfig{
			BaseURL:      "https://wiki.example.com",
			APIPath:      "/api.php",
			SearchLimit:  5,
			FanOut:       4,
			RacePagesRaw: "Dwarf,Elf",
		},
		Validator: ValidatorConfig{
			MinStructuralMarkers: 3,
			StructuralMarkersRaw: "range,duration,casting time,components,saving throw",
			EditionMarkersRaw:    "2nd edition,ad&d",
		},
		Hydrate: HydrateConfig{
			DefaultLimit: 1,
		},
	}
}
