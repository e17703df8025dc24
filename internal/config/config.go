package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
	Wiki       WikiConfig       `yaml:"wiki"`
	Cache      CacheConfig      `yaml:"cache"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Validator  ValidatorConfig  `yaml:"validator"`
	Hydrate    HydrateConfig    `yaml:"hydrate"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"300s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// HydrateRatePerMinute caps hydration batches per admin; 0 disables it.
	HydrateRatePerMinute int `yaml:"hydrate_rate_per_minute" env:"SERVER_HYDRATE_RATE_PER_MINUTE" env-default:"6"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds admin authentication settings for the HTTP API.
// Either Basic credentials, a JWT secret, or both must be configured to
// serve the admin endpoints.
type AuthConfig struct {
	AdminUser         string        `yaml:"admin_user"          env:"AUTH_ADMIN_USER"`
	AdminPasswordHash string        `yaml:"admin_password_hash" env:"AUTH_ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `yaml:"jwt_secret"          env:"AUTH_JWT_SECRET"`
	JWTIssuer         string        `yaml:"jwt_issuer"          env:"AUTH_JWT_ISSUER"          env-default:"grimoire"`
	TokenTTL          time.Duration `yaml:"token_ttl"           env:"AUTH_TOKEN_TTL"           env-default:"1h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// WikiConfig holds the MediaWiki source settings and the page titles each
// hydration phase reads.
type WikiConfig struct {
	BaseURL     string        `yaml:"base_url"     env:"WIKI_BASE_URL"     env-default:"https://adnd2e.fandom.com"`
	APIPath     string        `yaml:"api_path"     env:"WIKI_API_PATH"     env-default:"/api.php"`
	UserAgent   string        `yaml:"user_agent"   env:"WIKI_USER_AGENT"   env-default:"grimoire-hydrate/1.0"`
	Timeout     time.Duration `yaml:"timeout"      env:"WIKI_TIMEOUT"      env-default:"20s"`
	SearchLimit int           `yaml:"search_limit" env:"WIKI_SEARCH_LIMIT" env-default:"5"`
	FanOut      int           `yaml:"fan_out"      env:"WIKI_FAN_OUT"      env-default:"4"`

	EquipmentPage     string `yaml:"equipment_page"      env:"WIKI_EQUIPMENT_PAGE"      env-default:"Equipment"`
	WeaponGroupsPage  string `yaml:"weapon_groups_page"  env:"WIKI_WEAPON_GROUPS_PAGE"  env-default:"Weapon Groups"`
	ProficienciesPage string `yaml:"proficiencies_page"  env:"WIKI_PROFICIENCIES_PAGE"  env-default:"Nonweapon Proficiencies"`
	TraitsPage        string `yaml:"traits_page"         env:"WIKI_TRAITS_PAGE"         env-default:"Traits and Disadvantages"`
	KitsPage          string `yaml:"kits_page"           env:"WIKI_KITS_PAGE"           env-default:"Kits"`
	AttributesPage    string `yaml:"attributes_page"     env:"WIKI_ATTRIBUTES_PAGE"     env-default:"Ability Scores"`
	RaceCategory      string `yaml:"race_category"       env:"WIKI_RACE_CATEGORY"`
	RacePagesRaw      string `yaml:"race_pages"          env:"WIKI_RACE_PAGES"          env-default:"Dwarf,Elf,Gnome,Half-Elf,Halfling,Human"`

	// RacePages is parsed from RacePagesRaw during validation.
	RacePages []string `yaml:"-" env:"-"`
}

// CacheConfig holds the Redis page cache settings. An empty address disables
// the cache.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"     env:"CACHE_REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"CACHE_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db"       env:"CACHE_REDIS_DB"       env-default:"0"`
	TTL           time.Duration `yaml:"ttl"            env:"CACHE_TTL"            env-default:"24h"`
	KeyPrefix     string        `yaml:"key_prefix"     env:"CACHE_KEY_PREFIX"     env-default:"wiki:"`
}

// Enabled reports whether a Redis address is configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// ExtractionConfig holds the structured extraction service settings.
type ExtractionConfig struct {
	APIKey    string `yaml:"api_key"    env:"EXTRACTION_API_KEY"`
	BaseURL   string `yaml:"base_url"   env:"EXTRACTION_BASE_URL"`
	Model     string `yaml:"model"      env:"EXTRACTION_MODEL"      env-default:"claude-sonnet-4-5"`
	MaxTokens int64  `yaml:"max_tokens" env:"EXTRACTION_MAX_TOKENS" env-default:"2048"`
	MaxInput  int    `yaml:"max_input"  env:"EXTRACTION_MAX_INPUT"  env-default:"24000"`
}

// ValidatorConfig holds the strict source validator thresholds and marker
// lists. Marker lists are comma separated.
type ValidatorConfig struct {
	MinStructuralMarkers int    `yaml:"min_structural_markers" env:"VALIDATOR_MIN_STRUCTURAL_MARKERS" env-default:"3"`
	StructuralMarkersRaw string `yaml:"structural_markers"     env:"VALIDATOR_STRUCTURAL_MARKERS"     env-default:"range,duration,casting time,components,saving throw"`
	EditionMarkersRaw    string `yaml:"edition_markers"        env:"VALIDATOR_EDITION_MARKERS"        env-default:"2nd edition,second edition,ad&d 2,ad&d,player's handbook,tome of magic,wizard's spell compendium,priest's spell compendium"`

	StructuralMarkers []string `yaml:"-" env:"-"`
	EditionMarkers    []string `yaml:"-" env:"-"`
}

// HydrateConfig holds hydration run settings.
type HydrateConfig struct {
	SpellReferencePath string `yaml:"spell_reference_path" env:"HYDRATE_SPELL_REFERENCE_PATH" env-default:"./data/spell-reference"`
	// DefaultLimit is the CLI batch size when --limit is not given.
	DefaultLimit int  `yaml:"default_limit" env:"HYDRATE_DEFAULT_LIMIT" env-default:"1"`
	DryRun       bool `yaml:"dry_run"       env:"HYDRATE_DRY_RUN"`
}

// MaxBatchLimit is the largest batch one hydration run accepts.
const MaxBatchLimit = 10
