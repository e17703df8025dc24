package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Wiki.validate(); err != nil {
		return fmt.Errorf("wiki: %w", err)
	}
	if err := c.Validator.validate(); err != nil {
		return fmt.Errorf("validator: %w", err)
	}
	if err := c.Hydrate.validate(); err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}
	return nil
}

// HasAdminAuth reports whether any admin authentication method is configured.
func (a AuthConfig) HasAdminAuth() bool {
	return a.HasBasic() || a.HasJWT()
}

// HasBasic reports whether Basic credentials are configured.
func (a AuthConfig) HasBasic() bool {
	return a.AdminUser != "" && a.AdminPasswordHash != ""
}

// HasJWT reports whether bearer tokens can be verified.
func (a AuthConfig) HasJWT() bool {
	return a.JWTSecret != ""
}

func (a *AuthConfig) validate() error {
	if a.JWTSecret != "" && len(a.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters (got %d)", len(a.JWTSecret))
	}
	if a.JWTSecret != "" && a.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be > 0 (got %s)", a.TokenTTL)
	}
	if (a.AdminUser == "") != (a.AdminPasswordHash == "") {
		return fmt.Errorf("admin_user and admin_password_hash must be set together")
	}
	if a.AdminPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(a.AdminPasswordHash)); err != nil {
			return fmt.Errorf("admin_password_hash is not a bcrypt hash: %w", err)
		}
	}
	return nil
}

func (w *WikiConfig) validate() error {
	if w.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	w.BaseURL = strings.TrimRight(w.BaseURL, "/")
	if w.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be > 0 (got %d)", w.SearchLimit)
	}
	if w.FanOut <= 0 {
		return fmt.Errorf("fan_out must be > 0 (got %d)", w.FanOut)
	}
	w.RacePages = ParseList(w.RacePagesRaw)
	return nil
}

func (v *ValidatorConfig) validate() error {
	v.StructuralMarkers = ParseList(v.StructuralMarkersRaw)
	v.EditionMarkers = ParseList(v.EditionMarkersRaw)

	if v.MinStructuralMarkers < 0 || v.MinStructuralMarkers > len(v.StructuralMarkers) {
		return fmt.Errorf("min_structural_markers must be between 0 and %d (got %d)",
			len(v.StructuralMarkers), v.MinStructuralMarkers)
	}
	if len(v.EditionMarkers) == 0 {
		return fmt.Errorf("edition_markers must not be empty")
	}
	return nil
}

func (h *HydrateConfig) validate() error {
	if h.DefaultLimit <= 0 || h.DefaultLimit > MaxBatchLimit {
		return fmt.Errorf("default_limit must be between 1 and %d (got %d)", MaxBatchLimit, h.DefaultLimit)
	}
	return nil
}

// ParseList splits a comma-separated list, trimming blanks. An empty string
// returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
