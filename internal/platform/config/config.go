// Package config reads namespaced application settings from the environment
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"piiredact/internal/platform/config/raw"
	"piiredact/internal/platform/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Conf is a namespaced view over environment variables.
// Use New() for global access, or Prefix("PIIREDACT_API_") for module scopes
type Conf struct{ r raw.Conf }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{r: raw.New()} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{r: c.r.Prefix(p)} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.r.Key(k) }

// LoadDotenv loads KEY=VALUE files into the process environment.
// Missing files are skipped and variables already set are never overwritten
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

func (c Conf) panicMissing(key string) {
	logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
}

func (c Conf) warnInvalid(key, value, kind string) *zerolog.Event {
	return logger.Get().Warn().Str("key", c.key(key)).Str("value", value).Str("kind", kind)
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v, ok := c.r.Lookup(key)
	if !ok {
		c.panicMissing(key)
	}
	return v
}

// MustInt panics if the given key is missing, empty, or not an int
func (c Conf) MustInt(key string) int {
	s := c.MustString(key)
	v, err := strconv.Atoi(s)
	if err != nil {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid int value")
	}
	return v
}

// Require ensures that all given keys are present (non-empty). Panics otherwise
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if _, ok := c.r.Lookup(k); !ok {
			c.panicMissing(k)
		}
	}
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string { return c.r.Get(key, def) }

// may parses the value under key, falling back to def when it is missing or
// does not parse; parse failures are logged with the offending value
func may[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s, ok := c.r.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		c.warnInvalid(key, s, kind).Interface("default", def).Msg("invalid value; using default")
		return def
	}
	return v
}

// MayInt returns the int under key or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, "int", strconv.Atoi) }

// MayFloat64 returns the float under key or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, "float", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the bool under key or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, "bool", strconv.ParseBool) }

// MayDuration returns the duration under key (e.g. 250ms, 2s) or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, "duration", time.ParseDuration)
}

// MayPort returns a net/http addr like ":4000"; out of range or non numeric ports fall back to def
func (c Conf) MayPort(key string, def int) string {
	p := c.MayInt(key, def)
	if p < 1 || p > 65535 {
		c.warnInvalid(key, strconv.Itoa(p), "port").Int("default", def).Msg("invalid TCP port; using default")
		p = def
	}
	return ":" + strconv.Itoa(p)
}

// MayCSV returns a slice of strings from a comma-separated env var; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.r.Lookup(key)
	if !ok {
		return def
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the lower-cased value when it is one of allowed, def when empty,
// and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(v)
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
