package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Server is the API process configuration, read from the environment.
type Server struct {
	Port           string
	Env            string
	ScenarioDir    string
	StaticDir      string
	AllowedOrigins []string
	ResultCacheTTL time.Duration
}

func (s Server) Production() bool { return s.Env == "production" }

// LoadServer reads API_PORT, API_ENV, SCENARIO_DIR, STATIC_DIR,
// CORS_ALLOWED_ORIGINS (comma separated) and RESULT_CACHE_TTL.
func LoadServer() (Server, error) {
	s := Server{
		Port:           getenv("API_PORT", "8080"),
		Env:            os.Getenv("API_ENV"),
		ScenarioDir:    DefaultScenarioDir(),
		StaticDir:      getenv("STATIC_DIR", "./web/dist"),
		AllowedOrigins: []string{"*"},
		ResultCacheTTL: time.Hour,
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		s.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				s.AllowedOrigins = append(s.AllowedOrigins, o)
			}
		}
	}
	if v := os.Getenv("RESULT_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Server{}, fmt.Errorf("RESULT_CACHE_TTL %q: must be a positive duration", v)
		}
		s.ResultCacheTTL = d
	}
	return s, nil
}

// DefaultScenarioDir is SCENARIO_DIR, or examples/scenarios under the working directory.
func DefaultScenarioDir() string {
	dir := os.Getenv("SCENARIO_DIR")
	if dir == "" {
		dir = filepath.Join("examples", "scenarios")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
