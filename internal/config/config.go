package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the server configuration, read from the environment. A .env
// file in the working directory is loaded first when present.
type Config struct {
	Port              string
	Neo4jURI          string
	Neo4jUser         string
	Neo4jPass         string
	Neo4jDatabase     string
	PersistDiagrams   bool
	CacheSize         int
	ReposPath         string
	LoaderConcurrency int
	BodyLimit         int
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("BACKEND_PORT", "3001"),
		Neo4jURI:          getEnv("NEO4J_URI", ""),
		Neo4jUser:         getEnv("NEO4J_USER", "neo4j"),
		Neo4jPass:         getEnv("NEO4J_PASSWORD", ""),
		Neo4jDatabase:     getEnv("NEO4J_DATABASE", "neo4j"),
		PersistDiagrams:   getEnvBool("PERSIST_DIAGRAMS", false),
		CacheSize:         getEnvInt("DIAGRAM_CACHE_SIZE", 256),
		ReposPath:         getEnv("REPOS_PATH", "./repos"),
		LoaderConcurrency: getEnvInt("LOADER_CONCURRENCY", 8),
		BodyLimit:         getEnvInt("BODY_LIMIT_BYTES", 32<<20),
	}
}

// PersistenceEnabled reports whether a Neo4j URI was configured.
func (c *Config) PersistenceEnabled() bool {
	return c.Neo4jURI != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}
