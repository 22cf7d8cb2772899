package factory

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/keyring"
	"github.com/julianstephens/sleeplit/internal/logger"
	"github.com/julianstephens/sleeplit/internal/storage"
	"github.com/julianstephens/sleeplit/internal/storage/postgres"
	"github.com/julianstephens/sleeplit/internal/storage/redis"
	"github.com/julianstephens/sleeplit/internal/storage/sqlite"
	"github.com/julianstephens/sleeplit/internal/utils"
)

// Kind names a backend family.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindJSON     Kind = "json"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
)

var secretFunc = keyring.GetSecret

// KindOf classifies a storage DSN.
func KindOf(dsn string) Kind {
	switch {
	case dsn == "memory:" || dsn == "memory":
		return KindMemory
	case postgres.IsConnString(dsn):
		return KindPostgres
	case redis.IsConnString(dsn):
		return KindRedis
	case strings.HasSuffix(strings.ToLower(dsn), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// Open builds the backend for dsn without connecting; callers run Init.
func Open(dsn string) (storage.Backend, error) {
	switch KindOf(dsn) {
	case KindMemory:
		return storage.NewMemoryBackend(), nil
	case KindPostgres:
		if err := postgres.ValidateConnString(dsn); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the password with 'sleeplit keyring set' or %s", err, constants.ConnectionEnvVar)
			}
			return nil, err
		}
		connStr, err := postgres.WithPassword(dsn, resolveSecret())
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	case KindRedis:
		return redis.New(dsn), nil
	case KindJSON:
		path, err := utils.ExpandPath(dsn)
		if err != nil {
			return nil, err
		}
		return storage.NewJSONFileBackend(path), nil
	default:
		path, err := utils.ExpandPath(dsn)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}

// resolveSecret looks up the postgres password: environment first, then the
// OS keyring. A missing secret is not an error; .pgpass may still apply.
func resolveSecret() string {
	if v := os.Getenv(constants.ConnectionEnvVar); v != "" {
		return v
	}
	secret, err := secretFunc()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Keyring lookup failed", "error", err)
		}
		return ""
	}
	return secret
}
