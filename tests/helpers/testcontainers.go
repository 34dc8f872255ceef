// Helpers for running tests against real database containers.
// Used by tests/integration and by the standalone cmd/testcontainers runner.

package helpers

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/shelfmark/shelfmark/data"
	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DatabaseContainer bundles a running database container with the service
// configuration that points at it.
type DatabaseContainer struct {
	Container testcontainers.Container
	Cfg       *config.Config
}

// Terminate stops and removes the container.
func (dc *DatabaseContainer) Terminate(t *testing.T) {
	if dc.Container == nil {
		return
	}
	if err := dc.Container.Terminate(context.Background()); err != nil {
		logMessage(t, "Failed to terminate database container: %v", err)
	}
}

// DockerAvailable reports whether a Docker daemon is reachable. Integration
// tests skip when it is not.
func DockerAvailable() bool {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = cli.Ping(ctx)
	return err == nil
}

// StartMariaDB starts a MariaDB container initialized with the embedded DDL
// (tables, unique keys, capacity trigger, privileges).
func StartMariaDB(t *testing.T) (*DatabaseContainer, error) {
	ctx := context.Background()

	dbPort := nat.Port("3306/tcp")
	req := testcontainers.ContainerRequest{
		Image:        getEnvDefault("DB_IMAGE", "mariadb:11"),
		Name:         "shelfmark-mariadb-" + shortID(),
		ExposedPorts: []string{string(dbPort)},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "rootpass",
			"MYSQL_DATABASE":      "shelfmark",
		},
		Files: []testcontainers.ContainerFile{
			{
				Reader:            strings.NewReader(data.InitdbMariaDBTables),
				ContainerFilePath: "/docker-entrypoint-initdb.d/001-ddl-tables.sql",
				FileMode:          0o644,
			},
			{
				Reader:            strings.NewReader(data.InitdbMariaDBPrivileges),
				ContainerFilePath: "/docker-entrypoint-initdb.d/002-ddl-privileges.sql",
				FileMode:          0o644,
			},
		},
		// MariaDB logs "ready for connections" once for the init-phase
		// server and again for the real one.
		WaitingFor: wait.ForLog("ready for connections").
			WithOccurrence(2).
			WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		exitWithError(t, err, "Failed to start MariaDB container")
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to get MariaDB container host")
		return nil, err
	}
	mapped, err := container.MappedPort(ctx, dbPort)
	if err != nil {
		exitWithError(t, err, "Failed to get MariaDB container port")
		return nil, err
	}

	return &DatabaseContainer{
		Container: container,
		Cfg: &config.Config{
			DBType:            "mysql",
			DBHost:            host,
			DBPort:            mapped.Port(),
			DBDatabase:        "shelfmark",
			DBUser:            "shelfmark",
			DBPassword:        "shelfmarkpass",
			DBConnectionLimit: 10,
		},
	}, nil
}

// StartPostgres starts a PostgreSQL container. Schema comes from
// database.AutoMigrate, exercising the migration path the MariaDB setup
// bypasses.
func StartPostgres(t *testing.T) (*DatabaseContainer, error) {
	ctx := context.Background()

	dbPort := nat.Port("5432/tcp")
	req := testcontainers.ContainerRequest{
		Image:        getEnvDefault("POSTGRES_IMAGE", "postgres:17-alpine"),
		Name:         "shelfmark-postgres-" + shortID(),
		ExposedPorts: []string{string(dbPort)},
		Env: map[string]string{
			"POSTGRES_DB":       "shelfmark",
			"POSTGRES_USER":     "shelfmark",
			"POSTGRES_PASSWORD": "shelfmarkpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		exitWithError(t, err, "Failed to start PostgreSQL container")
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to get PostgreSQL container host")
		return nil, err
	}
	mapped, err := container.MappedPort(ctx, dbPort)
	if err != nil {
		exitWithError(t, err, "Failed to get PostgreSQL container port")
		return nil, err
	}

	return &DatabaseContainer{
		Container: container,
		Cfg: &config.Config{
			DBType:            "postgres",
			DBHost:            host,
			DBPort:            mapped.Port(),
			DBDatabase:        "shelfmark",
			DBUser:            "shelfmark",
			DBPassword:        "shelfmarkpass",
			DBConnectionLimit: 10,
		},
	}, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// logMessage logs through t when available; the standalone runner passes nil.
func logMessage(t *testing.T, format string, args ...interface{}) {
	if t != nil {
		t.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// exitWithError fails through t when available; the standalone runner passes nil.
func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf("%s: %v", msg, err)
		return
	}
	log.Fatalf("%s: %v", msg, err)
}
