//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestScholarWithMySQL tests the scholar CLI with a MySQL backend.
func TestScholarWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "scholar",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/scholar?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestScholarWithPostgres tests the scholar CLI with a PostgreSQL backend.
func TestScholarWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario exercises migrations, cached scoring, history and cleanup
// against one database server. Cache and history share the server.
func runBackendScenario(t *testing.T, backend, connStr string) {
	t.Helper()
	home := t.TempDir()
	env := []string{
		"SCHOLAR_CACHE_BACKEND=" + backend,
		"SCHOLAR_CACHE_DB_CONNECT=" + connStr,
		"SCHOLAR_HISTORY_BACKEND=" + backend,
		"SCHOLAR_HISTORY_DB_CONNECT=" + connStr,
	}

	// Start from a clean server
	_, err := runScholar(t, home, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runScholar(t, home, env, "history", "clear")
	require.NoError(t, err)

	// Schema up, down and up again
	_, err = runScholar(t, home, env, "history", "migrate")
	require.NoError(t, err)
	_, err = runScholar(t, home, env, "history", "migrate", "--target-version", "0")
	require.NoError(t, err)
	_, err = runScholar(t, home, env, "history", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, err = runScholar(t, home, env, "rank", datasetPath(t), "--seed", "42", "--limit", "5")
		require.NoError(t, err)
	}
	_, err = runScholar(t, home, env, "summary", datasetPath(t), "--seed", "42")
	require.NoError(t, err)

	out, err := runScholar(t, home, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Entries: 1")

	out, err = runScholar(t, home, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 3")
	assert.Contains(t, out, "Total Applicant Scores: 36")

	_, err = runScholar(t, home, env, "history", "export", "--output-file", home+"/export")
	require.NoError(t, err)
}
