package testutils

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// Register database mysql
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/goto/fulltext/internal/store/mysql"
	"github.com/goto/salt/log"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

//go:embed fixtures/*.sql
var fixtures embed.FS

const (
	logLevelDebug = "debug"
	MySQLHost     = "localhost"
	MySQLUsername = "test_user"
	MySQLPassword = "test_pass"
	MySQLName     = "test_db"
)

// RunTestMySQL starts a disposable MySQL container and returns a config
// pointing at it. The container is purged when the test ends.
func RunTestMySQL(t *testing.T, logger log.Logger) (mysql.Config, error) {
	t.Helper()

	opts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=" + MySQLPassword,
			"MYSQL_USER=" + MySQLUsername,
			"MYSQL_PASSWORD=" + MySQLPassword,
			"MYSQL_DATABASE=" + MySQLName,
		},
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	if err != nil {
		return mysql.Config{}, fmt.Errorf("new test MySQL: create dockertest pool: %w", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return mysql.Config{}, fmt.Errorf("new test MySQL: start resource: %w", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Fatal(err)
		}
	})

	port, err := strconv.Atoi(resource.GetPort("3306/tcp"))
	if err != nil {
		return mysql.Config{}, fmt.Errorf("new test MySQL: parse external port of container to int: %w", err)
	}

	// attach terminal logger to container if exists
	// for debugging purpose
	if logger.Level() == logLevelDebug {
		logWaiter, err := pool.Client.AttachToContainerNonBlocking(docker.AttachToContainerOptions{
			Container:    resource.Container.ID,
			OutputStream: logger.Writer(),
			ErrorStream:  logger.Writer(),
			Stderr:       true,
			Stdout:       true,
			Stream:       true,
		})
		if err != nil {
			return mysql.Config{}, fmt.Errorf("new test MySQL: connect to mysql container log output: %w", err)
		}
		defer func() {
			if err := logWaiter.Close(); err != nil {
				logger.Error("could not close container log", "error", err)
			}

			if err := logWaiter.Wait(); err != nil {
				logger.Error("could not wait for container log to close", "error", err)
			}
		}()
	}

	// Tell docker to hard kill the container in 180 seconds
	if err := resource.Expire(180); err != nil {
		return mysql.Config{}, err
	}

	cfg := mysql.Config{
		Host:         MySQLHost,
		Port:         port,
		Name:         MySQLName,
		User:         MySQLUsername,
		Password:     MySQLPassword,
		MaxOpenConns: 5,
	}

	// exponential backoff-retry, mysql takes a while to accept connections
	pool.MaxWait = 120 * time.Second
	if err := pool.Retry(func() error {
		db, err := sql.Open("mysql", cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		return db.Ping()
	}); err != nil {
		return mysql.Config{}, fmt.Errorf("could not connect to docker: %w", err)
	}

	return cfg, nil
}

// RunMigrations creates the publishers, authors and articles fixture
// tables together with their FULLTEXT indexes.
func RunMigrations(t *testing.T, cfg mysql.Config) error {
	t.Helper()

	src, err := iofs.New(fixtures, "fixtures")
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrationURL())
	if err != nil {
		return fmt.Errorf("init migration: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
