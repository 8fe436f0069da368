package mysql

import (
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

type Config struct {
	Host            string            `yaml:"host" mapstructure:"host" default:"localhost"`
	Port            int               `yaml:"port" mapstructure:"port" default:"3306"`
	Name            string            `yaml:"name" mapstructure:"name" default:"fulltext"`
	User            string            `yaml:"user" mapstructure:"user" default:"root"`
	Password        string            `yaml:"password" mapstructure:"password" default:""`
	Params          map[string]string `yaml:"params" mapstructure:"params"`
	MaxOpenConns    int               `yaml:"max_open_conns" mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns    int               `yaml:"max_idle_conns" mapstructure:"max_idle_conns" default:"5"`
	ConnMaxLifetime time.Duration     `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime" default:"5m"`
}

// DSN returns the go-sql-driver data source name
func (c Config) DSN() string {
	return c.driverConfig().FormatDSN()
}

// MigrationURL returns the golang-migrate database URL. Migration files may
// hold several statements so multiStatements is switched on.
func (c Config) MigrationURL() string {
	cfg := c.driverConfig()
	cfg.MultiStatements = true
	return "mysql://" + cfg.FormatDSN()
}

func (c Config) driverConfig() *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Name
	cfg.ParseTime = true
	if len(c.Params) > 0 {
		cfg.Params = make(map[string]string, len(c.Params))
		for k, v := range c.Params {
			cfg.Params[k] = v
		}
	}
	return cfg
}
