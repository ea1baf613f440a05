package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver"
	"github.com/jackc/pgx"

	"github.com/tributary-sql/tributary/config"
	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	return nil
}

func connect(config *Config) (*pgx.Conn, error) {
	db, err := pgx.Connect(pgx.ConnConfig{
		Host:     config.Host,
		Port:     uint16(config.Port),
		User:     config.User,
		Database: config.Database,
		Password: config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't open database: %w", err)
	}
	return db, nil
}

func Creator(ctx context.Context, configUntyped config.DatabaseSpecificConfig) (physical.Database, error) {
	cfg := configUntyped.(*Config)
	db, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("couldn't ping database: %w", err)
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("couldn't close database: %w", err)
	}
	return &Database{
		Config: cfg,
	}, nil
}

type Database struct {
	Config *Config
}

func (d *Database) ContractVersion() *semver.Version {
	return semver.MustParse("1.0.0")
}

func (d *Database) ListTables(ctx context.Context) ([]string, error) {
	db, err := connect(d.Config)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryEx(ctx, "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name", nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't list tables: %w", err)
	}

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("couldn't scan table name: %w", err)
		}
		out = append(out, name)
	}
	return out, nil
}

func (d *Database) GetTable(ctx context.Context, name string) (physical.DatasourceImplementation, tributary.Schema, error) {
	db, err := connect(d.Config)
	if err != nil {
		return nil, tributary.Schema{}, fmt.Errorf("couldn't connect to database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryEx(ctx, "SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position", nil, name)
	if err != nil {
		return nil, tributary.Schema{}, fmt.Errorf("couldn't describe table: %w", err)
	}

	var descriptions [][]string
	for rows.Next() {
		desc := make([]string, 3)
		if err := rows.Scan(&desc[0], &desc[1], &desc[2]); err != nil {
			return nil, tributary.Schema{}, fmt.Errorf("couldn't scan table description: %w", err)
		}
		descriptions = append(descriptions, desc)
	}
	if len(descriptions) == 0 {
		return nil, tributary.Schema{}, fmt.Errorf("no such table: '%s'", name)
	}

	fields := make([]tributary.SchemaField, len(descriptions))
	for i := range descriptions {
		var t tributary.Type
		switch descriptions[i][1] {
		case "integer", "smallint", "bigint":
			t = tributary.Int
		case "text", "character", "character varying":
			t = tributary.String
		case "real", "numeric", "double precision":
			t = tributary.Float
		case "boolean":
			t = tributary.Boolean
		case "timestamp with time zone", "timestamp without time zone":
			t = tributary.Time
		default:
			t = tributary.String
		}
		if descriptions[i][2] == "YES" {
			t = tributary.TypeSum(t, tributary.Null)
		}
		fields[i] = tributary.SchemaField{
			Name: descriptions[i][0],
			Type: t,
		}
	}

	return &impl{
		config: d.Config,
		table:  name,
	}, tributary.NewSchema(fields, -1), nil
}
