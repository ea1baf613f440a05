package sequence

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Masterminds/semver"

	"github.com/tributary-sql/tributary/config"
	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

// Database generates integer sequences. Table names are the sequence
// length, i.e. `seq.1000` is the numbers 0 through 999.
type Database struct{}

func Creator(ctx context.Context, configUntyped config.DatabaseSpecificConfig) (physical.Database, error) {
	return &Database{}, nil
}

type Config struct{}

func (c *Config) Validate() error {
	return nil
}

func (d *Database) ContractVersion() *semver.Version {
	return semver.MustParse("1.0.0")
}

func (d *Database) ListTables(ctx context.Context) ([]string, error) {
	// Tables are virtual, there's nothing to enumerate.
	return nil, nil
}

func (d *Database) GetTable(ctx context.Context, name string) (physical.DatasourceImplementation, tributary.Schema, error) {
	count, err := strconv.ParseInt(name, 10, 64)
	if err != nil || count < 0 {
		return nil, tributary.Schema{}, fmt.Errorf("sequence table name must be a non-negative length, got '%s'", name)
	}
	return &impl{
			count: count,
		}, tributary.NewSchema([]tributary.SchemaField{
			{Name: "i", Type: tributary.Int},
		}, -1), nil
}
