package kafka

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/semver"
	"github.com/segmentio/kafka-go"

	"github.com/tributary-sql/tributary/config"
	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("at least one broker is required")
	}
	return nil
}

func Creator(ctx context.Context, configUntyped config.DatabaseSpecificConfig) (physical.Database, error) {
	cfg := configUntyped.(*Config)
	return &Database{
		Config: cfg,
	}, nil
}

// Database exposes every topic of the cluster as a table with an offset,
// key and value column.
type Database struct {
	Config *Config
}

func (d *Database) ContractVersion() *semver.Version {
	return semver.MustParse("1.0.0")
}

func (d *Database) ListTables(ctx context.Context) ([]string, error) {
	partitions, err := readPartitions(ctx, d.Config.Brokers, "")
	if err != nil {
		return nil, fmt.Errorf("couldn't read partitions: %w", err)
	}
	topics := map[string]struct{}{}
	for i := range partitions {
		topics[partitions[i].Topic] = struct{}{}
	}
	out := make([]string, 0, len(topics))
	for topic := range topics {
		out = append(out, topic)
	}
	sort.Strings(out)
	return out, nil
}

func (d *Database) GetTable(ctx context.Context, name string) (physical.DatasourceImplementation, tributary.Schema, error) {
	partitions, err := readPartitions(ctx, d.Config.Brokers, name)
	if err != nil {
		return nil, tributary.Schema{}, fmt.Errorf("couldn't read partitions: %w", err)
	}
	if len(partitions) == 0 {
		return nil, tributary.Schema{}, fmt.Errorf("no such topic: '%s'", name)
	}

	return &impl{
			brokers:    d.Config.Brokers,
			topic:      name,
			partitions: len(partitions),
		}, tributary.NewSchema([]tributary.SchemaField{
			{Name: "offset", Type: tributary.Int},
			{Name: "key", Type: tributary.String},
			{Name: "value", Type: tributary.String},
		}, -1), nil
}

func readPartitions(ctx context.Context, brokers []string, topic string) ([]kafka.Partition, error) {
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return nil, fmt.Errorf("couldn't dial broker: %w", err)
	}
	defer conn.Close()

	if topic == "" {
		return conn.ReadPartitions()
	}
	return conn.ReadPartitions(topic)
}
