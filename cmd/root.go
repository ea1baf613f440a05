package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/tributary-sql/tributary/config"
	"github.com/tributary-sql/tributary/datasources/csv"
	"github.com/tributary-sql/tributary/datasources/json"
	"github.com/tributary-sql/tributary/datasources/kafka"
	"github.com/tributary-sql/tributary/datasources/parquet"
	"github.com/tributary-sql/tributary/datasources/postgres"
	"github.com/tributary-sql/tributary/datasources/sequence"
	"github.com/tributary-sql/tributary/physical"
)

var (
	output       string
	parallelism  int
	breakChains  bool
	streaming    bool
	pollInterval time.Duration
	profilePath  string
)

var databaseCreators = map[string]func(ctx context.Context, configUntyped config.DatabaseSpecificConfig) (physical.Database, error){
	"postgres": postgres.Creator,
	"kafka":    kafka.Creator,
	"seq":      sequence.Creator,
}

func init() {
	config.RegisterDatabaseType("postgres", func() config.DatabaseSpecificConfig { return &postgres.Config{} })
	config.RegisterDatabaseType("kafka", func() config.DatabaseSpecificConfig { return &kafka.Config{} })
	config.RegisterDatabaseType("seq", func() config.DatabaseSpecificConfig { return &sequence.Config{} })
}

var rootCmd = &cobra.Command{
	Use:           "tributary",
	Short:         "Lower declarative table scans into a running dataflow graph.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if profilePath != "" {
			stop := profile.Start(profile.CPUProfile, profile.ProfilePath(profilePath))
			cobra.OnFinalize(stop.Stop)
		}
		return nil
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&output, "output", "table", "output format: table, csv or json")
	rootCmd.PersistentFlags().IntVar(&parallelism, "parallelism", 4, "default parallelism of source units")
	rootCmd.PersistentFlags().BoolVar(&breakChains, "break-chains", false, "disable operator chaining after sources")
	rootCmd.PersistentFlags().BoolVar(&streaming, "streaming", false, "run splittable file inputs in streaming mode")
	rootCmd.PersistentFlags().DurationVar(&pollInterval, "poll-interval", time.Second, "re-read interval of streaming file inputs")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "write a cpu profile to the given directory")
}

// buildRepository assembles the datasource catalog: configured databases,
// the built-in virtual ones, and file handlers by extension.
func buildRepository(ctx context.Context) (*physical.DatasourceRepository, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("couldn't read config: %w", err)
	}

	repository, err := physical.NewDatasourceRepository()
	if err != nil {
		return nil, fmt.Errorf("couldn't create datasource repository: %w", err)
	}

	for _, dbConfig := range cfg.Databases {
		creator, ok := databaseCreators[dbConfig.Type]
		if !ok {
			return nil, fmt.Errorf("unknown database type '%s' for database '%s'", dbConfig.Type, dbConfig.Name)
		}
		typedConfig, err := dbConfig.TypedConfig()
		if err != nil {
			return nil, fmt.Errorf("couldn't get typed config for database '%s': %w", dbConfig.Name, err)
		}
		db, err := creator(ctx, typedConfig)
		if err != nil {
			return nil, fmt.Errorf("couldn't create database '%s': %w", dbConfig.Name, err)
		}
		if err := repository.RegisterDatabase(dbConfig.Name, db); err != nil {
			return nil, fmt.Errorf("couldn't register database '%s': %w", dbConfig.Name, err)
		}
	}

	if _, ok := repository.Databases()["seq"]; !ok {
		db, err := sequence.Creator(ctx, &sequence.Config{})
		if err != nil {
			return nil, fmt.Errorf("couldn't create sequence database: %w", err)
		}
		if err := repository.RegisterDatabase("seq", db); err != nil {
			return nil, fmt.Errorf("couldn't register sequence database: %w", err)
		}
	}

	repository.RegisterFileHandler("json", json.NewCreator(false))
	repository.RegisterFileHandler("csv", csv.Creator)
	repository.RegisterFileHandler("parquet", parquet.Creator)

	return repository, nil
}
