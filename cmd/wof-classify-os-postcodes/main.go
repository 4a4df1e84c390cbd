package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/whosonfirst/wof-classify-os-postcodes/config"
	"github.com/whosonfirst/wof-classify-os-postcodes/postcodeareas"
	"github.com/whosonfirst/wof-classify-os-postcodes/postcodevalidator"

	export "github.com/whosonfirst/go-whosonfirst-export/v2"

	_ "github.com/aaronland/go-uid-proxy"
	_ "github.com/aaronland/go-uid-whosonfirst"
	id "github.com/whosonfirst/go-whosonfirst-id"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wof-classify-os-postcodes",
		Short: "Check strings and datasets against the shape of UK postcodes",
		Long: `Classify strings as UK postcode areas, districts, sectors or units, and
audit ONS and Who's On First postcode data against the same rules.

Only the shape of a postcode is checked; nothing here looks a postcode up.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("areas", "", "Path to a postcode area list, one per line (defaults to the built-in list)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("config", "", "Path to a TOML, YAML or JSON config file")

	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newAuditONSCmd())
	rootCmd.AddCommand(newAuditRegionsCmd())
	rootCmd.AddCommand(newLintWOFCmd())

	return rootCmd
}

// setup loads the config for cmd, configures logging and builds the
// classifier. A missing or malformed area list is fatal.
func setup(cmd *cobra.Command) (*config.Config, *postcodevalidator.Classifier, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetOutput(cmd.ErrOrStderr())

	areas, err := loadAreas(cfg.AreasPath)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("Loaded %d postcode areas", areas.Len())

	c, err := postcodevalidator.New(areas)
	if err != nil {
		return nil, nil, err
	}

	return cfg, c, nil
}

func loadAreas(path string) (*postcodeareas.Set, error) {
	if path == "" {
		return postcodeareas.Default()
	}

	return postcodeareas.LoadFile(path)
}

func createExportOptions(ctx context.Context) (*export.Options, error) {
	uri := "proxy:///?provider=whosonfirst://&minimum=100&pool=memory%3A%2F%2F"
	cl, err := id.NewProviderWithURI(ctx, uri)
	if err != nil {
		return nil, err
	}

	return export.NewDefaultOptionsWithProvider(ctx, cl)
}
