package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/whosonfirst/wof-classify-os-postcodes/onsdb"
	"github.com/whosonfirst/wof-classify-os-postcodes/wofdata"
)

func newLintWOFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint-wof",
		Short: "Deprecate WOF postalcode records whose names are not valid postcodes",
		Long: `Deprecate WOF postalcode records whose names are not valid postcodes.

When ONS postcode CSVs are given, valid postcodes missing from the directory
are ceased as of --ons-date.`,
		RunE: runLintWOF,
	}

	cmd.Flags().String("wof-postalcodes-path", "", "The path to the WOF postalcodes data")
	cmd.Flags().String("prefix-filter", "", "Just do work on the postcodes starting with the string")
	cmd.Flags().Bool("dry-run", false, "Set to true to do nothing")
	cmd.Flags().StringSlice("ons-csv-path", nil, "The path to an ONS postcodes CSV (repeatable)")
	cmd.Flags().String("ons-date", "", "The date of the ONS postcodes CSV, as YYYY-MM-DD")
	cmd.Flags().Int("concurrency", 4, "How many CSVs to read at once")

	return cmd
}

func runLintWOF(cmd *cobra.Command, args []string) error {
	cfg, c, err := setup(cmd)
	if err != nil {
		return err
	}

	if cfg.WOFPostalcodesPath == "" {
		return errors.New("missing --wof-postalcodes-path")
	}

	var exporter wofdata.Exporter

	if cfg.DryRun {
		log.Info("Performing dry run")
	} else {
		opts, err := createExportOptions(cmd.Context())
		if err != nil {
			return err
		}

		exporter = wofdata.ExportWithOptions(opts)
	}

	lintOpts := wofdata.LintOptions{
		PrefixFilter: cfg.PrefixFilter,
		DryRun:       cfg.DryRun,
	}

	if len(cfg.ONSCSVPaths) > 0 {
		onsDBDate, err := time.Parse("2006-01-02", cfg.ONSDate)
		if err != nil {
			return fmt.Errorf("missing or invalid --ons-date, make sure you explicitly set the date of the ONS database you're syncing against: %w", err)
		}

		log.Info("Building ONS database")
		db, err := onsdb.BuildAll(cmd.Context(), cfg.ONSCSVPaths, cfg.Concurrency)
		if err != nil {
			return err
		}
		log.Info("Finished building ONS database")

		lintOpts.Directory = db
		lintOpts.DirectoryDate = onsDBDate
	}

	wof := wofdata.NewWOFData(cfg.WOFPostalcodesPath, exporter)

	log.Info("Walking over WOF postcodes")

	stats, err := wof.Lint(c, lintOpts)
	if err != nil {
		return fmt.Errorf("iteration failed: %w", err)
	}

	log.Infof("Stats: %d checked, %d valid, %d found invalid then deprecated, %d not found and ceased, %d skipped",
		stats.Checked, stats.Valid, stats.Deprecated, stats.Ceased, stats.Skipped)

	return nil
}
