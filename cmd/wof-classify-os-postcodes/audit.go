package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/whosonfirst/wof-classify-os-postcodes/onsdb"
	"github.com/whosonfirst/wof-classify-os-postcodes/postalregionsdb"
	"github.com/whosonfirst/wof-classify-os-postcodes/postcodevalidator"
)

func newAuditONSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit-ons",
		Short: "Classify every postcode in the ONS Postcode Directory",
		Long: `Classify every postcode in one or more ONS Postcode Directory CSVs.

The directory is authoritative, so any postcode that fails the strict unit
check, or whose area is not in the area list, points at a gap in the rules.`,
		RunE: runAuditONS,
	}

	cmd.Flags().StringSlice("ons-csv-path", nil, "The path to an ONS postcodes CSV (repeatable)")
	cmd.Flags().Int("concurrency", 4, "How many CSVs to read at once")

	return cmd
}

func runAuditONS(cmd *cobra.Command, args []string) error {
	cfg, c, err := setup(cmd)
	if err != nil {
		return err
	}

	if len(cfg.ONSCSVPaths) == 0 {
		return errors.New("missing --ons-csv-path")
	}

	log.Info("Building ONS database")
	db, err := onsdb.BuildAll(cmd.Context(), cfg.ONSCSVPaths, cfg.Concurrency)
	if err != nil {
		return err
	}
	log.Infof("Finished building ONS database: %d postcodes", db.Len())

	report, err := db.Audit(c)
	if err != nil {
		return err
	}

	for _, pc := range report.Rejected {
		log.Warnf("Directory postcode fails the strict unit check: %s", pc)
	}

	for _, pc := range report.UnknownArea {
		log.Warnf("Directory postcode has an unknown area: %s", pc)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "total\t%d\n", report.Total)
	for _, level := range postcodevalidator.Levels() {
		fmt.Fprintf(out, "%s\t%d\n", level, report.ByLevel[level])
	}
	fmt.Fprintf(out, "rejected\t%d\n", len(report.Rejected))
	fmt.Fprintf(out, "unknown_area\t%d\n", len(report.UnknownArea))

	return nil
}

func newAuditRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit-regions",
		Short: "Check the names of WOF postalregion records",
		RunE:  runAuditRegions,
	}

	cmd.Flags().String("wof-admin-data-path", "", "The path to the GB admin data directory")

	return cmd
}

func runAuditRegions(cmd *cobra.Command, args []string) error {
	cfg, c, err := setup(cmd)
	if err != nil {
		return err
	}

	if cfg.WOFAdminDataPath == "" {
		return errors.New("missing --wof-admin-data-path")
	}

	log.Info("Building postalregions database")
	regionDB := postalregionsdb.NewPostalRegionsDB(cfg.WOFAdminDataPath)
	err = regionDB.Build()
	if err != nil {
		return err
	}
	log.Info("Finished building postalregions database")

	report := regionDB.Audit(c)

	for _, region := range report.Rejected {
		log.Warnf("Postal region name is not an area or district: %s (ID %d)", region.Name, region.WofID)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "total\t%d\n", report.Total)
	fmt.Fprintf(out, "area\t%d\n", report.Areas)
	fmt.Fprintf(out, "district\t%d\n", report.Districts)
	fmt.Fprintf(out, "rejected\t%d\n", len(report.Rejected))

	return nil
}
