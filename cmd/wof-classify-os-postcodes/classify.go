package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/whosonfirst/wof-classify-os-postcodes/postcodevalidator"
)

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [postcode...]",
		Short: "Classify postcodes given as arguments, or one per line on stdin",
		RunE:  runClassify,
	}

	cmd.Flags().Bool("strict", false, "Fail unless every input is a unit postcode with its space")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, c, err := setup(cmd)
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	failed := classify(cmd.OutOrStdout(), c, inputs)

	if cfg.Strict && failed > 0 {
		return fmt.Errorf("%d of %d inputs are not strict unit postcodes", failed, len(inputs))
	}

	return nil
}

// classify writes one row per input and returns how many inputs are not
// strict unit postcodes.
func classify(w io.Writer, c *postcodevalidator.Classifier, inputs []string) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "INPUT\tLEVEL\tLIKELY\tAREA\tDISTRICT\tDISTRICT_STRICT\tSECTOR\tSECTOR_STRICT\tUNIT\tUNIT_STRICT")

	failed := 0

	for _, in := range inputs {
		unitStrict := c.IsLikelyUnitPostcodeStrict(in)
		if !unitStrict {
			failed++
		}

		fmt.Fprintf(tw, "%q\t%s\t%t\t%t\t%t\t%t\t%t\t%t\t%t\t%t\n",
			in,
			c.Classify(in),
			c.IsLikelyPostcode(in),
			c.IsLikelyAreaPostcode(in),
			c.IsLikelyDistrictPostcode(in),
			c.IsLikelyDistrictPostcodeStrict(in),
			c.IsLikelySectorPostcode(in),
			c.IsLikelySectorPostcodeStrict(in),
			c.IsLikelyFullPostcode(in),
			unitStrict,
		)
	}

	return failed
}

func readLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	return lines, scanner.Err()
}
