package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/hicattr/pkg/hic"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <in> <out>",
		Short: "Check that <out> is a correct attribute edit of <in>",
		Long: `The verify command re-reads both files and checks that the fixed header
and body match byte for byte outside the attribute block, and that every
stored offset in <out> equals the corresponding offset in <in> shifted by the
attribute size change.

Example:
  hicattr verify in.hic out.hic`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runVerify(args, s.opts.BufferSize)
		},
	}
}

func runVerify(args []string, bufSize int) error {
	rep, err := hic.VerifyFiles(args[0], args[1], bufSize)
	if rep != nil {
		if jsonOut {
			if jerr := printJSON(rep); jerr != nil && err == nil {
				err = jerr
			}
		} else {
			printVerify(rep)
		}
	}
	return err
}

func printVerify(rep *hic.VerifyReport) {
	if rep.OK() {
		printInfo("OK: delta %d bytes, %d attribute(s), %d offset field(s) checked\n",
			rep.Delta, rep.AttributeCount, rep.FieldsChecked)
		return
	}
	printInfo("FAILED: %d problem(s)\n", len(rep.Mismatches))
	for _, m := range rep.Mismatches {
		printInfo("  %s\n", m)
	}
}
