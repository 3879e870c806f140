package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/hicattr/pkg/hic"
)

var infoIndexes bool

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show header fields, attributes and index counts",
		Long: `The info command parses the header of a .hic file, walks the master
index and the normalization-vector index, and prints what it found.

Example:
  hicattr info in.hic
  hicattr info in.hic --indexes
  hicattr info in.hic --json`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	cmd.Flags().BoolVar(&infoIndexes, "indexes", false, "List every index entry")
	return cmd
}

func runInfo(args []string) error {
	path := args[0]
	printVerbose("Reading %s\n", path)

	info, err := hic.Inspect(path)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("File: %s (%d bytes)\n", info.Path, info.Size)
	printInfo("  Version:         %d\n", info.Version)
	printInfo("  Genome:          %s\n", info.GenomeID)
	printInfo("  Footer position: %d\n", info.FooterPosition)
	if info.NormVectorIndexPosition != 0 || info.NormVectorIndexLength != 0 {
		printInfo("  Norm index:      %d (%d bytes)\n", info.NormVectorIndexPosition, info.NormVectorIndexLength)
	}
	printInfo("  Attribute block: [%d, %d)\n", info.AttributesStart, info.AttributesEnd)
	printInfo("  Trailer end:     %d\n", info.TrailerEnd)
	printInfo("  Chromosomes:     %d\n", info.Chromosomes)
	printInfo("  Resolutions:     %d bp, %d frag\n", info.BpResolutions, info.FragResolutions)

	printInfo("\nAttributes (%d):\n", len(info.Attributes))
	for _, a := range info.Attributes {
		printInfo("  %s = %s\n", a.Key, preview(a.Value))
	}

	printInfo("\nMaster index: %d entries\n", len(info.MasterIndex))
	if infoIndexes {
		for _, e := range info.MasterIndex {
			printInfo("  %-24s position=%d size=%d\n", e.Key, e.Position, e.Size)
		}
	}
	if info.NormVectorIndexPosition != 0 {
		printInfo("Norm vector index: %d entries\n", len(info.NormVectorIndex))
		if infoIndexes {
			for _, e := range info.NormVectorIndex {
				printInfo("  %s chr=%d %s/%d position=%d size=%d\n",
					e.Type, e.Chromosome, e.Unit, e.Resolution, e.Position, e.Size)
			}
		}
	}
	return nil
}

// preview shortens long values (statistics and graphs can be kilobytes).
func preview(v string) string {
	const previewLen = 60
	r := []rune(v)
	if len(r) <= previewLen || verbose {
		return v
	}
	return string(r[:previewLen]) + "..."
}
