package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/hicattr/internal/config"
	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/pkg/hic"
)

var editPlanPath string

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <in> <out> [<key> <value|@file> ...]",
		Short: "Apply an edit plan and/or append attributes",
		Long: `The edit command runs the [[edit]] tables of a plan file, then appends
any key/value pairs given on the command line. Without --plan the edits of
--config are used. A plan file holds only [[edit]] tables; copy and value
settings come from --config or flags.

Example:
  hicattr edit in.hic out.hic software "juicer_tools 2.0"
  hicattr edit in.hic out.hic statistics @stats.txt graphs @graphs.txt
  hicattr edit in.hic out.hic --plan plan.toml`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args)
		},
	}
	cmd.Flags().StringVar(&editPlanPath, "plan", "", "TOML file with [[edit]] tables")
	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	planCfg := s.cfg
	if editPlanPath != "" {
		if planCfg, err = config.LoadPlan(editPlanPath); err != nil {
			return err
		}
	}
	plan, err := planCfg.Plan(s.source)
	if err != nil {
		return err
	}
	if rest := args[2:]; len(rest) > 0 {
		pairs, err := s.source.ParsePairs(rest)
		if err != nil {
			return err
		}
		plan = append(plan, &hic.Append{Pairs: pairs})
	}
	if len(plan) == 0 {
		return &format.InvalidArgumentError{Message: "nothing to do: give key/value pairs or --plan"}
	}
	return applyPlan(args[0], args[1], plan, s.opts)
}

func newAppendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "append <in> <out> <key> <value|@file> [<key> <value|@file> ...]",
		Short: "Append attributes after the existing ones",
		Long: `The append command adds key/value pairs at the end of the attribute
block. Existing attributes are left untouched, duplicates included.

Example:
  hicattr append in.hic out.hic k v
  hicattr append in.hic out.hic graphs @graphs.txt --verify`,
		Args: usageArgs(cobra.MinimumNArgs(4)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPairsOp(cmd, args, func(pairs []hic.Attribute) hic.Operation {
				return &hic.Append{Pairs: pairs}
			})
		},
	}
}

var (
	insertAnchor      string
	insertStatsGraphs bool
)

func newInsertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert <in> <out> <key> <value|@file> [<key> <value|@file> ...]",
		Short: "Insert attributes right after an anchor attribute",
		Long: `The insert command places key/value pairs directly after the first
attribute named by --anchor. Existing attributes with an inserted key are
removed first, so repeating the command does not duplicate them. The command
fails if the anchor is missing.

With --stats-graphs the two value arguments become the "statistics" and
"graphs" attributes, inserted after "software".

Example:
  hicattr insert in.hic out.hic --anchor software note "re-normalized"
  hicattr insert in.hic out.hic --stats-graphs @stats.txt @graphs.txt`,
		Args: usageArgs(cobra.MinimumNArgs(4)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(cmd, args)
		},
	}
	cmd.Flags().StringVar(&insertAnchor, "anchor", hic.SoftwareKey, "Attribute to insert after")
	cmd.Flags().BoolVar(&insertStatsGraphs, "stats-graphs", false, "Take <statistics> <graphs> values instead of pairs")
	return cmd
}

func runInsert(cmd *cobra.Command, args []string) error {
	if !insertStatsGraphs {
		return runPairsOp(cmd, args, func(pairs []hic.Attribute) hic.Operation {
			return &hic.InsertAfterAnchor{Anchor: insertAnchor, Pairs: pairs}
		})
	}
	if len(args) != 4 {
		return &format.InvalidArgumentError{
			Arg:     "--stats-graphs",
			Message: "expected <in> <out> <statistics> <graphs>",
		}
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	stats, err := s.source.Resolve(args[2])
	if err != nil {
		return err
	}
	graphs, err := s.source.Resolve(args[3])
	if err != nil {
		return err
	}
	op := hic.InsertStatisticsAndGraphs(stats, graphs)
	if cmd.Flags().Changed("anchor") {
		op.Anchor = insertAnchor
	}
	return applyPlan(args[0], args[1], hic.Plan{op}, s.opts)
}

func newReplaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <in> <out> <key> <value|@file> [<key> <value|@file> ...]",
		Short: "Replace the values of existing attributes",
		Long: `The replace command sets the value of the first attribute with each
given key, keeping its position. It fails if a key is not present.

Example:
  hicattr replace in.hic out.hic software "juicer_tools 2.0"`,
		Args: usageArgs(cobra.MinimumNArgs(4)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPairsOp(cmd, args, func(pairs []hic.Attribute) hic.Operation {
				return &hic.ReplaceNamed{Pairs: pairs}
			})
		},
	}
}

func newReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <in> <out> <key> [<key> ...]",
		Short: "Reorder attributes by key",
		Long: `The reorder command moves the listed attributes into the listed order
within the positions they already occupy. Other attributes keep their place
and keys that are not present are ignored. Sizes never change, so the delta
is always zero.

Example:
  hicattr reorder in.hic out.hic graphs statistics`,
		Args: usageArgs(cobra.MinimumNArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return applyPlan(args[0], args[1], hic.Plan{&hic.Reorder{Keys: args[2:]}}, s.opts)
		},
	}
}

// runPairsOp handles the <in> <out> k v... commands.
func runPairsOp(cmd *cobra.Command, args []string, build func([]hic.Attribute) hic.Operation) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	pairs, err := s.source.ParsePairs(args[2:])
	if err != nil {
		return err
	}
	return applyPlan(args[0], args[1], hic.Plan{build(pairs)}, s.opts)
}

func applyPlan(in, out string, plan hic.Plan, opts hic.EditOptions) error {
	printVerbose("Reading %s\n", in)

	res, err := hic.EditFile(in, out, plan, &opts)
	if err != nil {
		if res != nil && res.Verify != nil {
			printVerify(res.Verify)
		}
		return err
	}

	if jsonOut {
		return printJSON(res)
	}
	printVerbose("  attributes:     %d\n", res.AttributeCount)
	printVerbose("  offsets moved:  %d\n", res.FieldsPatched)
	printVerbose("  master entries: %d\n", res.MasterEntries)
	printVerbose("  norm entries:   %d\n", res.NormEntries)
	printVerbose("  bytes written:  %d\n", res.BytesWritten)
	if res.Verify != nil {
		printVerbose("  verified:       %d offset field(s)\n", res.Verify.FieldsChecked)
	}
	printInfo("Wrote %s: %d attribute(s) changed, delta %d bytes\n", res.Output, res.Changed, res.Delta)
	return nil
}
