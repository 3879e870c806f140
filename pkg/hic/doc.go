/*
Package hic edits the attribute block of .hic contact-matrix files.

The payload of a .hic file can be many gigabytes and is never loaded into
memory. An edit reads the header, applies one or more attribute operations,
and streams a new file whose every stored absolute offset (footer position,
master index entries, normalization-vector index and its entries) has been
shifted by the size change of the attribute block.

# Quick Start

Insert statistics and graphs after the software attribute:

	plan := hic.Plan{hic.InsertStatisticsAndGraphs(stats, graphs)}
	res, err := hic.EditFile("in.hic", "out.hic", plan, nil)

Append attributes, reading one value from a file:

	src := hic.Source{}
	pairs, err := src.ParsePairs([]string{"software", "juicer_tools 2.0", "notes", "@notes.txt"})
	res, err := hic.EditFile("in.hic", "out.hic", hic.Plan{&hic.Append{Pairs: pairs}}, nil)

# Output Safety

The destination is written through a temp file in the same directory and
renamed into place only after the edit, including offset patching, has
completed. A failed run leaves no file at the destination. The input is
never modified and must be a different file from the output.
*/
package hic
