package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
	"github.com/OpenTraceLab/OpenTraceCAM/pkg/export"
)

var infoCmd = &cobra.Command{
	Use:   "info <design-file>",
	Short: "Show a design summary and the files an export would write",
	Long: `Parse a design and display its board dimensions, component, placement and
net counts, placements whose component is unknown, net connections that name
an unplaced instance, and the artifacts an export would produce.

Examples:
  otcam info blinky.cs
  otcam info -o fab board.kicad_pcb`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"output directory used for the artifact plan")
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	b, err := loadBoard(filename, logger)
	if err != nil {
		return err
	}
	defer b.Release()

	exportCfg := cfg.ExportOptions(logger)
	if outputDir != "" {
		exportCfg.OutputDir = outputDir
	}
	plan, err := export.Plan(b, exportCfg)
	if err != nil {
		return err
	}

	printBoard(cmd.OutOrStdout(), b, plan)
	return nil
}

func printBoard(out io.Writer, b *board.Board, plan []export.Artifact) {
	name := b.Name
	if name == "" {
		name = "(unnamed)"
	}

	fmt.Fprintf(out, "Board: %s\n", name)
	fmt.Fprintf(out, "  Size:       %.3f x %.3f mm\n", b.Width, b.Height)
	fmt.Fprintf(out, "  Layers:     %d\n", b.Layers)
	fmt.Fprintf(out, "  Components: %d\n", b.Components.Len())
	fmt.Fprintf(out, "  Placements: %d\n", b.Placements.Len())
	fmt.Fprintf(out, "  Nets:       %d\n", b.Nets.Len())
	fmt.Fprintln(out)

	if unresolved := b.UnresolvedPlacements(); len(unresolved) > 0 {
		fmt.Fprintf(out, "Unresolved placements: %d\n", len(unresolved))
		for _, p := range unresolved {
			fmt.Fprintf(out, "  %-10s -> %s\n", p.Ref, p.ComponentName)
		}
		fmt.Fprintln(out)
	}

	if dangling := b.DanglingConnections(); len(dangling) > 0 {
		nets := make([]string, 0, len(dangling))
		for net := range dangling {
			nets = append(nets, net)
		}
		sort.Strings(nets)

		fmt.Fprintf(out, "Dangling connections:\n")
		for _, net := range nets {
			for _, ref := range dangling[net] {
				fmt.Fprintf(out, "  %-10s %s.%s\n", net, ref.Instance, ref.PinName)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Artifacts:\n")
	for _, a := range plan {
		fmt.Fprintf(out, "  %-18s %s\n", a.Kind, a.Path)
	}
}
