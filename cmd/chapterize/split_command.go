package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"chapterize/internal/splitter"
)

func newSplitCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		outputDir    string
		title        string
		extension    string
		keepPreamble bool
		commands     string
	)

	cmd := &cobra.Command{
		Use:   "split <file>...",
		Short: "Extract chapter files from annotated inputs",
		Long: `Split the input files into per-chapter audio files using the boundaries
named in each file's annotation file. Files are processed in argument
order; a chapter whose closing boundary lies in a later file is cut from
both and joined losslessly.

With --commands the run writes two shell scripts instead of touching any
audio: <prefix>-1-cut extracts the segments and <prefix>-2-concat joins
the multi-segment chapters.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.newLogger(cfg)
			if err != nil {
				return err
			}

			ctx := runContext(cmd, "split")

			if outputDir == "" {
				outputDir = cfg.Paths.OutputDir
			}

			s := splitter.New(cfg, logger)
			results, err := s.Run(ctx, args, splitter.Options{
				OutputDir:      outputDir,
				Title:          title,
				Extension:      extension,
				KeepPreamble:   keepPreamble,
				CommandsPrefix: commands,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					fmt.Sprintf("%d", r.Number),
					r.Name,
					filepath.Base(r.File),
					fmt.Sprintf("%d", r.Segments),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Chapter", "File", "Segments"}, rows, 1, 4))
			if commands != "" {
				fmt.Fprintf(out, "Commands written to %s-1-cut and %s-2-concat\n", commands, commands)
			} else {
				fmt.Fprintf(out, "Wrote %d chapters to %s\n", len(results), outputDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for chapter files (default: configured output_dir)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Album title for chapter metadata (default: configured title)")
	cmd.Flags().StringVar(&extension, "extension", "", "Output extension (default: the source file's extension)")
	cmd.Flags().BoolVar(&keepPreamble, "keep-preamble", false, "Keep the audio before the first boundary as chapter zero")
	cmd.Flags().StringVar(&commands, "commands", "", "Record commands to <prefix>-1-cut and <prefix>-2-concat instead of running them")

	return cmd
}
