package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chapterize/internal/chapters"
	"chapterize/internal/detectcache"
	"chapterize/internal/finder"
	"chapterize/internal/logging"
	"chapterize/internal/media/ffmpeg"
	"chapterize/internal/media/ffprobe"
)

func newFindCommand(cmdCtx *commandContext) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "find <file>...",
		Short: "Detect chapter boundaries and write annotation files",
		Long: `Detect silences in each input file, group them into candidate chapter
boundaries, and write a <file>-chapters.txt annotation file next to the
input. Names entered into an earlier annotation file are preserved for
boundaries whose start offset did not move.

Review the annotation file, name the real boundaries (or mark false
positives as *spurious*), then run "chapterize split".`,
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

			ctx := runContext(cmd, "find")

			var cache finder.Cache
			if cfg.DetectionCache.Enabled && !noCache {
				opened, err := detectcache.Open(cfg.DetectionCache.Path)
				if err != nil {
					logger.Warn("detection cache unavailable", logging.Error(err))
				} else {
					defer opened.Close()
					cache = opened
				}
			}

			f := finder.New(cfg, logger,
				ffmpeg.NewClient(cfg.FFmpeg.Binary),
				cache,
				ffprobe.Inspect,
			)

			out := cmd.OutOrStdout()
			for _, input := range args {
				boundaries, err := f.Run(ctx, input)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s: %d candidate boundaries, annotations in %s\n",
					input, len(boundaries), chapters.FilePath(input))
				if len(boundaries) == 0 {
					continue
				}

				rows := make([][]string, 0, len(boundaries))
				for _, b := range boundaries {
					name := b.Name
					if name == "" {
						name = "(unnamed)"
					}
					rows = append(rows, []string{
						fmt.Sprintf("%.2f", b.Start),
						fmt.Sprintf("%.2f", b.Duration),
						fmt.Sprintf("%d", b.Intervals),
						name,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Start", "Gap", "Silences", "Name"}, rows, 1, 2, 3))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the silence detection cache for this run")
	return cmd
}
