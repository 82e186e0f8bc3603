package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
	"github.com/r3d91ll/scriptpdf/pkg/spinner"
	"github.com/r3d91ll/scriptpdf/pkg/stats"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output      string
		backendName string
	)
	cmd := &cobra.Command{
		Use:   "export <lesson>",
		Short: "Render one lesson file",
		Long: "Render one lesson file. With -o the report is written to that path;\n" +
			"otherwise it goes to the configured sink.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			exp, cleanup, err := a.exporter(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			l, err := lesson.LoadFile(args[0])
			if err != nil {
				return err
			}
			l.Project.DefaultID(lesson.FileID(args[0]))

			spin := spinner.NewWithConfig(spinner.Config{Message: "Rendering " + filepath.Base(args[0]), Writer: cmd.ErrOrStderr()})
			spin.Start()

			res, err := exp.Render(ctx, l, backendName)
			if err == nil {
				if output != "" {
					if err = os.WriteFile(output, res.Data, 0644); err != nil {
						err = rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to write report").WithContext("path", output)
					} else {
						res.Location = output
						exp.Completed(res)
					}
				} else {
					err = exp.Save(ctx, res)
				}
			}
			if err != nil {
				spin.Fail("Export failed")
				return err
			}
			spin.Success(fmt.Sprintf("%s: %d pages → %s", res.Title, res.Pages, res.Location))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file")
	cmd.Flags().StringVar(&backendName, "backend", "", "render backend (pdf, text)")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		outDir      string
		backendName string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "batch <lesson>...",
		Short: "Render many lesson files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir != "" {
				a.cfg.Export.OutputDir = outDir
				a.cfg.Storage.Sink = "local"
			}

			spin := spinner.NewWithConfig(spinner.Config{
				Message: "Exporting lessons",
				Total:   len(args),
				Writer:  cmd.ErrOrStderr(),
			})

			ctx := cmd.Context()
			exp, cleanup, err := a.exporter(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			spin.Start()
			items, err := exp.Batch(ctx, args, backendName, concurrency)
			for _, it := range items {
				if it.Result != nil || it.Err != nil {
					spin.Step(it.Path, it.Err)
				}
			}
			done, failed := spin.Counts()
			if err != nil {
				spin.Fail("Batch cancelled")
				return err
			}
			if failed > 0 {
				spin.Fail(fmt.Sprintf("%d of %d lessons failed", failed, done))
				for _, it := range items {
					if it.Err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s", it.Path, rerrors.Sprint(it.Err))
					}
				}
				return fmt.Errorf("%d lessons failed", failed)
			}
			spin.Success(fmt.Sprintf("Exported %d lessons", done))
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write reports to this directory")
	cmd.Flags().StringVar(&backendName, "backend", "", "render backend (pdf, text)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel exports (default from config)")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats <lesson>",
		Short: "Print lesson statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lesson.LoadFile(args[0])
			if err != nil {
				return err
			}
			agg := stats.Compute(&l.Project, l.Slides)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(agg)
			}

			fmt.Fprintf(out, "Slides:            %d\n", agg.SlideCount)
			fmt.Fprintf(out, "Speakers:          %d\n", agg.SpeakerCount)
			fmt.Fprintf(out, "Total duration:    %gs\n", agg.TotalDuration)
			fmt.Fprintf(out, "Average duration:  %.1fs\n", agg.AverageDuration)
			fmt.Fprintf(out, "Complex slides:    %d\n", agg.ComplexSlides)
			fmt.Fprintf(out, "Visual functions:  %v\n", agg.UniqueVisualFunctions)
			for _, row := range agg.SpeakerBreakdown {
				fmt.Fprintf(out, "  %-16s %3d  %5.1f%%\n", l.Project.ResolveSpeaker(row.Speaker), row.Count, row.Percentage)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <lesson>",
		Short: "Print the text layout listing of a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lesson.LoadFile(args[0])
			if err != nil {
				return err
			}
			exp, cleanup, err := a.exporter(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := exp.Render(cmd.Context(), l, "text")
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(res.Data)
			return err
		},
	}
}
