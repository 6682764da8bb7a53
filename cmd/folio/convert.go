// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/folio/internal/convert"
	"github.com/pdiddy/folio/internal/progress"
	"github.com/pdiddy/folio/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a document and print its preview",
	Long: `Convert extracts the text of a PDF, EPUB, or plain text file and prints
the preview for the target format on stdout. With --out or --out-dir the
generated artifact (PDF, EPUB, or text file) is written to disk as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("to", string(types.FormatMarkdown), "target format: markdown, text, html, json, pdf, epub")
	convertCmd.Flags().String("out", "", "write the generated artifact to this path")
	convertCmd.Flags().String("out-dir", "", "write the generated artifact into this directory as <title>.<ext>")
	convertCmd.Flags().Bool("quiet", false, "do not print the preview")
	convertCmd.MarkFlagsMutuallyExclusive("out", "out-dir")

	rootCmd.AddCommand(convertCmd)
}

// progressLogger reports session progress at debug level.
type progressLogger struct {
	logger *zap.Logger
}

func (p progressLogger) SetProgress(v int) {
	p.logger.Debug("progress", zap.Int("percent", v))
}

func runConvert(cmd *cobra.Command, args []string) error {
	to, _ := cmd.Flags().GetString("to")
	out, _ := cmd.Flags().GetString("out")
	outDir, _ := cmd.Flags().GetString("out-dir")
	quiet, _ := cmd.Flags().GetBool("quiet")

	target, err := types.ParseFormat(to)
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sig := &progress.Signal{}
	detach := progress.Attach(sig, progressLogger{logger: logger})
	defer detach()

	session := convert.NewSession(convert.NewDefaultPipeline(appConfig, logger), sig, logger)
	session.Load(types.InputDocument{
		Data:     data,
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
		FileName: filepath.Base(path),
	})

	preview, err := session.Convert(cmd.Context(), target)
	if err != nil {
		return err
	}
	if convert.IsError(preview) {
		return fmt.Errorf("converting %s: %s", path, preview[len(convert.ErrorPrefix):])
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), preview)
	}

	if out == "" && outDir == "" {
		return nil
	}

	d, err := session.Download(cmd.Context())
	if err != nil {
		return err
	}
	if out == "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", outDir, err)
		}
		out = filepath.Join(outDir, d.FileName)
	}
	if err := os.WriteFile(out, d.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", out, len(d.Data))
	return nil
}
