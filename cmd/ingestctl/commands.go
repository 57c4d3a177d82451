package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/umrah-docs-api/internal/config"
	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
	"github.com/BerylCAtieno/umrah-docs-api/internal/models"
)

type processOptions struct {
	preset    string
	mediaType string
	out       string
}

// processResult is what `process` prints. The embedded string itself only
// goes to --out.
type processResult struct {
	FileName    string             `json:"fileName"`
	FileSize    int64              `json:"fileSize"`
	FileType    string             `json:"fileType"`
	Category    string             `json:"category"`
	EmbeddedLen int                `json:"embeddedLength"`
	Limit       int                `json:"embeddedLimit"`
	Image       *ingest.ImageStats `json:"image,omitempty"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ingestctl",
		Short:        "Run the document upload pipeline on local files",
		SilenceUsage: true,
	}

	root.AddCommand(newProcessCmd(), newClassifyCmd())
	return root
}

func newProcessCmd() *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Validate and encode a file as it would be stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runProcess(cmd.OutOrStdout(), cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.preset, "preset", models.PresetDocument, "image preset (document or photo)")
	cmd.Flags().StringVar(&opts.mediaType, "type", "", "media type to declare instead of sniffing the file")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the full stored JSON, embedded data included, to this path")
	return cmd
}

func runProcess(w io.Writer, cfg *config.Config, path string, opts *processOptions) error {
	imageOpts, ok := cfg.Presets[opts.preset]
	if !ok {
		return fmt.Errorf("unknown preset %q", opts.preset)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	mediaType := opts.mediaType
	if mediaType == "" {
		mediaType = ingest.SniffMediaType(data)
	}

	pipeline := ingest.New(cfg.Budget)
	doc, err := pipeline.Process(ingest.UploadCandidate{
		Data:      data,
		MediaType: mediaType,
		Name:      filepath.Base(path),
	}, imageOpts)
	if err != nil {
		return err
	}

	if opts.out != "" {
		full, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.out, full, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.out, err)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(processResult{
		FileName:    doc.FileName,
		FileSize:    doc.FileSize,
		FileType:    doc.FileType,
		Category:    doc.Category.String(),
		EmbeddedLen: len(doc.Embedded),
		Limit:       pipeline.Budget().MaxEmbeddedLen,
		Image:       doc.Image,
	})
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <media-type>",
		Short: "Print the upload category of a media type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := ingest.Classify(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), category.String())
			if category == ingest.CategoryUnknown {
				return fmt.Errorf("media type %q is not accepted", args[0])
			}
			return nil
		},
	}
}
