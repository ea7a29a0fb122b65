package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/confctl/confctl/internal/fileeditor"
	"github.com/confctl/confctl/pkg/log"
)

var editAddr string

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Serve the file-editor HTTP API over a scenario template root",
	Long: `Edit starts the peripheral file-editor HTTP service, confined to
the directory given by --dir, for browsing and editing scenario template
files outside the batch generation pipeline.

Example:
  confctl edit --dir ./scenario/base --addr :8000`,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVarP(&workDir, "dir", "w", ".", "root directory served by the file editor")
	editCmd.Flags().StringVar(&editAddr, "addr", ":8000", "address to listen on")
}

var workDir string

func runEdit(_ *cobra.Command, _ []string) error {
	srv, err := fileeditor.New(workDir)
	if err != nil {
		return fmt.Errorf("starting file editor: %w", err)
	}

	log.WithField("root", srv.Root).Infof("file editor listening on %s", editAddr)
	return http.ListenAndServe(editAddr, srv.Handler())
}
