package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Start() {
	cfg := newCfg("env")
	slog.SetLogLoggerLevel(slog.Level(cfg.GetInt("log.level")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var inspectURL, inspectFile string

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the events document once and print its seat maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectCmd(ctx, cfg, inspectURL, inspectFile)
		},
	}
	inspectCmd.Flags().StringVar(&inspectURL, "url", "", "events source base URL (defaults to source.base_url)")
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "read the events document from a local file instead")

	rootCmd := &cobra.Command{}
	cmd := []*cobra.Command{
		{
			Use:   "serve-http",
			Short: "Run HTTP server",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
		},
		{
			Use:   "serve-queue:refresh",
			Short: "Run queue refresh server",
			Run: func(cmd *cobra.Command, args []string) {
				runQueueRefreshCmd(ctx)
			},
		},
		inspectCmd,
		{
			Use:   "dev",
			Short: "Run dev server, for testing purpose",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
			PreRun: func(cmd *cobra.Command, args []string) {
				go func() {
					runQueueRefreshCmd(ctx)
				}()
			},
		},
	}

	rootCmd.AddCommand(cmd...)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
