package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emotiquest/emotiquest/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()
		d.withInsight(cmd)

		addr := d.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(d.store, server.Options{
			Insight: d.insight,
			Log:     d.log,
			Version: version,
		})
		return srv.ListenAndServe(ctx, addr, d.cfg.Server.ReadTimeout, d.cfg.Server.WriteTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr and EMOTIQUEST_ADDR)")
}
