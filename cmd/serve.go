package cmd

import (
	"github.com/CMihai83/documentiulia.ro-sub034/internal/config"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd())
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "start the collaboration server",
		Run: func(cmd *cobra.Command, args []string) {
			cnf := config.Load()
			server.NewServer(cnf.HTTPPort).Start()
		},
	}
}
