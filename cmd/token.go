package cmd

import (
	"fmt"
	"time"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/config"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/server"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const tokenTTL = 24 * time.Hour

func init() {
	rootCmd.AddCommand(tokenCmd())
}

func tokenCmd() *cobra.Command {
	var userID string

	var required = []string{"user-id"}

	command := &cobra.Command{
		Use:     "token",
		Short:   "mint a bearer token for a user",
		Example: "collab token -u <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			cnf := config.Load()
			token, err := server.MintToken(cnf.JWTSecret, userID, tokenTTL)
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Green("token for %s (valid %s):", userID, tokenTTL)
			fmt.Println(token)
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id (required)")

	return command
}
