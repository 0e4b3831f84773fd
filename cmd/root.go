package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "collab",
	Short: "collaborative document tool",
	Example: `collab serve
collab create -o <owner-id> -k <kind> -c <content>
collab get -d <doc-id>
collab list -o <owner-id>
collab lock -d <doc-id> -u <user-id>
collab versions -d <doc-id>
collab restore -d <doc-id> -v <version> -u <user-id>
collab token -u <user-id>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
