package cmd

import (
	"github.com/CMihai83/documentiulia.ro-sub034/internal/config"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			cnf := config.Load()
			db, err := store.Open(cnf.DBDriver, cnf.DBDSN)
			if err != nil {
				panic(err)
			}
			if err := model.Migrate(db); err != nil {
				panic(err)
			}
		},
	}

	return command
}
