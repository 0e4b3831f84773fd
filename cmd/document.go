package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	collab "github.com/CMihai83/documentiulia.ro-sub034"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/config"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/server"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createDocCmd())
	rootCmd.AddCommand(getDocCmd())
	rootCmd.AddCommand(listDocCmd())
	rootCmd.AddCommand(lockDocCmd())
	rootCmd.AddCommand(unlockDocCmd())
	rootCmd.AddCommand(listDocVersionsCmd())
	rootCmd.AddCommand(restoreDocCmd())
}

// newClient builds a client against the configured server port using a
// freshly minted token. The CLI is a local operator tool; it signs its
// own credentials with the shared secret.
func newClient(userID string) *collab.Client {
	cnf := config.Load()
	token, err := server.MintToken(cnf.JWTSecret, userID, tokenTTL)
	if err != nil {
		logrus.Fatalf("error minting token: %v", err)
	}
	return collab.NewClient(cnf.HTTPPort, token)
}

func createDocCmd() *cobra.Command {
	var ownerID string
	var kind string
	var content string
	var tenantID string

	var required = []string{"owner-id", "kind"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a document",
		Long:    `create a document owned by the given user`,
		Example: "collab create -o <owner-id> -k invoice -c <content>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := newClient(ownerID)
			doc, err := client.CreateDocument(context.Background(), collab.CreateDocumentRequest{
				OwnerID:  ownerID,
				Kind:     kind,
				TenantID: tenantID,
				Content:  content,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Green("document created")
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Kind", "Version", "Owner"})
			table.Append([]string{doc.ID, doc.Kind, strconv.FormatInt(doc.Version, 10), doc.OwnerID})
			table.Render()
		},
	}

	command.Flags().StringVarP(&ownerID, "owner-id", "o", "", "owner user id (required)")
	command.Flags().StringVarP(&kind, "kind", "k", "", "document kind (required)")
	command.Flags().StringVarP(&content, "content", "c", "", "initial content")
	command.Flags().StringVarP(&tenantID, "tenant-id", "t", "", "tenant id")

	return command
}

func getDocCmd() *cobra.Command {
	var docID string
	var userID string

	var required = []string{"doc-id", "user-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a document",
		Example: "collab get -d <doc-id> -u <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := newClient(userID)
			doc, err := client.GetDocument(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Kind", "Version", "Owner", "Locked By"})
			table.Append([]string{doc.ID, doc.Kind, strconv.FormatInt(doc.Version, 10), doc.OwnerID, doc.LockedBy})
			table.Render()
			printField("Content", doc.Content)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "acting user id (required)")

	return command
}

func listDocCmd() *cobra.Command {
	var ownerID string
	var tenantID string
	var kind string
	var memberID string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list documents",
		Example: "collab list -o <owner-id> -k contract",
		Run: func(cmd *cobra.Command, args []string) {
			userID := ownerID
			if userID == "" {
				userID = memberID
			}

			client := newClient(userID)
			docs, err := client.ListDocuments(context.Background(), store.DocumentFilter{
				OwnerID:  ownerID,
				TenantID: tenantID,
				Kind:     kind,
				MemberID: memberID,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Kind", "Version", "Owner", "Updated"})
			for _, doc := range docs {
				table.Append([]string{doc.ID, doc.Kind, strconv.FormatInt(doc.Version, 10), doc.OwnerID, doc.UpdatedAt.Format("2006-01-02 15:04")})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&ownerID, "owner-id", "o", "", "filter by owner")
	command.Flags().StringVarP(&tenantID, "tenant-id", "t", "", "filter by tenant")
	command.Flags().StringVarP(&kind, "kind", "k", "", "filter by kind")
	command.Flags().StringVarP(&memberID, "member-id", "m", "", "filter by membership")

	return command
}

func lockDocCmd() *cobra.Command {
	var docID string
	var userID string

	var required = []string{"doc-id", "user-id"}

	command := &cobra.Command{
		Use:     "lock",
		Short:   "lock a document for exclusive editing",
		Example: "collab lock -d <doc-id> -u <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := newClient(userID)
			doc, err := client.LockDocument(context.Background(), docID, userID)
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Green("document locked by %s", doc.LockedBy)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "locking user id (required)")

	return command
}

func unlockDocCmd() *cobra.Command {
	var docID string
	var userID string

	var required = []string{"doc-id", "user-id"}

	command := &cobra.Command{
		Use:     "unlock",
		Short:   "release a document lock",
		Example: "collab unlock -d <doc-id> -u <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := newClient(userID)
			if _, err := client.UnlockDocument(context.Background(), docID, userID); err != nil {
				logrus.Error(err)
				return
			}

			color.Green("document unlocked")
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "holding user id (required)")

	return command
}

func listDocVersionsCmd() *cobra.Command {
	var docID string
	var userID string

	var required = []string{"doc-id", "user-id"}

	command := &cobra.Command{
		Use:     "versions",
		Short:   "list document version history",
		Example: "collab versions -d <doc-id> -u <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := newClient(userID)
			history, err := client.GetVersionHistory(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Version", "Created By", "Summary", "Created At"})
			for _, entry := range history {
				table.Append([]string{strconv.FormatInt(entry.Version, 10), entry.CreatedBy, entry.Summary, entry.CreatedAt.Format("2006-01-02 15:04")})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "acting user id (required)")

	return command
}

func restoreDocCmd() *cobra.Command {
	var docID string
	var userID string
	var version int64

	var required = []string{"doc-id", "user-id", "version"}

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore a document to an earlier version",
		Example: "collab restore -d <doc-id> -v 3 -u <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := newClient(userID)
			doc, err := client.RestoreVersion(context.Background(), docID, version, userID)
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Green("document restored, now at version %d", doc.Version)
			printField("Content", doc.Content)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "acting user id (required)")
	command.Flags().Int64VarP(&version, "version", "v", 0, "version to restore (required)")

	return command
}

func printField(name, value string) {
	if value == "" {
		return
	}
	color.Cyan("%s:", name)
	fmt.Println(value)
}

func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if cmd.Flag(required).Changed == false {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		cmd.Usage()

		return true
	}

	return false
}
