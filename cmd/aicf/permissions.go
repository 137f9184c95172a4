package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/permission"
)

func init() {
	rootCmd.AddCommand(permissionsCmd)
	permissionsCmd.AddCommand(permissionsListCmd)
	permissionsCmd.AddCommand(permissionsGrantCmd)
	permissionsCmd.AddCommand(permissionsRevokeCmd)
}

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Inspect and mutate .permissions.aicf",
}

var permissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the append-only grant/revoke audit trail",
	RunE:  runPermissionsList,
}

var permissionsGrantCmd = &cobra.Command{
	Use:   "grant <source>",
	Short: "Grant a source permission to be read",
	Args:  cobra.ExactArgs(1),
	RunE:  runPermissionsGrant,
}

var permissionsRevokeCmd = &cobra.Command{
	Use:   "revoke <source>",
	Short: "Revoke a source's permission to be read",
	Args:  cobra.ExactArgs(1),
	RunE:  runPermissionsRevoke,
}

func permissionsStore() (*permission.Store, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	return permission.Open(filepath.Join(root, ".aicf")), nil
}

func parseSourceArg(raw string) (aicf.Source, error) {
	src := aicf.Source(raw)
	if !src.Valid() {
		return "", fmt.Errorf("unknown source %q (known: %v)", raw, aicf.KnownSources)
	}
	return src, nil
}

func runPermissionsList(cmd *cobra.Command, args []string) error {
	store, err := permissionsStore()
	if err != nil {
		return err
	}
	records, err := store.List()
	if err != nil {
		return fmt.Errorf("reading permissions: %w", err)
	}
	for _, r := range records {
		cmd.Printf("%s\t%s\t%s\n", r.Timestamp.Format("2006-01-02T15:04:05Z07:00"), r.Action, r.Source)
	}
	return nil
}

func runPermissionsGrant(cmd *cobra.Command, args []string) error {
	src, err := parseSourceArg(args[0])
	if err != nil {
		return err
	}
	store, err := permissionsStore()
	if err != nil {
		return err
	}
	if err := store.Grant(src); err != nil {
		return fmt.Errorf("granting %s: %w", src, err)
	}
	cmd.Printf("Granted %s\n", src)
	return nil
}

func runPermissionsRevoke(cmd *cobra.Command, args []string) error {
	src, err := parseSourceArg(args[0])
	if err != nil {
		return err
	}
	store, err := permissionsStore()
	if err != nil {
		return err
	}
	if err := store.Revoke(src); err != nil {
		return fmt.Errorf("revoking %s: %w", src, err)
	}
	cmd.Printf("Revoked %s\n", src)
	return nil
}
