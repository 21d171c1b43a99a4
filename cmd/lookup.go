package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"campusctl/core/controller"
	"campusctl/core/reconcile"
	"campusctl/feature/inventory"

	"github.com/spf13/cobra"
)

// lookupCmd resolves a selector to at most one controller object.
var lookupCmd = &cobra.Command{
	Use:   "lookup <kind> <key=value>...",
	Short: "Resolve a selector against the controller",
	Long: `Lookup resolves the given key=value pairs as a compound selector and
prints the single matching object as JSON.

Exit status is non-zero when nothing matches or when the selector is
ambiguous.

Examples:
  campusctl lookup site name=HQ
  campusctl lookup device esn=21500102351GJC002356
  campusctl lookup site address=Amiens city=Amiens`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLookup,
}

func init() {
	RootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	kind, err := controller.ParseKind(args[0])
	if err != nil {
		return err
	}

	selector := make(reconcile.Selector)
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid selector term %q, expected key=value", arg)
		}
		selector[key] = value
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	client, cleanup, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := inventory.NewService(client, s.logger).Lookup(ctx, kind, selector)
	if err != nil {
		return err
	}
	if !result.Found {
		return fmt.Errorf("no %s matches the selector", kind)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Object)
}
