package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davarch/jenkins-helper/internal/application"
	"github.com/davarch/jenkins-helper/internal/domain"
	"github.com/davarch/jenkins-helper/internal/infrastructure/git_cli"
	"github.com/davarch/jenkins-helper/internal/infrastructure/logging"
	"github.com/spf13/cobra"
)

var (
	branchesNoFetch bool
	branchesJSON    bool
)

var branchesCmd = &cobra.Command{
	Use:   "branches [path]",
	Short: "List origin branches of a repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		log := logging.New()
		defer func() { _ = log.Sync() }()

		flag := ""
		if len(args) == 1 {
			flag = args[0]
		}
		root, err := resolveRepoRoot(flag)
		if err != nil {
			return err
		}

		// Branch resolution needs no Jenkins connection.
		resolver := application.NewResolver(nil, git_cli.New(), log)
		info := resolver.ResolveBranches(cmd.Context(), root, !branchesNoFetch)

		if branchesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Current  string                `json:"current,omitempty"`
				Branches []domain.BranchOption `json:"branches"`
			}{info.Current, info.Branches})
		}

		if info.Current != "" {
			fmt.Println("current:", info.Current)
		}
		if len(info.Branches) == 0 {
			fmt.Println("no origin branches found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "BRANCH\tREF")
		for _, b := range info.Branches {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", b.Label, b.Ref)
		}
		return w.Flush()
	},
}

func init() {
	branchesCmd.Flags().BoolVar(&branchesNoFetch, "no-fetch", false, "skip 'git fetch --prune'")
	branchesCmd.Flags().BoolVar(&branchesJSON, "json", false, "print JSON")
	rootCmd.AddCommand(branchesCmd)
}
