package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davarch/jenkins-helper/internal/application"
	"github.com/davarch/jenkins-helper/internal/infrastructure/config"
	"github.com/davarch/jenkins-helper/internal/infrastructure/git_cli"
	"github.com/davarch/jenkins-helper/internal/infrastructure/logging"
	"github.com/spf13/cobra"
)

var envsJSON bool

var envsCmd = &cobra.Command{
	Use:   "envs [project]",
	Short: "List Jenkins environments that build a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		log := logging.New()
		defer func() { _ = log.Sync() }()

		settings := config.LoadSettings(cfgPath)
		gw, sess, err := connect(log, settings)
		if err != nil {
			return err
		}

		root, err := resolveRepoRoot("")
		if err != nil {
			return err
		}
		project := resolveProject(root, "")
		if len(args) == 1 {
			project = args[0]
		}

		resolver := application.NewResolver(gw, git_cli.New(), log)
		targets := resolver.ResolveEnvironments(cmd.Context(), project)

		if envsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(targets)
		}

		if len(targets) == 0 {
			fmt.Printf("no environments found for %q\n", project)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ENV\tJOB URL\tDEFAULT")
		for _, t := range targets {
			def := ""
			if sess.DefaultEnv != "" && t.Label == sess.DefaultEnv {
				def = "*"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", t.Label, t.URL, def)
		}
		return w.Flush()
	},
}

func init() {
	envsCmd.Flags().BoolVar(&envsJSON, "json", false, "print JSON")
	rootCmd.AddCommand(envsCmd)
}
