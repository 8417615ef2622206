package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/davarch/jenkins-helper/internal/application"
	"github.com/davarch/jenkins-helper/internal/infrastructure/config"
	"github.com/davarch/jenkins-helper/internal/infrastructure/git_cli"
	"github.com/davarch/jenkins-helper/internal/infrastructure/logging"
	"github.com/spf13/cobra"
)

var (
	lastEnv  string
	lastJob  string
	lastJSON bool
)

var lastCmd = &cobra.Command{
	Use:   "last [project]",
	Short: "Show a job's most recent build",
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
		jobURL, _, err := chooseJob(cmd.Context(), resolver, project, sess, lastEnv, lastJob)
		if err != nil {
			return err
		}

		detail, err := gw.LastBuild(cmd.Context(), jobURL)
		if err != nil {
			return fmt.Errorf("fetch last build: %w", err)
		}
		build := detail.Summarize()

		if lastJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(build)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "BUILD\t#%d\n", build.Number)
		_, _ = fmt.Fprintf(w, "RESULT\t%s\n", build.Result)
		if build.Builder != "" {
			_, _ = fmt.Fprintf(w, "BUILDER\t%s\n", build.Builder)
		}
		if build.Branch != "" {
			_, _ = fmt.Fprintf(w, "BRANCH\t%s\n", build.Branch)
		}
		if build.Timestamp > 0 {
			_, _ = fmt.Fprintf(w, "STARTED\t%s\n", time.UnixMilli(build.Timestamp).Format(time.RFC3339))
		}
		_, _ = fmt.Fprintf(w, "URL\t%s\n", build.URL)
		return w.Flush()
	},
}

func init() {
	lastCmd.Flags().StringVar(&lastEnv, "env", "", "environment label")
	lastCmd.Flags().StringVar(&lastJob, "job-url", "", "job URL, bypassing environment resolution")
	lastCmd.Flags().BoolVar(&lastJSON, "json", false, "print JSON")
	rootCmd.AddCommand(lastCmd)
}
