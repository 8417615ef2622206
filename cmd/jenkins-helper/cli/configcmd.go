package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davarch/jenkins-helper/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the Jenkins connection",
}

var (
	setURL        string
	setUsername   string
	setToken      string
	setWebhook    string
	setDefaultEnv string
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save connection settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := config.LoadSession(sessionPath)

		if cmd.Flags().Changed("url") {
			sess.URL = setURL
		}
		if cmd.Flags().Changed("username") {
			sess.Username = setUsername
		}
		if cmd.Flags().Changed("token") {
			sess.Token = setToken
		}
		if cmd.Flags().Changed("webhook") {
			sess.Webhook = setWebhook
		}
		if cmd.Flags().Changed("default-env") {
			sess.DefaultEnv = setDefaultEnv
		}

		if err := config.SaveSession(sessionPath, sess); err != nil {
			return err
		}
		fmt.Println("saved")
		return nil
	},
}

var configShowJSON bool

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show connection settings (token masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := config.LoadSession(sessionPath)
		sess.Token = maskToken(sess.Token)

		if configShowJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sess)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "URL\t%s\n", sess.URL)
		_, _ = fmt.Fprintf(w, "USERNAME\t%s\n", sess.Username)
		_, _ = fmt.Fprintf(w, "TOKEN\t%s\n", sess.Token)
		_, _ = fmt.Fprintf(w, "WEBHOOK\t%s\n", sess.Webhook)
		_, _ = fmt.Fprintf(w, "DEFAULT ENV\t%s\n", sess.DefaultEnv)
		return w.Flush()
	},
}

var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearSession(sessionPath); err != nil {
			return err
		}
		fmt.Println("cleared")
		return nil
	},
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}

func init() {
	configSetCmd.Flags().StringVar(&setURL, "url", "", "jenkins base URL")
	configSetCmd.Flags().StringVar(&setUsername, "username", "", "jenkins username")
	configSetCmd.Flags().StringVar(&setToken, "token", "", "jenkins API token")
	configSetCmd.Flags().StringVar(&setWebhook, "webhook", "", "webhook URL notified on build completion")
	configSetCmd.Flags().StringVar(&setDefaultEnv, "default-env", "", "environment used when --env is omitted")

	configCmd.AddCommand(configSetCmd, configShowCmd, configClearCmd)
	rootCmd.AddCommand(configCmd)
}
