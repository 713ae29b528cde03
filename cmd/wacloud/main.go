// Command wacloud sends WhatsApp messages, manages media and serves webhooks
// from the command line.
package main

import (
	"os"

	"github.com/Abraxas-365/wacloud/errx/errxcobra"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	envFile    string
	configFile string
	jsonOutput bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	cli := errxcobra.NewCLI(errxcobra.DefaultOptions())

	root := &cobra.Command{
		Use:           "wacloud",
		Short:         "WhatsApp Business Cloud API client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if flags.verbose {
				logx.SetLevel(logx.DebugLevel)
			}
			if flags.jsonOutput {
				cli.SetFormat(errxcobra.OutputFormatJSON)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file with WHATSAPP_* settings")
	pf.StringVar(&flags.configFile, "config", "", "optional JSON configuration file")
	pf.BoolVar(&flags.jsonOutput, "json", false, "print errors as JSON")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	env := &environment{flags: &flags, cli: cli}
	root.AddCommand(
		newSendCmd(env),
		newReadCmd(env),
		newMediaCmd(env),
		newWebhookCmd(env),
		newServeCmd(env),
	)
	return root
}
