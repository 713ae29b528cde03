package main

import (
	"io"
	"os"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/msgx"
	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
	"github.com/spf13/cobra"
)

func newWebhookCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Check handshakes and parse notification payloads offline",
	}

	verify := &cobra.Command{
		Use:   "verify <mode> <token> <challenge>",
		Short: "Run the subscription handshake against WHATSAPP_VERIFY_TOKEN",
		Args:  cobra.ExactArgs(3),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			cfg, err := env.config()
			if err != nil {
				return err
			}
			challenge, ok := msgxwhatsapp.VerifyWebhook(args[0], args[1], args[2], cfg.Get(keyVerifyToken).AsString())
			if !ok {
				return msgx.Registry.New(msgx.ErrWebhookVerificationFailed)
			}
			printOK(cmd.OutOrStdout(), "verified, challenge %s", challenge)
			return nil
		}),
	}

	var signature string
	parse := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Normalize a notification payload and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			payload, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if signature != "" {
				cfg, err := env.config()
				if err != nil {
					return err
				}
				if err := msgxwhatsapp.VerifySignature(cfg.Get(keyAppSecret).AsString(), signature, payload); err != nil {
					return err
				}
			}
			result, err := msgxwhatsapp.HandleWebhook(payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	parse.Flags().StringVar(&signature, "signature", "", "X-Hub-Signature-256 value to check against WHATSAPP_APP_SECRET")

	cmd.AddCommand(verify, parse)
	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errx.Wrap(err, "cannot read payload", errx.TypeValidation).WithDetail("file", name)
	}
	return data, nil
}
