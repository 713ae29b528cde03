package main

import (
	"encoding/json"
	"strconv"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
	"github.com/spf13/cobra"
)

type sendFlags struct {
	replyTo    string
	previewURL bool
}

func (f *sendFlags) options() []msgxwhatsapp.SendOption {
	var opts []msgxwhatsapp.SendOption
	if f.replyTo != "" {
		opts = append(opts, msgxwhatsapp.WithReplyTo(f.replyTo))
	}
	if f.previewURL {
		opts = append(opts, msgxwhatsapp.WithPreviewURL())
	}
	return opts
}

func newSendCmd(env *environment) *cobra.Command {
	var flags sendFlags
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message",
	}
	cmd.PersistentFlags().StringVar(&flags.replyTo, "reply-to", "", "message id to quote")

	text := &cobra.Command{
		Use:   "text <to> <body>",
		Short: "Send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			return sendWith(env, cmd, func(c *msgxwhatsapp.Client) (*msgxwhatsapp.SendResponse, error) {
				return c.SendText(cmd.Context(), args[0], args[1], flags.options()...)
			})
		}),
	}
	text.Flags().BoolVar(&flags.previewURL, "preview-url", false, "render a preview of the first URL")

	cmd.AddCommand(
		text,
		newSendMediaCmd(env, &flags, msgxwhatsapp.TypeImage),
		newSendMediaCmd(env, &flags, msgxwhatsapp.TypeVideo),
		newSendMediaCmd(env, &flags, msgxwhatsapp.TypeAudio),
		newSendMediaCmd(env, &flags, msgxwhatsapp.TypeDocument),
		newSendMediaCmd(env, &flags, msgxwhatsapp.TypeSticker),
		newSendLocationCmd(env, &flags),
		newSendButtonsCmd(env, &flags),
		newSendListCmd(env, &flags),
		newSendTemplateCmd(env, &flags),
		newSendReactionCmd(env),
	)
	return cmd
}

func sendWith(env *environment, cmd *cobra.Command, send func(*msgxwhatsapp.Client) (*msgxwhatsapp.SendResponse, error)) error {
	client, err := env.client()
	if err != nil {
		return err
	}
	resp, err := send(client)
	if err != nil {
		return err
	}
	printSent(cmd.OutOrStdout(), resp)
	return nil
}

func newSendMediaCmd(env *environment, flags *sendFlags, kind msgxwhatsapp.MessageType) *cobra.Command {
	var media msgxwhatsapp.Media
	cmd := &cobra.Command{
		Use:   string(kind) + " <to>",
		Short: "Send " + string(kind) + " by uploaded media id or public link",
		Args:  cobra.ExactArgs(1),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			return sendWith(env, cmd, func(c *msgxwhatsapp.Client) (*msgxwhatsapp.SendResponse, error) {
				ctx, to := cmd.Context(), args[0]
				switch kind {
				case msgxwhatsapp.TypeImage:
					return c.SendImage(ctx, to, media, flags.options()...)
				case msgxwhatsapp.TypeVideo:
					return c.SendVideo(ctx, to, media, flags.options()...)
				case msgxwhatsapp.TypeAudio:
					return c.SendAudio(ctx, to, media, flags.options()...)
				case msgxwhatsapp.TypeDocument:
					return c.SendDocument(ctx, to, media, flags.options()...)
				default:
					return c.SendSticker(ctx, to, media, flags.options()...)
				}
			})
		}),
	}
	cmd.Flags().StringVar(&media.ID, "id", "", "uploaded media id")
	cmd.Flags().StringVar(&media.Link, "link", "", "public media URL")
	switch kind {
	case msgxwhatsapp.TypeImage, msgxwhatsapp.TypeVideo:
		cmd.Flags().StringVar(&media.Caption, "caption", "", "caption")
	case msgxwhatsapp.TypeDocument:
		cmd.Flags().StringVar(&media.Caption, "caption", "", "caption")
		cmd.Flags().StringVar(&media.Filename, "filename", "", "file name shown to the recipient")
	}
	return cmd
}

func newSendLocationCmd(env *environment, flags *sendFlags) *cobra.Command {
	var loc msgxwhatsapp.Location
	cmd := &cobra.Command{
		Use:   "location <to> <latitude> <longitude>",
		Short: "Send a location pin",
		Args:  cobra.ExactArgs(3),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			var err error
			if loc.Latitude, err = parseCoordinate("latitude", args[1]); err != nil {
				return err
			}
			if loc.Longitude, err = parseCoordinate("longitude", args[2]); err != nil {
				return err
			}
			return sendWith(env, cmd, func(c *msgxwhatsapp.Client) (*msgxwhatsapp.SendResponse, error) {
				return c.SendLocation(cmd.Context(), args[0], loc, flags.options()...)
			})
		}),
	}
	cmd.Flags().StringVar(&loc.Name, "name", "", "place name")
	cmd.Flags().StringVar(&loc.Address, "address", "", "place address")
	return cmd
}

func parseCoordinate(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errx.New(name+" must be a number", errx.TypeValidation).WithDetail("value", s)
	}
	return v, nil
}

func newSendButtonsCmd(env *environment, flags *sendFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "buttons <to> <body> <title>...",
		Short: "Send reply buttons",
		Args:  cobra.MinimumNArgs(3),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			return sendWith(env, cmd, func(c *msgxwhatsapp.Client) (*msgxwhatsapp.SendResponse, error) {
				return c.SendInteractiveButtons(cmd.Context(), args[0], args[1], args[2:], flags.options()...)
			})
		}),
	}
}

func newSendListCmd(env *environment, flags *sendFlags) *cobra.Command {
	var sectionsJSON string
	cmd := &cobra.Command{
		Use:   "list <to> <body> <button-text>",
		Short: "Send a list message",
		Example: `  wacloud send list 15551234567 "Pick a slot" "Slots" \
    --sections '[{"title":"Monday","rows":[{"id":"mon-9","title":"9:00"}]}]'`,
		Args: cobra.ExactArgs(3),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			var sections []msgxwhatsapp.ListSection
			if err := json.Unmarshal([]byte(sectionsJSON), &sections); err != nil {
				return errx.Wrap(err, "sections must be a JSON array", errx.TypeValidation)
			}
			return sendWith(env, cmd, func(c *msgxwhatsapp.Client) (*msgxwhatsapp.SendResponse, error) {
				return c.SendInteractiveList(cmd.Context(), args[0], args[1], args[2], sections, flags.options()...)
			})
		}),
	}
	cmd.Flags().StringVar(&sectionsJSON, "sections", "[]", "sections as JSON")
	return cmd
}

func newSendTemplateCmd(env *environment, flags *sendFlags) *cobra.Command {
	var (
		language string
		params   []string
	)
	cmd := &cobra.Command{
		Use:   "template <to> <name>",
		Short: "Send an approved template",
		Args:  cobra.ExactArgs(2),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			tmpl := msgxwhatsapp.Template{Name: args[1], LanguageCode: language}
			if len(params) > 0 {
				body := msgxwhatsapp.TemplateComponent{Type: "body"}
				for _, p := range params {
					body.Parameters = append(body.Parameters, msgxwhatsapp.TemplateParameter{Type: "text", Text: p})
				}
				tmpl.Components = []msgxwhatsapp.TemplateComponent{body}
			}
			return sendWith(env, cmd, func(c *msgxwhatsapp.Client) (*msgxwhatsapp.SendResponse, error) {
				return c.SendTemplate(cmd.Context(), args[0], tmpl, flags.options()...)
			})
		}),
	}
	cmd.Flags().StringVar(&language, "lang", "en_US", "template language code")
	cmd.Flags().StringArrayVar(&params, "param", nil, "body text parameter, repeatable")
	return cmd
}

func newSendReactionCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "reaction <to> <message-id> [emoji]",
		Short: "React to a message; omit the emoji to remove the reaction",
		Args:  cobra.RangeArgs(2, 3),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			emoji := ""
			if len(args) == 3 {
				emoji = args[2]
			}
			return sendWith(env, cmd, func(c *msgxwhatsapp.Client) (*msgxwhatsapp.SendResponse, error) {
				return c.SendReaction(cmd.Context(), args[0], args[1], emoji)
			})
		}),
	}
}
