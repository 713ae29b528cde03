package main

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Abraxas-365/wacloud/asyncx"
	"github.com/Abraxas-365/wacloud/configx"
	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/Abraxas-365/wacloud/fsx/providers/fsxlocal"
	"github.com/Abraxas-365/wacloud/fsx/providers/fsxs3"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
	"github.com/spf13/cobra"
)

// mediaConcurrency bounds parallel media requests from one command
const mediaConcurrency = 4

func newReadCmd(env *environment) *cobra.Command {
	var typing bool
	cmd := &cobra.Command{
		Use:   "read <message-id>",
		Short: "Mark an inbound message as read",
		Args:  cobra.ExactArgs(1),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			client, err := env.client()
			if err != nil {
				return err
			}
			mark := client.MarkMessageAsRead
			if typing {
				mark = client.SendTypingIndicator
			}
			if _, err := mark(cmd.Context(), args[0]); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "marked %s as read", args[0])
			return nil
		}),
	}
	cmd.Flags().BoolVar(&typing, "typing", false, "also show a typing indicator")
	return cmd
}

func newMediaCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Resolve, download and upload media",
	}

	url := &cobra.Command{
		Use:   "url <media-id>...",
		Short: "Print the metadata and short-lived download URL of media ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			client, err := env.client()
			if err != nil {
				return err
			}
			infos, err := asyncx.Map(cmd.Context(), args, mediaConcurrency, client.GetMediaInfo)
			if err != nil {
				return err
			}
			if len(infos) == 1 {
				return printJSON(cmd.OutOrStdout(), infos[0])
			}
			return printJSON(cmd.OutOrStdout(), infos)
		}),
	}

	var path string
	download := &cobra.Command{
		Use:   "download <media-id>...",
		Short: "Download media ids to the media store (local directory or S3)",
		Args:  cobra.MinimumNArgs(1),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			if path != "" && len(args) > 1 {
				return errx.New("--path needs exactly one media id", errx.TypeValidation)
			}
			client, err := env.client()
			if err != nil {
				return err
			}
			cfg, _ := env.config()
			store, where, err := mediaStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			infos, err := asyncx.Map(cmd.Context(), args, mediaConcurrency,
				func(ctx context.Context, id string) (*msgxwhatsapp.MediaInfo, error) {
					return client.SaveMedia(ctx, store, id, path)
				})
			if err != nil {
				return err
			}
			for i, info := range infos {
				printOK(cmd.OutOrStdout(), "saved %s (%s, %d bytes) to %s", args[i], info.MimeType, info.FileSize, where)
			}
			return nil
		}),
	}
	download.Flags().StringVar(&path, "path", "", "target path inside the store (single id only)")

	var mimeType string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and print its media id",
		Args:  cobra.ExactArgs(1),
		RunE: env.cli.Wrap(func(cmd *cobra.Command, args []string) error {
			client, err := env.client()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return errx.Wrap(err, "cannot open upload file", errx.TypeValidation).WithDetail("file", args[0])
			}
			defer f.Close()

			if mimeType == "" {
				mimeType, err = detectMimeType(f)
				if err != nil {
					return err
				}
			}
			resp, err := client.UploadMedia(cmd.Context(), filepath.Base(args[0]), mimeType, f)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "uploaded %s as media %s", args[0], infoColor.Sprint(resp.ID))
			return nil
		}),
	}
	upload.Flags().StringVar(&mimeType, "type", "", "MIME type (detected from the file when empty)")

	cmd.AddCommand(url, download, upload)
	return cmd
}

// mediaStore selects S3 when a bucket is configured and the local media
// directory otherwise
func mediaStore(ctx context.Context, cfg configx.Config) (fsx.FileSystem, string, error) {
	if bucket := cfg.Get(keyMediaBucket).AsString(); bucket != "" {
		prefix := cfg.Get(keyMediaPrefix).AsString()
		store, err := fsxs3.NewFromDefaultConfig(ctx, bucket, prefix)
		if err != nil {
			return nil, "", err
		}
		return store, "s3://" + bucket + "/" + prefix, nil
	}
	dir := cfg.Get(keyMediaDir).AsString()
	return fsxlocal.NewLocalFS(dir), dir, nil
}

func detectMimeType(f *os.File) (string, error) {
	if t := mime.TypeByExtension(filepath.Ext(f.Name())); t != "" {
		return t, nil
	}
	head := make([]byte, 512)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, 0); err != nil {
		return "", errx.Wrap(err, "cannot rewind upload file", errx.TypeInternal)
	}
	t := http.DetectContentType(head[:n])
	logx.Debug("detected %s for %s", t, f.Name())
	return t, nil
}
