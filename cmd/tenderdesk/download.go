package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tenderdesk/models"
	"tenderdesk/services/download"
)

func newDownloadCmd() *cobra.Command {
	var (
		linkOnly bool
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "download <report|tender|offer> <id>...",
		Short: "Securely download document files",
		Long: `Download document files through short-lived signed links.

The long-lived session token is only used to request the link; the file
itself is fetched from the signed URL. With --link-only the signed URL is
printed instead, for opening in a browser.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docType, err := models.ParseDocumentType(args[0])
			if err != nil {
				return err
			}

			var ids []int64
			for _, raw := range args[1:] {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid document id %q", raw)
				}
				ids = append(ids, id)
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			dl := app.downloader()

			if linkOnly {
				for _, id := range ids {
					link, err := dl.Link(cmd.Context(), docType, id)
					if err != nil {
						return describeDownloadError(err)
					}
					fmt.Printf("%s %d: %s (valid until %s)\n",
						docType, id, link.URL, link.ExpiresAt.Format("15:04:05"))
				}
				return nil
			}

			if len(ids) == 1 {
				result, err := dl.Download(cmd.Context(), docType, ids[0])
				if err != nil {
					return describeDownloadError(err)
				}
				fmt.Printf("Saved %s (%d bytes)\n", result.Path, result.Size)
				return nil
			}

			reqs := make([]download.Request, len(ids))
			for i, id := range ids {
				reqs[i] = download.Request{Type: docType, ID: id}
			}

			failed := 0
			for _, br := range dl.DownloadAll(cmd.Context(), reqs, workers) {
				if br.Err != nil {
					failed++
					fmt.Printf("%s %d: %v\n", br.Request.Type, br.Request.ID, describeDownloadError(br.Err))
					continue
				}
				fmt.Printf("%s %d: saved %s (%d bytes)\n",
					br.Request.Type, br.Request.ID, br.Result.Path, br.Result.Size)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(ids))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&linkOnly, "link-only", false, "print the signed URL instead of downloading")
	cmd.Flags().IntVar(&workers, "workers", 3, "concurrent downloads when fetching several documents")
	return cmd
}

// describeDownloadError surfaces the classified, human-readable message.
func describeDownloadError(err error) error {
	var dlErr *download.Error
	if errors.As(err, &dlErr) {
		return errors.New(dlErr.Message())
	}
	return err
}
