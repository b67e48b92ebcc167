package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/infrastructure/remote"
)

func newReviewsCommand(g *Globals) *cobra.Command {
	var limit int
	list := &cobra.Command{
		Use:   "list <academy-id>",
		Short: "Show the latest reviews of an academy",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			rows, err := remote.NewReviews(a.gateway).ListForAcademy(ctx, sess, args[0], limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(a.out, "No reviews yet")
				return nil
			}
			for _, r := range rows {
				fmt.Fprintf(a.out, "%s  %s  by %s\n", stars(r.Rating), formatTime(r.UpdatedAt), r.UserID)
				if body := strings.TrimSpace(r.Body); body != "" {
					fmt.Fprintf(a.out, "    %s\n", strings.ReplaceAll(body, "\n", "\n    "))
				}
			}
			return nil
		}),
	}
	list.Flags().IntVar(&limit, "limit", 10, "Maximum number of reviews")

	var (
		rating   int
		body     string
		bodyFile string
	)
	add := &cobra.Command{
		Use:   "add <academy-id>",
		Short: "Rate an academy, replacing your previous review",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			text, err := reviewBody(body, bodyFile)
			if err != nil {
				return err
			}
			r, err := remote.NewReviews(a.gateway).Submit(ctx, sess, args[0], rating, text)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Review saved: %s\n", stars(r.Rating))
			return nil
		}),
	}
	add.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	add.Flags().StringVar(&body, "body", "", "Review text (markdown)")
	add.Flags().StringVar(&bodyFile, "body-file", "", "Read the review text from a file, - for stdin")
	_ = add.MarkFlagRequired("rating")

	cmd := &cobra.Command{
		Use:     "reviews",
		Aliases: []string{"review"},
		Short:   "Read and write academy reviews",
	}
	cmd.AddCommand(list, add)
	return cmd
}

func reviewBody(body, file string) (string, error) {
	if file == "" {
		return body, nil
	}
	if body != "" {
		return "", fmt.Errorf("--body and --body-file are mutually exclusive")
	}
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read review body: %w", err)
	}
	return string(data), nil
}
