package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"volunteer-hub/internal/apiclient"
	"volunteer-hub/internal/listing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Fetch opportunities from a running API and print a ranked page",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := browseOptions{}
		opts.api, _ = cmd.Flags().GetString("api")
		opts.states, _ = cmd.Flags().GetString("states")
		opts.skills, _ = cmd.Flags().GetString("skills")
		opts.page, _ = cmd.Flags().GetString("page")
		opts.pageSize, _ = cmd.Flags().GetInt("page-size")
		opts.email, _ = cmd.Flags().GetString("email")
		opts.password, _ = cmd.Flags().GetString("password")
		opts.timeout, _ = cmd.Flags().GetDuration("timeout")

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return browse(ctx, cmd.OutOrStdout(), opts, logger)
	},
}

type browseOptions struct {
	api      string
	states   string
	skills   string
	page     string
	pageSize int
	email    string
	password string
	timeout  time.Duration
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().String("api", "http://localhost:8080", "base URL of the volunteer-hub API")
	browseCmd.Flags().String("states", "", "comma-separated states to rank first")
	browseCmd.Flags().String("skills", "", "comma-separated skills to rank first")
	browseCmd.Flags().String("page", "1", "1-based page number")
	browseCmd.Flags().Int("page-size", listing.DefaultPageSize, "opportunities per page")
	browseCmd.Flags().String("email", "", "sign in with this email before fetching")
	browseCmd.Flags().String("password", "", "password for --email")
	browseCmd.Flags().Duration("timeout", 15*time.Second, "overall request timeout")
}

func browse(ctx context.Context, out io.Writer, opts browseOptions, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	q, err := listing.ParseQuery(opts.states, opts.skills, opts.page)
	if err != nil {
		return fmt.Errorf("--page: %w", err)
	}

	client, err := apiclient.New(opts.api, apiclient.WithLogger(logger))
	if err != nil {
		return err
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	if opts.email != "" {
		auth, err := client.Login(ctx, opts.email, opts.password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		logger.Debug("signed in", zap.String("email", auth.User.Email))
	}

	view := listing.NewView(listing.NewCache(client.ListOpportunities, listing.DefaultFreshness), opts.pageSize)
	page, err := view.Load(ctx, q)
	if err != nil {
		return err
	}

	return printPage(out, q, page)
}

func printPage(out io.Writer, q listing.Query, page listing.Page) error {
	if !q.Filter.IsEmpty() {
		fmt.Fprintf(out, "filter: states=[%s] skills=[%s]\n",
			strings.Join(q.Filter.States, ", "), strings.Join(q.Filter.Skills, ", "))
	}
	if page.Total == 0 {
		_, err := fmt.Fprintln(out, "no opportunities found")
		return err
	}
	if len(page.Items) == 0 {
		_, err := fmt.Fprintf(out, "page %d is past the last page (%d)\n", page.Page, page.TotalPages)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tTITLE\tLOCATION\tWEEKS\tSKILLS")
	for _, r := range page.Items {
		location := r.State
		if r.District != "" {
			location = r.District + ", " + r.State
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d-%d\t%s\n",
			r.Score, r.Title, location, r.MinWeeks, r.MaxWeeks, strings.Join(r.Skills, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "page %d of %d (%d opportunities)\n", page.Page, page.TotalPages, page.Total)
	return err
}
