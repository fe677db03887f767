package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/connectors/x"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var xCmd = &cobra.Command{
	Use:   "x",
	Short: "X.com (Twitter) API v2",
	Long: `Post, read and search tweets as the authenticated user.

Requests are signed with OAuth 1.0a using X_API_KEY, X_API_SECRET,
X_ACCESS_TOKEN and X_ACCESS_TOKEN_SECRET.`,
}

var xMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated user",
	Args:  cobra.NoArgs,
	RunE:  runXMe,
}

var xTweetCmd = &cobra.Command{
	Use:   "tweet",
	Short: "Get, post or delete a tweet",
}

var xTweetGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a tweet",
	Args:  cobra.ExactArgs(1),
	RunE:  runXTweetGet,
}

var xTweetPostCmd = &cobra.Command{
	Use:   "post [text]",
	Short: "Post a tweet",
	Args:  cobra.ExactArgs(1),
	RunE:  runXTweetPost,
}

var xTweetDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a tweet",
	Args:  cobra.ExactArgs(1),
	RunE:  runXTweetDelete,
}

var xThreadCmd = &cobra.Command{
	Use:   "thread [text]",
	Short: "Post long text as a reply chain",
	Long: `Split text into tweets on paragraph, sentence and word boundaries and post
them as a reply chain. Parts are numbered " i/n" unless --no-number is set.

Posting stops at the first failed tweet. Tweets already posted stay posted
and are listed in 'switchboard history --vendor x'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runXThread,
}

var xLikeCmd = &cobra.Command{
	Use:   "like [id]",
	Short: "Like a tweet",
	Args:  cobra.ExactArgs(1),
	RunE:  runXLike,
}

var xTimelineCmd = &cobra.Command{
	Use:   "timeline [username]",
	Short: "List a user's recent tweets",
	Args:  cobra.ExactArgs(1),
	RunE:  runXTimeline,
}

var xSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tweets from the last seven days",
	Args:  cobra.ExactArgs(1),
	RunE:  runXSearch,
}

var (
	xReplyTo      string
	xQuote        string
	xMedia        []string
	xThreadFile   string
	xThreadNoNum  bool
	xThreadDryRun bool
	xPageSize     int
)

func init() {
	xTweetPostCmd.Flags().StringVar(&xReplyTo, "reply-to", "", "tweet ID to reply to")
	xTweetPostCmd.Flags().StringVar(&xQuote, "quote", "", "tweet ID to quote")
	xTweetPostCmd.Flags().StringArrayVar(&xMedia, "media", nil, "image to attach (repeatable, up to 4)")
	xThreadCmd.Flags().StringVarP(&xThreadFile, "file", "f", "", "read the thread text from a file")
	xThreadCmd.Flags().BoolVar(&xThreadNoNum, "no-number", false, "do not append i/n to each part")
	xThreadCmd.Flags().BoolVar(&xThreadDryRun, "dry-run", false, "print the parts without posting")
	xTimelineCmd.Flags().IntVar(&xPageSize, "page-size", 0, "tweets per page (5 to 100)")
	xSearchCmd.Flags().IntVar(&xPageSize, "page-size", 0, "tweets per page (10 to 100)")

	xTweetCmd.AddCommand(xTweetGetCmd)
	xTweetCmd.AddCommand(xTweetPostCmd)
	xTweetCmd.AddCommand(xTweetDeleteCmd)
	xCmd.AddCommand(xMeCmd)
	xCmd.AddCommand(xTweetCmd)
	xCmd.AddCommand(xThreadCmd)
	xCmd.AddCommand(xLikeCmd)
	xCmd.AddCommand(xTimelineCmd)
	xCmd.AddCommand(xSearchCmd)
	rootCmd.AddCommand(xCmd)
}

var tweetColumns = []column[x.Tweet]{
	{"ID", func(t x.Tweet) string { return t.ID }},
	{"CREATED", func(t x.Tweet) string { return formatTime(t.CreatedAt) }},
	{"LIKES", func(t x.Tweet) string {
		if t.PublicMetrics == nil {
			return ""
		}
		return strconv.Itoa(t.PublicMetrics.Likes)
	}},
	{"TEXT", func(t x.Tweet) string { return truncate(t.Text, 80) }},
}

func xClient(cmd *cobra.Command) (*x.Client, error) {
	f, err := clientFactory()
	if err != nil {
		return nil, err
	}
	return f.X(cmd.Context())
}

func runXMe(cmd *cobra.Command, _ []string) error {
	c, err := xClient(cmd)
	if err != nil {
		return err
	}
	user, err := c.Me(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd, user)
}

func runXTweetGet(cmd *cobra.Command, args []string) error {
	c, err := xClient(cmd)
	if err != nil {
		return err
	}
	tweet, err := c.GetTweet(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, tweet)
}

func runXTweetPost(cmd *cobra.Command, args []string) error {
	c, err := xClient(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	req := x.TweetRequest{Text: args[0], ReplyTo: xReplyTo, QuoteTweetID: xQuote}
	for _, path := range xMedia {
		id, err := c.UploadMedia(ctx, path)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		req.MediaIDs = append(req.MediaIDs, id)
	}

	tweet, err := c.PostTweet(ctx, req)
	if err != nil {
		return err
	}
	recordActivity(ctx, domain.VendorX, "tweet.post", tweet.ID, truncate(tweet.Text, 120))
	return printJSON(cmd, tweet)
}

func runXTweetDelete(cmd *cobra.Command, args []string) error {
	if err := confirm(fmt.Sprintf("Delete tweet %s?", args[0])); err != nil {
		return err
	}
	c, err := xClient(cmd)
	if err != nil {
		return err
	}
	if err := c.DeleteTweet(cmd.Context(), args[0]); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorX, "tweet.delete", args[0], "")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted tweet %s\n", args[0])
	return nil
}

func runXThread(cmd *cobra.Command, args []string) error {
	text, err := threadText(args)
	if err != nil {
		return err
	}
	parts, err := x.SplitThread(text, x.MaxTweetLength, !xThreadNoNum)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if xThreadDryRun {
		return printJSON(cmd, parts)
	}

	c, err := xClient(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	posted, err := c.PostThread(ctx, parts, func(i int, t *x.Tweet) {
		recordActivity(ctx, domain.VendorX, "thread.post", t.ID, fmt.Sprintf("part %d/%d", i+1, len(parts)))
	})
	if err != nil {
		return reportPartialThread(cmd, err, posted, len(parts))
	}
	return printJSON(cmd, posted)
}

// reportPartialThread prints the tweets posted before err and returns err,
// joined with any failure to print them.
func reportPartialThread(cmd *cobra.Command, err error, posted []x.Tweet, total int) error {
	if len(posted) == 0 {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Posted %d of %d tweets before the failure; they were not removed.\n",
		len(posted), total)
	if perr := printJSON(cmd, posted); perr != nil {
		return errors.Join(err, fmt.Errorf("print posted tweets: %w", perr))
	}
	return err
}

// threadText reads the thread from the argument or --file.
func threadText(args []string) (string, error) {
	switch {
	case xThreadFile != "" && len(args) > 0:
		return "", fmt.Errorf("%w: pass the text or --file, not both", domain.ErrInvalidInput)
	case xThreadFile != "":
		data, err := os.ReadFile(xThreadFile)
		if err != nil {
			return "", fmt.Errorf("read thread file: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: thread text or --file is required", domain.ErrInvalidInput)
	}
}

func runXLike(cmd *cobra.Command, args []string) error {
	c, err := xClient(cmd)
	if err != nil {
		return err
	}
	if err := c.Like(cmd.Context(), args[0]); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorX, "tweet.like", args[0], "")
	fmt.Fprintf(cmd.OutOrStdout(), "Liked tweet %s\n", args[0])
	return nil
}

func runXTimeline(cmd *cobra.Command, args []string) error {
	c, err := xClient(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	user, err := c.LookupUser(ctx, args[0])
	if err != nil {
		return err
	}
	page, err := c.UserTweets(ctx, user.ID, pageOptions(xPageSize))
	if err != nil {
		return err
	}
	return printPage(cmd, page, tweetColumns)
}

func runXSearch(cmd *cobra.Command, args []string) error {
	c, err := xClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.SearchRecent(cmd.Context(), args[0], pageOptions(xPageSize))
	if err != nil {
		return err
	}
	return printPage(cmd, page, tweetColumns)
}
