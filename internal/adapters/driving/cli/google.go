package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/google/calendar"
	"github.com/custodia-labs/switchboard/internal/connectors/google/docs"
	"github.com/custodia-labs/switchboard/internal/connectors/google/drive"
	"github.com/custodia-labs/switchboard/internal/connectors/google/gmail"
	"github.com/custodia-labs/switchboard/internal/connectors/google/sheets"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var googleCmd = &cobra.Command{
	Use:   "google",
	Short: "Google Docs, Drive, Gmail, Calendar and Sheets",
	Long: `Work with Google Workspace as the account behind a refresh token.

Credentials: GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REFRESH_TOKEN.
The refresh token must carry the Docs, Drive, Gmail, Calendar and Sheets
scopes you intend to use. Set GOOGLE_UPLOAD_FOLDER_ID to keep images
uploaded for Docs in one Drive folder.`,
}

var googleDocsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Write Markdown into Google Docs",
}

var googleDocsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a document from Markdown",
	Long: `Create a document from a Markdown file. Headings, emphasis, links, lists,
tables, horizontal rules and images are converted. Local images are
uploaded to Drive and shared with anyone holding the link; relative paths
resolve against the Markdown file's directory.

Use --file - to read Markdown from stdin.`,
	Args: cobra.NoArgs,
	RunE: runGoogleDocsCreate,
}

var googleDocsAppendCmd = &cobra.Command{
	Use:   "append [document-id]",
	Short: "Append Markdown to a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoogleDocsAppend,
}

var googleDocsReadCmd = &cobra.Command{
	Use:   "read [document-id]",
	Short: "Print a document's text",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoogleDocsRead,
}

var googleDriveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Search, upload and delete Drive files",
}

var googleDriveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search files by name or Drive query",
	Long: `Search files. Plain text matches file names; text containing a Drive
query operator is passed as is, e.g. "mimeType = 'application/pdf'".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGoogleDriveSearch,
}

var googleDriveUploadCmd = &cobra.Command{
	Use:   "upload [path]",
	Short: "Upload a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoogleDriveUpload,
}

var googleDriveDeleteCmd = &cobra.Command{
	Use:   "delete [file-id]",
	Short: "Permanently delete a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoogleDriveDelete,
}

var googleGmailCmd = &cobra.Command{
	Use:   "gmail",
	Short: "List and send email",
}

var googleGmailListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List messages matching a Gmail search",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoogleGmailList,
}

var googleGmailSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an email",
	Long: `Send an email. The body comes from --body or --file (- for stdin).
With --markdown the body is also sent as HTML rendered from Markdown.`,
	Args: cobra.NoArgs,
	RunE: runGoogleGmailSend,
}

var googleCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "List, create and delete calendar events",
}

var googleCalendarEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List events in a time range",
	Args:  cobra.NoArgs,
	RunE:  runGoogleCalendarEvents,
}

var googleCalendarCreateCmd = &cobra.Command{
	Use:   "create [summary]",
	Short: "Create an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoogleCalendarCreate,
}

var googleCalendarDeleteCmd = &cobra.Command{
	Use:   "delete [event-id]",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoogleCalendarDelete,
}

var googleSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Read and append spreadsheet values",
}

var googleSheetsReadCmd = &cobra.Command{
	Use:   "read [spreadsheet-id] [range]",
	Short: "Read an A1 range",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoogleSheetsRead,
}

var googleSheetsAppendCmd = &cobra.Command{
	Use:   "append [spreadsheet-id] [range]",
	Short: "Append rows after a table",
	Long: `Append rows after the table in range. Each --row is one CSV line:

  switchboard google sheets append ID Sheet1!A:C --row '2026-10-14,Ada,"1,200"'`,
	Args: cobra.ExactArgs(2),
	RunE: runGoogleSheetsAppend,
}

var (
	docsTitle   string
	docsFile    string
	driveParent string
	driveShare  bool
	drivePage   int

	gmailPage     int
	gmailTo       []string
	gmailCc       []string
	gmailSubject  string
	gmailBody     string
	gmailFile     string
	gmailMarkdown bool

	calendarID        string
	calendarFrom      string
	calendarTo        string
	calendarPage      int
	calendarStart     string
	calendarEnd       string
	calendarAllDay    bool
	calendarTimezone  string
	calendarDesc      string
	calendarLocation  string
	calendarAttendees []string

	sheetsRows []string
)

func init() {
	googleDocsCreateCmd.Flags().StringVarP(&docsTitle, "title", "t", "", "document title")
	for _, c := range []*cobra.Command{googleDocsCreateCmd, googleDocsAppendCmd} {
		c.Flags().StringVarP(&docsFile, "file", "f", "", "Markdown file, - for stdin")
		_ = c.MarkFlagRequired("file")
	}
	_ = googleDocsCreateCmd.MarkFlagRequired("title")
	googleDriveSearchCmd.Flags().IntVar(&drivePage, "page-size", 0, "files per page (up to 1000)")
	googleDriveUploadCmd.Flags().StringVar(&driveParent, "parent", "", "folder ID to upload into")
	googleDriveUploadCmd.Flags().BoolVar(&driveShare, "share", false, "share with anyone holding the link")

	googleGmailListCmd.Flags().IntVar(&gmailPage, "page-size", 0, "messages per page (up to 500)")
	googleGmailSendCmd.Flags().StringArrayVar(&gmailTo, "to", nil, "recipient, repeatable")
	googleGmailSendCmd.Flags().StringArrayVar(&gmailCc, "cc", nil, "copied recipient, repeatable")
	googleGmailSendCmd.Flags().StringVarP(&gmailSubject, "subject", "s", "", "subject line")
	googleGmailSendCmd.Flags().StringVarP(&gmailBody, "body", "b", "", "message body")
	googleGmailSendCmd.Flags().StringVarP(&gmailFile, "file", "f", "", "read the body from a file, - for stdin")
	googleGmailSendCmd.Flags().BoolVar(&gmailMarkdown, "markdown", false, "render the body from Markdown")
	googleGmailSendCmd.MarkFlagsMutuallyExclusive("body", "file")

	for _, c := range []*cobra.Command{googleCalendarEventsCmd, googleCalendarCreateCmd, googleCalendarDeleteCmd} {
		c.Flags().StringVar(&calendarID, "calendar", calendar.Primary, "calendar ID")
	}
	googleCalendarEventsCmd.Flags().StringVar(&calendarFrom, "from", "", "start of the range (default now)")
	googleCalendarEventsCmd.Flags().StringVar(&calendarTo, "to", "", "end of the range (default a week after --from)")
	googleCalendarEventsCmd.Flags().IntVar(&calendarPage, "page-size", 0, "events per page (up to 2500)")
	googleCalendarCreateCmd.Flags().StringVar(&calendarStart, "start", "", "start time, e.g. 2026-10-14T15:00")
	googleCalendarCreateCmd.Flags().StringVar(&calendarEnd, "end", "", "end time (default one hour after start)")
	googleCalendarCreateCmd.Flags().BoolVar(&calendarAllDay, "all-day", false, "create an all-day event; --end is exclusive")
	googleCalendarCreateCmd.Flags().StringVar(&calendarTimezone, "timezone", "", "IANA time zone for --start and --end")
	googleCalendarCreateCmd.Flags().StringVar(&calendarDesc, "description", "", "event description")
	googleCalendarCreateCmd.Flags().StringVar(&calendarLocation, "location", "", "event location")
	googleCalendarCreateCmd.Flags().StringArrayVar(&calendarAttendees, "attendee", nil, "attendee email, repeatable")
	_ = googleCalendarCreateCmd.MarkFlagRequired("start")

	googleSheetsAppendCmd.Flags().StringArrayVar(&sheetsRows, "row", nil, "row as a CSV line, repeatable")
	_ = googleSheetsAppendCmd.MarkFlagRequired("row")

	googleDocsCmd.AddCommand(googleDocsCreateCmd)
	googleDocsCmd.AddCommand(googleDocsAppendCmd)
	googleDocsCmd.AddCommand(googleDocsReadCmd)
	googleDriveCmd.AddCommand(googleDriveSearchCmd)
	googleDriveCmd.AddCommand(googleDriveUploadCmd)
	googleDriveCmd.AddCommand(googleDriveDeleteCmd)
	googleGmailCmd.AddCommand(googleGmailListCmd)
	googleGmailCmd.AddCommand(googleGmailSendCmd)
	googleCalendarCmd.AddCommand(googleCalendarEventsCmd)
	googleCalendarCmd.AddCommand(googleCalendarCreateCmd)
	googleCalendarCmd.AddCommand(googleCalendarDeleteCmd)
	googleSheetsCmd.AddCommand(googleSheetsReadCmd)
	googleSheetsCmd.AddCommand(googleSheetsAppendCmd)
	googleCmd.AddCommand(googleDocsCmd)
	googleCmd.AddCommand(googleDriveCmd)
	googleCmd.AddCommand(googleGmailCmd)
	googleCmd.AddCommand(googleCalendarCmd)
	googleCmd.AddCommand(googleSheetsCmd)
	rootCmd.AddCommand(googleCmd)
}

func googleSession(cmd *cobra.Command) (*google.Session, error) {
	f, err := clientFactory()
	if err != nil {
		return nil, err
	}
	return f.Google(cmd.Context())
}

func driveClient(cmd *cobra.Command, session *google.Session) (*drive.Client, error) {
	svc, err := session.Drive(cmd.Context())
	if err != nil {
		return nil, err
	}
	c := drive.New(svc)
	if f, err := clientFactory(); err == nil {
		c.ImageFolderID = f.ImageFolder()
	}
	return c, nil
}

// docsWriter builds a writer that uploads local images through Drive.
func docsWriter(cmd *cobra.Command) (*docs.Writer, error) {
	session, err := googleSession(cmd)
	if err != nil {
		return nil, err
	}
	svc, err := session.Docs(cmd.Context())
	if err != nil {
		return nil, err
	}
	uploader, err := driveClient(cmd, session)
	if err != nil {
		return nil, err
	}
	return docs.NewWriter(svc, uploader), nil
}

// readMarkdown returns the Markdown and the directory images resolve against.
func readMarkdown(cmd *cobra.Command, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return string(data), wd, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read markdown: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	return string(data), filepath.Dir(abs), nil
}

func runGoogleDocsCreate(cmd *cobra.Command, _ []string) error {
	markdown, baseDir, err := readMarkdown(cmd, docsFile)
	if err != nil {
		return err
	}
	w, err := docsWriter(cmd)
	if err != nil {
		return err
	}
	res, err := w.Create(cmd.Context(), docsTitle, markdown, baseDir)
	if res != nil {
		recordActivity(cmd.Context(), domain.VendorGoogle, "docs.create", res.DocumentID, res.Title)
	}
	if err != nil {
		if res != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Document %s was created but is incomplete: %s\n", res.DocumentID, res.URL)
		}
		return err
	}
	return printJSON(cmd, res)
}

func runGoogleDocsAppend(cmd *cobra.Command, args []string) error {
	markdown, baseDir, err := readMarkdown(cmd, docsFile)
	if err != nil {
		return err
	}
	w, err := docsWriter(cmd)
	if err != nil {
		return err
	}
	res, err := w.Append(cmd.Context(), args[0], markdown, baseDir)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorGoogle, "docs.append", res.DocumentID, res.Title)
	return printJSON(cmd, res)
}

func runGoogleDocsRead(cmd *cobra.Command, args []string) error {
	session, err := googleSession(cmd)
	if err != nil {
		return err
	}
	svc, err := session.Docs(cmd.Context())
	if err != nil {
		return err
	}
	doc, err := docs.NewWriter(svc, nil).ReadText(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if flagOutput == outputTable {
		fmt.Fprint(cmd.OutOrStdout(), doc.Text)
		return nil
	}
	return printJSON(cmd, doc)
}

func runGoogleDriveSearch(cmd *cobra.Command, args []string) error {
	session, err := googleSession(cmd)
	if err != nil {
		return err
	}
	c, err := driveClient(cmd, session)
	if err != nil {
		return err
	}
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	page, err := c.Search(cmd.Context(), query, pageOptions(drivePage))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[drive.File]{
		{"ID", func(f drive.File) string { return f.ID }},
		{"NAME", func(f drive.File) string { return truncate(f.Name, 50) }},
		{"TYPE", func(f drive.File) string { return f.MimeType }},
		{"SIZE", func(f drive.File) string {
			if f.Size == 0 {
				return ""
			}
			return strconv.FormatInt(f.Size, 10)
		}},
	})
}

func runGoogleDriveUpload(cmd *cobra.Command, args []string) error {
	session, err := googleSession(cmd)
	if err != nil {
		return err
	}
	c, err := driveClient(cmd, session)
	if err != nil {
		return err
	}
	file, err := c.Upload(cmd.Context(), args[0], driveParent)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorGoogle, "drive.upload", file.ID, file.Name)
	if driveShare {
		if err := c.ShareWithAnyone(cmd.Context(), file.ID); err != nil {
			return err
		}
		recordActivity(cmd.Context(), domain.VendorGoogle, "drive.share", file.ID, "anyone with the link")
	}
	return printJSON(cmd, file)
}

func runGoogleDriveDelete(cmd *cobra.Command, args []string) error {
	if err := confirm(fmt.Sprintf("Permanently delete Drive file %s?", args[0])); err != nil {
		return err
	}
	session, err := googleSession(cmd)
	if err != nil {
		return err
	}
	c, err := driveClient(cmd, session)
	if err != nil {
		return err
	}
	if err := c.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorGoogle, "drive.delete", args[0], "")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted file %s\n", args[0])
	return nil
}

func gmailClient(cmd *cobra.Command) (*gmail.Client, error) {
	session, err := googleSession(cmd)
	if err != nil {
		return nil, err
	}
	svc, err := session.Gmail(cmd.Context())
	if err != nil {
		return nil, err
	}
	return gmail.New(svc), nil
}

func runGoogleGmailList(cmd *cobra.Command, args []string) error {
	c, err := gmailClient(cmd)
	if err != nil {
		return err
	}
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	page, err := c.List(cmd.Context(), query, pageOptions(gmailPage))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[gmail.Summary]{
		{"ID", func(m gmail.Summary) string { return m.ID }},
		{"FROM", func(m gmail.Summary) string { return truncate(m.From, 30) }},
		{"SUBJECT", func(m gmail.Summary) string { return truncate(m.Subject, 50) }},
		{"DATE", func(m gmail.Summary) string { return m.Date }},
	})
}

func runGoogleGmailSend(cmd *cobra.Command, _ []string) error {
	body := gmailBody
	if gmailFile != "" {
		text, _, err := readMarkdown(cmd, gmailFile)
		if err != nil {
			return err
		}
		body = text
	}
	msg := gmail.Message{
		To:       gmailTo,
		Cc:       gmailCc,
		Subject:  gmailSubject,
		Body:     body,
		Markdown: gmailMarkdown,
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	c, err := gmailClient(cmd)
	if err != nil {
		return err
	}
	id, err := c.Send(cmd.Context(), msg)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorGoogle, "gmail.send", id, strings.Join(gmailTo, ", "))
	return printJSON(cmd, map[string]string{"id": id})
}

func calendarClient(cmd *cobra.Command) (*calendar.Client, error) {
	session, err := googleSession(cmd)
	if err != nil {
		return nil, err
	}
	svc, err := session.Calendar(cmd.Context())
	if err != nil {
		return nil, err
	}
	return calendar.New(svc), nil
}

// eventRange resolves --from and --to, defaulting to the coming week.
func eventRange() (time.Time, time.Time, error) {
	from := time.Now()
	if calendarFrom != "" {
		t, err := parseTime("from", calendarFrom)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	to := from.AddDate(0, 0, 7)
	if calendarTo != "" {
		t, err := parseTime("to", calendarTo)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}

func runGoogleCalendarEvents(cmd *cobra.Command, _ []string) error {
	from, to, err := eventRange()
	if err != nil {
		return err
	}
	c, err := calendarClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.Events(cmd.Context(), calendarID, from, to, pageOptions(calendarPage))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[calendar.Event]{
		{"ID", func(e calendar.Event) string { return e.ID }},
		{"SUMMARY", func(e calendar.Event) string { return truncate(e.Summary, 40) }},
		{"START", func(e calendar.Event) string { return e.Start }},
		{"END", func(e calendar.Event) string { return e.End }},
		{"LOCATION", func(e calendar.Event) string { return truncate(e.Location, 30) }},
	})
}

// eventRequest builds the request from the create flags. Times without an
// offset are read in --timezone, or the local zone when it is unset.
func eventRequest(summary string) (calendar.EventRequest, error) {
	loc := time.Local
	if calendarTimezone != "" {
		l, err := time.LoadLocation(calendarTimezone)
		if err != nil {
			return calendar.EventRequest{}, fmt.Errorf("%w: timezone %q: %w", domain.ErrInvalidInput, calendarTimezone, err)
		}
		loc = l
	}
	start, err := parseTimeIn("start", calendarStart, loc)
	if err != nil {
		return calendar.EventRequest{}, err
	}
	var end time.Time
	switch {
	case calendarEnd != "":
		if end, err = parseTimeIn("end", calendarEnd, loc); err != nil {
			return calendar.EventRequest{}, err
		}
	case calendarAllDay:
		end = start.AddDate(0, 0, 1)
	default:
		end = start.Add(time.Hour)
	}
	return calendar.EventRequest{
		Summary:     summary,
		Description: calendarDesc,
		Location:    calendarLocation,
		Start:       start,
		End:         end,
		AllDay:      calendarAllDay,
		TimeZone:    calendarTimezone,
		Attendees:   calendarAttendees,
	}, nil
}

func runGoogleCalendarCreate(cmd *cobra.Command, args []string) error {
	req, err := eventRequest(args[0])
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	c, err := calendarClient(cmd)
	if err != nil {
		return err
	}
	ev, err := c.CreateEvent(cmd.Context(), calendarID, req)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorGoogle, "calendar.create", ev.ID, ev.Summary)
	return printJSON(cmd, ev)
}

func runGoogleCalendarDelete(cmd *cobra.Command, args []string) error {
	if err := confirm(fmt.Sprintf("Delete event %s from calendar %s?", args[0], calendarID)); err != nil {
		return err
	}
	c, err := calendarClient(cmd)
	if err != nil {
		return err
	}
	if err := c.DeleteEvent(cmd.Context(), calendarID, args[0]); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorGoogle, "calendar.delete", args[0], calendarID)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", args[0])
	return nil
}

func sheetsClient(cmd *cobra.Command) (*sheets.Client, error) {
	session, err := googleSession(cmd)
	if err != nil {
		return nil, err
	}
	svc, err := session.Sheets(cmd.Context())
	if err != nil {
		return nil, err
	}
	return sheets.New(svc), nil
}

func runGoogleSheetsRead(cmd *cobra.Command, args []string) error {
	c, err := sheetsClient(cmd)
	if err != nil {
		return err
	}
	values, err := c.Read(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if flagOutput == outputTable {
		w := csv.NewWriter(cmd.OutOrStdout())
		if err := w.WriteAll(values.Rows); err != nil {
			return err
		}
		return nil
	}
	return printJSON(cmd, values)
}

// parseRows reads each --row as a single CSV record.
func parseRows(lines []string) ([][]string, error) {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		r := csv.NewReader(strings.NewReader(line))
		r.FieldsPerRecord = -1
		record, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("%w: --row %q: %w", domain.ErrInvalidInput, line, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func runGoogleSheetsAppend(cmd *cobra.Command, args []string) error {
	rows, err := parseRows(sheetsRows)
	if err != nil {
		return err
	}
	c, err := sheetsClient(cmd)
	if err != nil {
		return err
	}
	res, err := c.Append(cmd.Context(), args[0], args[1], rows)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorGoogle, "sheets.append", args[0], res.UpdatedRange)
	return printJSON(cmd, res)
}
