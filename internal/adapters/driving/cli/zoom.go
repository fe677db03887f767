package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/connectors/zoom"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var zoomCmd = &cobra.Command{
	Use:   "zoom",
	Short: "Zoom meetings, users and recordings",
	Long: `Manage Zoom meetings with a server-to-server OAuth app.

Credentials: ZOOM_ACCOUNT_ID, ZOOM_CLIENT_ID and ZOOM_CLIENT_SECRET. The
access token is cached until it expires.`,
}

var zoomUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List account users",
	Args:  cobra.NoArgs,
	RunE:  runZoomUsers,
}

var zoomMeetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "List, create, update or delete meetings",
}

var zoomMeetingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's meetings",
	Args:  cobra.NoArgs,
	RunE:  runZoomMeetingsList,
}

var zoomMeetingsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a meeting",
	Args:  cobra.ExactArgs(1),
	RunE:  runZoomMeetingsGet,
}

var zoomMeetingsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Schedule a meeting",
	Args:  cobra.NoArgs,
	RunE:  runZoomMeetingsCreate,
}

var zoomMeetingsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change a meeting",
	Long:  `Change a meeting. Only the flags that are set are sent.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runZoomMeetingsUpdate,
}

var zoomMeetingsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a meeting",
	Args:  cobra.ExactArgs(1),
	RunE:  runZoomMeetingsDelete,
}

var zoomRecordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "List cloud recordings",
	Long:  `List cloud recordings between --from and --to, the last 30 days by default.`,
	Args:  cobra.NoArgs,
	RunE:  runZoomRecordings,
}

var (
	zoomUser     string
	zoomType     string
	zoomTopic    string
	zoomStart    string
	zoomDuration int
	zoomTimezone string
	zoomAgenda   string
	zoomFrom     string
	zoomTo       string
)

func init() {
	for _, c := range []*cobra.Command{zoomMeetingsListCmd, zoomMeetingsCreateCmd, zoomRecordingsCmd} {
		c.Flags().StringVar(&zoomUser, "user", zoom.Me, "user ID or email")
	}
	zoomMeetingsListCmd.Flags().StringVar(&zoomType, "type", "scheduled", "scheduled, live, upcoming, upcoming_meetings or previous_meetings")
	for _, c := range []*cobra.Command{zoomMeetingsCreateCmd, zoomMeetingsUpdateCmd} {
		c.Flags().StringVar(&zoomTopic, "topic", "", "meeting topic")
		c.Flags().StringVar(&zoomStart, "start", "", "start time, RFC 3339 or YYYY-MM-DDTHH:MM local")
		c.Flags().IntVar(&zoomDuration, "duration", 0, "duration in minutes")
		c.Flags().StringVar(&zoomTimezone, "timezone", "", "IANA time zone, e.g. Europe/London")
		c.Flags().StringVar(&zoomAgenda, "agenda", "", "meeting description")
	}
	zoomRecordingsCmd.Flags().StringVar(&zoomFrom, "from", "", "first day, YYYY-MM-DD")
	zoomRecordingsCmd.Flags().StringVar(&zoomTo, "to", "", "last day, YYYY-MM-DD")

	zoomMeetingsCmd.AddCommand(zoomMeetingsListCmd)
	zoomMeetingsCmd.AddCommand(zoomMeetingsGetCmd)
	zoomMeetingsCmd.AddCommand(zoomMeetingsCreateCmd)
	zoomMeetingsCmd.AddCommand(zoomMeetingsUpdateCmd)
	zoomMeetingsCmd.AddCommand(zoomMeetingsDeleteCmd)
	zoomCmd.AddCommand(zoomUsersCmd)
	zoomCmd.AddCommand(zoomMeetingsCmd)
	zoomCmd.AddCommand(zoomRecordingsCmd)
	rootCmd.AddCommand(zoomCmd)
}

func zoomClient(cmd *cobra.Command) (*zoom.Client, error) {
	f, err := clientFactory()
	if err != nil {
		return nil, err
	}
	return f.Zoom(cmd.Context())
}

func runZoomUsers(cmd *cobra.Command, _ []string) error {
	c, err := zoomClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.ListUsers(cmd.Context(), pageOptions(0))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[zoom.User]{
		{"ID", func(u zoom.User) string { return u.ID }},
		{"NAME", func(u zoom.User) string { return u.FirstName + " " + u.LastName }},
		{"EMAIL", func(u zoom.User) string { return u.Email }},
		{"STATUS", func(u zoom.User) string { return u.Status }},
	})
}

func runZoomMeetingsList(cmd *cobra.Command, _ []string) error {
	c, err := zoomClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.ListMeetings(cmd.Context(), zoomUser, zoomType, pageOptions(0))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[zoom.Meeting]{
		{"ID", func(m zoom.Meeting) string { return strconv.FormatInt(m.ID, 10) }},
		{"START", func(m zoom.Meeting) string { return formatTime(m.StartTime) }},
		{"MIN", func(m zoom.Meeting) string { return strconv.Itoa(m.Duration) }},
		{"TOPIC", func(m zoom.Meeting) string { return truncate(m.Topic, 60) }},
	})
}

func runZoomMeetingsGet(cmd *cobra.Command, args []string) error {
	c, err := zoomClient(cmd)
	if err != nil {
		return err
	}
	m, err := c.GetMeeting(cmd.Context(), zoom.NormaliseMeetingID(args[0]))
	if err != nil {
		return err
	}
	return printJSON(cmd, m)
}

// meetingRequest builds a request from the flags that were set.
func meetingRequest(cmd *cobra.Command) (zoom.MeetingRequest, error) {
	req := zoom.MeetingRequest{
		Topic:    zoomTopic,
		Duration: zoomDuration,
		Timezone: zoomTimezone,
		Agenda:   zoomAgenda,
	}
	if cmd.Flags().Changed("start") {
		loc := time.Local
		if zoomTimezone != "" {
			l, err := time.LoadLocation(zoomTimezone)
			if err != nil {
				return req, fmt.Errorf("%w: --timezone %q", domain.ErrInvalidInput, zoomTimezone)
			}
			loc = l
		}
		start, err := parseTimeIn("start", zoomStart, loc)
		if err != nil {
			return req, err
		}
		req.StartTime = start
	}
	return req, nil
}

func runZoomMeetingsCreate(cmd *cobra.Command, _ []string) error {
	req, err := meetingRequest(cmd)
	if err != nil {
		return err
	}
	c, err := zoomClient(cmd)
	if err != nil {
		return err
	}
	m, err := c.CreateMeeting(cmd.Context(), zoomUser, req)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorZoom, "meeting.create", strconv.FormatInt(m.ID, 10), m.Topic)
	return printJSON(cmd, m)
}

func runZoomMeetingsUpdate(cmd *cobra.Command, args []string) error {
	req, err := meetingRequest(cmd)
	if err != nil {
		return err
	}
	c, err := zoomClient(cmd)
	if err != nil {
		return err
	}
	id := zoom.NormaliseMeetingID(args[0])
	if err := c.UpdateMeeting(cmd.Context(), id, req); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorZoom, "meeting.update", id, req.Topic)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated meeting %s\n", id)
	return nil
}

func runZoomMeetingsDelete(cmd *cobra.Command, args []string) error {
	id := zoom.NormaliseMeetingID(args[0])
	if err := confirm(fmt.Sprintf("Delete meeting %s?", id)); err != nil {
		return err
	}
	c, err := zoomClient(cmd)
	if err != nil {
		return err
	}
	if err := c.DeleteMeeting(cmd.Context(), id); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorZoom, "meeting.delete", id, "")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted meeting %s\n", id)
	return nil
}

func runZoomRecordings(cmd *cobra.Command, _ []string) error {
	var from, to time.Time
	var err error
	if zoomFrom != "" {
		if from, err = parseTime("from", zoomFrom); err != nil {
			return err
		}
	}
	if zoomTo != "" {
		if to, err = parseTime("to", zoomTo); err != nil {
			return err
		}
	}

	c, err := zoomClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.ListRecordings(cmd.Context(), zoomUser, from, to, pageOptions(0))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[zoom.Recording]{
		{"ID", func(r zoom.Recording) string { return strconv.FormatInt(r.ID, 10) }},
		{"START", func(r zoom.Recording) string { return formatTime(r.StartTime) }},
		{"FILES", func(r zoom.Recording) string { return strconv.Itoa(r.RecordingCount) }},
		{"TOPIC", func(r zoom.Recording) string { return truncate(r.Topic, 60) }},
	})
}
