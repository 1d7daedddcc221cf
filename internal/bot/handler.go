// Package bot turns parsed slash commands into accounting transitions and
// Slack replies. Delivery of the replies belongs to the web layer.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/balkashynov/times/internal/db"
	"github.com/balkashynov/times/internal/models"
	"github.com/balkashynov/times/internal/parser"
	"github.com/balkashynov/times/internal/report"
	"github.com/balkashynov/times/internal/timelog"
)

// Literal command words. Anything else starts a task.
const (
	textClockOut = "clock out"
	textClear    = "clear"
	textDiscard  = "discard"
)

const helpText = `How to use /times:
• ` + "`/times <task name>`" + ` — start (or switch to) a task
• ` + "`/times <task name> back 9:00`" + ` — start it at the last 9:00
• ` + "`/times <task name> back 30`" + ` — start it 30 minutes ago
• ` + "`/times`" + ` — show what you're working on
• ` + "`/times clock out`" + ` — end the day and get the tally
• ` + "`/times discard`" + ` — drop the current task, keep the day
• ` + "`/times clear`" + ` — wipe today's record entirely`

// Options configures a Handler.
type Options struct {
	// BaseURL, when set, makes clock-out replies carry a tokenized report
	// link rooted at it.
	BaseURL string
	// AttachmentColor is the sidebar color of the clock-out tally.
	AttachmentColor string
	Logger          *log.Logger
}

// Handler owns the slash-command flow for every user.
type Handler struct {
	store    *db.SessionStore
	contexts *report.ContextCache
	locker   *ownerLocker

	baseURL string
	color   string
	logger  *log.Logger
}

// NewHandler wires a handler over the session store and report-context
// cache.
func NewHandler(store *db.SessionStore, contexts *report.ContextCache, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		store:    store,
		contexts: contexts,
		locker:   newOwnerLocker(),
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		color:    opts.AttachmentColor,
		logger:   logger,
	}
}

// HandleCommand processes one slash command for one owner and returns the
// reply to send. It never returns an error to the caller: domain rejections
// become specific messages and unexpected failures become a generic one, so
// a single user's bad input can never take the request down.
func (h *Handler) HandleCommand(ctx context.Context, owner models.Owner, text string, now time.Time) *slack.Msg {
	unlock := h.locker.Lock(owner)
	defer unlock()

	text = strings.TrimSpace(text)
	h.logger.Info("command received", "team", owner.TeamID, "user", owner.UserID, "text", text)

	var (
		msg *slack.Msg
		err error
	)
	switch text {
	case "":
		msg, err = h.status(ctx, owner)
	case textClockOut:
		msg, err = h.clockOut(ctx, owner, now)
	case textClear:
		msg, err = h.discardAllToday(ctx, owner, now)
	case textDiscard:
		msg, err = h.discardOpenTask(ctx, owner)
	default:
		msg, err = h.startTask(ctx, owner, text, now)
	}
	if err != nil {
		h.logger.Error("command failed", "team", owner.TeamID, "user", owner.UserID, "error", err)
		return privateReply("Something went wrong, your time was not touched. Please try again.")
	}
	return msg
}

// startTask parses the text and applies the start transition: close the
// open task at the effective start, open the new one, all in one store
// transaction.
func (h *Handler) startTask(ctx context.Context, owner models.Owner, text string, now time.Time) (*slack.Msg, error) {
	current, err := h.store.FindLatestOpen(ctx, owner)
	if err != nil {
		return nil, err
	}

	cmd := parser.Parse(text, now)
	closed, next, err := timelog.StartTask(owner, current, cmd, now)
	if errors.Is(err, timelog.ErrInvalidBackDate) {
		// Rejected, state untouched.
		return publicReply("That's before the current task started, so I can't back-date there."), nil
	}
	if err != nil {
		return nil, err
	}

	var done []models.CompletedTask
	if closed != nil {
		done = append(done, *closed)
	}
	if err := h.store.CloseOpenAndSave(ctx, owner, done, &next); err != nil {
		return nil, err
	}

	h.logger.Info("task started", "team", owner.TeamID, "user", owner.UserID,
		"task", next.TaskName, "start", next.StartTime)
	if cmd.BackDate != nil {
		return publicReply(fmt.Sprintf("⏰ Already on \"%s\"!", next.TaskName)), nil
	}
	return publicReply(fmt.Sprintf("⏰ Working on \"%s\"!", next.TaskName)), nil
}

// clockOut closes whatever is open at now, then tallies the day and builds
// the report reply. Clock-out is never back-dated.
func (h *Handler) clockOut(ctx context.Context, owner models.Owner, now time.Time) (*slack.Msg, error) {
	open, err := h.store.FindAllOpen(ctx, owner)
	if err != nil {
		return nil, err
	}

	var closed []models.CompletedTask
	for i := range open {
		if done := timelog.ClockOut(&open[i], now); done != nil {
			closed = append(closed, *done)
		}
	}
	if err := h.store.CloseOpenAndSave(ctx, owner, closed, nil); err != nil {
		return nil, err
	}

	// The tally covers today, stretched back so a session that ran over
	// midnight and was just closed still shows up in its own report.
	tallyStart := timelog.StartOfDay(now)
	for _, done := range closed {
		if done.StartTime.Before(tallyStart) {
			tallyStart = done.StartTime
		}
	}
	completed, err := h.store.FindCompletedAfter(ctx, owner, tallyStart)
	if err != nil {
		return nil, err
	}
	summary := report.Summarize(completed, tallyStart)

	h.logger.Info("clocked out", "team", owner.TeamID, "user", owner.UserID,
		"closed", len(closed), "tasks", len(summary))

	attachment := slack.Attachment{
		Text:  formatSummary(summary),
		Color: h.color,
	}
	msg := publicReply("That's a wrap, good work today! :honey_pot:")
	msg.Attachments = []slack.Attachment{attachment}
	if link := h.reportLink(owner, now); link != "" {
		msg.Attachments = append(msg.Attachments, slack.Attachment{
			Text: fmt.Sprintf("History: %s (link works for a few hours)", link),
		})
	}
	return msg, nil
}

// status answers the empty command: what is running now, or how to use the
// bot when nothing is.
func (h *Handler) status(ctx context.Context, owner models.Owner) (*slack.Msg, error) {
	current, err := h.store.FindLatestOpen(ctx, owner)
	if err != nil {
		return nil, err
	}
	if name, ok := timelog.CurrentTaskName(current); ok {
		return publicReply(fmt.Sprintf("Currently working on \"%s\".", name)), nil
	}
	return privateReply(helpText), nil
}

// discardOpenTask drops the running task without counting its time. The
// day's completed records stay.
func (h *Handler) discardOpenTask(ctx context.Context, owner models.Owner) (*slack.Msg, error) {
	current, err := h.store.FindLatestOpen(ctx, owner)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return privateReply("No task is running."), nil
	}
	if err := h.store.RemoveOpen(ctx, owner); err != nil {
		return nil, err
	}
	h.logger.Info("open task discarded", "team", owner.TeamID, "user", owner.UserID,
		"task", current.TaskName)
	return publicReply(fmt.Sprintf("Dropped \"%s\" without counting it.", current.TaskName)), nil
}

// discardAllToday wipes the open task and every completed record of the
// current day. Accounted time is discarded, not archived.
func (h *Handler) discardAllToday(ctx context.Context, owner models.Owner, now time.Time) (*slack.Msg, error) {
	if err := h.store.RemoveOpen(ctx, owner); err != nil {
		return nil, err
	}
	if err := h.store.DeleteCompletedAfter(ctx, owner, timelog.StartOfDay(now)); err != nil {
		return nil, err
	}
	h.logger.Info("day cleared", "team", owner.TeamID, "user", owner.UserID)
	return publicReply("Today never happened."), nil
}

// reportLink creates a short-lived report context and returns its URL, or
// "" when no base URL is configured.
func (h *Handler) reportLink(owner models.Owner, now time.Time) string {
	if h.baseURL == "" {
		return ""
	}
	rc := h.contexts.Create(owner, now)
	return fmt.Sprintf("%s/report/%s", h.baseURL, rc.Token)
}

// formatSummary renders the per-task day tally, one task per line.
func formatSummary(summary []models.SummarizedTask) string {
	if len(summary) == 0 {
		return "Nothing tracked today :sleeping:"
	}
	lines := make([]string, 0, len(summary))
	for _, row := range summary {
		lines = append(lines, fmt.Sprintf("\"%s\" %s (%d%%)",
			row.TaskName, report.FormatDuration(row.Total), row.Rate))
	}
	return strings.Join(lines, "\n")
}

func publicReply(text string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         text,
	}
}

func privateReply(text string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         text,
	}
}
