package web

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"

	"github.com/balkashynov/times/internal/models"
	"github.com/balkashynov/times/internal/report"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "times - personal time tracking",
	})
}

// handleSlashCommand receives the Slack slash-command POST, verifies it,
// and answers with the reply message as JSON. Slack renders the message
// according to its response_type, public or ephemeral.
func (s *Server) handleSlashCommand(c *gin.Context) {
	if !s.verifySignature(c) {
		c.String(http.StatusUnauthorized, "invalid signature")
		return
	}

	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		s.logger.Warn("unparsable slash command", "error", err)
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	owner := models.Owner{TeamID: cmd.TeamID, UserID: cmd.UserID}
	msg := s.bot.HandleCommand(c.Request.Context(), owner, cmd.Text, time.Now())
	c.JSON(http.StatusOK, msg)
}

// handleReport renders the historical summary page behind a short-lived
// token. Expired or unknown tokens get the page's error state, always with
// status 200 like any other user-facing outcome.
func (s *Server) handleReport(c *gin.Context) {
	now := time.Now()
	rc, err := s.contexts.Get(c.Param("token"), now)
	if errors.Is(err, report.ErrContextNotFound) {
		c.HTML(http.StatusOK, "report.html", gin.H{
			"title":        "times - report",
			"errorMessage": "This report link has expired. Clock out again to get a fresh one.",
		})
		return
	}

	week, month, halfYear := report.WindowStarts(now)
	completed, err := s.store.FindCompletedAfter(c.Request.Context(), rc.Owner, halfYear)
	if err != nil {
		s.logger.Error("report query failed", "error", err)
		c.HTML(http.StatusOK, "report.html", gin.H{
			"title":        "times - report",
			"errorMessage": "Something went wrong building the report.",
		})
		return
	}

	c.HTML(http.StatusOK, "report.html", gin.H{
		"title": "times - report",
		"sections": []summarySection{
			{Caption: "Last week", Rows: presentSummary(report.Summarize(completed, week))},
			{Caption: "Last month", Rows: presentSummary(report.Summarize(completed, month))},
			{Caption: "Last half-year", Rows: presentSummary(report.Summarize(completed, halfYear))},
		},
	})
}

// summarySection is one window's table on the report page.
type summarySection struct {
	Caption string
	Rows    []summaryRow
}

// summaryRow is a template-friendly report line.
type summaryRow struct {
	TaskName string
	Total    string
	Rate     int
}

func presentSummary(summary []models.SummarizedTask) []summaryRow {
	rows := make([]summaryRow, 0, len(summary))
	for _, row := range summary {
		rows = append(rows, summaryRow{
			TaskName: row.TaskName,
			Total:    report.FormatDuration(row.Total),
			Rate:     row.Rate,
		})
	}
	return rows
}

// verifySignature checks the Slack request signature when a signing secret
// is configured. The body is restored afterwards so the form parse still
// sees it.
func (s *Server) verifySignature(c *gin.Context) bool {
	if s.signingSecret == "" {
		return true
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return false
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	verifier, err := slack.NewSecretsVerifier(c.Request.Header, s.signingSecret)
	if err != nil {
		return false
	}
	if _, err := verifier.Write(body); err != nil {
		return false
	}
	return verifier.Ensure() == nil
}
