// Package notify delivers version-change notifications to Slack.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/storewatch/storewatch/internal/appstore"
)

// releaseNotesLimit caps the "What's New" excerpt in a message
const releaseNotesLimit = 500

// SlackNotifier posts update messages to a single Slack channel using the
// Block Kit layout. A previous version of "" marks a first observation.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NotifierOption is a functional option for configuring SlackNotifier
type NotifierOption func(*[]slack.Option)

// WithAPIURL overrides the Slack API base URL (useful for testing).
// The URL must end with a trailing slash.
func WithAPIURL(apiURL string) NotifierOption {
	return func(opts *[]slack.Option) {
		*opts = append(*opts, slack.OptionAPIURL(apiURL))
	}
}

// NewSlackNotifier creates a notifier for the given bot token and channel.
func NewSlackNotifier(token, channel string, opts ...NotifierOption) *SlackNotifier {
	var slackOpts []slack.Option
	for _, opt := range opts {
		opt(&slackOpts)
	}

	return &SlackNotifier{
		client:  slack.New(token, slackOpts...),
		channel: channel,
	}
}

// Notify posts a message for an observed version change.
// prevVersion is the previously persisted version, or "" when the app was
// never observed before. A non-ok API response surfaces as an error; the
// caller persists the new version regardless.
func (n *SlackNotifier) Notify(ctx context.Context, rec *appstore.AppRecord, prevVersion string) error {
	blocks := buildBlocks(rec, prevVersion)

	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(fallbackText(rec, prevVersion), false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return fmt.Errorf("posting slack message for %s: %w", rec.AppID, err)
	}

	return nil
}

// buildBlocks assembles the Block Kit message for one update.
func buildBlocks(rec *appstore.AppRecord, prevVersion string) []slack.Block {
	title := fmt.Sprintf("📱 App Update: %s", rec.Name)
	if prevVersion == "" {
		title = fmt.Sprintf("🆕 Now Tracking: %s", rec.Name)
	}

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*%s*\n%s", rec.Name, rec.Developer), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, versionField(rec, prevVersion), false, false),
	}
	if rec.StoreURL != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("<%s|📱 App Store>", rec.StoreURL), false, false))
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, true, false)),
		slack.NewSectionBlock(nil, fields, nil),
	}

	if notes := truncate(rec.ReleaseNotes, releaseNotesLimit); notes != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*What's New:*\n```%s```", notes), false, false),
			nil, nil))
	}

	return blocks
}

// versionField formats the version transition line.
func versionField(rec *appstore.AppRecord, prevVersion string) string {
	var line string
	if prevVersion == "" {
		line = fmt.Sprintf("*Version:* %s", rec.Version)
	} else {
		line = fmt.Sprintf("*Version:* %s → %s", prevVersion, rec.Version)
	}
	if !rec.Updated.IsZero() {
		line += fmt.Sprintf("\n*Updated:* %s", rec.Updated.UTC().Format("2006-01-02 15:04 UTC"))
	}
	return line
}

// fallbackText is the plain-text summary used by clients without Block Kit.
func fallbackText(rec *appstore.AppRecord, prevVersion string) string {
	if prevVersion == "" {
		return fmt.Sprintf("Now tracking %s (v%s)", rec.Name, rec.Version)
	}
	return fmt.Sprintf("%s updated: %s → %s", rec.Name, prevVersion, rec.Version)
}

// truncate trims s to at most limit runes, appending an ellipsis when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
