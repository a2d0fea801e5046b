// Command alert sends operational notifications to the configured sinks.
// It is used by deploy scripts and on-call tooling:
//
//	alert -message "Deploy finished" -severity good
//	alert -message "Smoke tests failed on prod" -severity danger -jira
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/nshivakumar1/social-app-clone/internal/alerts"
	"github.com/nshivakumar1/social-app-clone/internal/config"
	"github.com/nshivakumar1/social-app-clone/internal/middleware"
)

func main() {
	message := flag.String("message", "", "Notification text (required)")
	severity := flag.String("severity", "good", "Slack severity: good, warning, or danger")
	jira := flag.Bool("jira", false, "Also file a Jira incident")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall send timeout")
	flag.Parse()

	if *message == "" {
		flag.Usage()
		log.Fatal("-message is required")
	}

	switch alerts.Severity(*severity) {
	case alerts.SeverityGood, alerts.SeverityWarning, alerts.SeverityDanger:
	default:
		log.Fatalf("unknown severity %q", *severity)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger := middleware.Logger

	slack := alerts.NewSlackNotifier(cfg.SlackWebhookURL, cfg.SlackChannel, cfg.Env, logger)
	if !slack.Enabled() && !*jira {
		log.Fatal("no sink configured: set SLACK_WEBHOOK_URL or pass -jira")
	}
	slack.Send(ctx, *message, alerts.Severity(*severity))

	if *jira {
		jc := alerts.NewJiraClient(cfg.JiraHost, cfg.JiraUsername, cfg.JiraAPIToken,
			cfg.JiraProjectKey, logger)
		jc.CreateIncident(ctx, *message)
	}
}
