package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nshivakumar1/social-app-clone/internal/observability"
)

// issueTypesToTry is the fallback order when a Jira project rejects an
// issue type. Projects differ in which types exist, so we walk the list
// until one is accepted.
var issueTypesToTry = []string{"Task", "Story", "Issue", "Bug", "Epic"}

// JiraClient creates incident issues in a Jira project.
type JiraClient struct {
	host       string
	username   string
	apiToken   string
	projectKey string
	client     *http.Client
	logger     *slog.Logger
}

// NewJiraClient creates a client for the given Jira site. The host is a bare
// domain ("acme.atlassian.net"); an explicit scheme is honored as-is. Missing
// host, username, or token yields a disabled client whose CreateIncident is a
// no-op.
func NewJiraClient(host, username, apiToken, projectKey string, logger *slog.Logger) *JiraClient {
	host = strings.TrimSuffix(host, "/")
	if host != "" && !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return &JiraClient{
		host:       host,
		username:   username,
		apiToken:   apiToken,
		projectKey: projectKey,
		client:     &http.Client{Timeout: defaultSinkTimeout},
		logger:     logger,
	}
}

// Enabled reports whether the client has the credentials it needs.
func (j *JiraClient) Enabled() bool {
	return j != nil && j.host != "" && j.username != "" && j.apiToken != ""
}

// adfDoc is the minimal Atlassian Document Format body Jira Cloud expects
// for issue descriptions.
type adfDoc struct {
	Type    string     `json:"type"`
	Version int        `json:"version"`
	Content []adfBlock `json:"content"`
}

type adfBlock struct {
	Type    string    `json:"type"`
	Content []adfText `json:"content"`
}

type adfText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type issueFields struct {
	Project     map[string]string `json:"project"`
	Summary     string            `json:"summary"`
	Description adfDoc            `json:"description"`
	IssueType   map[string]string `json:"issuetype"`
}

type issueRequest struct {
	Fields issueFields `json:"fields"`
}

// CreateIncident files an incident issue with the given description, trying
// each known issue type until the project accepts one. Errors are logged,
// never returned.
func (j *JiraClient) CreateIncident(ctx context.Context, description string) {
	if !j.Enabled() {
		j.logger.Warn("jira client disabled, dropping incident", "description", description)
		return
	}

	for _, issueType := range issueTypesToTry {
		key, err := j.createIssue(ctx, issueType, description)
		if err == nil {
			j.logger.Info("jira incident created", "issue", key, "issue_type", issueType)
			return
		}
		j.logger.Warn("jira issue type rejected, trying next", "issue_type", issueType, "error", err)
	}

	observability.NotificationSendFailures.WithLabelValues("jira").Inc()
	j.logger.Error("jira sink failure: all issue types rejected", "project", j.projectKey)
}

func (j *JiraClient) createIssue(ctx context.Context, issueType, description string) (string, error) {
	reqBody := issueRequest{
		Fields: issueFields{
			Project: map[string]string{"key": j.projectKey},
			Summary: fmt.Sprintf("Incident - %s", time.Now().UTC().Format(time.RFC3339)),
			Description: adfDoc{
				Type:    "doc",
				Version: 1,
				Content: []adfBlock{{
					Type:    "paragraph",
					Content: []adfText{{Type: "text", Text: description}},
				}},
			},
			IssueType: map[string]string{"name": issueType},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal issue: %w", err)
	}

	url := fmt.Sprintf("%s/rest/api/3/issue", j.host)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(j.username, j.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, respBody)
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return created.Key, nil
}
