package collect

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v82/github"

	"github.com/randalmurphal/pulse/internal/activity"
)

// githubConfidence is slightly below local git: event payloads summarize
// work rather than show it.
const githubConfidence = 0.9

// GitHubCollector pulls the authenticated user's recent public and private
// events and maps pushes, pull requests, branches and releases onto git
// activities.
type GitHubCollector struct {
	client *gogithub.Client
	user   string
	logger *slog.Logger
}

// NewGitHubCollector builds a collector for user authenticated by token.
func NewGitHubCollector(token, user string, logger *slog.Logger) *GitHubCollector {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{
		Transport: &oauth2Transport{token: token},
	}
	return &GitHubCollector{
		client: gogithub.NewClient(httpClient),
		user:   user,
		logger: logger,
	}
}

// oauth2Transport adds an Authorization header to every request.
type oauth2Transport struct {
	token string
	base  http.RoundTripper
}

func (t *oauth2Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set("Authorization", "Bearer "+t.token)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req2)
}

func (c *GitHubCollector) Name() string { return "github" }

// Collect pages through the user's events newest-first and stops as soon
// as it sees one older than the window.
func (c *GitHubCollector) Collect(ctx context.Context, w Window) ([]*activity.Activity, error) {
	var acts []*activity.Activity
	opts := &gogithub.ListOptions{PerPage: 100}

	for {
		events, resp, err := c.client.Activity.ListEventsPerformedByUser(ctx, c.user, false, opts)
		if err != nil {
			return nil, fmt.Errorf("list events for %s: %w", c.user, err)
		}
		for _, ev := range events {
			created := ev.GetCreatedAt().Time
			if created.Before(w.Since) {
				return acts, nil
			}
			if !w.Contains(created) {
				continue
			}
			acts = append(acts, eventActivities(ev)...)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("github events collected", "user", c.user, "activities", len(acts))
	return acts, nil
}

// eventActivities maps one event onto activities. Event types that carry
// no work signal map to nothing.
func eventActivities(ev *gogithub.Event) []*activity.Activity {
	repo := ev.GetRepo().GetName()
	created := ev.GetCreatedAt().Time

	payload, err := ev.ParsePayload()
	if err != nil {
		return nil
	}

	newAct := func(desc, kind string) *activity.Activity {
		a := activity.New(activity.SourceGit, created, desc, githubConfidence)
		a.Raw["repo"] = repo
		a.Raw["kind"] = kind
		a.Raw["remote"] = true
		return a
	}

	switch p := payload.(type) {
	case *gogithub.PushEvent:
		branch := strings.TrimPrefix(p.GetRef(), "refs/heads/")
		n := len(p.Commits)
		desc := fmt.Sprintf("Pushed %d commit(s) to %s", n, repo)
		a := newAct(desc, "push")
		a.Raw["branch"] = branch
		if n > 0 {
			msgs := make([]string, 0, n)
			for _, commit := range p.Commits {
				msgs = append(msgs, commit.GetMessage())
			}
			a.Raw["commits"] = msgs
		}
		return []*activity.Activity{a}

	case *gogithub.PullRequestEvent:
		pr := p.GetPullRequest()
		var verb string
		switch p.GetAction() {
		case "opened":
			verb = "Opened"
		case "reopened":
			verb = "Reopened"
		case "closed":
			if pr.GetMerged() {
				verb = "Merged"
			} else {
				verb = "Closed"
			}
		default:
			return nil
		}
		a := newAct(fmt.Sprintf("%s PR #%d: %s", verb, pr.GetNumber(), pr.GetTitle()), "pull_request")
		a.Raw["branch"] = pr.GetHead().GetRef()
		return []*activity.Activity{a}

	case *gogithub.CreateEvent:
		if p.GetRefType() != "branch" {
			return nil
		}
		a := newAct(fmt.Sprintf("Created branch %s in %s", p.GetRef(), repo), "branch")
		a.Raw["branch"] = p.GetRef()
		return []*activity.Activity{a}

	case *gogithub.ReleaseEvent:
		if p.GetAction() != "published" {
			return nil
		}
		return []*activity.Activity{
			newAct(fmt.Sprintf("Published release %s in %s", p.GetRelease().GetTagName(), repo), "release"),
		}
	}

	return nil
}
