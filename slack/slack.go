package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"nutritionagent"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// PostReport formats a nutrition report into a readable message and posts it.
func (c *Client) PostReport(ctx context.Context, channel string, report nutritionagent.NutritionReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", report.Summary)
	fmt.Fprintf(&b, "Calories: %.1f kcal\n", report.Calories)
	for name, v := range report.Macros {
		fmt.Fprintf(&b, "%s: %.1f g\n", name, v)
	}
	if len(report.Unresolved) > 0 {
		fmt.Fprintf(&b, "Unresolved: %s\n", strings.Join(report.Unresolved, ", "))
	}
	return c.PostMessage(ctx, channel, b.String())
}
