// Package jenkins is a minimal read-only client for the Jenkins remote
// access API: latest build lookup, per-build metadata, and console text.
package jenkins

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BuildInfo is the subset of Jenkins build metadata the reporter needs.
type BuildInfo struct {
	Number    int   `json:"number"`
	Timestamp int64 `json:"timestamp"` // epoch milliseconds
}

// Time returns the build start time.
func (b BuildInfo) Time() time.Time {
	return time.UnixMilli(b.Timestamp)
}

// Client reads one Jenkins job's history over the JSON API with basic
// auth. Failures are plain errors; callers treat every error as "build
// not available" and move on.
type Client struct {
	baseURL  string
	username string
	apiToken string
	httpc    *http.Client
}

// NewClient creates a client for the given job URL, e.g.
// "https://jenkins.example.com/job/QA/job/APITests". A trailing slash is
// tolerated.
func NewClient(jobURL, username, apiToken string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(jobURL, "/"),
		username: username,
		apiToken: apiToken,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// LatestBuildNumber returns the number of the job's most recent build.
func (c *Client) LatestBuildNumber() (int, error) {
	var info BuildInfo
	if err := c.getJSON(c.baseURL+"/lastBuild/api/json", &info); err != nil {
		return 0, err
	}
	return info.Number, nil
}

// BuildInfo fetches metadata for one build.
func (c *Client) BuildInfo(number int) (BuildInfo, error) {
	var info BuildInfo
	err := c.getJSON(fmt.Sprintf("%s/%d/api/json", c.baseURL, number), &info)
	return info, err
}

// ConsoleText fetches the raw console log for one build.
func (c *Client) ConsoleText(number int) (string, error) {
	body, err := c.get(fmt.Sprintf("%s/%d/consoleText", c.baseURL, number))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) getJSON(url string, out interface{}) error {
	body, err := c.get(url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

func (c *Client) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.apiToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
