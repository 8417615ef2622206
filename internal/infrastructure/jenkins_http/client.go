package jenkins_http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/davarch/jenkins-helper/internal/domain"
	"go.uber.org/zap"
)

const (
	jobsTreeQuery   = "api/json?tree=jobs[name,url,jobs[name,url,jobs[name,url]]]"
	apiSuffix       = "api/json"
	lastBuildSuffix = "lastBuild/api/json"
	buildWithParams = "buildWithParameters"
	blueOceanBase   = "blue/rest/organizations/jenkins/pipelines"
)

// ErrNoQueueLocation means the trigger was accepted but the response lacked
// the Location header pointing at the queue item.
var ErrNoQueueLocation = errors.New("trigger response missing queue location")

// Client talks to the Jenkins classic and Blue Ocean REST APIs with HTTP
// basic auth (username + API token). Operations never retry; the caller
// owns retry policy.
type Client struct {
	baseURL  string
	username string
	token    string
	hc       *http.Client
	log      *zap.Logger
}

func New(baseURL, username, token string, timeout time.Duration, log *zap.Logger) *Client {
	tr := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL:  domain.EnsureTrailingSlash(baseURL),
		username: username,
		token:    token,
		hc:       &http.Client{Transport: tr, Timeout: timeout},
		log:      log,
	}
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("jenkins %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) JobTree(ctx context.Context) ([]domain.Job, error) {
	var body struct {
		Jobs []domain.Job `json:"jobs"`
	}
	if err := c.getJSON(ctx, c.baseURL+jobsTreeQuery, &body); err != nil {
		return nil, err
	}
	return body.Jobs, nil
}

func (c *Client) QueueItem(ctx context.Context, queueURL string) (domain.QueueItem, error) {
	var item domain.QueueItem
	err := c.getJSON(ctx, domain.EnsureTrailingSlash(queueURL)+apiSuffix, &item)
	return item, err
}

func (c *Client) BuildDetail(ctx context.Context, jobURL string, number int) (domain.BuildDetail, error) {
	u := domain.EnsureTrailingSlash(jobURL) + strconv.Itoa(number) + "/" + apiSuffix
	var detail domain.BuildDetail
	err := c.getJSON(ctx, u, &detail)
	return detail, err
}

func (c *Client) LastBuild(ctx context.Context, jobURL string) (domain.BuildDetail, error) {
	var detail domain.BuildDetail
	err := c.getJSON(ctx, domain.EnsureTrailingSlash(jobURL)+lastBuildSuffix, &detail)
	return detail, err
}

// StageNodes fetches the Blue Ocean node list for one run. The job path is
// addressed by interleaving "pipelines" between its components:
//
//	Team/App -> .../pipelines/Team/pipelines/App/runs/<n>/nodes/
func (c *Client) StageNodes(ctx context.Context, jobPath string, number int) ([]domain.StageNode, error) {
	var parts []string
	for _, p := range strings.Split(jobPath, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	u := c.baseURL + blueOceanBase + "/" + strings.Join(parts, "/pipelines/") +
		"/runs/" + strconv.Itoa(number) + "/nodes/"

	var nodes []domain.StageNode
	err := c.getJSON(ctx, u, &nodes)
	return nodes, err
}

// TriggerBuild submits a parameterized build carrying the branch and returns
// the queue-item location. Anything but a 201 with a Location header is an
// error; this call is never retried by anyone.
func (c *Client) TriggerBuild(ctx context.Context, jobURL, branch string) (string, error) {
	form := url.Values{domain.BranchParameter: {branch}}
	u := domain.EnsureTrailingSlash(jobURL) + buildWithParams

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.username, c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("jenkins %s", resp.Status)
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", ErrNoQueueLocation
	}
	return location, nil
}

// PostWebhook delivers a JSON payload to an arbitrary URL. Best effort:
// callers log failures and move on.
func (c *Client) PostWebhook(ctx context.Context, u string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s", resp.Status)
	}
	return nil
}
