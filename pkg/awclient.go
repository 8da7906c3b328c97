package netwatchd

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Oldest event server with the heartbeat endpoint we rely on.
const minServerVersion = "0.8.0"

type AWServerInfo struct {
	Hostname string `json:"hostname"`
	Version  string `json:"version"`
	Testing  bool   `json:"testing"`
}

var _ EventSink = &AWClient{}

// AWClient talks to an ActivityWatch-compatible event server. The
// underlying resty client is goroutine-safe, so both watchers can share
// one AWClient.
type AWClient struct {
	client     *resty.Client
	clientName string
	hostname   string
}

func NewAWClient(host string, port int, clientName, hostname string) *AWClient {
	client := resty.New()
	client.SetBaseURL(fmt.Sprintf("http://%s:%d/api/0", host, port))
	client.SetHeader("Accept", "application/json")
	client.SetContentLength(true)

	return &AWClient{
		client:     client,
		clientName: clientName,
		hostname:   hostname,
	}
}

func (t *AWClient) ServerInfo() (AWServerInfo, error) {
	var info AWServerInfo
	resp, err := t.client.R().SetResult(&info).Get("/info")
	if err != nil {
		return AWServerInfo{}, err
	}
	if resp.IsError() {
		return AWServerInfo{}, fmt.Errorf("info request returned %s", resp.Status())
	}
	return info, nil
}

// CreateBucket is idempotent: the server answers 304 when the bucket
// already exists.
func (t *AWClient) CreateBucket(bucketID string, eventType string) error {
	resp, err := t.client.R().SetBody(map[string]string{
		"client":   t.clientName,
		"type":     eventType,
		"hostname": t.hostname,
	}).Post("/buckets/" + bucketID)

	if err != nil {
		return err
	}
	if resp.IsError() && resp.StatusCode() != http.StatusNotModified {
		return fmt.Errorf("bucket create returned %s", resp.Status())
	}
	return nil
}

func (t *AWClient) Heartbeat(bucketID string, event Event, pulsetime float64) error {
	resp, err := t.client.R().
		SetQueryParam("pulsetime", strconv.FormatFloat(pulsetime, 'f', -1, 64)).
		SetBody(event).
		Post("/buckets/" + bucketID + "/heartbeat")

	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("heartbeat returned %s", resp.Status())
	}
	return nil
}

// WarnIfOldServer compares the event server's reported version against
// the minimum we support. Unparseable versions only get a debug line,
// dev builds report things like "master".
func WarnIfOldServer(version string) {
	parsed, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		logrus.WithField("version", version).Debug("could not parse event server version")
		return
	}
	if parsed.LessThan(semver.MustParse(minServerVersion)) {
		logrus.Warnf("event server %s is older than supported minimum %s", version, minServerVersion)
	}
}
