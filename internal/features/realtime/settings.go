package realtime

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	HubName     = "logstream"
	EventNewLog = "newLog"
)

// Settings is the realtime backend parsed from a SignalR connection string.
type Settings struct {
	Endpoint  string
	AccessKey string
}

// ParseConnectionString reads "Endpoint=...;AccessKey=...;Version=1.0;".
// An optional Port overrides the endpoint port. Access keys are base64 and
// may contain '=' so only the first '=' of each part separates key from value.
func ParseConnectionString(connectionString string) (*Settings, error) {
	var endpoint, accessKey, port string
	for _, part := range strings.Split(connectionString, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}

		switch strings.ToLower(key) {
		case "endpoint":
			endpoint = value
		case "accesskey":
			accessKey = value
		case "port":
			port = value
		}
	}

	if endpoint == "" || accessKey == "" {
		return nil, errors.New("connection string must contain Endpoint and AccessKey")
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid realtime endpoint %q", endpoint)
	}

	if port != "" {
		parsed.Host = parsed.Hostname() + ":" + port
	}

	return &Settings{
		Endpoint:  strings.TrimRight(parsed.Scheme+"://"+parsed.Host+parsed.Path, "/"),
		AccessKey: accessKey,
	}, nil
}

func (s *Settings) BroadcastURL(hub string) string {
	return s.Endpoint + "/api/v1/hubs/" + hub
}

func (s *Settings) ClientURL(hub string) string {
	return s.Endpoint + "/client/?hub=" + hub
}
