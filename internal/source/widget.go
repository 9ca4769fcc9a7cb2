package source

import (
	"context"
	"strings"

	go_json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

type widgetAdapter struct {
	cfg *config
}

var _ Adapter = (*widgetAdapter)(nil)

func (a *widgetAdapter) Kind() Kind { return PulsoidWidget }

func (a *widgetAdapter) Open(_ context.Context, cred Credential) (Conn, error) {
	if cred.Empty() {
		return nil, configErr(PulsoidWidget, "widget id is empty")
	}
	id, err := uuid.Parse(strings.TrimSpace(string(cred)))
	if err != nil {
		return nil, configErr(PulsoidWidget, "widget id is not a valid uuid")
	}

	return &pollConn{
		kind:    PulsoidWidget,
		client:  a.cfg.httpClient,
		url:     strings.TrimSuffix(a.cfg.widgetURL, "/") + "/v1/api/feed/" + id.String(),
		accept:  "application/json",
		timeout: a.cfg.requestTimeout,
		parse:   parseWidget,
	}, nil
}

type widgetFeed struct {
	BPM        *int   `json:"bpm"`
	MeasuredAt string `json:"measured_at"`
}

func parseWidget(body []byte) (int, error) {
	var feed widgetFeed
	if err := go_json.Unmarshal(body, &feed); err != nil {
		return 0, err
	}
	if feed.BPM == nil {
		return 0, errMissingField
	}
	return *feed.BPM, nil
}
