package source

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"
)

type feedAdapter struct {
	cfg *config
}

var _ Adapter = (*feedAdapter)(nil)

func (a *feedAdapter) Kind() Kind { return FeedLink }

func (a *feedAdapter) Open(_ context.Context, cred Credential) (Conn, error) {
	if cred.Empty() {
		return nil, configErr(FeedLink, "feed link is not set")
	}
	u, err := url.Parse(strings.TrimSpace(string(cred)))
	if err != nil {
		return nil, configErr(FeedLink, "feed link is not a valid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, configErr(FeedLink, "feed link must be http or https")
	}
	if u.Host == "" {
		return nil, configErr(FeedLink, "feed link has no host")
	}

	return &pollConn{
		kind:    FeedLink,
		client:  a.cfg.httpClient,
		url:     u.String(),
		accept:  "text/plain",
		timeout: a.cfg.requestTimeout,
		parse:   parseBareInt,
	}, nil
}

func parseBareInt(body []byte) (int, error) {
	return strconv.Atoi(string(bytes.TrimSpace(body)))
}
