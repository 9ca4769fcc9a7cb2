package source

import (
	"context"
	"net/http"
	"strings"

	go_json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

type pulsoidAdapter struct {
	cfg *config
}

var _ Adapter = (*pulsoidAdapter)(nil)

func (a *pulsoidAdapter) Kind() Kind { return Pulsoid }

func (a *pulsoidAdapter) Open(_ context.Context, cred Credential) (Conn, error) {
	if cred.Empty() {
		return nil, configErr(Pulsoid, "access token is empty")
	}
	token := strings.TrimSpace(string(cred))
	if strings.ContainsAny(token, " \t\r\n") {
		return nil, configErr(Pulsoid, "access token contains whitespace")
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
	client := &http.Client{
		Transport: &oauth2.Transport{Source: tokenSource, Base: a.cfg.httpClient.Transport},
		Timeout:   a.cfg.httpClient.Timeout,
	}

	return &pollConn{
		kind:    Pulsoid,
		client:  client,
		url:     strings.TrimSuffix(a.cfg.pulsoidURL, "/") + "/api/v1/data/heart_rate/latest",
		accept:  "application/json",
		timeout: a.cfg.requestTimeout,
		parse:   parsePulsoid,
	}, nil
}

type pulsoidLatest struct {
	MeasuredAt int64 `json:"measured_at"`
	Data       struct {
		HeartRate *int `json:"heart_rate"`
	} `json:"data"`
}

func parsePulsoid(body []byte) (int, error) {
	var latest pulsoidLatest
	if err := go_json.Unmarshal(body, &latest); err != nil {
		return 0, err
	}
	if latest.Data.HeartRate == nil {
		return 0, errMissingField
	}
	return *latest.Data.HeartRate, nil
}
