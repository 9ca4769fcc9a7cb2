package source

import "strings"

// Credential is the opaque secret for one provider: a token, session id,
// widget id or feed URL. String masks it.
type Credential string

const unsetCredential = "NotSet"

func (c Credential) String() string {
	const visible = 4
	if len(c) <= visible {
		return strings.Repeat("*", len(c))
	}
	return string(c[:visible]) + strings.Repeat("*", len(c)-visible)
}

// Empty treats blank strings and the legacy "NotSet" marker as unset.
func (c Credential) Empty() bool {
	v := strings.TrimSpace(string(c))
	return v == "" || v == unsetCredential
}

// Credentials keeps one credential per kind so switching sources and back
// does not lose anything.
type Credentials struct {
	PulsoidToken      Credential `env:"PULSOID_TOKEN"`
	PulsoidWidgetID   Credential `env:"PULSOID_WIDGET_ID"`
	HypeRateSessionID Credential `env:"HYPERATE_SESSION_ID"`
	FeedLink          Credential `env:"FEED_LINK"`
}

func (c Credentials) For(kind Kind) Credential {
	switch kind {
	case Pulsoid:
		return c.PulsoidToken
	case PulsoidWidget:
		return c.PulsoidWidgetID
	case HypeRate:
		return c.HypeRateSessionID
	case FeedLink:
		return c.FeedLink
	default:
		return ""
	}
}
