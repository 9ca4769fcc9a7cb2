package source

import (
	"fmt"
	"strings"
)

// Kind selects one provider family. The set is closed.
type Kind string

const (
	Pulsoid       Kind = "Pulsoid"
	PulsoidWidget Kind = "PulsoidWidget"
	HypeRate      Kind = "HypeRate"
	FeedLink      Kind = "FeedLink"
)

var kinds = []Kind{Pulsoid, PulsoidWidget, HypeRate, FeedLink}

// Kinds returns every supported kind in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

var _ fmt.Stringer = Kind("")

func (k Kind) String() string { return string(k) }

// Streaming reports whether the provider pushes frames instead of being polled.
func (k Kind) Streaming() bool { return k == HypeRate }

func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind is case-insensitive and accepts the old WebRequest name for FeedLink.
func ParseKind(s string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, k := range kinds {
		if strings.ToLower(string(k)) == normalized {
			return k, nil
		}
	}
	if normalized == "webrequest" {
		return FeedLink, nil
	}
	return "", fmt.Errorf("invalid data source: %q (valid: %s)", s, strings.Join(kindNames(), ", "))
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func kindNames() []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
