package source

import "testing"

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{name: "exact", input: "Pulsoid", want: Pulsoid},
		{name: "lower case", input: "pulsoidwidget", want: PulsoidWidget},
		{name: "upper case with spaces", input: "  HYPERATE ", want: HypeRate},
		{name: "feed link", input: "FeedLink", want: FeedLink},
		{name: "legacy web request", input: "WebRequest", want: FeedLink},
		{name: "unknown", input: "FitbitHRtoWS", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKindStreaming(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		if !k.Valid() {
			t.Errorf("%s.Valid() = false", k)
		}
		if got, want := k.Streaming(), k == HypeRate; got != want {
			t.Errorf("%s.Streaming() = %v, want %v", k, got, want)
		}
	}
	if Kind("Other").Valid() {
		t.Error(`Kind("Other").Valid() = true`)
	}
}

func TestCredentialsFor(t *testing.T) {
	t.Parallel()

	creds := Credentials{
		PulsoidToken:      "pulsoid-token",
		HypeRateSessionID: "ABCD",
		FeedLink:          "http://localhost:8080/hr",
	}

	tests := []struct {
		kind Kind
		want Credential
	}{
		{kind: Pulsoid, want: "pulsoid-token"},
		{kind: PulsoidWidget, want: ""},
		{kind: HypeRate, want: "ABCD"},
		{kind: FeedLink, want: "http://localhost:8080/hr"},
		{kind: Kind("Other"), want: ""},
	}
	for _, tt := range tests {
		if got := creds.For(tt.kind); got != tt.want {
			t.Errorf("For(%s) = %q, want %q", tt.kind, string(got), string(tt.want))
		}
	}
}

func TestCredential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cred      Credential
		wantMask  string
		wantEmpty bool
	}{
		{name: "empty", cred: "", wantMask: "", wantEmpty: true},
		{name: "legacy not set", cred: "NotSet", wantMask: "NotS**", wantEmpty: true},
		{name: "blank", cred: "   ", wantMask: "***", wantEmpty: true},
		{name: "short", cred: "abc", wantMask: "***"},
		{name: "token", cred: "abcdefgh", wantMask: "abcd****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cred.String(); got != tt.wantMask {
				t.Errorf("String() = %q, want %q", got, tt.wantMask)
			}
			if got := tt.cred.Empty(); got != tt.wantEmpty {
				t.Errorf("Empty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}
