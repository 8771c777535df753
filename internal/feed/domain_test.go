package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"feedbridge/internal/logger"
)

type fakeDirectory struct {
	domains    []json.RawMessage
	domainsErr error
	store      map[string]json.RawMessage
	storeErr   error
}

func (f *fakeDirectory) GetDomains(ctx context.Context, storeID, accessToken string) ([]json.RawMessage, error) {
	return f.domains, f.domainsErr
}

func (f *fakeDirectory) GetStore(ctx context.Context, storeID, accessToken string) (map[string]json.RawMessage, error) {
	return f.store, f.storeErr
}

func testLogger() *logger.Logger { return logger.New("error") }

func TestResolve_ExplicitOverrideWins(t *testing.T) {
	r := NewDomainResolver(map[string]string{"42": "config.example.com"}, "mitiendanube.com", &fakeDirectory{}, testLogger())

	host := r.Resolve(context.Background(), "42", "tok", "https://shop.example.com/")
	if host != "shop.example.com" {
		t.Fatalf("got %q", host)
	}
}

func TestResolve_OverrideRejectedWhenPlatformOwned(t *testing.T) {
	r := NewDomainResolver(map[string]string{"42": "config.example.com"}, "mitiendanube.com", &fakeDirectory{}, testLogger())

	host := r.Resolve(context.Background(), "42", "tok", "shop.mitiendanube.com")
	if host != "config.example.com" {
		t.Fatalf("platform-owned override must fall through to config map, got %q", host)
	}
}

func TestResolve_OverrideRejectedWhenNotAHost(t *testing.T) {
	r := NewDomainResolver(nil, "mitiendanube.com", &fakeDirectory{
		domainsErr: fmt.Errorf("boom"),
		storeErr:   fmt.Errorf("boom"),
	}, testLogger())

	host := r.Resolve(context.Background(), "42", "tok", "not a host")
	if host != "42.mitiendanube.com" {
		t.Fatalf("got %q", host)
	}
}

func TestResolve_DomainsEndpointPrefersCustomDomain(t *testing.T) {
	dir := &fakeDirectory{
		domains: []json.RawMessage{
			json.RawMessage(`"shop.mitiendanube.com"`),
			json.RawMessage(`{"domain": "https://www.custom-shop.com/"}`),
		},
	}
	r := NewDomainResolver(nil, "mitiendanube.com", dir, testLogger())

	host := r.Resolve(context.Background(), "42", "tok", "")
	if host != "www.custom-shop.com" {
		t.Fatalf("got %q", host)
	}
}

func TestResolve_DomainsEndpointFallsBackToFirstEntry(t *testing.T) {
	dir := &fakeDirectory{
		domains: []json.RawMessage{
			json.RawMessage(`"shop.mitiendanube.com"`),
			json.RawMessage(`"other.mitiendanube.com"`),
		},
	}
	r := NewDomainResolver(nil, "mitiendanube.com", dir, testLogger())

	host := r.Resolve(context.Background(), "42", "tok", "")
	if host != "shop.mitiendanube.com" {
		t.Fatalf("got %q", host)
	}
}

func TestResolve_StoreEndpointAlternateFields(t *testing.T) {
	tests := []struct {
		name  string
		store map[string]json.RawMessage
		want  string
	}{
		{
			"domains array",
			map[string]json.RawMessage{"domains": json.RawMessage(`[{"host": "store.example.net"}]`)},
			"store.example.net",
		},
		{
			"single domain field",
			map[string]json.RawMessage{"domain": json.RawMessage(`"store.example.org"`)},
			"store.example.org",
		},
		{
			"url field",
			map[string]json.RawMessage{"url": json.RawMessage(`"https://store.example.io"`)},
			"store.example.io",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := &fakeDirectory{domainsErr: fmt.Errorf("403"), store: tt.store}
			r := NewDomainResolver(nil, "mitiendanube.com", dir, testLogger())

			host := r.Resolve(context.Background(), "42", "tok", "")
			if host != tt.want {
				t.Fatalf("got %q want %q", host, tt.want)
			}
		})
	}
}

func TestResolve_FallbackWhenEverythingFails(t *testing.T) {
	dir := &fakeDirectory{
		domainsErr: fmt.Errorf("401 unauthorized"),
		storeErr:   fmt.Errorf("404 not found"),
	}
	r := NewDomainResolver(nil, "mitiendanube.com", dir, testLogger())

	host := r.Resolve(context.Background(), "12345", "tok", "")
	if host != "12345.mitiendanube.com" {
		t.Fatalf("got %q", host)
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://shop.example.com/", "shop.example.com"},
		{"http://Shop.Example.COM", "shop.example.com"},
		{"shop.example.com///", "shop.example.com"},
		{"  shop.example.com ", "shop.example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeHost(tt.in); got != tt.want {
			t.Fatalf("normalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDomainValue_NestedStructures(t *testing.T) {
	raw := json.RawMessage(`{"url": {"host": "https://deep.example.com"}}`)
	if got := normalizeDomainValue(raw, 0); got != "deep.example.com" {
		t.Fatalf("got %q", got)
	}

	if got := normalizeDomainValue(json.RawMessage(`{"other": "x"}`), 0); got != "" {
		t.Fatalf("expected empty for unknown fields, got %q", got)
	}
}
