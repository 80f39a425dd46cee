package httpclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", cfg.Timeout)
	}

	cfg = Config{Timeout: 3 * time.Second}
	cfg.ApplyDefaults()
	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s to be kept, got %v", cfg.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BaseURL: "http://localhost:8080", Timeout: time.Second}, false},
		{"empty base url", Config{Timeout: time.Second}, false},
		{"negative timeout", Config{Timeout: -1}, true},
		{"bad base url", Config{BaseURL: "not a url", Timeout: time.Second}, true},
		{"cert without key", Config{Timeout: time.Second, TLS: &TLSConfig{CertFile: "cert.pem"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTLSConfig_Build(t *testing.T) {
	var nilCfg *TLSConfig
	if got, err := nilCfg.Build(); got != nil || err != nil {
		t.Errorf("nil config should build to nil, got %v, %v", got, err)
	}

	got, err := (&TLSConfig{SkipVerify: true}).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got == nil || !got.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify to be set")
	}

	bad := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(bad, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (&TLSConfig{CAFile: bad}).Build(); err == nil {
		t.Error("expected error for CA file without certificates")
	}
}
