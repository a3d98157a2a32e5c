package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// configEnvVars lists every variable Load reads, so each test starts clean.
var configEnvVars = []string{
	"DATEADMIN_API_URL", "DATEADMIN_MEDIA_BASE_URL", "DATEADMIN_API_PREFIX",
	"DATEADMIN_PAGE_SIZE", "DATEADMIN_TOAST_DURATION", "DATEADMIN_REQUEST_TIMEOUT",
	"DATEADMIN_NATS_URL", "DATEADMIN_SESSION_FILE", "DATEADMIN_LOG_LEVEL",
	"DATEADMIN_EXPORT_S3_BUCKET", "DATEADMIN_EXPORT_S3_REGION",
	"DATEADMIN_EXPORT_S3_ENDPOINT", "DATEADMIN_EXPORT_S3_KEY",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func missingPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.toml")
}

func TestLoad_Defaults(t *testing.T) {
	clearAllEnv(t)
	c, err := Load(Options{Path: missingPath(t), EnvFiles: nil})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if c.APIURL != want.APIURL || c.PageSize != 10 || c.ToastDuration != 5*time.Second ||
		c.RequestTimeout != 30*time.Second || c.LogLevel != "warn" || c.APIPrefix != "/api" {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.Export.S3Region != "us-east-1" || c.Export.S3Key != "dateadmin/export.jsonl" {
		t.Errorf("unexpected export defaults: %+v", c.Export)
	}
	if c.NATSURL != "" {
		t.Errorf("NATSURL = %q, want empty", c.NATSURL)
	}
}

func TestLoad_Layering(t *testing.T) {
	for _, tc := range []struct {
		name        string
		toml        string
		dotenv      string
		env         map[string]string
		profile     string
		wantAPIURL  string
		wantPage    int
		wantNATS    string
		wantTimeout time.Duration
		wantBucket  string
	}{
		{
			name: "TOMLOverridesDefaults",
			toml: `
api_url = "https://admin.example.com/api"
page_size = 25
request_timeout = "10s"

[export]
s3_bucket = "backups"
`,
			wantAPIURL:  "https://admin.example.com/api",
			wantPage:    25,
			wantTimeout: 10 * time.Second,
			wantBucket:  "backups",
		},
		{
			name:        "EnvOverridesTOML",
			toml:        `api_url = "https://admin.example.com/api"`,
			env:         map[string]string{"DATEADMIN_API_URL": "https://env.example.com/api", "DATEADMIN_EXPORT_S3_BUCKET": "env-bucket"},
			wantAPIURL:  "https://env.example.com/api",
			wantPage:    10,
			wantTimeout: 30 * time.Second,
			wantBucket:  "env-bucket",
		},
		{
			name:        "DotEnvFeedsEnvironment",
			dotenv:      "DATEADMIN_PAGE_SIZE=50\nDATEADMIN_NATS_URL=nats://localhost:4222\n",
			wantAPIURL:  Default().APIURL,
			wantPage:    50,
			wantNATS:    "nats://localhost:4222",
			wantTimeout: 30 * time.Second,
		},
		{
			name: "ProfileAppliedBeforeEnv",
			toml: `
api_url = "https://prod.example.com/api"

[profiles.staging]
api_url = "https://staging.example.com/api"
nats_url = "nats://staging:4222"
`,
			profile:     "staging",
			wantAPIURL:  "https://staging.example.com/api",
			wantPage:    10,
			wantNATS:    "nats://staging:4222",
			wantTimeout: 30 * time.Second,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			opts := Options{Path: missingPath(t), Profile: tc.profile}
			if tc.toml != "" {
				opts.Path = writeFile(t, "config.toml", tc.toml)
			}
			if tc.dotenv != "" {
				opts.EnvFiles = []string{writeFile(t, ".env", tc.dotenv)}
			}

			c, err := Load(opts)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if c.APIURL != tc.wantAPIURL {
				t.Errorf("APIURL = %q, want %q", c.APIURL, tc.wantAPIURL)
			}
			if c.PageSize != tc.wantPage {
				t.Errorf("PageSize = %d, want %d", c.PageSize, tc.wantPage)
			}
			if c.NATSURL != tc.wantNATS {
				t.Errorf("NATSURL = %q, want %q", c.NATSURL, tc.wantNATS)
			}
			if c.RequestTimeout != tc.wantTimeout {
				t.Errorf("RequestTimeout = %s, want %s", c.RequestTimeout, tc.wantTimeout)
			}
			if c.Export.S3Bucket != tc.wantBucket {
				t.Errorf("S3Bucket = %q, want %q", c.Export.S3Bucket, tc.wantBucket)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name    string
		toml    string
		env     map[string]string
		profile string
	}{
		{name: "RelativeAPIURL", toml: `api_url = "/api"`},
		{name: "ZeroPageSize", env: map[string]string{"DATEADMIN_PAGE_SIZE": "0"}},
		{name: "BadPageSize", env: map[string]string{"DATEADMIN_PAGE_SIZE": "ten"}},
		{name: "BadDuration", env: map[string]string{"DATEADMIN_TOAST_DURATION": "soon"}},
		{name: "BadLogLevel", env: map[string]string{"DATEADMIN_LOG_LEVEL": "loud"}},
		{name: "UnknownProfile", profile: "nope"},
		{name: "MalformedTOML", toml: `api_url = `},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			opts := Options{Path: missingPath(t), Profile: tc.profile}
			if tc.toml != "" {
				opts.Path = writeFile(t, "config.toml", tc.toml)
			}
			if _, err := Load(opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMediaBase(t *testing.T) {
	c := Default()
	c.APIURL = "https://admin.example.com:8443/api"
	if got := c.MediaBase(); got != "https://admin.example.com:8443" {
		t.Errorf("MediaBase = %q", got)
	}
	c.MediaBaseURL = "https://cdn.example.com"
	if got := c.MediaBase(); got != "https://cdn.example.com" {
		t.Errorf("MediaBase = %q", got)
	}
}
