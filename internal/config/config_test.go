package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/scanflow/scanctl/internal/iam"
	"github.com/scanflow/scanctl/internal/upload"
	"github.com/scanflow/scanctl/internal/viper"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := fs.NewDir(t, "cfg", fs.WithFile(".scanctl.yml", "folder: Sandbox/001\n"))
	defer dir.Remove()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir.Path()))
	defer func() { _ = os.Chdir(wd) }()

	SetDefaults(iam.Credentials{URL: "https://scan.example.com/repo", Token: "stored"})
	cfg, err := Load("")
	require.NoError(t, err)

	want := Config{
		URL:           "https://scan.example.com/repo",
		Token:         "stored",
		Folder:        "Sandbox/001",
		ReuseGroup:    DefaultReuseGroup,
		TokenScope:    DefaultTokenScope,
		TokenValidity: DefaultTokenValidity,
		PollInterval:  DefaultPollInterval,
		Timeout:       DefaultTimeout,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := fs.NewDir(t, "cfg", fs.WithFile("run.yml", `
url: https://file.example.com
token: ${SCAN_TOKEN}
poll-interval: 250ms
group: 4
reuse: true
`))
	defer dir.Remove()

	t.Setenv("SCAN_TOKEN", "expanded")
	t.Setenv("SCANCTL_URL", "https://env.example.com")
	t.Setenv("SCANCTL_REUSE_GROUP", "qa")

	SetDefaults(iam.Credentials{URL: "https://stored.example.com", Username: "alice"})
	cfg, err := Load(dir.Join("run.yml"))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.URL)
	assert.Equal(t, "expanded", cfg.Token)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 4, cfg.Group)
	assert.True(t, cfg.Reuse)
	assert.Equal(t, "qa", cfg.ReuseGroup)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	_, err := Load("/does/not/exist.yml")
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		URL:           "https://scan.example.com",
		File:          "source.tar.gz",
		TokenValidity: 1,
		PollInterval:  time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no url", mutate: func(c *Config) { c.URL = "" }, wantErr: "missing server url"},
		{name: "no target", mutate: func(c *Config) { c.File = "" }, wantErr: upload.ErrInvalidTarget.Error()},
		{name: "both targets", mutate: func(c *Config) { c.VCS = "https://git.example.com/x.git" }, wantErr: upload.ErrInvalidTarget.Error()},
		{name: "zero validity", mutate: func(c *Config) { c.TokenValidity = 0 }, wantErr: "invalid token validity 0"},
		{name: "zero interval", mutate: func(c *Config) { c.PollInterval = 0 }, wantErr: "invalid poll interval"},
		{name: "negative group", mutate: func(c *Config) { c.Group = -2 }, wantErr: "invalid group id -2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_RestBase(t *testing.T) {
	assert.Equal(t, "https://scan.example.com/repo/api/v1", Config{URL: "https://scan.example.com/repo/"}.RestBase())
	assert.Equal(t, "https://rest.example.com/v2", Config{URL: "https://scan.example.com", RestURL: "https://rest.example.com/v2"}.RestBase())
}

func TestConfig_GroupID(t *testing.T) {
	assert.Nil(t, Config{}.GroupID())
	g := Config{Group: 7}.GroupID()
	require.NotNil(t, g)
	assert.Equal(t, 7, *g)
}

func TestLoad_EnvOnly(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("SCANCTL_VCS", "https://git.example.com/project.git")
	t.Setenv("SCANCTL_GROUP", "9")
	t.Setenv("SCANCTL_REST_URL", "https://rest.example.com")

	SetDefaults(iam.Credentials{})
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://git.example.com/project.git", cfg.VCS)
	assert.Equal(t, 9, cfg.Group)
	assert.Equal(t, "https://rest.example.com", cfg.RestURL)
}

func TestLoad_SecretsPassThrough(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := fs.NewDir(t, "cfg", fs.WithFile("run.yml", "folder: $SCAN_FOLDER\n"))
	defer dir.Remove()

	t.Setenv("SCAN_FOLDER", "Releases")
	t.Setenv("SCANCTL_PASSWORD", "pa$$w0rd$HOME")

	SetDefaults(iam.Credentials{Username: "fo$sy", Token: "t0k$en"})
	cfg, err := Load(dir.Join("run.yml"))
	require.NoError(t, err)

	assert.Equal(t, "pa$$w0rd$HOME", cfg.Password)
	assert.Equal(t, "fo$sy", cfg.Username)
	assert.Equal(t, "t0k$en", cfg.Token)
	assert.Equal(t, "Releases", cfg.Folder, "references in the config file are expanded")
}
