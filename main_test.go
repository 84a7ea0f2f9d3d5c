package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cjsliuj/mppf/profile/profiletest"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	valid := profiletest.WriteProfile(t, dir, "valid.mobileprovision", profiletest.Fields("Valid", time.Now().AddDate(-1, 0, 0), time.Now().AddDate(1, 0, 0)))
	profiletest.WriteProfile(t, dir, "expired.mobileprovision", profiletest.Fields("Expired", time.Now().AddDate(-2, 0, 0), time.Now().AddDate(-1, 0, 0)))

	t.Setenv("MPPF_PROFILES_DIR", dir)
	t.Setenv("MPPF_DECODER", "pkcs7")

	tests := []struct {
		name       string
		args       []string
		stdin      string
		wantCode   int
		wantOutput string
	}{
		{
			name:       "version",
			args:       []string{"--version"},
			wantCode:   0,
			wantOutput: "mppf 1.5",
		},
		{
			name:       "clean without filters prints help",
			args:       []string{"clean"},
			wantCode:   1,
			wantOutput: "--remove-duplicates",
		},
		{
			name:     "clean declined",
			args:     []string{"clean", "-e"},
			stdin:    "maybe\nn\n",
			wantCode: 1,
		},
		{
			name:     "clean dry run",
			args:     []string{"clean", "-e", "--dry-run"},
			wantCode: 0,
		},
		{
			name:     "list",
			args:     []string{"list", "--long"},
			wantCode: 0,
		},
		{
			name:     "info",
			args:     []string{"info", valid, "--format", "json"},
			wantCode: 0,
		},
		{
			name:     "info with legacy certificate flag",
			args:     []string{"info", "-cer", valid},
			wantCode: 0,
		},
		{
			name:     "info on a missing file",
			args:     []string{"info", "missing.mobileprovision"},
			wantCode: 1,
		},
		{
			name:     "info without target",
			args:     []string{"info"},
			wantCode: 1,
		},
		{
			name:     "unknown decoder",
			args:     []string{"list", "--decoder", "openssl"},
			wantCode: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			code := run(tt.args, strings.NewReader(tt.stdin), &stdout)

			require.Equal(t, tt.wantCode, code)
			require.Contains(t, stdout.String(), tt.wantOutput)
		})
	}

	t.Log("declined and dry runs keep the files")
	{
		require.FileExists(t, valid)
		require.FileExists(t, dir+"/expired.mobileprovision")
	}
}

func TestRun_CleanRemovesConfirmedProfiles(t *testing.T) {
	dir := t.TempDir()
	expired := profiletest.WriteProfile(t, dir, "expired.mobileprovision", profiletest.Fields("Expired", time.Now().AddDate(-2, 0, 0), time.Now().AddDate(-1, 0, 0)))
	valid := profiletest.WriteProfile(t, dir, "valid.mobileprovision", profiletest.Fields("Valid", time.Now().AddDate(-1, 0, 0), time.Now().AddDate(1, 0, 0)))

	t.Setenv("MPPF_PROFILES_DIR", dir)
	t.Setenv("MPPF_DECODER", "pkcs7")

	var stdout bytes.Buffer
	code := run([]string{"clean", "-e"}, strings.NewReader("y\n"), &stdout)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "(y/n)")
	require.NoFileExists(t, expired)
	require.FileExists(t, valid)
}

func TestNormalizeArgs(t *testing.T) {
	require.Equal(t, []string{"info", "--cer", "a.mobileprovision"}, normalizeArgs([]string{"info", "-cer", "a.mobileprovision"}))
	require.Equal(t, []string{"clean", "-e", "-p", "XC.*"}, normalizeArgs([]string{"clean", "-e", "-p", "XC.*"}))
	require.Empty(t, normalizeArgs(nil))
}
