package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/bitrise-io/go-xcode/exportoptions"
	"github.com/bitrise-io/go-xcode/plistutil"
	"github.com/cjsliuj/mppf/profile/profiletest"
	"github.com/stretchr/testify/require"
)

var (
	created = time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	expires = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
)

func TestNewProfile(t *testing.T) {
	t.Log("development profile")
	{
		payload := profiletest.Payload(t, profiletest.Fields("Bitrise Test Development", created, expires))

		p, err := NewProfile(payload)
		require.NoError(t, err)
		require.Equal(t, "Bitrise Test Development", p.Name)
		require.Equal(t, "4b617a5f-e31e-4edc-9460-718a5abacd05", p.UUID)
		require.True(t, created.Equal(p.CreationDate))
		require.True(t, expires.Equal(p.ExpirationDate))
		require.Equal(t, 365, p.TimeToLive)
		require.Equal(t, "Bitrise Test", p.AppIDName)
		require.Equal(t, []Platform{IOS}, p.Platforms)
		require.Equal(t, []string{"9NS44DLTN7"}, p.TeamIdentifiers)
		require.Equal(t, "9NS44DLTN7", p.TeamID())
		require.Equal(t, "Some Dude", p.TeamName)
		require.Equal(t, []string{"9NS44DLTN7"}, p.ApplicationIdentifierPrefix)
		require.Equal(t, 1, p.Version)
		require.Equal(t, []string{"b13813075ad9b298cb9a9f28555c49573d8bc322"}, p.ProvisionedDevices)
		require.Empty(t, p.DeveloperCertificates)
		require.Equal(t, payload, p.RawPayload)
		require.Equal(t, "", p.FilePath)

		require.Equal(t, []string{"9NS44DLTN7.*"}, p.Entitlements.KeychainAccessGroups)
		require.NotNil(t, p.Entitlements.GetTaskAllow)
		require.True(t, *p.Entitlements.GetTaskAllow)
		require.Equal(t, "9NS44DLTN7.*", *p.Entitlements.ApplicationIdentifier)
		require.Equal(t, "9NS44DLTN7", *p.Entitlements.TeamIdentifier)
		require.Nil(t, p.Entitlements.APSEnvironment)
		require.Nil(t, p.Entitlements.BetaReportsActive)
	}

	t.Log("optional keys default to absent")
	{
		fields := map[string]interface{}{
			"Name":           "Minimal",
			"CreationDate":   created,
			"ExpirationDate": expires,
		}

		p, err := NewProfile(profiletest.Payload(t, fields))
		require.NoError(t, err)
		require.Equal(t, "Minimal", p.Name)
		require.Equal(t, "", p.UUID)
		require.Nil(t, p.Platforms)
		require.Nil(t, p.DeveloperCertificates)
		require.Equal(t, "", p.TeamID())
		require.Equal(t, Entitlements{}, p.Entitlements)
	}

	t.Log("single string platform")
	{
		fields := profiletest.Fields("macOS", created, expires)
		fields["Platform"] = "macos"

		p, err := NewProfile(profiletest.Payload(t, fields))
		require.NoError(t, err)
		require.Equal(t, []Platform{OSX}, p.Platforms)
	}
}

func TestNewProfile_MandatoryKeys(t *testing.T) {
	for _, key := range []string{"Name", "CreationDate", "ExpirationDate"} {
		t.Run(key, func(t *testing.T) {
			fields := profiletest.Fields("Missing "+key, created, expires)
			delete(fields, key)

			_, err := NewProfile(profiletest.Payload(t, fields))

			var malformed *MalformedPayloadError
			require.True(t, errors.As(err, &malformed))
			require.Equal(t, key, malformed.Key)
		})
	}
}

func TestNewProfile_WrongTypedDateIsMissing(t *testing.T) {
	fields := profiletest.Fields("Epoch", created, expires)
	fields["ExpirationDate"] = "2024-01-01"

	_, err := NewProfile(profiletest.Payload(t, fields))

	var malformed *MalformedPayloadError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, "ExpirationDate", malformed.Key)
}

func TestNewProfile_NotADictionary(t *testing.T) {
	payload := `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><array><string>a</string></array></plist>`

	_, err := NewProfile(payload)

	var malformed *MalformedPayloadError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, "", malformed.Key)
}

func TestGetInt(t *testing.T) {
	data := plistutil.PlistData{
		"unsigned": uint64(365),
		"signed":   int64(-1),
		"string":   "365",
	}

	tests := []struct {
		key    string
		want   int
		wantOK bool
	}{
		{key: "unsigned", want: 365, wantOK: true},
		{key: "signed", want: -1, wantOK: true},
		{key: "string", want: 0, wantOK: false},
		{key: "missing", want: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := getInt(data, tt.key)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProfile_WithFilePath(t *testing.T) {
	p, err := NewProfile(profiletest.Payload(t, profiletest.Fields("A", created, expires)))
	require.NoError(t, err)

	bound := p.WithFilePath("/tmp/a.mobileprovision")
	require.Equal(t, "/tmp/a.mobileprovision", bound.FilePath)
	require.Equal(t, "", p.FilePath)
}

func TestProfile_IsExpired(t *testing.T) {
	p := Profile{ExpirationDate: expires}

	require.True(t, p.IsExpired(expires.Add(time.Second)))
	require.False(t, p.IsExpired(expires))
	require.False(t, p.IsExpired(expires.Add(-time.Second)))
}

func TestProfile_DistributionType(t *testing.T) {
	allow := true
	deny := false

	tests := []struct {
		name    string
		profile Profile
		want    exportoptions.Method
	}{
		{
			name:    "app store",
			profile: Profile{},
			want:    exportoptions.MethodAppStore,
		},
		{
			name:    "enterprise",
			profile: Profile{ProvisionsAllDevices: true},
			want:    exportoptions.MethodEnterprise,
		},
		{
			name:    "development",
			profile: Profile{ProvisionedDevices: []string{"udid"}, Entitlements: Entitlements{GetTaskAllow: &allow}},
			want:    exportoptions.MethodDevelopment,
		},
		{
			name:    "ad hoc",
			profile: Profile{ProvisionedDevices: []string{"udid"}, Entitlements: Entitlements{GetTaskAllow: &deny}},
			want:    exportoptions.MethodAdHoc,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.profile.DistributionType())
		})
	}
}

func TestParsePlatform(t *testing.T) {
	require.Equal(t, IOS, ParsePlatform("ios"))
	require.Equal(t, OSX, ParsePlatform("OSX"))
	require.Equal(t, TVOS, ParsePlatform("tvOS"))
	require.Equal(t, XROS, ParsePlatform("xrOS"))
	require.Equal(t, Platform("someOS"), ParsePlatform("someOS"))
}
