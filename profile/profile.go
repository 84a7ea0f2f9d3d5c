package profile

import (
	"errors"
	"time"

	"github.com/bitrise-io/go-xcode/plistutil"
)

// Plist keys of a provisioning profile document.
const (
	keyAppIDName                   = "AppIDName"
	keyApplicationIdentifierPrefix = "ApplicationIdentifierPrefix"
	keyCreationDate                = "CreationDate"
	keyExpirationDate              = "ExpirationDate"
	keyPlatform                    = "Platform"
	keyName                        = "Name"
	keyTeamIdentifier              = "TeamIdentifier"
	keyTeamName                    = "TeamName"
	keyTimeToLive                  = "TimeToLive"
	keyUUID                        = "UUID"
	keyVersion                     = "Version"
	keyIsXcodeManaged              = "IsXcodeManaged"
	keyProvisionedDevices          = "ProvisionedDevices"
	keyProvisionsAllDevices        = "ProvisionsAllDevices"
	keyEntitlements                = "Entitlements"
	keyDeveloperCertificates       = "DeveloperCertificates"
)

// Profile is the decoded content of one provisioning profile file.
// It is a value type: copies are independent and nothing in this module
// modifies a Profile after NewProfile returned it.
type Profile struct {
	Name string
	UUID string

	CreationDate   time.Time
	ExpirationDate time.Time
	TimeToLive     int

	AppIDName                   string
	Platforms                   []Platform
	TeamIdentifiers             []string
	TeamName                    string
	ApplicationIdentifierPrefix []string
	Version                     int

	IsXcodeManaged       bool
	ProvisionedDevices   []string
	ProvisionsAllDevices bool

	Entitlements Entitlements

	// DeveloperCertificates holds the DER blobs in document order.
	DeveloperCertificates [][]byte

	FilePath   string
	RawPayload string
}

// NewProfile builds a Profile from a decoded plist document.
// Name, CreationDate and ExpirationDate are mandatory, every other key is optional.
func NewProfile(payload string) (Profile, error) {
	data, err := plistutil.NewPlistDataFromContent(payload)
	if err != nil {
		return Profile{}, &MalformedPayloadError{Err: err}
	}
	if data == nil {
		return Profile{}, &MalformedPayloadError{Key: keyName}
	}

	name, ok := data.GetString(keyName)
	if !ok {
		return Profile{}, &MalformedPayloadError{Key: keyName}
	}
	creationDate, ok := data.GetTime(keyCreationDate)
	if !ok {
		return Profile{}, &MalformedPayloadError{Key: keyCreationDate}
	}
	expirationDate, ok := data.GetTime(keyExpirationDate)
	if !ok {
		return Profile{}, &MalformedPayloadError{Key: keyExpirationDate}
	}

	p := Profile{
		Name:           name,
		CreationDate:   creationDate,
		ExpirationDate: expirationDate,
		RawPayload:     payload,
	}

	p.UUID, _ = data.GetString(keyUUID)
	p.TimeToLive, _ = getInt(data, keyTimeToLive)
	p.AppIDName, _ = data.GetString(keyAppIDName)
	p.TeamIdentifiers, _ = data.GetStringArray(keyTeamIdentifier)
	p.TeamName, _ = data.GetString(keyTeamName)
	p.ApplicationIdentifierPrefix, _ = data.GetStringArray(keyApplicationIdentifierPrefix)
	p.Version, _ = getInt(data, keyVersion)
	p.IsXcodeManaged, _ = data.GetBool(keyIsXcodeManaged)
	p.ProvisionedDevices, _ = data.GetStringArray(keyProvisionedDevices)
	p.ProvisionsAllDevices, _ = data.GetBool(keyProvisionsAllDevices)
	p.DeveloperCertificates, _ = data.GetByteArrayArray(keyDeveloperCertificates)

	if platforms, ok := data.GetStringArray(keyPlatform); ok {
		for _, platform := range platforms {
			p.Platforms = append(p.Platforms, ParsePlatform(platform))
		}
	} else if platform, ok := data.GetString(keyPlatform); ok {
		p.Platforms = []Platform{ParsePlatform(platform)}
	}

	if entitlements, ok := data.GetMapStringInterface(keyEntitlements); ok {
		p.Entitlements = newEntitlements(entitlements)
	}

	return p, nil
}

// getInt reads an integer key. The plist decoder yields uint64 for non-negative
// integers and int64 for negative ones.
func getInt(data plistutil.PlistData, key string) (int, bool) {
	if value, ok := data.GetUInt64(key); ok {
		return int(value), true
	}
	if value, ok := data[key].(int64); ok {
		return int(value), true
	}
	return 0, false
}

// WithFilePath returns a copy of the profile bound to the file it was decoded from.
func (p Profile) WithFilePath(pth string) Profile {
	p.FilePath = pth
	return p
}

// TeamID returns the first team identifier, or the entitlements' team identifier.
func (p Profile) TeamID() string {
	if len(p.TeamIdentifiers) > 0 {
		return p.TeamIdentifiers[0]
	}
	if p.Entitlements.TeamIdentifier != nil {
		return *p.Entitlements.TeamIdentifier
	}
	return ""
}

// IsExpired reports whether the profile expired strictly before now.
func (p Profile) IsExpired(now time.Time) bool {
	return p.ExpirationDate.Before(now)
}

// CertificateInfos decodes the developer certificates. Blobs that fail to decode
// are reported in the second return value and left out of the first.
func (p Profile) CertificateInfos(now time.Time) ([]CertificateInfo, []error) {
	var infos []CertificateInfo
	var errs []error
	for i, der := range p.DeveloperCertificates {
		info, err := NewCertificateInfo(der, now)
		if err != nil {
			var certErr *CertificateDecodeError
			if errors.As(err, &certErr) {
				certErr.Index = i
			}
			errs = append(errs, err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, errs
}
