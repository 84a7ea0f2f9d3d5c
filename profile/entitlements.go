package profile

import "github.com/bitrise-io/go-xcode/plistutil"

const (
	entitlementKeychainAccessGroups  = "keychain-access-groups"
	entitlementGetTaskAllow          = "get-task-allow"
	entitlementApplicationIdentifier = "application-identifier"
	entitlementTeamIdentifier        = "com.apple.developer.team-identifier"
	entitlementAPSEnvironment        = "aps-environment"
	entitlementBetaReportsActive     = "beta-reports-active"
)

// Entitlements holds the capabilities a profile grants.
// Pointer fields are nil when the key is not present in the profile.
type Entitlements struct {
	KeychainAccessGroups  []string
	GetTaskAllow          *bool
	ApplicationIdentifier *string
	TeamIdentifier        *string
	APSEnvironment        *string
	BetaReportsActive     *bool
}

func newEntitlements(data plistutil.PlistData) Entitlements {
	var e Entitlements
	e.KeychainAccessGroups, _ = data.GetStringArray(entitlementKeychainAccessGroups)

	if v, ok := data.GetBool(entitlementGetTaskAllow); ok {
		e.GetTaskAllow = &v
	}
	if v, ok := data.GetString(entitlementApplicationIdentifier); ok {
		e.ApplicationIdentifier = &v
	}
	if v, ok := data.GetString(entitlementTeamIdentifier); ok {
		e.TeamIdentifier = &v
	}
	if v, ok := data.GetString(entitlementAPSEnvironment); ok {
		e.APSEnvironment = &v
	}
	if v, ok := data.GetBool(entitlementBetaReportsActive); ok {
		e.BetaReportsActive = &v
	}

	return e
}
