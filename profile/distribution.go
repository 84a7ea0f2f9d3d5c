package profile

import "github.com/bitrise-io/go-xcode/exportoptions"

// DistributionType derives the export method a profile can sign for.
func (p Profile) DistributionType() exportoptions.Method {
	if p.ProvisionedDevices == nil {
		if p.ProvisionsAllDevices {
			return exportoptions.MethodEnterprise
		}
		return exportoptions.MethodAppStore
	}

	if allow := p.Entitlements.GetTaskAllow; allow != nil && *allow {
		return exportoptions.MethodDevelopment
	}
	return exportoptions.MethodAdHoc
}
