package manager

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/cjsliuj/mppf/pretty"
	"github.com/cjsliuj/mppf/profile"
	"github.com/google/uuid"
)

// InfoOpts are the info command's arguments and flags.
type InfoOpts struct {
	Target       string
	Certificates bool
	Format       string
}

// InfoConfig ...
type InfoConfig struct {
	Config
	Target       string
	Certificates bool
	Format       pretty.Format
}

// InfoResult ...
type InfoResult struct {
	Profile      profile.Profile
	Document     string
	Certificates []profile.CertificateInfo
}

// Info prints a single profile's document or its developer certificates.
type Info struct {
	manager   ProfileManager
	overrides Overrides
	opts      InfoOpts
}

// NewInfo ...
func (m ProfileManager) NewInfo(overrides Overrides, opts InfoOpts) Info {
	return Info{
		manager:   m,
		overrides: overrides,
		opts:      opts,
	}
}

// ProcessInputs ...
func (i Info) ProcessInputs() (InfoConfig, error) {
	if strings.TrimSpace(i.opts.Target) == "" {
		return InfoConfig{}, errors.New("missing provisioning profile path or UUID")
	}

	format, err := pretty.ParseFormat(i.opts.Format)
	if err != nil {
		return InfoConfig{}, fmt.Errorf("issue with input Format: %w", err)
	}

	config, err := i.manager.ProcessInputs(i.overrides)
	if err != nil {
		return InfoConfig{}, err
	}

	return InfoConfig{
		Config:       config,
		Target:       i.opts.Target,
		Certificates: i.opts.Certificates,
		Format:       format,
	}, nil
}

// Run ...
func (i Info) Run(config InfoConfig) (InfoResult, error) {
	m := i.manager

	pth, err := m.resolveTarget(config.Config, config.Target)
	if err != nil {
		return InfoResult{}, err
	}

	p, decodeErr := loadProfile(m.decoder(config.Config), pth)
	if decodeErr != nil {
		return InfoResult{}, decodeErr
	}

	result := InfoResult{Profile: p}

	if config.Certificates {
		infos, errs := p.CertificateInfos(m.clock.Now())
		for _, err := range errs {
			m.logger.Warnf("Skipping certificate: %s", err)
		}
		result.Certificates = infos
		return result, nil
	}

	result.Document, err = pretty.Document(p.RawPayload, config.Format)
	if err != nil {
		return InfoResult{}, fmt.Errorf("failed to render %s: %w", filepath.Base(pth), err)
	}

	return result, nil
}

// Report ...
func (i Info) Report(config InfoConfig, result InfoResult) error {
	m := i.manager

	if result.Profile.FilePath == "" {
		return nil
	}

	if !config.Certificates {
		m.logger.Printf("%s", result.Document)
		return nil
	}

	m.logger.Infof("Included certificate information:")
	for _, info := range result.Certificates {
		line := fmt.Sprintf("%s (SerialNumber: %s)", info.CommonName, info.Serial)
		if info.Expired {
			line += " " + colorstring.Red("Expired")
		}
		m.logger.Printf("%s", line)
	}

	return nil
}

// resolveTarget returns the profile file the target names. A target that is not
// an existing file but parses as a UUID is looked up in the profiles directory.
func (m ProfileManager) resolveTarget(config Config, target string) (string, error) {
	pth, err := m.pathModifier.AbsPath(target)
	if err != nil {
		return "", fmt.Errorf("failed to expand path (%s): %w", target, err)
	}

	exists, err := m.pathChecker.IsPathExists(pth)
	if err != nil {
		return "", fmt.Errorf("failed to check if %s exists: %w", pth, err)
	}
	if exists {
		return pth, nil
	}

	id, err := uuid.Parse(target)
	if err != nil {
		return "", &FileNotFoundError{Target: target}
	}

	for _, name := range []string{id.String(), strings.ToUpper(id.String())} {
		for _, ext := range profileExtensions {
			candidate := filepath.Join(config.ProfilesDir, name+ext)
			if exists, err := m.pathChecker.IsPathExists(candidate); err == nil && exists {
				return candidate, nil
			}
		}
	}

	m.logger.Debugf("No file named after %s, searching by profile UUID", id)
	loaded, err := m.Load(config)
	if err != nil {
		return "", err
	}
	for _, p := range loaded.Profiles {
		if parsed, err := uuid.Parse(p.UUID); err == nil && parsed == id {
			return p.FilePath, nil
		}
	}

	return "", &FileNotFoundError{Target: target}
}
