package manager

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cjsliuj/mppf/pretty"
	"github.com/kballard/go-shellquote"
)

const (
	// DefaultProfilesDir is where Xcode installs provisioning profiles.
	DefaultProfilesDir = "~/Library/MobileDevice/Provisioning Profiles"

	// DecoderSecurity decodes profiles with the security command line tool.
	DecoderSecurity = "security"
	// DecoderPKCS7 decodes profiles in process.
	DecoderPKCS7 = "pkcs7"
)

// Inputs ...
type Inputs struct {
	ProfilesDir     string `env:"MPPF_PROFILES_DIR"`
	Decoder         string `env:"MPPF_DECODER"`
	SecurityOptions string `env:"MPPF_SECURITY_OPTIONS"`
	Parallelism     int    `env:"MPPF_PARALLELISM"`
	Verbose         bool   `env:"MPPF_VERBOSE"`
}

// Overrides are the global command line flags. Zero values leave the
// environment's value in place.
type Overrides struct {
	ProfilesDir string
	Decoder     string
	Verbose     bool
}

func (o Overrides) apply(inputs Inputs) Inputs {
	if o.ProfilesDir != "" {
		inputs.ProfilesDir = o.ProfilesDir
	}
	if o.Decoder != "" {
		inputs.Decoder = o.Decoder
	}
	if o.Verbose {
		inputs.Verbose = true
	}
	return inputs
}

// Config ...
type Config struct {
	ProfilesDir     string
	Decoder         string
	SecurityOptions []string
	Parallelism     int
	Verbose         bool
}

// ProcessInputs reads the environment, applies the command line overrides and
// validates the result.
func (m ProfileManager) ProcessInputs(overrides Overrides) (Config, error) {
	var inputs Inputs
	if err := m.inputParser.Parse(&inputs); err != nil {
		return Config{}, fmt.Errorf("issue with input: %s", err)
	}
	inputs = overrides.apply(inputs)

	m.logger.EnableDebugLog(inputs.Verbose)
	m.logger.Debugf("Inputs: %s", pretty.Object(inputs))

	config := Config{
		Decoder:     strings.ToLower(strings.TrimSpace(inputs.Decoder)),
		Parallelism: inputs.Parallelism,
		Verbose:     inputs.Verbose,
	}

	switch config.Decoder {
	case "":
		config.Decoder = defaultDecoder(runtime.GOOS)
	case DecoderSecurity, DecoderPKCS7:
	default:
		return Config{}, fmt.Errorf("issue with input Decoder: should be one of %s, %s, got: %s", DecoderSecurity, DecoderPKCS7, inputs.Decoder)
	}

	if strings.TrimSpace(inputs.SecurityOptions) != "" {
		securityOptions, err := shellquote.Split(inputs.SecurityOptions)
		if err != nil {
			return Config{}, fmt.Errorf("provided SecurityOptions (%s) are not valid CLI parameters: %s", inputs.SecurityOptions, err)
		}
		config.SecurityOptions = securityOptions
	}
	if len(config.SecurityOptions) > 0 && config.Decoder != DecoderSecurity {
		m.logger.Warnf("Ignoring SecurityOptions, the %s decoder does not use them", config.Decoder)
	}

	if config.Parallelism < 0 {
		return Config{}, fmt.Errorf("issue with input Parallelism: should be a positive number, got: %d", config.Parallelism)
	}
	if config.Parallelism == 0 {
		config.Parallelism = runtime.NumCPU()
	}

	profilesDir := inputs.ProfilesDir
	if strings.TrimSpace(profilesDir) == "" {
		profilesDir = DefaultProfilesDir
	}
	absProfilesDir, err := m.pathModifier.AbsPath(profilesDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand ProfilesDir (%s), error: %s", profilesDir, err)
	}
	config.ProfilesDir = absProfilesDir

	return config, nil
}

func defaultDecoder(goos string) string {
	if goos == "darwin" {
		return DecoderSecurity
	}
	return DecoderPKCS7
}
