package manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/cjsliuj/mppf/profile"
	"golang.org/x/sync/errgroup"
)

var profileExtensions = []string{".mobileprovision", ".provisionprofile"}

// Clock is the subset of clock.Clock the commands use.
type Clock interface {
	Now() time.Time
}

// ProfileManager loads the installed provisioning profiles and runs the clean,
// list and info commands on them.
type ProfileManager struct {
	inputParser  stepconf.InputParser
	pathModifier pathutil.PathModifier
	pathChecker  pathutil.PathChecker
	cmdFactory   command.Factory
	fileManager  fileutil.FileManager
	confirmer    Confirmer
	clock        Clock
	logger       log.Logger
}

// NewProfileManager ...
func NewProfileManager(inputParser stepconf.InputParser, pathModifier pathutil.PathModifier, pathChecker pathutil.PathChecker, cmdFactory command.Factory, fileManager fileutil.FileManager, confirmer Confirmer, clock Clock, logger log.Logger) ProfileManager {
	return ProfileManager{
		inputParser:  inputParser,
		pathModifier: pathModifier,
		pathChecker:  pathChecker,
		cmdFactory:   cmdFactory,
		fileManager:  fileManager,
		confirmer:    confirmer,
		clock:        clock,
		logger:       logger,
	}
}

// LoadResult ...
type LoadResult struct {
	Profiles []profile.Profile
	// Failures holds the files that could not be decoded.
	Failures []*profile.DecodeError
}

// Load decodes every profile file of the profiles directory.
// Profiles and failures are both in file name order.
func (m ProfileManager) Load(config Config) (LoadResult, error) {
	m.logger.Printf("Loading provisioning profiles from %s", config.ProfilesDir)

	exists, err := m.pathChecker.IsPathExists(config.ProfilesDir)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to check if profiles directory exists: %w", err)
	}
	if !exists {
		m.logger.Warnf("Profiles directory does not exist: %s", config.ProfilesDir)
		return LoadResult{}, nil
	}

	pths, err := listProfiles(config.ProfilesDir)
	if err != nil {
		return LoadResult{}, err
	}

	decoder := m.decoder(config)

	type slot struct {
		profile profile.Profile
		err     *profile.DecodeError
	}
	slots := make([]slot, len(pths))

	var g errgroup.Group
	g.SetLimit(config.Parallelism)
	for i, pth := range pths {
		i, pth := i, pth
		g.Go(func() error {
			p, err := loadProfile(decoder, pth)
			slots[i] = slot{profile: p, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LoadResult{}, err
	}

	var result LoadResult
	for _, s := range slots {
		if s.err != nil {
			result.Failures = append(result.Failures, s.err)
			continue
		}
		result.Profiles = append(result.Profiles, s.profile)
	}

	return result, nil
}

func (m ProfileManager) decoder(config Config) profile.Decoder {
	if config.Decoder == DecoderSecurity {
		return profile.NewSecurityDecoder(m.cmdFactory, config.SecurityOptions, m.logger)
	}
	return profile.NewPKCS7Decoder()
}

func (m ProfileManager) warnFailures(failures []*profile.DecodeError) {
	for _, failure := range failures {
		m.logger.Warnf("Skipping %s: %s", filepath.Base(failure.Path), failure.Err)
	}
}

func loadProfile(decoder profile.Decoder, pth string) (profile.Profile, *profile.DecodeError) {
	payload, err := decoder.Decode(pth)
	if err != nil {
		var decodeErr *profile.DecodeError
		if errors.As(err, &decodeErr) {
			return profile.Profile{}, decodeErr
		}
		return profile.Profile{}, &profile.DecodeError{Path: pth, Err: err}
	}

	p, err := profile.NewProfile(payload)
	if err != nil {
		return profile.Profile{}, &profile.DecodeError{Path: pth, Err: err}
	}

	return p.WithFilePath(pth), nil
}

func listProfiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles directory: %w", err)
	}

	var pths []string
	for _, entry := range entries {
		if entry.IsDir() || !isProfileFile(entry.Name()) {
			continue
		}
		pths = append(pths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(pths)

	return pths, nil
}

func isProfileFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, profileExt := range profileExtensions {
		if ext == profileExt {
			return true
		}
	}
	return false
}
