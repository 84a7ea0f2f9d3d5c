package manager

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/cjsliuj/mppf/profile"
	"github.com/cjsliuj/mppf/selection"
	"github.com/cjsliuj/mppf/steprunner"
)

// CleanOpts are the clean command's flags.
type CleanOpts struct {
	Expired             bool
	Pattern             string
	Duplicates          bool
	RemoveAllDuplicates bool
	DryRun              bool
}

// HasFilter reports whether at least one selection criterion is enabled.
func (o CleanOpts) HasFilter() bool {
	return o.Expired || o.Pattern != "" || o.Duplicates
}

// CleanConfig ...
type CleanConfig struct {
	Config
	CleanOpts
}

// CleanResult ...
type CleanResult struct {
	// Loaded is false when the profiles directory could not be read.
	Loaded bool

	Failures       []*profile.DecodeError
	Selection      selection.Result
	Removed        []profile.Profile
	DeletionErrors []*DeletionError
}

// Clean removes the profiles selected by the enabled criteria.
type Clean struct {
	manager   ProfileManager
	overrides Overrides
	opts      CleanOpts
}

// NewClean ...
func (m ProfileManager) NewClean(overrides Overrides, opts CleanOpts) Clean {
	return Clean{
		manager:   m,
		overrides: overrides,
		opts:      opts,
	}
}

// ProcessInputs ...
func (c Clean) ProcessInputs() (CleanConfig, error) {
	if !c.opts.HasFilter() {
		return CleanConfig{}, fmt.Errorf("at least one of the expired, pattern or duplicates filters is required")
	}

	config, err := c.manager.ProcessInputs(c.overrides)
	if err != nil {
		return CleanConfig{}, err
	}

	return CleanConfig{Config: config, CleanOpts: c.opts}, nil
}

// Run ...
func (c Clean) Run(config CleanConfig) (CleanResult, error) {
	m := c.manager

	loaded, err := m.Load(config.Config)
	if err != nil {
		return CleanResult{}, err
	}
	m.warnFailures(loaded.Failures)

	result := CleanResult{Loaded: true, Failures: loaded.Failures}

	policy := selection.KeepLatest
	if config.RemoveAllDuplicates {
		policy = selection.RemoveAll
	}
	result.Selection = selection.Select(loaded.Profiles, selection.Criteria{
		Expired:         config.Expired,
		Now:             m.clock.Now(),
		Pattern:         config.Pattern,
		Duplicates:      config.Duplicates,
		DuplicatePolicy: policy,
	})

	m.printSelection(result.Selection, policy)

	count := result.Selection.Count()
	if count == 0 {
		return result, nil
	}

	if config.DryRun {
		m.logger.Println()
		m.logger.Warnf("Dry run, %d provisioning profile(s) would be deleted", count)
		return result, nil
	}

	m.logger.Println()
	ok, err := m.confirmer.Confirm(colorstring.Yellow(fmt.Sprintf("Delete these provisioning profiles %d?", count)))
	if err != nil {
		return result, fmt.Errorf("failed to confirm deletion: %w", err)
	}
	if !ok {
		m.logger.Warnf("Aborted, no provisioning profiles were deleted")
		return result, steprunner.ExitError{Code: 1}
	}

	for _, p := range result.Selection.ToDelete() {
		m.logger.Debugf("Removing %s", p.FilePath)
		if err := m.fileManager.Remove(p.FilePath); err != nil {
			result.DeletionErrors = append(result.DeletionErrors, &DeletionError{Path: p.FilePath, Err: err})
			continue
		}
		result.Removed = append(result.Removed, p)
	}

	return result, nil
}

// Report ...
func (c Clean) Report(config CleanConfig, result CleanResult) error {
	m := c.manager

	if !result.Loaded {
		return nil
	}

	if result.Selection.Count() == 0 {
		m.logger.Donef("No provisioning profiles to delete")
		return nil
	}

	if len(result.Removed) > 0 {
		m.logger.Donef("Deleted %d provisioning profile(s)", len(result.Removed))
	}

	if len(result.DeletionErrors) > 0 {
		m.logger.Println()
		for _, deletionErr := range result.DeletionErrors {
			m.logger.Warnf("%s", deletionErr)
		}
		return fmt.Errorf("failed to delete %d of %d provisioning profile(s)", len(result.DeletionErrors), result.Selection.Count())
	}

	return nil
}

func (m ProfileManager) printSelection(result selection.Result, policy selection.DuplicatePolicy) {
	if len(result.Expired) > 0 {
		m.logger.Println()
		m.logger.Infof("Expired profiles to be deleted (%d)", len(result.Expired))
		for _, p := range result.Expired {
			m.logger.Printf("  %s", colorstring.Red(describe(p)))
		}
	}

	if len(result.Matched) > 0 {
		m.logger.Println()
		m.logger.Infof("Matched profiles to be deleted (%d)", len(result.Matched))
		for _, p := range result.Matched {
			m.logger.Printf("  %s", colorstring.Red(describe(p)))
		}
	}

	if len(result.Duplicates) > 0 {
		m.logger.Println()
		if policy == selection.KeepLatest {
			m.logger.Infof("Duplicate profiles to be deleted, the most recently created one is kept (%d)", len(result.RemovedDuplicates))
		} else {
			m.logger.Infof("Duplicate profiles to be deleted (%d)", len(result.RemovedDuplicates))
		}
		for _, group := range result.Duplicates {
			for i, p := range group.Profiles {
				if policy == selection.KeepLatest && i == len(group.Profiles)-1 {
					m.logger.Printf("  %s", colorstring.Green(describe(p)+" (kept)"))
					continue
				}
				m.logger.Printf("  %s", colorstring.Red(describe(p)))
			}
		}
	}
}

func describe(p profile.Profile) string {
	return fmt.Sprintf("%s [%s, created %s]", p.Name, filepath.Base(p.FilePath), p.CreationDate.Format(dateLayout))
}
