package manager

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/cjsliuj/mppf/profile"
	"github.com/cjsliuj/mppf/selection"
	"github.com/cjsliuj/mppf/utils"
)

const dateLayout = "2006-01-02 15:04:05 MST"

// ListOpts are the list command's flags.
type ListOpts struct {
	Long bool
}

// ListConfig ...
type ListConfig struct {
	Config
	ListOpts
}

// ListResult ...
type ListResult struct {
	// Loaded is false when the profiles directory could not be read.
	Loaded bool

	Valid    []profile.Profile
	Expired  []profile.Profile
	Failures []*profile.DecodeError
}

// List prints the installed profiles, valid ones first.
type List struct {
	manager   ProfileManager
	overrides Overrides
	opts      ListOpts
}

// NewList ...
func (m ProfileManager) NewList(overrides Overrides, opts ListOpts) List {
	return List{
		manager:   m,
		overrides: overrides,
		opts:      opts,
	}
}

// ProcessInputs ...
func (l List) ProcessInputs() (ListConfig, error) {
	config, err := l.manager.ProcessInputs(l.overrides)
	if err != nil {
		return ListConfig{}, err
	}
	return ListConfig{Config: config, ListOpts: l.opts}, nil
}

// Run ...
func (l List) Run(config ListConfig) (ListResult, error) {
	m := l.manager

	loaded, err := m.Load(config.Config)
	if err != nil {
		return ListResult{}, err
	}
	m.warnFailures(loaded.Failures)

	expired := selection.Select(loaded.Profiles, selection.Criteria{Expired: true, Now: m.clock.Now()}).Expired
	expiredPaths := map[string]bool{}
	for _, p := range expired {
		expiredPaths[p.FilePath] = true
	}

	result := ListResult{Loaded: true, Expired: expired, Failures: loaded.Failures}
	for _, p := range loaded.Profiles {
		if !expiredPaths[p.FilePath] {
			result.Valid = append(result.Valid, p)
		}
	}

	sort.Sort(utils.ByName(result.Valid))
	sort.Sort(utils.ByName(result.Expired))

	return result, nil
}

// Report ...
func (l List) Report(config ListConfig, result ListResult) error {
	m := l.manager

	if !result.Loaded {
		return nil
	}

	m.logger.Println()
	m.logger.Infof("Valid:")
	for _, p := range result.Valid {
		m.printListEntry(p, config.Long, false)
	}

	m.logger.Println()
	m.logger.Infof("Expired:")
	for _, p := range result.Expired {
		m.printListEntry(p, config.Long, true)
	}

	installed := len(result.Valid) + len(result.Expired)
	summary := []string{
		countLabel(installed, "installed"),
		colorstring.Green(countLabel(len(result.Valid), "valid")),
		colorstring.Red(countLabel(len(result.Expired), "expired")),
	}
	if len(result.Failures) > 0 {
		summary = append(summary, colorstring.Yellow(countLabel(len(result.Failures), "unreadable")))
	}

	m.logger.Println()
	m.logger.Infof("Summary:")
	m.logger.Printf("  %s", strings.Join(summary, ", "))

	return nil
}

func (m ProfileManager) printListEntry(p profile.Profile, long, expired bool) {
	if expired {
		m.logger.Printf("  %s", colorstring.Red(p.Name))
	} else {
		m.logger.Printf("  %s", colorstring.Green(p.Name))
	}
	if !long {
		return
	}

	m.logger.Printf("    UUID: %s", p.UUID)
	m.logger.Printf("    Team: %s (%s)", p.TeamName, p.TeamID())
	m.logger.Printf("    Type: %s", p.DistributionType())
	m.logger.Printf("    Expires: %s", p.ExpirationDate.Format(dateLayout))
	m.logger.Printf("    File: %s", p.FilePath)
}

func countLabel(count int, label string) string {
	return fmt.Sprintf("%d %s", count, label)
}
