package securitycms

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bitrise-io/go-utils/v2/command"
)

const (
	toolName = "security"

	// CertUsageObjectSigner is the certificate usage provisioning profiles are signed for.
	CertUsageObjectSigner = "certUsageObjectSigner"
)

// Model builds a `security cms -D` invocation.
type Model struct {
	cmdFactory command.Factory

	inputPath     string
	certUsage     string
	customOptions []string
}

// New ...
func New(cmdFactory command.Factory) *Model {
	return &Model{
		cmdFactory: cmdFactory,
		certUsage:  CertUsageObjectSigner,
	}
}

// SetInputPath ...
func (m *Model) SetInputPath(inputPath string) *Model {
	m.inputPath = inputPath
	return m
}

// SetCertUsage ...
func (m *Model) SetCertUsage(certUsage string) *Model {
	m.certUsage = certUsage
	return m
}

// SetCustomOptions ...
func (m *Model) SetCustomOptions(customOptions []string) *Model {
	m.customOptions = customOptions
	return m
}

func (m Model) args() []string {
	args := []string{"cms", "-D"}
	if m.certUsage != "" {
		args = append(args, "-u", m.certUsage)
	}
	args = append(args, "-i", m.inputPath)
	args = append(args, m.customOptions...)
	return args
}

// PrintableCmd ...
func (m Model) PrintableCmd() string {
	return m.cmdFactory.Create(toolName, m.args(), nil).PrintableCommandArgs()
}

// Decode runs the tool and returns the decoded message content.
func (m Model) Decode() (string, error) {
	if m.inputPath == "" {
		return "", fmt.Errorf("no input path set")
	}

	var stdout, stderr bytes.Buffer
	cmd := m.cmdFactory.Create(toolName, m.args(), &command.Opts{
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if err := cmd.Run(); err != nil {
		if toolErr := NewError(stderr.String()); toolErr != nil {
			return "", toolErr
		}
		if errOut := strings.TrimSpace(stderr.String()); errOut != "" {
			return "", fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), errOut)
		}
		return "", fmt.Errorf("%s failed: %w", cmd.PrintableCommandArgs(), err)
	}

	out := strings.TrimSpace(stripPolicyNoise(stdout.String()))
	if out == "" {
		return "", fmt.Errorf("%s returned no content", cmd.PrintableCommandArgs())
	}
	return out, nil
}
