package securitycms

import (
	"regexp"
	"strings"
)

const policyNoiseMessage = "security: SecPolicySetValue: One or more parameters passed to a function were not valid."

// Error is a failure reported by the security tool on its error output.
type Error struct {
	Function    string
	Description string
}

// NewError finds the first meaningful `security: ...` line in out.
// Returns nil if out contains no such line.
func NewError(out string) *Error {
	linePattern := `^security: (?:([A-Za-z]+): )?(.+)$`
	exp := regexp.MustCompile(linePattern)

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isPolicyNoise(line) {
			continue
		}

		matches := exp.FindStringSubmatch(line)
		if len(matches) != 3 {
			continue
		}

		return &Error{
			Function:    matches[1],
			Description: strings.TrimSuffix(matches[2], "."),
		}
	}
	return nil
}

func (e Error) Error() string {
	if e.Function != "" {
		return e.Function + ": " + e.Description
	}
	return e.Description
}

func isPolicyNoise(line string) bool {
	return strings.Contains(line, policyNoiseMessage)
}

// stripPolicyNoise removes the SecPolicySetValue warning some macOS versions
// print in front of the decoded document.
func stripPolicyNoise(out string) string {
	lines := strings.Split(out, "\n")
	if len(lines) > 0 && isPolicyNoise(lines[0]) {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}
