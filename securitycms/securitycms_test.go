package securitycms

import (
	"errors"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/stretchr/testify/require"
)

type mockCommand struct {
	command.Command

	args   []string
	opts   *command.Opts
	stdout string
	stderr string
	err    error
}

func (c *mockCommand) PrintableCommandArgs() string {
	return strings.Join(append([]string{toolName}, c.args...), " ")
}

func (c *mockCommand) Run() error {
	if c.opts != nil {
		if c.opts.Stdout != nil {
			_, _ = c.opts.Stdout.Write([]byte(c.stdout))
		}
		if c.opts.Stderr != nil {
			_, _ = c.opts.Stderr.Write([]byte(c.stderr))
		}
	}
	return c.err
}

type mockFactory struct {
	stdout string
	stderr string
	err    error

	created []*mockCommand
}

func (f *mockFactory) Create(name string, args []string, opts *command.Opts) command.Command {
	cmd := &mockCommand{args: args, opts: opts, stdout: f.stdout, stderr: f.stderr, err: f.err}
	f.created = append(f.created, cmd)
	return cmd
}

func TestModel_Decode(t *testing.T) {
	tests := []struct {
		name      string
		factory   *mockFactory
		custom    []string
		want      string
		wantErr   string
		wantArgs  []string
		typedFail bool
	}{
		{
			name:     "decodes content",
			factory:  &mockFactory{stdout: "  <plist/>\n"},
			want:     "<plist/>",
			wantArgs: []string{"cms", "-D", "-u", "certUsageObjectSigner", "-i", "a.mobileprovision"},
		},
		{
			name:     "strips policy noise and appends custom options",
			factory:  &mockFactory{stdout: policyNoiseMessage + "\n<plist/>"},
			custom:   []string{"-n"},
			want:     "<plist/>",
			wantArgs: []string{"cms", "-D", "-u", "certUsageObjectSigner", "-i", "a.mobileprovision", "-n"},
		},
		{
			name:      "security error",
			factory:   &mockFactory{stderr: "security: SecCmsMessageDecode: The data provided is not a valid CMS message.", err: errors.New("exit status 1")},
			wantErr:   "SecCmsMessageDecode: The data provided is not a valid CMS message",
			typedFail: true,
		},
		{
			name:    "unknown failure",
			factory: &mockFactory{err: errors.New("exit status 1")},
			wantErr: "security cms -D -u certUsageObjectSigner -i a.mobileprovision failed: exit status 1",
		},
		{
			name:    "empty output",
			factory: &mockFactory{},
			wantErr: "returned no content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.factory).SetInputPath("a.mobileprovision").SetCustomOptions(tt.custom).Decode()
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				if tt.typedFail {
					var toolErr *Error
					require.True(t, errors.As(err, &toolErr))
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Len(t, tt.factory.created, 1)
			require.Equal(t, tt.wantArgs, tt.factory.created[0].args)
		})
	}
}

func TestModel_Decode_NoInputPath(t *testing.T) {
	_, err := New(&mockFactory{}).Decode()
	require.EqualError(t, err, "no input path set")
}
