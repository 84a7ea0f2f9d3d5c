package steprunner

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/require"
)

type fakeStep struct {
	processErr error
	runErr     error
	reportErr  error

	reported bool
}

func (s *fakeStep) ProcessInputs() (string, error) {
	if s.processErr != nil {
		return "", s.processErr
	}
	return "config", nil
}

func (s *fakeStep) Run(config string) (int, error) {
	return 42, s.runErr
}

func (s *fakeStep) Report(config string, result int) error {
	s.reported = true
	return s.reportErr
}

func TestStepRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		step         *fakeStep
		wantCode     int
		wantReported bool
	}{
		{
			name:         "success",
			step:         &fakeStep{},
			wantCode:     0,
			wantReported: true,
		},
		{
			name:         "input processing fails",
			step:         &fakeStep{processErr: errors.New("invalid decoder")},
			wantCode:     1,
			wantReported: false,
		},
		{
			name:         "run fails, report still runs",
			step:         &fakeStep{runErr: errors.New("directory not readable")},
			wantCode:     1,
			wantReported: true,
		},
		{
			name:         "report fails",
			step:         &fakeStep{reportErr: errors.New("2 profiles could not be removed")},
			wantCode:     1,
			wantReported: true,
		},
		{
			name:         "exit error sets the code",
			step:         &fakeStep{runErr: fmt.Errorf("aborted: %w", ExitError{Code: 3})},
			wantCode:     3,
			wantReported: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewStepRunner[string, int](log.NewLogger())

			require.Equal(t, tt.wantCode, runner.Run(tt.step))
			require.Equal(t, tt.wantReported, tt.step.reported)
		})
	}
}
