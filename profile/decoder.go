package profile

import (
	"errors"
	"fmt"
	"os"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/cjsliuj/mppf/securitycms"
	"github.com/fullsailor/pkcs7"
)

// Decoder turns a signed profile container into its plist document.
// Implementations check the container format only, never the signer's trust.
type Decoder interface {
	Decode(pth string) (string, error)
}

// SecurityDecoder decodes profiles with the macOS `security cms` tool.
type SecurityDecoder struct {
	cmdFactory    command.Factory
	customOptions []string
	logger        log.Logger
}

// NewSecurityDecoder ...
func NewSecurityDecoder(cmdFactory command.Factory, customOptions []string, logger log.Logger) SecurityDecoder {
	return SecurityDecoder{
		cmdFactory:    cmdFactory,
		customOptions: customOptions,
		logger:        logger,
	}
}

// Decode ...
func (d SecurityDecoder) Decode(pth string) (string, error) {
	if err := checkFile(pth); err != nil {
		return "", err
	}

	cms := securitycms.New(d.cmdFactory).
		SetInputPath(pth).
		SetCustomOptions(d.customOptions)
	d.logger.Debugf("$ %s", cms.PrintableCmd())

	out, err := cms.Decode()
	if err != nil {
		return "", &DecodeError{Path: pth, Err: err}
	}
	return out, nil
}

// PKCS7Decoder reads the content of the CMS container in-process.
type PKCS7Decoder struct{}

// NewPKCS7Decoder ...
func NewPKCS7Decoder() PKCS7Decoder {
	return PKCS7Decoder{}
}

// Decode ...
func (PKCS7Decoder) Decode(pth string) (string, error) {
	if err := checkFile(pth); err != nil {
		return "", err
	}

	data, err := os.ReadFile(pth)
	if err != nil {
		return "", &DecodeError{Path: pth, Err: err}
	}
	if len(data) == 0 {
		return "", &DecodeError{Path: pth, Err: errors.New("file is empty")}
	}

	p7, err := pkcs7.Parse(data)
	if err != nil {
		return "", &DecodeError{Path: pth, Err: fmt.Errorf("parse PKCS#7 data: %w", err)}
	}
	if len(p7.Content) == 0 {
		return "", &DecodeError{Path: pth, Err: errors.New("no content found in PKCS#7 data")}
	}

	return string(p7.Content), nil
}

func checkFile(pth string) error {
	info, err := os.Stat(pth)
	if err != nil {
		return &DecodeError{Path: pth, Err: err}
	}
	if info.IsDir() {
		return &DecodeError{Path: pth, Err: errors.New("is a directory")}
	}
	return nil
}
