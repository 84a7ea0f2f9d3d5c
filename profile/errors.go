package profile

import "fmt"

// DecodeError is returned when a profile container can not be read or verified.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode provisioning profile (%s): %s", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MalformedPayloadError is returned when the decoded document lacks a mandatory key
// or is not a dictionary at all.
type MalformedPayloadError struct {
	Key string
	Err error
}

func (e *MalformedPayloadError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("malformed provisioning profile payload: missing %s", e.Key)
	}
	return fmt.Sprintf("malformed provisioning profile payload: %s", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// CertificateDecodeError is returned for a developer certificate blob that is not valid DER.
type CertificateDecodeError struct {
	Index int
	Err   error
}

func (e *CertificateDecodeError) Error() string {
	return fmt.Sprintf("failed to decode developer certificate #%d: %s", e.Index, e.Err)
}

func (e *CertificateDecodeError) Unwrap() error {
	return e.Err
}
