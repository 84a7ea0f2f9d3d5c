package profile

import (
	"crypto/x509"
	"time"

	"github.com/bitrise-io/go-xcode/certificateutil"
)

// CertificateInfo is the displayable part of a developer certificate.
type CertificateInfo struct {
	certificateutil.CertificateInfoModel
	Expired bool
}

// NewCertificateInfo decodes a DER certificate. Expired is evaluated against the
// certificate's own end date and now.
func NewCertificateInfo(der []byte, now time.Time) (CertificateInfo, error) {
	certificate, err := x509.ParseCertificate(der)
	if err != nil {
		return CertificateInfo{}, &CertificateDecodeError{Err: err}
	}

	model := certificateutil.NewCertificateInfo(*certificate, nil)
	return CertificateInfo{
		CertificateInfoModel: model,
		Expired:              model.EndDate.Before(now),
	}, nil
}
