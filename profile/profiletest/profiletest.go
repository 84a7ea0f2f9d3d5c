// Package profiletest builds provisioning profile fixtures for tests.
package profiletest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fullsailor/pkcs7"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

var oidUserID = asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}

// CertificateOpts ...
type CertificateOpts struct {
	CommonName string
	TeamID     string
	TeamName   string
	Serial     *big.Int
	NotBefore  time.Time
	NotAfter   time.Time
}

// Certificate returns a self-signed DER certificate. The subject carries a UID
// attribute the way Apple developer certificates do.
func Certificate(t *testing.T, opts CertificateOpts) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serial := opts.Serial
	if serial == nil {
		serial = big.NewInt(1)
	}
	notBefore := opts.NotBefore
	if notBefore.IsZero() {
		notBefore = opts.NotAfter.AddDate(-1, 0, 0)
	}

	subject := pkix.Name{
		CommonName: opts.CommonName,
		ExtraNames: []pkix.AttributeTypeAndValue{{Type: oidUserID, Value: "5KN"}},
	}
	if opts.TeamID != "" {
		subject.OrganizationalUnit = []string{opts.TeamID}
	}
	if opts.TeamName != "" {
		subject.Organization = []string{opts.TeamName}
	}
	subject.Country = []string{"US"}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      subject,
		NotBefore:    notBefore,
		NotAfter:     opts.NotAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageCodeSigning},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	return der
}

// Fields returns the plist keys every decodable profile carries.
func Fields(name string, creationDate, expirationDate time.Time) map[string]interface{} {
	return map[string]interface{}{
		"Name":                        name,
		"UUID":                        "4b617a5f-e31e-4edc-9460-718a5abacd05",
		"AppIDName":                   "Bitrise Test",
		"ApplicationIdentifierPrefix": []string{"9NS44DLTN7"},
		"CreationDate":                creationDate.UTC().Truncate(time.Second),
		"ExpirationDate":              expirationDate.UTC().Truncate(time.Second),
		"Platform":                    []string{"iOS"},
		"TeamIdentifier":              []string{"9NS44DLTN7"},
		"TeamName":                    "Some Dude",
		"TimeToLive":                  365,
		"Version":                     1,
		"Entitlements": map[string]interface{}{
			"keychain-access-groups":              []string{"9NS44DLTN7.*"},
			"get-task-allow":                      true,
			"application-identifier":              "9NS44DLTN7.*",
			"com.apple.developer.team-identifier": "9NS44DLTN7",
		},
		"ProvisionedDevices":    []string{"b13813075ad9b298cb9a9f28555c49573d8bc322"},
		"DeveloperCertificates": [][]byte{},
	}
}

// Payload renders fields as an XML plist document.
func Payload(t *testing.T, fields map[string]interface{}) string {
	t.Helper()

	content, err := plist.MarshalIndent(fields, plist.XMLFormat, "\t")
	require.NoError(t, err)
	return string(content)
}

var (
	signerOnce sync.Once
	signerKey  *rsa.PrivateKey
	signerCert *x509.Certificate
	signerErr  error
)

func signer() (*x509.Certificate, *rsa.PrivateKey, error) {
	signerOnce.Do(func() {
		signerKey, signerErr = rsa.GenerateKey(rand.Reader, 2048)
		if signerErr != nil {
			return
		}

		template := &x509.Certificate{
			SerialNumber: big.NewInt(42),
			Subject:      pkix.Name{CommonName: "Apple iPhone OS Provisioning Profile Signing"},
			NotBefore:    time.Now().AddDate(-1, 0, 0),
			NotAfter:     time.Now().AddDate(1, 0, 0),
			KeyUsage:     x509.KeyUsageDigitalSignature,
		}
		var der []byte
		der, signerErr = x509.CreateCertificate(rand.Reader, template, template, &signerKey.PublicKey, signerKey)
		if signerErr != nil {
			return
		}
		signerCert, signerErr = x509.ParseCertificate(der)
	})
	return signerCert, signerKey, signerErr
}

// SignedContainer wraps payload into a CMS signed-data container.
func SignedContainer(t *testing.T, payload string) []byte {
	t.Helper()

	cert, key, err := signer()
	require.NoError(t, err)

	signedData, err := pkcs7.NewSignedData([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, signedData.AddSigner(cert, key, pkcs7.SignerInfoConfig{}))

	container, err := signedData.Finish()
	require.NoError(t, err)
	return container
}

// WriteFile writes content into dir/name and returns the file's path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	pth := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(pth, content, 0600))
	return pth
}

// WriteProfile writes a signed profile built from fields into dir/name.
func WriteProfile(t *testing.T, dir, name string, fields map[string]interface{}) string {
	t.Helper()
	return WriteFile(t, dir, name, SignedContainer(t, Payload(t, fields)))
}
