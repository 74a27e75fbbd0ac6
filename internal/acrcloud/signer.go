package acrcloud

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // required by the ACRCloud signature scheme
	"encoding/base64"
	"strings"
)

// Sign returns the base64 HMAC-SHA1 signature ACRCloud expects for a request.
// An empty secret still yields a signature; the provider rejects it.
func Sign(method, uri, accessKey, accessSecret, dataType, signatureVersion, timestamp string) string {
	stringToSign := strings.Join([]string{
		method,
		uri,
		accessKey,
		dataType,
		signatureVersion,
		timestamp,
	}, "\n")

	mac := hmac.New(sha1.New, []byte(accessSecret))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
