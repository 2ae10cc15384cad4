/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const sasPrefix = "SharedAccessSignature "

// SharedAccessSignature is a parsed SAS token.
type SharedAccessSignature struct {
	Resource  string
	Signature string
	ExpiresOn time.Time
	KeyName   string
	expiry    string
}

// ParseSharedAccessSignature parses "SharedAccessSignature sr=..&sig=..&se=..[&skn=..]".
func ParseSharedAccessSignature(token string) (*SharedAccessSignature, error) {
	if !strings.HasPrefix(token, sasPrefix) {
		return nil, ErrMalformedToken
	}

	fields := make(map[string]string)

	for _, part := range strings.Split(strings.TrimPrefix(token, sasPrefix), "&") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: bad field %q", ErrMalformedToken, part)
		}

		fields[strings.ToLower(key)] = value
	}

	sr, sig, se := fields["sr"], fields["sig"], fields["se"]
	if sr == "" || sig == "" || se == "" {
		return nil, fmt.Errorf("%w: sr, sig and se are required", ErrMalformedToken)
	}

	resource, err := url.QueryUnescape(sr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	signature, err := url.QueryUnescape(sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	seconds, err := strconv.ParseInt(se, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: expiry: %w", ErrMalformedToken, err)
	}

	return &SharedAccessSignature{
		Resource:  resource,
		Signature: signature,
		ExpiresOn: time.Unix(seconds, 0).UTC(),
		KeyName:   fields["skn"],
		expiry:    se,
	}, nil
}

// IsExpired reports whether the token has expired at now.
func (s *SharedAccessSignature) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresOn)
}

// Verify reports whether the signature was produced with base64Key.
func (s *SharedAccessSignature) Verify(base64Key string) (bool, error) {
	expected, err := sign(base64Key, s.Resource, s.expiry)
	if err != nil {
		return false, err
	}

	return hmac.Equal([]byte(expected), []byte(s.Signature)), nil
}

// BuildSharedAccessSignature signs resource with base64Key until expiresOn.
func BuildSharedAccessSignature(resource, base64Key string, expiresOn time.Time) (string, error) {
	expiry := strconv.FormatInt(expiresOn.Unix(), 10)

	signature, err := sign(base64Key, resource, expiry)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%ssr=%s&sig=%s&se=%s",
		sasPrefix, url.QueryEscape(resource), url.QueryEscape(signature), expiry), nil
}

func sign(base64Key, resource, expiry string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(url.QueryEscape(resource) + "\n" + expiry))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Audience returns the resource a token for deviceID/moduleID must be scoped to.
func Audience(hubHostName, deviceID, moduleID string) string {
	aud := hubHostName + "/devices/" + url.PathEscape(deviceID)
	if moduleID != "" {
		aud += "/modules/" + url.PathEscape(moduleID)
	}

	return aud
}
