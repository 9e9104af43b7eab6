package util

import (
	"encoding/json"
	"fmt"
	"os"
)

// Environment variables for the source-bucket credential triple, refreshed by
// an external credential rotation process
const (
	HLS_ACCESS_KEY_ID     = "HLS_ACCESS_KEY_ID"
	HLS_SECRET_ACCESS_KEY = "HLS_SECRET_ACCESS_KEY"
	HLS_SESSION_TOKEN     = "HLS_SESSION_TOKEN"
	HLS_CREDENTIALS_JSON  = "HLS_CREDENTIALS_JSON"
)

// Credentials is a temporary S3 credential triple for the source buckets
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// CredentialsDocument is a parsed credentials JSON blob; not all fields the
// refresh process emits are parsed here
type CredentialsDocument map[string]interface{}

// ParseCredentialsDocument parses a raw credentials JSON blob into a useable object
func ParseCredentialsDocument(data []byte) (CredentialsDocument, error) {
	document := CredentialsDocument{}
	err := json.Unmarshal(data, &document)
	return document, err
}

// String recovers the value at the given key, assuming it is a string
func (d CredentialsDocument) String(key string) (string, error) {
	if val, ok := d[key]; !ok {
		return "", fmt.Errorf("Credential key does not exist: %s", key)
	} else if valStr, ok := val.(string); ok {
		return valStr, nil
	} else {
		return "", fmt.Errorf("Could not convert value to string: key=%s, value=%v", key, val)
	}
}

// GetSourceCredentials returns the credential triple for the HLS source
// buckets, preferring the discrete environment triple and falling back to the
// JSON blob form. Returns false if no credentials are configured, in which
// case anonymous or ambient-role access is assumed.
func GetSourceCredentials(ctx LogContext) (*Credentials, bool) {
	if accessKey, ok := os.LookupEnv(HLS_ACCESS_KEY_ID); ok {
		return &Credentials{
			AccessKeyID:     accessKey,
			SecretAccessKey: os.Getenv(HLS_SECRET_ACCESS_KEY),
			SessionToken:    os.Getenv(HLS_SESSION_TOKEN),
		}, true
	}

	raw, ok := os.LookupEnv(HLS_CREDENTIALS_JSON)
	if !ok {
		return nil, false
	}

	document, err := ParseCredentialsDocument([]byte(raw))
	if err != nil {
		LogAlert(ctx, "Could not parse "+HLS_CREDENTIALS_JSON+" from the environment: "+err.Error())
		return nil, false
	}

	accessKey, err := document.String("accessKeyId")
	if err != nil {
		LogAlert(ctx, "Credentials blob is missing accessKeyId: "+err.Error())
		return nil, false
	}
	secretKey, err := document.String("secretAccessKey")
	if err != nil {
		LogAlert(ctx, "Credentials blob is missing secretAccessKey: "+err.Error())
		return nil, false
	}
	// The session token is optional; long-lived keys have none.
	sessionToken, _ := document.String("sessionToken")

	return &Credentials{
		AccessKeyID:     accessKey,
		SecretAccessKey: secretKey,
		SessionToken:    sessionToken,
	}, true
}
