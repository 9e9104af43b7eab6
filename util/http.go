package util

import (
	"net"
	"net/http"
	"time"
)

var sharedTransport = &http.Transport{
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	MaxIdleConns:          64,
	MaxIdleConnsPerHost:   16,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 5 * time.Second,
	ResponseHeaderTimeout: 60 * time.Second,
}

// HTTPTransport returns the shared transport, for SDK clients that accept a
// RoundTripper rather than a full client
func HTTPTransport() http.RoundTripper {
	return sharedTransport
}
