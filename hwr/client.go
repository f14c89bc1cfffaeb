package hwr

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	DefaultURL = "https://cloud.myscript.com/api/v4.0/iink/batch"

	httpClientTimeout   = 30 * time.Second
	httpDialTimeout     = 5 * time.Second
	httpTLSHandshake    = 5 * time.Second
	httpResponseHeader  = 20 * time.Second
	httpIdleConnTimeout = 90 * time.Second
	defaultRetryMax     = 2
)

func newHTTPClient(retryMax int) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{
		Timeout: httpClientTimeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: httpDialTimeout}).DialContext,
			TLSHandshakeTimeout:   httpTLSHandshake,
			ResponseHeaderTimeout: httpResponseHeader,
			IdleConnTimeout:       httpIdleConnTimeout,
		},
	}
	return retryClient.StandardClient()
}

// sign returns the hex HMAC-SHA512 of data keyed with application+hmac key.
func sign(key, hmackey string, data []byte) string {
	mac := hmac.New(sha512.New, []byte(key+hmackey))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// sendRequest posts a batch request and returns the response body.
func (e *Engine) sendRequest(ctx context.Context, data []byte, mimeType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", mimeType+", application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("applicationKey", e.ApplicationKey)
	req.Header.Set("hmac", sign(e.ApplicationKey, e.HMACKey, data))

	res, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("API error: Status %d, Response: %s", res.StatusCode, string(body))
	}

	return body, nil
}
