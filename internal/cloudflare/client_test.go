package cloudflare

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
)

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func testClient(rt http.RoundTripper) *Client {
	return New("test-token", WithHTTPClient(&http.Client{Transport: rt}))
}

func TestClient_SetsAuthorizationHeader(t *testing.T) {
	var gotAuth string
	rt := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			return jsonResponse(http.StatusOK,
				`{"success":true,"result":[{"id":"z1","name":"one.example"}],"result_info":{"page":1,"total_pages":1}}`), nil
		},
	}

	if _, err := testClient(rt).ListZones(context.Background()); err != nil {
		t.Fatalf("ListZones returned error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer test-token")
	}
}
