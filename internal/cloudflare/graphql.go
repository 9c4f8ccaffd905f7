package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/j-veylop/zonetls/internal/logger"
	"github.com/j-veylop/zonetls/internal/models"
)

// tlsVersionsQuery fetches request counts grouped by negotiated TLS
// protocol for a single zone and time window.
const tlsVersionsQuery = `query GetTLSVersions($zoneTag: string, $filter: ZoneHttpRequests1hGroupsFilter_InputObject!, $limit: uint64!) {
  viewer {
    zones(filter: {zoneTag: $zoneTag}) {
      httpRequests1hGroups(limit: $limit, filter: $filter) {
        sum {
          clientSSLMap {
            clientSSLProtocol
            requests
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables,omitempty"`
}

// graphQLEnvelope keeps Errors raw so that an explicitly null errors member
// can be told apart from an absent one.
type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

type datetimeFilter struct {
	DatetimeGeq string `json:"datetime_geq"`
	DatetimeLt  string `json:"datetime_lt"`
}

type andFilter struct {
	And []datetimeFilter `json:"AND"`
}

type tlsQueryVariables struct {
	ZoneTag string    `json:"zoneTag"`
	Filter  andFilter `json:"filter"`
	Limit   int       `json:"limit"`
}

// ProtocolRequests is one (protocol label, request count) pair of a group
// summary.
type ProtocolRequests struct {
	Protocol string `json:"clientSSLProtocol"`
	Requests int64  `json:"requests"`
}

// GroupSum is the summary object of one time-bucketed request group.
type GroupSum struct {
	ClientSSLMap []ProtocolRequests `json:"clientSSLMap"`
}

// RequestGroup is one time bucket of the statistics response.
type RequestGroup struct {
	Sum GroupSum `json:"sum"`
}

// ZoneData holds the request groups returned for one zone.
type ZoneData struct {
	Groups []RequestGroup `json:"httpRequests1hGroups"`
}

type tlsQueryData struct {
	Viewer struct {
		Zones []ZoneData `json:"zones"`
	} `json:"viewer"`
}

// RawResult is the parsed payload of one successful chunk query.
type RawResult struct {
	Zones []ZoneData

	// ErrorsFieldNull is set when the response carried an explicit
	// "errors": null member rather than omitting the field. Upstream
	// behavior here is ambiguous; it has been observed alongside token
	// permission gaps, so callers should surface it.
	ErrorsFieldNull bool
}

// QueryTLSStats issues one statistics query for a zone and time window.
// Every failure mode comes back as a *QueryFailure value; no retries are
// performed here.
func (c *Client) QueryTLSStats(ctx context.Context, zoneTag string, window models.TimeWindow, limit int) (*RawResult, error) {
	variables := tlsQueryVariables{
		ZoneTag: zoneTag,
		Filter: andFilter{
			And: []datetimeFilter{{
				DatetimeGeq: window.Start.UTC().Format(time.RFC3339),
				DatetimeLt:  window.End.UTC().Format(time.RFC3339),
			}},
		},
		Limit: limit,
	}

	fail := func(kind FailureKind, err error) (*RawResult, error) {
		return nil, &QueryFailure{Kind: kind, Zone: zoneTag, Window: window, Err: err}
	}

	data, errorsNull, err := c.postGraphQL(ctx, tlsVersionsQuery, variables)
	if err != nil {
		if qf, ok := err.(*QueryFailure); ok {
			qf.Zone = zoneTag
			qf.Window = window
			return nil, qf
		}
		return fail(FailureTransport, err)
	}

	var parsed tlsQueryData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fail(FailureDecode, err)
	}

	return &RawResult{
		Zones:           parsed.Viewer.Zones,
		ErrorsFieldNull: errorsNull,
	}, nil
}

// postGraphQL executes a GraphQL document and returns the raw data member
// plus whether the errors member was present but null. All failures are
// *QueryFailure values without zone/window context filled in.
func (c *Client) postGraphQL(ctx context.Context, query string, variables any) (json.RawMessage, bool, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, false, &QueryFailure{Kind: FailureDecode, Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	endpoint := c.baseURL + "/graphql"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, &QueryFailure{Kind: FailureTransport, Err: err}
	}
	c.setHeaders(req)

	logger.Debug("graphql request", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, &QueryFailure{Kind: FailureTransport, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	closeBody(resp)
	if err != nil {
		return nil, false, &QueryFailure{Kind: FailureTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, &QueryFailure{
			Kind: FailureHTTPStatus,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false, &QueryFailure{Kind: FailureDecode, Err: err}
	}

	errorsNull := false
	if len(envelope.Errors) > 0 {
		if string(envelope.Errors) == "null" {
			errorsNull = true
		} else {
			return nil, false, &QueryFailure{
				Kind: FailureAPIErrors,
				Err:  fmt.Errorf("graphql errors: %s", envelope.Errors),
			}
		}
	}

	return envelope.Data, errorsNull, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
