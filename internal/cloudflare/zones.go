package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/j-veylop/zonetls/internal/logger"
	"github.com/j-veylop/zonetls/internal/models"
)

// apiMessage is one entry of the REST envelope's errors/messages arrays.
type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type zoneEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type resultInfo struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

type zonesPage struct {
	Success    bool         `json:"success"`
	Errors     []apiMessage `json:"errors"`
	Result     []zoneEntry  `json:"result"`
	ResultInfo resultInfo   `json:"result_info"`
}

// ListZones resolves every zone visible to the token. The paginated REST
// listing is tried first because it carries display names; if it yields
// nothing, the GraphQL zone listing is used with the zone tag standing in
// for the name. Both mechanisms yielding an error produces a
// *DirectoryError; both succeeding with zero zones produces an empty slice,
// which callers must treat as a terminal condition.
func (c *Client) ListZones(ctx context.Context) ([]models.Zone, error) {
	zones, primaryErr := c.listZonesREST(ctx)
	if len(zones) > 0 {
		return zones, nil
	}
	if primaryErr != nil {
		logger.Warn("zone listing endpoint failed, falling back to graphql", "error", primaryErr)
	}

	fallback, fallbackErr := c.listZonesGraphQL(ctx)
	if len(fallback) > 0 {
		return fallback, nil
	}

	if primaryErr != nil && fallbackErr != nil {
		return nil, &DirectoryError{Primary: primaryErr, Fallback: fallbackErr}
	}
	if fallbackErr != nil {
		return nil, fmt.Errorf("graphql zone listing failed: %w", fallbackErr)
	}
	return nil, primaryErr
}

// listZonesREST pages through GET /zones until the reported total page
// count is reached.
func (c *Client) listZonesREST(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(zonesPerPage))
		endpoint := c.baseURL + "/zones?" + params.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zone listing request: %w", err)
		}
		c.setHeaders(req)

		logger.Debug("fetching zones page", "page", page)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("zone listing request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		closeBody(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to read zone listing response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("zone listing returned status %d", resp.StatusCode)
		}

		var pageData zonesPage
		if err := json.Unmarshal(body, &pageData); err != nil {
			return nil, fmt.Errorf("failed to parse zone listing response: %w", err)
		}
		if !pageData.Success {
			return nil, fmt.Errorf("zone listing unsuccessful: %s", formatMessages(pageData.Errors))
		}

		for _, entry := range pageData.Result {
			zones = append(zones, models.Zone{Tag: entry.ID, Name: entry.Name})
		}

		if len(pageData.Result) == 0 || page >= pageData.ResultInfo.TotalPages {
			break
		}
	}

	return zones, nil
}

const zoneListQuery = `query GetZones {
  viewer {
    zones {
      zoneTag
    }
  }
}`

type zoneListData struct {
	Viewer struct {
		Zones []struct {
			ZoneTag string `json:"zoneTag"`
		} `json:"zones"`
	} `json:"viewer"`
}

// listZonesGraphQL is the fallback discovery mechanism. The GraphQL schema
// exposes no display name, so the zone tag is used for both fields.
func (c *Client) listZonesGraphQL(ctx context.Context) ([]models.Zone, error) {
	data, _, err := c.postGraphQL(ctx, zoneListQuery, nil)
	if err != nil {
		return nil, err
	}

	var parsed zoneListData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unexpected zone listing structure: %w", err)
	}

	zones := make([]models.Zone, 0, len(parsed.Viewer.Zones))
	for _, z := range parsed.Viewer.Zones {
		zones = append(zones, models.Zone{Tag: z.ZoneTag, Name: z.ZoneTag})
	}
	return zones, nil
}

func formatMessages(messages []apiMessage) string {
	if len(messages) == 0 {
		return "unknown error"
	}
	out := ""
	for i, m := range messages {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%d: %s", m.Code, m.Message)
	}
	return out
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logger.Error("failed to close response body", "error", err)
	}
}
