package stations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/platform/obs"
)

const (
	defaultStatusBaseURL = "http://apis.data.go.kr"
	statusTimeFormat     = "20060102150405"

	statusRetryMaxElapsed = 5 * time.Second
)

// StatusClient implements ports.StationStatusProvider against the public
// charger-info API. Transient failures are retried with exponential
// backoff; a hard failure surfaces as an error the caller treats as
// "status unknown", never as "unavailable".
type StatusClient struct {
	session    *http.Client
	serviceKey string
	baseURL    string
}

func NewStatusClient(serviceKey string) (*StatusClient, error) {
	if serviceKey == "" {
		return nil, errors.New("charger status service key is empty")
	}

	return &StatusClient{
		session:    &http.Client{Timeout: 10 * time.Second},
		serviceKey: serviceKey,
		baseURL:    defaultStatusBaseURL,
	}, nil
}

type chargerInfoResponse struct {
	Items struct {
		Item []struct {
			Stat     string `json:"stat"`
			Output   string `json:"output"`
			StatUpdD string `json:"statUpdDt"`
		} `json:"item"`
	} `json:"items"`
}

func (c *StatusClient) GetStatus(ctx context.Context, stationID string) (_ []domain.ConnectorStatus, err error) {
	defer obs.Time(ctx, "stations.GetStatus")(&err)

	if stationID == "" {
		return nil, errors.New("get station status: station id is empty")
	}

	params := url.Values{}
	params.Set("serviceKey", c.serviceKey)
	params.Set("numOfRows", "9999")
	params.Set("pageNo", "1")
	params.Set("statId", stationID)
	params.Set("dataType", "JSON")
	endpoint := c.baseURL + "/B552584/EvCharger/getChargerInfo?" + params.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create status request: %w", err))
		}

		resp, err := c.session.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == 429 {
			return fmt.Errorf("status service returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("status service returned %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = statusRetryMaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("get status for station %q: %w", stationID, err)
	}

	var decoded chargerInfoResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode status for station %q: %w", stationID, err)
	}

	connectors := make([]domain.ConnectorStatus, 0, len(decoded.Items.Item))
	for _, item := range decoded.Items.Item {
		outputKw, _ := strconv.ParseFloat(item.Output, 64)

		var updated time.Time
		if item.StatUpdD != "" {
			// Timestamps are local to the charger network; parse errors
			// leave the zero time rather than dropping the connector.
			updated, _ = time.Parse(statusTimeFormat, item.StatUpdD)
		}

		connectors = append(connectors, domain.ConnectorStatus{
			Status:     item.Stat,
			OutputKw:   outputKw,
			LastUpdate: updated,
		})
	}

	return connectors, nil
}
