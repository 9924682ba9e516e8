package regionals

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"artists/config"
)

type ExternalRegional struct {
	ID   *int   `json:"id"`
	Nome string `json:"nome"`
}

var httpClient = http.Client{Timeout: 30 * time.Second}

// Fetch lists the regionals published by the external endpoint.
func Fetch() ([]ExternalRegional, error) {
	req, err := http.NewRequest(http.MethodGet, config.REGIONAIS_URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("regionais endpoint: status %d", resp.StatusCode)
	}
	var externals []ExternalRegional
	if err := json.NewDecoder(resp.Body).Decode(&externals); err != nil {
		return nil, err
	}
	return externals, nil
}
