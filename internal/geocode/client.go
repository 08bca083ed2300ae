package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"care-admin-service/internal/dto"
)

var ErrNoResults = errors.New("sin resultados para esa dirección")

type queryResult struct {
	Latitude    float64 `json:"lat,string"`
	Longitude   float64 `json:"lon,string"`
	DisplayName string  `json:"display_name"`
}

// Client consulta el servicio externo de mapas (API estilo Nominatim).
// El core trata el resultado como opaco: dirección visible + "lat,lng".
type Client struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (n *Client) Search(query string) (*dto.GeocodeResponse, error) {
	q := url.URL{
		Path: "search",
		RawQuery: url.Values{
			"q":      []string{query},
			"format": []string{"json"},
		}.Encode(),
	}

	reqString := fmt.Sprintf("%s/%s", n.endpoint, q.String())
	log.WithField("prefix", "geocode").WithField("req", reqString).Debug("request to geocoder")

	resp, err := n.client.Get(reqString)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("prefix", "geocode").WithField("status", resp.StatusCode).Error("error response from geocoder")
		return nil, fmt.Errorf("fail to query address")
	}

	var results []queryResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	first := results[0]
	return &dto.GeocodeResponse{
		DisplayName: first.DisplayName,
		LatLng:      fmt.Sprintf("%f,%f", first.Latitude, first.Longitude),
	}, nil
}
