package httpclient

import (
	"net/http"

	"rental-service/config"

	circuit "github.com/rubyist/circuitbreaker"
)

const (
	TypeConsecutive = "consecutive"
	TypeThreshold   = "threshold"
	TypeRate        = "rate"
)

// InitCircuitBreaker builds a breaker of the given type. Unknown types fall back to consecutive.
func InitCircuitBreaker(cfg *config.HttpClientConfig, cbType string) *circuit.Breaker {
	switch cbType {
	case TypeThreshold:
		return circuit.NewThresholdBreaker(cfg.Threshold)
	case TypeRate:
		return circuit.NewRateBreaker(cfg.Rate, cfg.MinSamples)
	default:
		return circuit.NewConsecutiveBreaker(cfg.ConsecutiveTrips)
	}
}

func InitHttpClient(cfg *config.HttpClientConfig, cb *circuit.Breaker) *circuit.HTTPClient {
	return circuit.NewHTTPClientWithBreaker(cb, cfg.Timeout, &http.Client{Timeout: cfg.Timeout})
}
