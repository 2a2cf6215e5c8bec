package driver

import (
	"fmt"
	"net/url"
)

// Provider identifies the search engine behind a driver.
type Provider string

const (
	ProviderElasticsearch Provider = "elasticsearch"
)

// Config holds connection settings for the search engine.
type Config struct {
	Hosts    []string
	Username string
	Password string
}

func (c Config) validate() error {
	if len(c.Hosts) == 0 {
		return &ConfigError{Reason: "no hosts configured"}
	}
	for _, host := range c.Hosts {
		u, err := url.ParseRequestURI(host)
		if err != nil {
			return &ConfigError{Reason: fmt.Sprintf("malformed host %q", host), Err: err}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return &ConfigError{Reason: fmt.Sprintf("host %q: unsupported scheme %q", host, u.Scheme)}
		}
	}
	return nil
}

// ConfigError reports malformed connection parameters or a client setup
// failure at construction time.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("driver configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("driver configuration: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support for ConfigError.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// ResponseError is an error response returned by the engine, surfaced to
// the caller unchanged.
type ResponseError struct {
	StatusCode int
	Kind       string
	Reason     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("search engine error [%d] %s: %s", e.StatusCode, e.Kind, e.Reason)
}

// Is implements errors.Is support for ResponseError.
func (e *ResponseError) Is(target error) bool {
	_, ok := target.(*ResponseError)
	return ok
}
