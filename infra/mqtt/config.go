// Package mqtt broadcasts served predictions to an MQTT broker so lot
// displays can follow pricing recommendations.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker     string      `json:"broker" yaml:"broker"`
	ClientID   string      `json:"client_id" yaml:"client_id"`
	Topic      string      `json:"topic" yaml:"topic"`
	QoS        byte        `json:"qos" yaml:"qos"`
	Retain     bool        `json:"retain" yaml:"retain"`
	Username   string      `json:"username" yaml:"username"`
	Password   string      `json:"password" yaml:"password"`
	UseTLS     bool        `json:"use_tls" yaml:"use_tls"`
	ClientCert string      `json:"client_cert" yaml:"client_cert"`
	ClientKey  string      `json:"client_key" yaml:"client_key"`
	CABundle   string      `json:"ca_bundle" yaml:"ca_bundle"`
	MaxRetries int         `json:"max_retries" yaml:"max_retries"`
	BackoffMS  int         `json:"backoff_ms" yaml:"backoff_ms"`
	TLSConfig  *tls.Config `json:"-" yaml:"-"`
}

// DefaultTopic receives prediction messages when none is configured.
const DefaultTopic = "smartpark/predictions"

// Enabled reports whether a broker is configured.
func (c Config) Enabled() bool { return c.Broker != "" }

// Validate checks the publisher settings.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.QoS > 2 {
		return fmt.Errorf("mqtt: qos must be 0, 1 or 2, got %d", c.QoS)
	}
	if c.MaxRetries < 0 || c.BackoffMS < 0 {
		return errors.New("mqtt: max_retries and backoff_ms must not be negative")
	}
	return nil
}

// NewClientOptions builds mqtt client options from Config. The client id gets
// a random suffix so several instances can share a broker.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	id := cfg.ClientID
	if id == "" {
		id = "smartpark"
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(id + "-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("ca bundle %s holds no certificate", c.CABundle)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
