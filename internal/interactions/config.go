// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package interactions

import (
	"time"
)

// NATSConfig holds NATS JetStream configuration for the interaction
// pipeline. Values are populated through the koanf config layer.
type NATSConfig struct {
	// Enabled controls whether the interaction pipeline is active. When
	// disabled, interactions are written straight to the store and no
	// NATS connection is made.
	Enabled bool `koanf:"enabled" json:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url" json:"url"`

	// EmbeddedServer runs an in-process NATS server instead of connecting
	// to an external one at URL.
	EmbeddedServer bool `koanf:"embedded" json:"embedded"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir" json:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory" json:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store" json:"max_store"`

	// StreamRetentionDays is how long interaction events stay replayable.
	StreamRetentionDays int `koanf:"retention_days" json:"retention_days"`

	// SubscribersCount is the number of concurrent message processors.
	// Interaction appends are commutative for scoring purposes, so values
	// above 1 trade ordering for throughput safely.
	SubscribersCount int `koanf:"subscribers" json:"subscribers"`

	// DurableName is the consumer durable name for message tracking.
	DurableName string `koanf:"durable_name" json:"durable_name"`

	// QueueGroup is the queue group for load balancing.
	QueueGroup string `koanf:"queue_group" json:"queue_group"`
}

// DefaultNATSConfig returns production defaults for the interaction pipeline.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		Enabled:             false,
		URL:                 "nats://127.0.0.1:4222",
		EmbeddedServer:      true,
		StoreDir:            "/data/nats/jetstream",
		MaxMemory:           1 << 30,  // 1GB
		MaxStore:            10 << 30, // 10GB
		StreamRetentionDays: 30,
		SubscribersCount:    4,
		DurableName:         "interaction-recorder",
		QueueGroup:          "recorders",
	}
}

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string `koanf:"host" json:"host"`
	Port              int    `koanf:"port" json:"port"`
	StoreDir          string `koanf:"store_dir" json:"store_dir"`
	JetStreamMaxMem   int64  `koanf:"max_memory" json:"max_memory"`
	JetStreamMaxStore int64  `koanf:"max_store" json:"max_store"`
}

// DefaultServerConfig returns production defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   1 << 30,  // 1GB
		JetStreamMaxStore: 10 << 30, // 10GB
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool
}

// DefaultPublisherConfig returns production defaults for the publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds subscriber configuration.
type SubscriberConfig struct {
	URL              string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
	// StreamName is the JetStream stream to bind to. When set,
	// AutoProvision is disabled and the subscriber binds with
	// nats.BindStream(). Required for wildcard topics such as
	// "interactions.>" because stream names cannot contain wildcards.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for the subscriber.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		DurableName:      "interaction-recorder",
		QueueGroup:       "recorders",
		SubscribersCount: 4,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,    // Max redelivery attempts
		MaxAckPending:    1000, // Flow control
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
	}
}

// StreamConfig defines the interaction event stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns the production stream configuration.
// The duplicate window must cover realistic producer retry horizons so a
// re-published EventID is dropped by JetStream rather than double-counted
// in the interaction log.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name: "INTERACTIONS",
		Subjects: []string{
			"interactions.>",
		},
		MaxAge:          30 * 24 * time.Hour,     // recency window plus replay headroom
		MaxBytes:        10 * 1024 * 1024 * 1024, // 10GB
		MaxMsgs:         -1,                      // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1, // Increase for clustering
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Failures before opening
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}
