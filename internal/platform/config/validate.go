package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Telemetry.validate(),
		c.Store.validate(),
		c.EventBus.validate(),
		c.Assignment.validate(),
		c.Broker.validate(),
		c.Directory.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	} else if s.RequestTimeout >= s.WriteTimeout {
		errs = append(errs, fmt.Errorf("server.request_timeout (%s) must be shorter than server.write_timeout (%s)",
			s.RequestTimeout, s.WriteTimeout))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (s *StoreConfig) validate() error {
	switch s.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
		if s.DSN == "" {
			return errors.New("store.dsn must not be empty when driver is postgres")
		}
		if s.MaxOpenConns < 1 {
			return fmt.Errorf("store.max_open_conns must be >= 1, got %d", s.MaxOpenConns)
		}
		return nil
	default:
		return fmt.Errorf("store.driver must be one of: memory, postgres; got %q", s.Driver)
	}
}

func (e *EventBusConfig) validate() error {
	var errs []error

	if e.Workers < 1 {
		errs = append(errs, fmt.Errorf("eventbus.workers must be >= 1, got %d", e.Workers))
	}
	if e.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("eventbus.queue_size must be >= 1, got %d", e.QueueSize))
	}
	if e.HandlerTimeout < 0 {
		errs = append(errs, fmt.Errorf("eventbus.handler_timeout must not be negative, got %s", e.HandlerTimeout))
	}

	return errors.Join(errs...)
}

func (a *AssignmentConfig) validate() error {
	if a.MaxAttempts < 1 {
		return fmt.Errorf("assignment.max_attempts must be >= 1, got %d", a.MaxAttempts)
	}
	return nil
}

func (b *BrokerConfig) validate() error {
	if !b.Enabled {
		return nil
	}

	var errs []error

	if b.URL == "" {
		errs = append(errs, errors.New("broker.url must not be empty"))
	}
	if b.Exchange == "" {
		errs = append(errs, errors.New("broker.exchange must not be empty"))
	}
	if b.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("broker.retry.max_attempts must be >= 1, got %d", b.Retry.MaxAttempts))
	}
	if b.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("broker.retry.multiplier must be positive, got %f", b.Retry.Multiplier))
	}
	if b.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("broker.circuit_breaker.max_failures must be >= 1, got %d",
			b.CircuitBreaker.MaxFailures))
	}
	if b.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("broker.rate_limit.requests_per_second must not be negative"))
	}

	return errors.Join(errs...)
}

func (d *DirectoryConfig) validate() error {
	var errs []error
	seen := make(map[string]bool, len(d.Seed))

	for i, a := range d.Seed {
		switch {
		case a.ID == "":
			errs = append(errs, fmt.Errorf("directory.seed[%d].id is required", i))
		case seen[a.ID]:
			errs = append(errs, fmt.Errorf("directory.seed[%d].id %q is duplicated", i, a.ID))
		}
		seen[a.ID] = true
		if a.Role == "" {
			errs = append(errs, fmt.Errorf("directory.seed[%d].role is required", i))
		}
		if a.ManagerID != "" && a.ManagerID == a.ID {
			errs = append(errs, fmt.Errorf("directory.seed[%d] cannot manage itself", i))
		}
	}

	return errors.Join(errs...)
}
