package store

import (
	"time"

	"linkmill/internal/platform/config"
)

// Config selects which backends to open and how
type Config struct {
	PG  PGConfig
	CH  CHConfig
	RDS RDSConfig
}

// PGConfig configures the postgres pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	// SlowMS marks queries above the threshold as slow in the tracer
	SlowMS int64
	LogSQL bool
}

// CHConfig configures the clickhouse connection
type CHConfig struct {
	Enabled bool
	URL     string
}

// RDSConfig configures the redis cache
type RDSConfig struct {
	Enabled bool
	Addr    string
	DB      int
	TTL     time.Duration
}

// FromConf builds a Config from SERVICE_* environment keys
func FromConf(cfg config.Conf) Config {
	svc := cfg.Prefix("SERVICE_")
	pg := svc.Prefix("PGSQL_")
	ch := svc.Prefix("CLICKHOUSE_")
	rds := svc.Prefix("REDIS_")

	return Config{
		PG: PGConfig{
			Enabled:  pg.MayBool("ENABLE", true),
			URL:      pg.MayString("DBURL", ""),
			MaxConns: int32(pg.MayInt("MAX_CONNS", 8)), // #nosec G115
			SlowMS:   int64(pg.MayInt("SLOW_MS", 200)),
			LogSQL:   pg.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			Enabled: ch.MayBool("ENABLE", false),
			URL:     ch.MayString("DBURL", ""),
		},
		RDS: RDSConfig{
			Enabled: rds.MayBool("ENABLE", false),
			Addr:    rds.MayString("ADDR", "127.0.0.1:6379"),
			DB:      rds.MayInt("DB", 0),
			TTL:     rds.MayDuration("TTL", 5*time.Minute),
		},
	}
}
