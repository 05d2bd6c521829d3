package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:              "localhost",
			Port:              3306,
			User:              "beangen",
			Database:          "blog",
			Pool:              PoolConfig{MaxOpen: 4, MaxIdle: 2, MaxLifetime: 5 * time.Minute},
			ConnectionTimeout: 30 * time.Second,
		},
		Output: OutputConfig{Path: "-"},
		Observability: ObservabilityConfig{
			ServiceName: "mysql-beangen",
			Logging:     LoggingConfig{Level: "info", Format: "json"},
			OTLP:        OTLPConfig{Endpoint: "localhost:4317", Protocol: "grpc"},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config has no errors", func(t *testing.T) {
		result := validConfig().Validate()
		assert.False(t, result.HasErrors(), "unexpected errors: %s", result.Error())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Port = 99999
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "database.port")
	})

	t.Run("missing database name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Database = ""
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "database.database")
	})

	t.Run("dsn and config database mismatch", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.ConnectionString = "user:pw@tcp(localhost:3306)/other"
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "mismatch")
	})

	t.Run("skip verify warns", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.TLS.Mode = "skip-verify"
		result := cfg.Validate()
		assert.False(t, result.HasErrors())
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "database.tls.mode", result.Warnings[0].Field)
	})

	t.Run("verify modes require CA file", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.TLS.Mode = "verify-full"
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "database.tls.ca_file")
	})

	t.Run("empty output path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output.Path = " "
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "output.path")
	})

	t.Run("bad filter glob", func(t *testing.T) {
		cfg := validConfig()
		cfg.SchemaFilters.DenyTables = []string{"[unclosed"}
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "schema_filters.deny_tables")
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Observability.Logging.Level = "trace"
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "observability.logging.level")
	})
}

func TestDSN(t *testing.T) {
	t.Run("from discrete fields", func(t *testing.T) {
		d := DatabaseConfig{Host: "db.internal", Port: 3306, User: "svc", Password: "pw", Database: "blog"}
		assert.Equal(t, "svc:pw@tcp(db.internal:3306)/blog?parseTime=true&loc=UTC", d.DSN())
	})

	t.Run("connection string gains parseTime and loc", func(t *testing.T) {
		d := DatabaseConfig{ConnectionString: "svc:pw@tcp(db:3306)/blog"}
		dsn := d.DSN()
		assert.Contains(t, dsn, "parseTime=true")
		assert.Contains(t, dsn, "loc=UTC")
	})

	t.Run("tls mode maps to driver parameter", func(t *testing.T) {
		d := DatabaseConfig{Host: "h", Port: 3306, User: "u", Database: "d"}
		d.TLS.Mode = "skip-verify"
		assert.True(t, strings.HasSuffix(d.DSN(), "&tls=skip-verify"))

		d.TLS.Mode = "verify-full"
		assert.True(t, strings.HasSuffix(d.DSN(), "&tls="+tlsConfigName))
	})
}

func TestResolveEffectiveDatabaseName(t *testing.T) {
	tests := []struct {
		name       string
		database   string
		dsn        string
		mycnf      string
		want       string
		wantSource string
		wantErr    bool
	}{
		{name: "explicit database", database: "blog", want: "blog", wantSource: "database.database"},
		{name: "from dsn", dsn: "u:p@tcp(h:3306)/blog", want: "blog", wantSource: "dsn"},
		{name: "explicit matches dsn", database: "blog", dsn: "u:p@tcp(h:3306)/blog", want: "blog", wantSource: "database.database"},
		{name: "mismatch", database: "blog", dsn: "u:p@tcp(h:3306)/other", wantErr: true},
		{name: "nothing configured", wantErr: true},
		{name: "invalid dsn", dsn: ":::", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source, err := resolveEffectiveDatabaseName(tt.database, tt.dsn, tt.mycnf)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestParseMyCnf(t *testing.T) {
	raw := `
# client settings
[client]
host = db.internal
port = 3307
user = svc
password = "se cret"
ssl-mode = VERIFY_IDENTITY

[mysql]
database = blog
`
	settings, err := parseMyCnf(raw)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", settings.Host)
	assert.Equal(t, 3307, settings.Port)
	assert.True(t, settings.HasPort)
	assert.Equal(t, "svc", settings.User)
	assert.Equal(t, "se cret", settings.Password)
	assert.Equal(t, "verify-full", settings.TLSMode)
	assert.Equal(t, "blog", settings.Database)
	assert.True(t, settings.HasDBName)
}

func TestParseMyCnfErrors(t *testing.T) {
	if _, err := parseMyCnf("[client]\nport = notanumber\n"); err == nil {
		t.Fatal("expected error for invalid port")
	}
	if _, err := parseMyCnf("[client]\nssl-mode = SOMETIMES\n"); err == nil {
		t.Fatal("expected error for unsupported ssl-mode")
	}
}

func TestMergeOTLPConfigs(t *testing.T) {
	obs := ObservabilityConfig{
		OTLP: OTLPConfig{Endpoint: "collector:4317", Protocol: "grpc", Compression: "gzip", Timeout: 10 * time.Second},
		Traces: &OTLPConfig{
			Endpoint: "traces:4318",
			Protocol: "http/protobuf",
		},
	}

	traces := obs.GetTracesConfig()
	assert.Equal(t, "traces:4318", traces.Endpoint)
	assert.Equal(t, "http/protobuf", traces.Protocol)
	assert.Equal(t, "gzip", traces.Compression)
	assert.Equal(t, 10*time.Second, traces.Timeout)

	logs := obs.GetLogsConfig()
	assert.Equal(t, "collector:4317", logs.Endpoint)
}
