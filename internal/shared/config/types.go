package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// PaymentConfig selects the payment gateway implementation. The mock
// provider never leaves the process and is the development default;
// MockApprove controls whether it approves or declines charges.
type PaymentConfig struct {
	Provider    string `mapstructure:"provider"`
	MockApprove bool   `mapstructure:"mock_approve"`
}

// BillingConfig controls the billing sweep and the failed-payment retry
// schedule. RetryScheduleDays lists the day offsets from the original due
// date at which each retry is attempted; the subscription is cancelled once
// the schedule is exhausted.
type BillingConfig struct {
	SweepIntervalMinutes  int   `mapstructure:"sweep_interval_minutes"`
	GatewayTimeoutSeconds int   `mapstructure:"gateway_timeout_seconds"`
	RetryScheduleDays     []int `mapstructure:"retry_schedule_days"`
}

// PlanSeedConfig describes one subscription tier loaded into the catalog at
// startup. Zero count/value limits mean unlimited.
type PlanSeedConfig struct {
	Code               string   `mapstructure:"code"`
	Name               string   `mapstructure:"name"`
	MonthlyPriceCents  int64    `mapstructure:"monthly_price_cents"`
	BillingCycles      []string `mapstructure:"billing_cycles"`
	PreorderLimit      int      `mapstructure:"preorder_limit"`
	PreorderValueCents int64    `mapstructure:"preorder_value_cents"`
	EarlyAccessDays    int      `mapstructure:"early_access_days"`
	DiscountPercent    float64  `mapstructure:"discount_percent"`
	MaxTrackedProducts int      `mapstructure:"max_tracked_products"`
}

type CatalogConfig struct {
	Plans []PlanSeedConfig `mapstructure:"plans"`
}

type CacheConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	UsageTTLSeconds int  `mapstructure:"usage_ttl_seconds"`
}
