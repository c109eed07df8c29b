package metrics

// Default monitor settings.
const (
	DefaultCapacity      = 10000
	DefaultRetentionDays = 30
	DefaultJanitorSpec   = "0 * * * *"
	DefaultCompareWindow = 100
)

// Config configures the Monitor and its retention janitor.
type Config struct {
	// Capacity is the ring buffer size; the oldest event is evicted on
	// overflow.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
	// RetentionDays bounds how long events are kept regardless of capacity.
	RetentionDays int `yaml:"retention_days" mapstructure:"retention_days"`
	// JanitorSpec is the cron schedule for the retention purge.
	JanitorSpec string `yaml:"janitor_spec" mapstructure:"janitor_spec"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = DefaultRetentionDays
	}
	if c.JanitorSpec == "" {
		c.JanitorSpec = DefaultJanitorSpec
	}
}
