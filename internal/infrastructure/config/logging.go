package config

// LoggingConfig selects where diagnostics go. Route output and the live status
// line are written to stdout separately, so logs default to stderr.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	// IncludeCaller adds file:line to each record
	IncludeCaller bool `mapstructure:"include_caller"`
}

// ToFile reports whether logs are appended to FilePath
func (c LoggingConfig) ToFile() bool {
	return c.Output == "file"
}

// Structured reports whether records are emitted as JSON
func (c LoggingConfig) Structured() bool {
	return c.Format == "json"
}
