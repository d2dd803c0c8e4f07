package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds the cycle parameters of the floating-point unit.
type TimingConfig struct {
	// DivBitsPerCycle is the number of quotient bits the divide recurrence
	// retires per cycle. Default: 2 (radix-4 recurrence).
	DivBitsPerCycle uint64 `json:"div_bits_per_cycle"`

	// SqrtBitsPerCycle is the number of root bits the square-root
	// recurrence retires per cycle. Default: 2.
	SqrtBitsPerCycle uint64 `json:"sqrt_bits_per_cycle"`

	// DivSetupCycles is the number of cycles spent before the first
	// recurrence iteration, unpacking and normalizing the operands.
	// Default: 1.
	DivSetupCycles uint64 `json:"div_setup_cycles"`

	// DivRoundCycles is the number of cycles spent after the last
	// iteration, resolving the remainder and rounding. Default: 1.
	DivRoundCycles uint64 `json:"div_round_cycles"`

	// LoadLatency is the latency of a floating-point load. Default: 1.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency of a floating-point store. Default: 1.
	StoreLatency uint64 `json:"store_latency"`
}

// DefaultTimingConfig returns a TimingConfig with radix-4 divider defaults.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		DivBitsPerCycle:  2,
		SqrtBitsPerCycle: 2,
		DivSetupCycles:   1,
		DivRoundCycles:   1,
		LoadLatency:      1,
		StoreLatency:     1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all cycle values are valid.
func (c *TimingConfig) Validate() error {
	if c.DivBitsPerCycle == 0 {
		return fmt.Errorf("div_bits_per_cycle must be > 0")
	}
	if c.SqrtBitsPerCycle == 0 {
		return fmt.Errorf("sqrt_bits_per_cycle must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
