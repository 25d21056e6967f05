package config

import (
	"fmt"
	"strings"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.Market.validate(); err != nil {
		return err
	}
	if err := c.Index.validate(); err != nil {
		return err
	}
	if err := c.Decision.validate(); err != nil {
		return err
	}
	if err := c.Evaluate.validate(); err != nil {
		return err
	}
	return nil
}

func (m *MarketConfig) validate() error {
	if len(m.Sources) == 0 {
		return fmt.Errorf("market.sources requires at least one source")
	}
	if !IsValidInterval(m.Interval) {
		return fmt.Errorf("market.interval %q is not a valid interval", m.Interval)
	}
	if m.HistoryBars < 50 || m.HistoryBars > 1500 {
		return fmt.Errorf("market.history_bars must be in [50,1500]")
	}
	activeName := strings.ToLower(strings.TrimSpace(m.ActiveSource))
	enabled := 0
	activeFound := false
	for _, src := range m.Sources {
		if !src.Enabled {
			continue
		}
		enabled++
		if strings.TrimSpace(src.RESTBaseURL) == "" {
			return fmt.Errorf("market source %s missing rest_base_url", src.Name)
		}
		if src.Proxy.Enabled && src.Proxy.RESTURL == "" {
			return fmt.Errorf("market source %s has proxy enabled but no rest_url", src.Name)
		}
		name := strings.ToLower(strings.TrimSpace(src.Name))
		if activeName == "" || name == activeName {
			activeFound = true
		}
	}
	if enabled == 0 {
		return fmt.Errorf("market.sources requires at least one enabled source")
	}
	if !activeFound {
		return fmt.Errorf("enabled market.active_source=%s not found", m.ActiveSource)
	}
	return nil
}

func (i *IndexConfig) validate() error {
	if strings.TrimSpace(i.CalibrationPath) == "" {
		return fmt.Errorf("index.calibration_path cannot be empty")
	}
	return nil
}

func (d *DecisionConfig) validate() error {
	if d.MaxPositionSize <= 0 {
		return fmt.Errorf("decision.max_position_size must be > 0")
	}
	return nil
}

func (e *EvaluateConfig) validate() error {
	if e.IntervalSeconds <= 0 {
		return fmt.Errorf("evaluate.interval_seconds must be > 0")
	}
	for _, sym := range e.Symbols {
		if strings.TrimSpace(sym) == "" {
			return fmt.Errorf("evaluate.symbols contains empty symbol")
		}
	}
	return nil
}

// IsValidInterval 简易校验：以数字开头，以 m/h/d/w 结尾
func IsValidInterval(s string) bool {
	if s == "" {
		return false
	}
	suf := s[len(s)-1]
	if suf != 'm' && suf != 'h' && suf != 'd' && suf != 'w' {
		return false
	}
	for i := 0; i < len(s)-1; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
