package config

import "strings"

// Config 是 Vane 的主配置载体。
type Config struct {
	App      AppConfig      `toml:"app"`
	Market   MarketConfig   `toml:"market"`
	Index    IndexConfig    `toml:"index"`
	Decision DecisionConfig `toml:"decision"`
	Store    StoreConfig    `toml:"store"`
	Evaluate EvaluateConfig `toml:"evaluate"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

type MarketConfig struct {
	ActiveSource string         `toml:"active_source"`
	Sources      []MarketSource `toml:"sources"`
	Interval     string         `toml:"interval"`
	HistoryBars  int            `toml:"history_bars"`
}

type MarketSource struct {
	Name        string      `toml:"name"`
	Enabled     bool        `toml:"enabled"`
	RESTBaseURL string      `toml:"rest_base_url"`
	Proxy       ProxyConfig `toml:"proxy"`
}

type ProxyConfig struct {
	Enabled bool   `toml:"enabled"`
	RESTURL string `toml:"rest_url"`
}

// IndexConfig 指向外部校准文件（权重与阈值），支持热更新。
type IndexConfig struct {
	CalibrationPath string `toml:"calibration_path"`
}

// DecisionConfig 控制仓位上限。
type DecisionConfig struct {
	MaxPositionSize float64 `toml:"max_position_size"`
}

// StoreConfig 控制评估流水的落盘位置。
type StoreConfig struct {
	Path string `toml:"path"`
}

// EvaluateConfig 控制常驻模式下的周期评估。
type EvaluateConfig struct {
	Symbols         []string `toml:"symbols"`
	IntervalSeconds int      `toml:"interval_seconds"`
	RunImmediately  bool     `toml:"run_immediately"`
}

func (m MarketConfig) ResolveActiveSource() MarketSource {
	if len(m.Sources) == 0 {
		return MarketSource{
			Name:        "binance",
			Enabled:     true,
			RESTBaseURL: "https://fapi.binance.com",
		}
	}
	active := strings.ToLower(strings.TrimSpace(m.ActiveSource))
	var fallback MarketSource
	for _, src := range m.Sources {
		if fallback.Name == "" {
			fallback = src
		}
		if !src.Enabled {
			continue
		}
		if active == "" || strings.ToLower(src.Name) == active {
			return src
		}
	}
	return fallback
}

// keySet 用于追踪配置文件中显式设置的字段路径。
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault 描述单个字段的默认值设置规则。
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
