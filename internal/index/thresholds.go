package index

import "fmt"

// Thresholds 汇总背离与风险规则的触发阈值。
// 这些值在来源口径中是经验常数，没有推导依据，
// 因此放进配置作为可再校准的缺省值，而不是写死在规则里。
type Thresholds struct {
	PriceVolumeGap    float64 `json:"priceVolumeGap" mapstructure:"price_volume_gap" yaml:"price_volume_gap"`
	TechnicalWhaleGap float64 `json:"technicalWhaleGap" mapstructure:"technical_whale_gap" yaml:"technical_whale_gap"`
	SocialPriceGap    float64 `json:"socialPriceGap" mapstructure:"social_price_gap" yaml:"social_price_gap"`
	ExtremePrice      float64 `json:"extremePrice" mapstructure:"extreme_price" yaml:"extreme_price"`
	ThinVolumeFloor   float64 `json:"thinVolumeFloor" mapstructure:"thin_volume_floor" yaml:"thin_volume_floor"`
	StrongPriceFloor  float64 `json:"strongPriceFloor" mapstructure:"strong_price_floor" yaml:"strong_price_floor"`
	WhaleFlowFloor    float64 `json:"whaleFlowFloor" mapstructure:"whale_flow_floor" yaml:"whale_flow_floor"`
}

// DefaultThresholds 出厂阈值。
func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceVolumeGap:    30,
		TechnicalWhaleGap: 30,
		SocialPriceGap:    40,
		ExtremePrice:      90,
		ThinVolumeFloor:   30,
		StrongPriceFloor:  70,
		WhaleFlowFloor:    30,
	}
}

// Validate 阈值必须为正，否则规则恒触发或恒失效。
func (t Thresholds) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"price_volume_gap", t.PriceVolumeGap},
		{"technical_whale_gap", t.TechnicalWhaleGap},
		{"social_price_gap", t.SocialPriceGap},
		{"extreme_price", t.ExtremePrice},
		{"thin_volume_floor", t.ThinVolumeFloor},
		{"strong_price_floor", t.StrongPriceFloor},
		{"whale_flow_floor", t.WhaleFlowFloor},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("%w: threshold %s must be > 0, got %v", ErrInvalidConfiguration, c.name, c.value)
		}
	}
	return nil
}
