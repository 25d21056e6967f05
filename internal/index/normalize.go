package index

import (
	"fmt"
	"math"
)

// rangeEpsilon 范围校验的容差，吸收上游换算的浮点毛刺。
const rangeEpsilon = 1e-6

// Normalize 校验每条子指标是否落在其声明的取值范围内。
// 超界即返回 ErrInvalidScoreRange 而不是静默截断，截断会掩盖上游缺陷。
// 合法输入原样透传，本函数不做任何缩放。
func Normalize(subscores []SubScore) ([]SubScore, error) {
	for _, s := range subscores {
		lo, hi, err := scaleBounds(s.Scale)
		if err != nil {
			return nil, fmt.Errorf("%w: indicator %q: %v", ErrInvalidScoreRange, s.Name, err)
		}
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, fmt.Errorf("%w: indicator %q value is not finite", ErrInvalidScoreRange, s.Name)
		}
		if s.Value < lo-rangeEpsilon || s.Value > hi+rangeEpsilon {
			return nil, fmt.Errorf("%w: indicator %q value %v outside [%v,%v]",
				ErrInvalidScoreRange, s.Name, s.Value, lo, hi)
		}
	}
	return subscores, nil
}

func scaleBounds(sc Scale) (float64, float64, error) {
	switch sc {
	case ScalePercent, "":
		// 缺省按 [0,100] 处理，与聚合器的输入契约一致。
		return 0, 100, nil
	case ScaleSigned:
		return -1, 1, nil
	default:
		return 0, 0, fmt.Errorf("unknown scale %q", sc)
	}
}
