package vanehttp

import (
	"fmt"
	"strings"

	"vane/internal/index"
	"vane/internal/pkg/convert"

	"github.com/tidwall/gjson"
)

// ValidateEvaluatePayload 对请求体做宽松校验并解析。
// 数值允许以字符串形式出现（"72" 等同于 72），结构错误立即拒绝。
func ValidateEvaluatePayload(raw string) (EvaluateRequest, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return EvaluateRequest{}, fmt.Errorf("request body is empty")
	}
	if !gjson.Valid(raw) {
		return EvaluateRequest{}, fmt.Errorf("invalid json")
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return EvaluateRequest{}, fmt.Errorf("root must be a json object")
	}
	scores := parsed.Get("scores")
	if !scores.Exists() || !scores.IsArray() {
		return EvaluateRequest{}, fmt.Errorf("scores must be a non-empty array")
	}

	req := EvaluateRequest{
		Symbol:     strings.ToUpper(strings.TrimSpace(parsed.Get("symbol").String())),
		Volatility: convert.ToFloat64(parsed.Get("volatility").Value()),
	}
	var schemaErr error
	idx := 0
	scores.ForEach(func(_, value gjson.Result) bool {
		idx++
		if !value.IsObject() {
			schemaErr = fmt.Errorf("score #%d must be an object", idx)
			return false
		}
		name := strings.TrimSpace(value.Get("name").String())
		if name == "" {
			schemaErr = fmt.Errorf("score #%d missing name", idx)
			return false
		}
		val := value.Get("value")
		if !val.Exists() {
			schemaErr = fmt.Errorf("score #%d missing value", idx)
			return false
		}
		group, err := parseGroup(idx, value.Get("group").String())
		if err != nil {
			schemaErr = err
			return false
		}
		scale, err := parseScale(idx, value.Get("scale").String())
		if err != nil {
			schemaErr = err
			return false
		}
		req.Scores = append(req.Scores, index.SubScore{
			Name:  name,
			Value: convert.ToFloat64(val.Value()),
			Group: group,
			Scale: scale,
		})
		return true
	})
	if schemaErr != nil {
		return EvaluateRequest{}, schemaErr
	}
	if len(req.Scores) == 0 {
		return EvaluateRequest{}, fmt.Errorf("scores must be a non-empty array")
	}
	if req.Volatility < 0 {
		return EvaluateRequest{}, fmt.Errorf("volatility must be >= 0")
	}
	return req, nil
}

func parseGroup(idx int, raw string) (index.Group, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "internal":
		return index.GroupInternal, nil
	case "external":
		return index.GroupExternal, nil
	case "":
		return "", fmt.Errorf("score #%d missing group", idx)
	default:
		return "", fmt.Errorf("score #%d has unknown group %q", idx, raw)
	}
}

func parseScale(idx int, raw string) (index.Scale, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "percent":
		return index.ScalePercent, nil
	case "signed":
		return index.ScaleSigned, nil
	default:
		return "", fmt.Errorf("score #%d has unknown scale %q", idx, raw)
	}
}
