package calibration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"vane/internal/index"
	"vane/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileConfig 映射校准文件的顶层结构。
type FileConfig struct {
	Weights    index.WeightTree  `mapstructure:"weights" yaml:"weights"`
	Thresholds *index.Thresholds `mapstructure:"thresholds" yaml:"thresholds"`
	Decision   DecisionParams    `mapstructure:"decision" yaml:"decision"`
}

// DecisionParams 是可热更新的决策参数。
type DecisionParams struct {
	MaxPositionSize float64 `mapstructure:"max_position_size" yaml:"max_position_size"`
}

// Snapshot 是某一版校准参数的只读快照。
type Snapshot struct {
	Version    int64
	LoadedAt   time.Time
	Weights    index.WeightTree
	Thresholds index.Thresholds
	Decision   DecisionParams
}

// ChangeListener 在 registry 重载成功后触发。
type ChangeListener func(Snapshot)

// Registry 管理权重与阈值的校准文件，支持热更新。
// 重载失败时保留上一版快照，运行中的评估不受影响。
type Registry struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

// NewRegistry 读取校准文件并监听更新。
func NewRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("calibration registry requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read calibration file failed: %w", err)
	}
	r := &Registry{path: path, v: v}
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("calibration reload failed: %v", err)
			return
		}
		r.notifyListeners()
	})
	v.WatchConfig()
	return r, nil
}

// Default 返回不绑定文件的 registry，载入内置默认校准。
// 用于 once 模式下未提供校准文件的场景。
func Default() *Registry {
	r := &Registry{}
	r.snapshot = Snapshot{
		Version:    1,
		LoadedAt:   time.Now(),
		Weights:    index.DefaultWeightTree(),
		Thresholds: index.DefaultThresholds(),
	}
	return r
}

// Snapshot 返回当前校准快照。
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Subscribe 注册重载回调。
func (r *Registry) Subscribe(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) reload() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read calibration file failed: %w", err)
	}
	// viper 会把 map key 统一转小写，权重名是大小写敏感的，
	// 因此内容解析走 yaml，viper 只负责文件监听。
	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("parse calibration file failed: %w", err)
	}
	doc, err := jsonRoundTrip(sanitizeValues(generic))
	if err != nil {
		return fmt.Errorf("normalize calibration file failed: %w", err)
	}
	if err := calibrationSchema.Validate(doc); err != nil {
		return fmt.Errorf("calibration schema violation: %w", err)
	}
	cfg := FileConfig{Weights: index.DefaultWeightTree()}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return fmt.Errorf("parse calibration file failed: %w", err)
	}
	if err := cfg.Weights.Validate(); err != nil {
		return fmt.Errorf("calibration weights invalid: %w", err)
	}
	thresholds := index.DefaultThresholds()
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}
	if err := thresholds.Validate(); err != nil {
		return fmt.Errorf("calibration thresholds invalid: %w", err)
	}
	if cfg.Decision.MaxPositionSize < 0 {
		return fmt.Errorf("calibration decision.max_position_size must be >= 0")
	}
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:    r.snapshot.Version + 1,
		LoadedAt:   time.Now(),
		Weights:    cfg.Weights,
		Thresholds: thresholds,
		Decision:   cfg.Decision,
	}
	r.mu.Unlock()
	logger.Infof("calibration loaded v%d from %s", r.Snapshot().Version, filepath.Base(r.path))
	return nil
}

func (r *Registry) notifyListeners() {
	r.mu.RLock()
	snap := r.snapshot
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, fn := range listeners {
		if fn == nil {
			continue
		}
		go func(cb ChangeListener) {
			defer safeRecover("calibration listener")
			cb(snap)
		}(fn)
	}
}

func safeRecover(tag string) {
	if rec := recover(); rec != nil {
		logger.Errorf("%s panic: %v", tag, rec)
	}
}

// sanitizeValues 递归把字符串形式的数字转为 float64，
// 兼容 yaml 里把权重写成 "0.25" 的情况。
func sanitizeValues(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = sanitizeValues(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = sanitizeValues(child)
		}
		return out
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return val
		}
		if num, err := strconv.ParseFloat(s, 64); err == nil {
			return num
		}
		return val
	default:
		return val
	}
}

// jsonRoundTrip 把 yaml 解出的值转成 json 解码形态，
// jsonschema 的类型判断只认 encoding/json 的输出。
func jsonRoundTrip(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var calibrationSchema = mustCompileSchema(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"weights": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"internal":         map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				"external":         map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				"internal_weights": weightMapSchema(),
				"external_weights": weightMapSchema(),
			},
		},
		"thresholds": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":             "number",
				"exclusiveMinimum": 0,
			},
		},
		"decision": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"max_position_size": map[string]any{"type": "number", "minimum": 0},
			},
		},
	},
})

func weightMapSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"additionalProperties": map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": 1,
		},
	}
}

func mustCompileSchema(data map[string]any) *jsonschema.Schema {
	raw, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("calibration.json", strings.NewReader(string(raw))); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("calibration.json")
	if err != nil {
		panic(err)
	}
	return schema
}
