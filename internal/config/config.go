package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取主配置及其 include 链。
// include 的文件先合并、主文件最后合并，同名键以后者为准；
// 合并完成后套用默认值并执行各段校验。
func Load(path string) (*Config, error) {
	files, err := expandIncludes(path)
	if err != nil {
		return nil, err
	}
	merged := viper.New()
	merged.SetConfigType("yaml")
	for _, file := range files {
		one := viper.New()
		one.SetConfigFile(file)
		if err := one.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", file, err)
		}
		if err := merged.MergeConfigMap(one.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging config file failed (%s): %w", file, err)
		}
	}

	var cfg Config
	if err := merged.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	provided := make(keySet)
	markProvidedKeys("", merged.AllSettings(), provided)
	cfg.applyDefaults(provided)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandIncludes 从主文件出发深度优先展开 include 链，
// 返回合并顺序（被包含者在前，主文件最后）。
func expandIncludes(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &includeWalker{seen: map[string]bool{}, stack: map[string]bool{}}
	return w.walk(abs)
}

type includeWalker struct {
	seen  map[string]bool // 已展开的文件，重复 include 去重
	stack map[string]bool // 当前递归路径，用于环检测
}

func (w *includeWalker) walk(path string) ([]string, error) {
	path = filepath.Clean(path)
	if w.stack[path] {
		return nil, fmt.Errorf("include cycle detected: %s", path)
	}
	if w.seen[path] {
		return nil, nil
	}
	w.stack[path] = true
	defer delete(w.stack, path)

	includes, err := readIncludeList(path)
	if err != nil {
		return nil, fmt.Errorf("parsing include failed (%s): %w", path, err)
	}
	dir := filepath.Dir(path)
	var ordered []string
	for _, inc := range includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(dir, inc)
		}
		sub, err := w.walk(inc)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, sub...)
	}
	w.seen[path] = true
	return append(ordered, path), nil
}

// readIncludeList 只解析文件的 include 键，接受单个字符串或字符串数组。
func readIncludeList(path string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	raw := v.Get("include")
	if raw == nil {
		return nil, nil
	}
	var out []string
	appendEntry := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch val := raw.(type) {
	case string:
		appendEntry(val)
	case []any:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("include only supports strings")
			}
			appendEntry(s)
		}
	default:
		return nil, fmt.Errorf("include must be a string or string array")
	}
	return out, nil
}

// markProvidedKeys 把文件里实际出现的键拍平成 keySet，
// applyDefaults 靠它区分「用户写了零值」与「根本没写」。
func markProvidedKeys(prefix string, node any, dest keySet) {
	switch val := node.(type) {
	case map[string]any:
		for k, child := range val {
			key := strings.ToLower(strings.TrimSpace(k))
			if key == "" {
				continue
			}
			if prefix != "" {
				key = prefix + "." + key
			}
			markProvidedKeys(key, child, dest)
		}
	case []any:
		if prefix != "" {
			dest.mark(prefix)
		}
		for _, item := range val {
			markProvidedKeys(prefix, item, dest)
		}
	default:
		if prefix != "" {
			dest.mark(prefix)
		}
	}
}
