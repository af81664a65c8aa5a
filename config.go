package pageopt

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// Config is a global set of configurations for a Toolkit.
//
// It is highly recommended not to modify the value of any field of the
// Config after passing it to New, which will cause unpredictable
// problems.
type Config struct {
	// AppName is the name of the application embedding this toolkit.
	//
	// Default value: "pageopt"
	AppName string `mapstructure:"app_name"`

	// LoggerEnabled indicates whether the Logger writes anything at
	// all.
	//
	// Default value: true
	LoggerEnabled bool `mapstructure:"logger_enabled"`

	// LogFormat is the text/template source of the Logger's output
	// content.
	//
	// Default value:
	// `{"app_name":"{{.app_name}}","time":"{{.time_rfc3339}}",`+
	// `"level":"{{.level}}","file":"{{.short_file}}","line":"{{.line}}"}`
	LogFormat string `mapstructure:"log_format"`

	// MinifierEnabled indicates whether the Minifier facade actually
	// minifies content passed to it, or returns it unchanged.
	//
	// Default value: true
	MinifierEnabled bool `mapstructure:"minifier_enabled"`

	// MinifierMIMETypes is the list of MIME types the Minifier facade
	// will minify.
	//
	// Default value: a list of commonly minifiable MIME types.
	MinifierMIMETypes []string `mapstructure:"minifier_mime_types"`

	// MinifierCollapseStrings indicates whether the JavaScript branch
	// of the Minifier facade replaces string literal bodies with empty
	// content (see jsmin.MinifyCollapseStrings).
	//
	// Default value: false
	MinifierCollapseStrings bool `mapstructure:"minifier_collapse_strings"`

	// FilterEnabled indicates whether resource.Collection consults a
	// filter.Accepter before accepting a resource added to it.
	//
	// Default value: false
	FilterEnabled bool `mapstructure:"filter_enabled"`

	// ImageLossyThreshold is the ratio a lossy image conversion
	// candidate's size must not exceed, relative to the best lossless
	// candidate's size, in order to be selected by
	// imageconv.SelectSmallest.
	//
	// Default value: 0.8
	ImageLossyThreshold float64 `mapstructure:"image_lossy_threshold"`

	// ImageCacheEnabled indicates whether the Toolkit memoizes converted
	// image output in an imageconv.Cache, invalidated as its watched
	// source files change on disk, instead of re-converting on every
	// call.
	//
	// Default value: true
	ImageCacheEnabled bool `mapstructure:"image_cache_enabled"`

	// ImageCacheMaxBytes is the in-memory size of the Toolkit's
	// imageconv.Cache.
	//
	// Default value: 32 * 1024 * 1024
	ImageCacheMaxBytes int `mapstructure:"image_cache_max_bytes"`
}

// defaultConfig is the default instance of Config.
var defaultConfig = Config{
	LogFormat: `{"app_name":"{{.app_name}}","time":"{{.time_rfc3339}}",` +
		`"level":"{{.level}}","file":"{{.short_file}}","line":"{{.line}}"}`,
	AppName:         "pageopt",
	LoggerEnabled:   true,
	MinifierEnabled: true,
	MinifierMIMETypes: []string{
		"text/html",
		"text/css",
		"text/javascript",
		"application/javascript",
		"application/json",
		"text/xml",
		"image/svg+xml",
	},
	ImageLossyThreshold: 0.8,
	ImageCacheEnabled:   true,
	ImageCacheMaxBytes:  32 * 1024 * 1024,
}

// NewConfig returns a new instance of Config populated with defaults.
func NewConfig() *Config {
	c := defaultConfig
	c.MinifierMIMETypes = append(
		[]string(nil),
		defaultConfig.MinifierMIMETypes...,
	)
	return &c
}

// LoadConfig reads the configuration file at path (".json", ".toml",
// ".yaml"/".yml") and overlays it onto a NewConfig-constructed default
// Config.
func LoadConfig(path string) (*Config, error) {
	c := NewConfig()

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := map[string]interface{}{}
	switch e := strings.ToLower(filepath.Ext(path)); e {
	case ".json":
		err = json.Unmarshal(b, &m)
	case ".toml":
		err = toml.Unmarshal(b, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &m)
	default:
		err = fmt.Errorf(
			"pageopt: unsupported configuration file extension: %s",
			e,
		)
	}
	if err != nil {
		return nil, err
	}

	if err := mapstructure.Decode(m, c); err != nil {
		return nil, err
	}

	return c, nil
}
