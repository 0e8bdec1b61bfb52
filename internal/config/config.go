package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gubarz/codeappendix/internal/doc"
)

// MetaKey is the metadata key holding per-document options
const MetaKey = "code-appendix"

// DefaultTitle is used when no title, or a blank one, is configured
const DefaultTitle = "Code Appendix"

// Options controls the shape of the generated appendix
type Options struct {
	GroupByLanguage   bool   `mapstructure:"group-by-language"`
	ShowCodeInline    bool   `mapstructure:"show-code-inline"`
	ShowOutputResults bool   `mapstructure:"show-output-results"`
	AppendixTitle     string `mapstructure:"appendix-title"`
	AppendixLevel     int    `mapstructure:"appendix-level"`
	ShowSeparator     bool   `mapstructure:"show-separator"`
	NumberBlocks      bool   `mapstructure:"number-blocks"`
	ShowFilename      bool   `mapstructure:"show-filename"`
	Collapsible       bool   `mapstructure:"collapsible"`
	Debug             bool   `mapstructure:"debug"`
}

// keys in the order they are documented
var keys = []string{
	"debug",
	"group-by-language",
	"show-code-inline",
	"show-output-results",
	"appendix-title",
	"appendix-level",
	"show-separator",
	"number-blocks",
	"show-filename",
	"collapsible",
}

var defaults = map[string]any{
	"debug":               false,
	"group-by-language":   false,
	"show-code-inline":    true,
	"show-output-results": true,
	"appendix-title":      DefaultTitle,
	"appendix-level":      1,
	"show-separator":      true,
	"number-blocks":       false,
	"show-filename":       true,
	"collapsible":         false,
}

// Defaults returns the built-in options
func Defaults() Options {
	return Options{
		ShowCodeInline:    true,
		ShowOutputResults: true,
		AppendixTitle:     DefaultTitle,
		AppendixLevel:     1,
		ShowSeparator:     true,
		ShowFilename:      true,
	}
}

// Init reads the user config file and environment into the global viper
// instance. Values found there become the defaults for every document.
func Init() error {
	for _, k := range keys {
		viper.SetDefault(k, defaults[k])
	}
	viper.SetDefault("to", "")
	setDisplayDefaults()

	viper.SetConfigName("codeappendix")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "codeappendix"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CODEAPPENDIX")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing or malformed user config is not an error; built-in defaults apply
	_ = viper.ReadInConfig()
	return nil
}

// GetTarget returns the configured default output format
func GetTarget() string {
	return viper.GetString("to")
}

// SetTarget sets the output format at runtime
func SetTarget(format string) {
	viper.Set("to", format)
}

// Section returns the option map from document metadata. Both a top-level
// "code-appendix" key and the Quarto form "extensions: {code-appendix: ...}"
// are accepted; the top-level key wins.
func Section(meta doc.Meta) map[string]any {
	if m, ok := asMap(meta[MetaKey]); ok {
		return m
	}
	if ext, ok := asMap(meta["extensions"]); ok {
		if m, ok := asMap(ext[MetaKey]); ok {
			return m
		}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case doc.Meta:
		return m, true
	}
	return nil, false
}

// Load resolves the options for one document: built-in defaults, then the
// user config, then the document's own metadata. The debug option is read
// first; when it is set and level is non-nil, level is lowered to debug so
// the remaining options are logged.
func Load(meta doc.Meta, log *zap.Logger, level *zap.AtomicLevel) Options {
	v := viper.New()
	for _, k := range keys {
		if val := viper.Get(k); val != nil {
			v.SetDefault(k, val)
		} else {
			v.SetDefault(k, defaults[k])
		}
	}

	section := Section(meta)
	if section != nil {
		if err := v.MergeConfigMap(section); err != nil {
			log.Warn("ignoring malformed options", zap.String("key", MetaKey), zap.Error(err))
		}
	}

	opts := Defaults()
	opts.Debug = v.GetBool("debug")
	if opts.Debug && level != nil {
		level.SetLevel(zapcore.DebugLevel)
	}

	if err := v.Unmarshal(&opts); err != nil {
		log.Debug("option decode failed, reading options individually", zap.Error(err))
		opts = Options{
			GroupByLanguage:   v.GetBool("group-by-language"),
			ShowCodeInline:    v.GetBool("show-code-inline"),
			ShowOutputResults: v.GetBool("show-output-results"),
			AppendixTitle:     v.GetString("appendix-title"),
			AppendixLevel:     v.GetInt("appendix-level"),
			ShowSeparator:     v.GetBool("show-separator"),
			NumberBlocks:      v.GetBool("number-blocks"),
			ShowFilename:      v.GetBool("show-filename"),
			Collapsible:       v.GetBool("collapsible"),
			Debug:             opts.Debug,
		}
	}

	return opts.Validate(log)
}

// Validate clamps out-of-range values, warning for each one, and logs the
// resolved options at debug level.
func (o Options) Validate(log *zap.Logger) Options {
	if o.AppendixLevel < 1 || o.AppendixLevel > 6 {
		log.Warn("appendix-level out of range, using 1", zap.Int("appendix-level", o.AppendixLevel))
		o.AppendixLevel = 1
	}
	if strings.TrimSpace(o.AppendixTitle) == "" {
		log.Debug("appendix-title is blank, using default", zap.String("appendix-title", DefaultTitle))
		o.AppendixTitle = DefaultTitle
	}

	log.Debug("code appendix options",
		zap.Bool("group-by-language", o.GroupByLanguage),
		zap.Bool("show-code-inline", o.ShowCodeInline),
		zap.Bool("show-output-results", o.ShowOutputResults),
		zap.String("appendix-title", o.AppendixTitle),
		zap.Int("appendix-level", o.AppendixLevel),
		zap.Bool("show-separator", o.ShowSeparator),
		zap.Bool("number-blocks", o.NumberBlocks),
		zap.Bool("show-filename", o.ShowFilename),
		zap.Bool("collapsible", o.Collapsible),
	)
	return o
}
