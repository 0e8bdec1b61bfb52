package config

import "github.com/spf13/viper"

// Display settings only affect the terminal front ends (list, preview) and
// are read from the user config file, never from document metadata.
func setDisplayDefaults() {
	viper.SetDefault("color_language", "36") // Cyan
	viper.SetDefault("color_filename", "33") // Yellow
	viper.SetDefault("color_origin", "90")   // Gray
	viper.SetDefault("color_border", "240")
	viper.SetDefault("color_cursor", "212")
	viper.SetDefault("color_selected", "236")
	viper.SetDefault("color_dim", "241")
	viper.SetDefault("preview_style", "auto") // glamour style name, or "auto"
	viper.SetDefault("preview_wrap", 80)
}

func GetColorLanguage() string {
	return stringOr("color_language", "36")
}

func GetColorFilename() string {
	return stringOr("color_filename", "33")
}

func GetColorOrigin() string {
	return stringOr("color_origin", "90")
}

func GetColorBorder() string {
	return stringOr("color_border", "240")
}

func GetColorCursor() string {
	return stringOr("color_cursor", "212")
}

func GetColorSelected() string {
	return stringOr("color_selected", "236")
}

func GetColorDim() string {
	return stringOr("color_dim", "241")
}

// GetPreviewStyle returns the glamour style used for the preview pane
func GetPreviewStyle() string {
	return stringOr("preview_style", "auto")
}

// GetPreviewWrap returns the preview word-wrap width
func GetPreviewWrap() int {
	if w := viper.GetInt("preview_wrap"); w > 0 {
		return w
	}
	return 80
}

// stringOr covers callers that never ran Init, such as tests
func stringOr(key, fallback string) string {
	if s := viper.GetString(key); s != "" {
		return s
	}
	return fallback
}
