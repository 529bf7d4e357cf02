// Package config loads service configuration from an optional YAML file,
// environment variables (SER_ prefix) and built-in defaults.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	ModelPath      string `mapstructure:"model_path"`
	LabelsPath     string `mapstructure:"labels_path"`
	OrtLibraryPath string `mapstructure:"ort_library_path"`
	InputName      string `mapstructure:"input_name"`
	OutputName     string `mapstructure:"output_name"`
	PoolSize       int    `mapstructure:"pool_size"`

	Audio    Audio    `mapstructure:"audio"`
	Features Features `mapstructure:"features"`

	LogLevel string `mapstructure:"log_level"`
}

type Audio struct {
	SampleRate         int     `mapstructure:"sample_rate"`
	WindowSeconds      int     `mapstructure:"window_seconds"`
	MaxDurationSeconds int     `mapstructure:"max_duration_seconds"`
	TrimThresholdDB    float64 `mapstructure:"trim_threshold_db"`
}

type Features struct {
	NumMels int `mapstructure:"num_mels"`
	FFTSize int `mapstructure:"fft_size"`
	HopSize int `mapstructure:"hop_size"`
}

// WindowSamples is the fixed waveform length every clip is padded or
// truncated to before feature extraction.
func (a Audio) WindowSamples() int {
	return a.SampleRate * a.WindowSeconds
}

// MaxSamples is the longest clip the upload path accepts, in samples at
// the target rate.
func (a Audio) MaxSamples() int {
	return a.SampleRate * a.MaxDurationSeconds
}

// FrameCount is the number of STFT frames produced for a waveform of
// windowSamples length. Fixed for a given window/FFT/hop combination.
func (f Features) FrameCount(windowSamples int) int {
	return 1 + (windowSamples-f.FFTSize)/f.HopSize
}

// Load reads configuration from path if non-empty, otherwise from a
// config.yaml found next to the binary or under config/. A missing file is
// not an error; defaults and SER_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("read_timeout", 60*time.Second)
	v.SetDefault("write_timeout", 60*time.Second)

	v.SetDefault("model_path", "assets/emotion_cnn.onnx")
	v.SetDefault("labels_path", "assets/labels.yaml")
	v.SetDefault("ort_library_path", "lib/libonnxruntime.so.1.20.0")
	v.SetDefault("input_name", "input")
	v.SetDefault("output_name", "output")
	v.SetDefault("pool_size", 4)

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.window_seconds", 3)
	v.SetDefault("audio.max_duration_seconds", 6)
	v.SetDefault("audio.trim_threshold_db", 20)

	v.SetDefault("features.num_mels", 128)
	v.SetDefault("features.fft_size", 2048)
	v.SetDefault("features.hop_size", 512)

	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
