// Package config gathers the settings shared by the commands. They come
// from defaults, then an optional config file, then SEQCOLOUR_
// environment variables. Command line flags are applied last by the
// commands themselves.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/ezsea/seq_colour/pkg/ramp"
	"github.com/ezsea/seq_colour/pkg/seq"
)

// EnvPrefix goes in front of environment variables, so SEQCOLOUR_NORM
// sets norm.
const EnvPrefix = "SEQCOLOUR"

// Name is the config file looked for when none is given, as
// seq_colour.yaml, seq_colour.toml and so on.
const Name = "seq_colour"

// Keys in the config file
const (
	KeyGapPolicy = "gap_policy"
	KeyNorm      = "norm"
	KeyLow       = "low_colour"
	KeyHigh      = "high_colour"
	KeyPadGaps   = "pad_gaps"
	KeyWorkers   = "workers"
	KeyNSym      = "nsym"
)

// Config is the result after everything has been checked.
type Config struct {
	GapPolicy seq.GapPolicy
	Norm      ramp.Norm
	Low, High uint32 // packed colours
	PadGaps   bool   // pad short sequences instead of failing
	Workers   int    // goroutines for the entropy profile
	NSym      int    // alphabet size for global normalisation, 0 to guess
	File      string // config file used, if any
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyGapPolicy, seq.GapsInTotal.String())
	v.SetDefault(KeyNorm, ramp.NormGlobal.String())
	v.SetDefault(KeyLow, ramp.Hex(ramp.DefaultLow))
	v.SetDefault(KeyHigh, ramp.Hex(ramp.DefaultHigh))
	v.SetDefault(KeyPadGaps, false)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyNSym, 0)
}

// Default is the configuration with no file and no environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	c, err := decode(v)
	if err != nil {
		panic("broken defaults: " + err.Error())
	}
	return c
}

// Load reads settings. If fname is empty we look for seq_colour.* in
// the working directory and ~/.config, and it is fine if there is none.
// If fname is given, it has to be there.
func Load(fname string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if fname != "" {
		v.SetConfigFile(fname)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", fname, err)
		}
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file: %w", err)
			}
		}
	}
	return decode(v)
}

// decode checks each value and converts it.
func decode(v *viper.Viper) (*Config, error) {
	var err error
	c := Config{
		PadGaps: v.GetBool(KeyPadGaps),
		Workers: v.GetInt(KeyWorkers),
		NSym:    v.GetInt(KeyNSym),
		File:    v.ConfigFileUsed(),
	}
	if c.GapPolicy, err = seq.ParseGapPolicy(v.GetString(KeyGapPolicy)); err != nil {
		return nil, err
	}
	if c.Norm, err = ramp.ParseNorm(v.GetString(KeyNorm)); err != nil {
		return nil, err
	}
	if c.Low, err = ramp.ParseRGB(v.GetString(KeyLow)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyLow, err)
	}
	if c.High, err = ramp.ParseRGB(v.GetString(KeyHigh)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyHigh, err)
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %d", KeyWorkers, c.Workers)
	}
	if c.NSym < 0 || c.NSym == 1 {
		return nil, fmt.Errorf("%s must be 0 or at least 2, got %d", KeyNSym, c.NSym)
	}
	return &c, nil
}

// Override applies command line values on top of the file. Empty
// strings and zero numbers leave the setting alone.
func (c *Config) Override(gapPolicy, norm, low, high string, workers, nsym int) error {
	var err error
	if gapPolicy != "" {
		if c.GapPolicy, err = seq.ParseGapPolicy(gapPolicy); err != nil {
			return err
		}
	}
	if norm != "" {
		if c.Norm, err = ramp.ParseNorm(norm); err != nil {
			return err
		}
	}
	if low != "" {
		if c.Low, err = ramp.ParseRGB(low); err != nil {
			return err
		}
	}
	if high != "" {
		if c.High, err = ramp.ParseRGB(high); err != nil {
			return err
		}
	}
	if workers > 0 {
		c.Workers = workers
	}
	if nsym != 0 {
		if nsym < 2 {
			return fmt.Errorf("number of symbols must be at least 2, got %d", nsym)
		}
		c.NSym = nsym
	}
	return nil
}

// SeqOptions turns the settings into what the alignment reader wants.
func (c *Config) SeqOptions() *seq.Options {
	return &seq.Options{PadGaps: c.PadGaps}
}
