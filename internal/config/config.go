package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Data       Data                `yaml:"data"`
	Capital    float64             `yaml:"capital"`
	Workers    int                 `yaml:"workers"`
	Report     string              `yaml:"report"`
	PlotDir    string              `yaml:"plot_dir"`
	Logging    Logging             `yaml:"logging"`
	Strategies []StrategyReference `yaml:"strategies"`
}

func Read(r io.Reader) (*Config, error) {
	var cfg Config
	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func (c *Config) normalize() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = "console"
	}
	if len(c.Logging.OutputPaths) == 0 {
		c.Logging.OutputPaths = []string{"stderr"}
	}
}

func (c *Config) Validate() error {
	var err error

	if c.Data.Path == "" {
		err = multierr.Append(err, errors.New("data.path is required"))
	}
	if c.Data.MinYear < 0 {
		err = multierr.Append(err, errors.New("data.min_year cannot be negative"))
	}
	if c.Capital < 0 {
		err = multierr.Append(err, errors.New("capital cannot be negative"))
	}
	if c.Logging.Encoding != "console" && c.Logging.Encoding != "json" {
		err = multierr.Append(err, fmt.Errorf("logging.encoding must be console or json, got %q", c.Logging.Encoding))
	}
	if len(c.Strategies) == 0 {
		err = multierr.Append(err, errors.New("at least one strategy is required"))
	}

	for i, ref := range c.Strategies {
		if verr := ref.validate(); verr != nil {
			err = multierr.Append(err, fmt.Errorf("strategies[%d]: %w", i, verr))
		}
	}

	return err
}

type Data struct {
	Path       string `yaml:"path"`
	MinYear    int    `yaml:"min_year"`
	SkipHeader bool   `yaml:"skip_header"`
}

type Logging struct {
	Level       string   `yaml:"level"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"output_paths"`
}

// strategy configs

type Strategy interface{}

type StrategyReference struct {
	Strategy Strategy
}

type MaxGain struct{}

type BuyLowSellHigh struct {
	IntervalSize float64 `yaml:"interval_size"`
	MaxPrice     float64 `yaml:"max_price"`
	BuySize      float64 `yaml:"buy_size"`
	MinProfit    float64 `yaml:"min_profit"`
}

type BuyRandom struct {
	Chance    float64 `yaml:"chance"`
	MaxPrice  float64 `yaml:"max_price"`
	BuySize   float64 `yaml:"buy_size"`
	MinProfit float64 `yaml:"min_profit"`
	Seed      uint64  `yaml:"seed"`
	Trials    int     `yaml:"trials"`
}

func (w *StrategyReference) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Value == "max_gain" {
		w.Strategy = MaxGain{}
		return nil
	}

	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid strategy yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "max_gain":
		w.Strategy = MaxGain{}
	case "buylow_sellhigh":
		var s BuyLowSellHigh
		if err := value.Content[1].Decode(&s); err != nil {
			return fmt.Errorf("failed parsing buylow_sellhigh strategy config: %w", err)
		}
		w.Strategy = s
	case "buy_random":
		s := BuyRandom{Trials: 1}
		if err := value.Content[1].Decode(&s); err != nil {
			return fmt.Errorf("failed parsing buy_random strategy config: %w", err)
		}
		w.Strategy = s
	default:
		return fmt.Errorf("unknown strategy type: %s", key)
	}

	return nil
}

func (w *StrategyReference) validate() error {
	var err error

	switch s := w.Strategy.(type) {
	case MaxGain:
	case BuyLowSellHigh:
		if s.IntervalSize <= 0 {
			err = multierr.Append(err, errors.New("interval_size must be positive"))
		}
		if s.MaxPrice <= 0 {
			err = multierr.Append(err, errors.New("max_price must be positive"))
		}
		if s.BuySize <= 0 {
			err = multierr.Append(err, errors.New("buy_size must be positive"))
		}
		if s.MinProfit <= 0 {
			err = multierr.Append(err, errors.New("min_profit must be positive"))
		}
	case BuyRandom:
		if s.Chance < 0 || s.Chance > 1 {
			err = multierr.Append(err, errors.New("chance must be within [0,1]"))
		}
		if s.MaxPrice <= 0 {
			err = multierr.Append(err, errors.New("max_price must be positive"))
		}
		if s.BuySize <= 0 {
			err = multierr.Append(err, errors.New("buy_size must be positive"))
		}
		if s.MinProfit <= 0 {
			err = multierr.Append(err, errors.New("min_profit must be positive"))
		}
		if s.Trials <= 0 {
			err = multierr.Append(err, errors.New("trials must be positive"))
		}
	case nil:
		err = errors.New("empty strategy")
	default:
		err = fmt.Errorf("unknown strategy: %v", s)
	}

	return err
}
