package cmd

import (
	"log"

	"github.com/staffmatch/staffmatch/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "staffmatch"
)

type Config struct {
	Dataset    string           `mapstructure:"dataset"`
	Geocoder   *GeocoderConfig  `mapstructure:"geocoder"`
	Scoring    *scoring.Profile `mapstructure:"scoring"`
	Redirect   *RedirectConfig  `mapstructure:"redirect"`
	AI         *AIConfig        `mapstructure:"ai"`
	GeminiKey  string           `mapstructure:"gemini-key"`
	KeyFile    string           `mapstructure:"gemini-key-file"`
	ResultFile string           `mapstructure:"result-file"`
}

type GeocoderConfig struct {
	URL     string `mapstructure:"url"`
	Country string `mapstructure:"country"`
	// MinIntervalMS spaces provider requests out; public zippopotam
	// deployments throttle aggressive clients.
	MinIntervalMS int `mapstructure:"min-interval-ms"`
}

type RedirectConfig struct {
	ProximityKM float64 `mapstructure:"proximity-km"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "staffmatch scores and ranks candidates against open facility positions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gemini-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is staffmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
