package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resumatch"

	defaultOwner = "local"
)

type Config struct {
	// Owner is the opaque identity records are filed under. Defaults to
	// "local" for single-user CLI use.
	Owner     string           `mapstructure:"owner"`
	Region    string           `mapstructure:"region"`
	AI        *AIConfig        `mapstructure:"ai"`
	JobSearch *JobSearchConfig `mapstructure:"job-search"`
	Storage   *StorageConfig   `mapstructure:"storage"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey        string `mapstructure:"api-key"`
	APIKeyFile    string `mapstructure:"api-key-file"`
	PrimaryModel  string `mapstructure:"primary-model"`
	FallbackModel string `mapstructure:"fallback-model"`
	MaxLogLength  int    `mapstructure:"max-log-length"`
}

type JobSearchConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type StorageConfig struct {
	// Driver selects the record store: "memory" (default) or "postgres".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resumatch analyzes resumes with AI and ranks job listings against the extracted skills",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resumatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A local .env is honored before env binding so keys do not have to live
	// in the config file.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("job-search.api-key", "JSEARCH_API_KEY"); err != nil {
		log.Fatalf("binding JSEARCH_API_KEY environment variable: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// The config file is optional; every setting has a default or an env
	// binding. A present-but-broken file is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Owner == "" {
		config.Owner = defaultOwner
	}

	return config, nil
}
