package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"linkedin-applier/internal/profile"
)

const (
	app = "linkedin-applier"
)

type Config struct {
	Profile  *profile.Profile `mapstructure:"profile"`
	Search   *SearchConfig    `mapstructure:"search"`
	Behavior *BehaviorConfig  `mapstructure:"behavior"`
	Browser  *BrowserConfig   `mapstructure:"browser"`
	History  *HistoryConfig   `mapstructure:"history"`
	AI       *AIConfig        `mapstructure:"ai"`
}

type SearchConfig struct {
	Terms            []string `mapstructure:"terms"`
	Location         string   `mapstructure:"location"`
	EasyApplyOnly    bool     `mapstructure:"easy-apply-only"`
	RandomizeOrder   bool     `mapstructure:"randomize-order"`
	PerTermCap       int      `mapstructure:"per-term-cap"`
	Continuous       bool     `mapstructure:"continuous"`
	RotateDatePosted bool     `mapstructure:"rotate-date-posted"`
	StopAtPast24h    bool     `mapstructure:"stop-at-past-24h"`
	CycleMinutes     int      `mapstructure:"cycle-interval-minutes"`
	BadWords         []string `mapstructure:"bad-words"`
	AllowWords       []string `mapstructure:"allow-words"`
}

type BehaviorConfig struct {
	Speed               int    `mapstructure:"speed"`
	PaceSeconds         int    `mapstructure:"pace-interval-seconds"`
	OverwritePrevious   bool   `mapstructure:"overwrite-previous-answers"`
	PauseBeforeSubmit   bool   `mapstructure:"pause-before-submit"`
	ManualIntervention  bool   `mapstructure:"manual-intervention"`
	FollowCompanies     bool   `mapstructure:"follow-companies"`
	ScreenshotDirectory string `mapstructure:"screenshot-dir"`
}

type BrowserConfig struct {
	Headless    bool   `mapstructure:"headless"`
	UserDataDir string `mapstructure:"user-data-dir"`
}

type HistoryConfig struct {
	AppliedFile string `mapstructure:"applied-file"`
	FailedFile  string `mapstructure:"failed-file"`
}

type AIConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Provider      string        `mapstructure:"provider"`
	ExtractSkills bool          `mapstructure:"extract-skills"`
	Gemini        *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "linkedin-applier searches jobs on LinkedIn and applies to them with Easy Apply",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is linkedin-applier.yaml in current directory)")
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

	// A .env file may carry GEMINI_API_KEY_FILE and friends. Missing is fine.
	_ = godotenv.Load()

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
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	return config, nil
}
