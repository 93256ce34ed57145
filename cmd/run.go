package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"linkedin-applier/internal/ai"
	"linkedin-applier/internal/ai/gemini"
	"linkedin-applier/internal/browser"
	"linkedin-applier/internal/filtering"
	"linkedin-applier/internal/forms"
	"linkedin-applier/internal/history"
	"linkedin-applier/internal/linkedin"
	"linkedin-applier/internal/logger"
	"linkedin-applier/internal/pacing"
	"linkedin-applier/internal/profile"
	"linkedin-applier/internal/questions"
	"linkedin-applier/internal/secrets"
)

const (
	defaultAppliedFile  = "all_applied_applications_history.csv"
	defaultFailedFile   = "all_failed_applications_history.csv"
	defaultPaceSeconds  = 2
	defaultCycleMinutes = 5
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the linkedin-applier main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("force", "f", false, "do not skip jobs already present in the history file")
	runCmd.Flags().Bool("single-pass", false, "run one pass over the search terms and exit")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the linkedin-applier", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Profile == nil {
		logger.Fatal("profile section is required")
	}
	config.Profile.Normalize()

	if config.Search == nil || len(config.Search.Terms) == 0 {
		logger.Fatal("at least one search term is required under search.terms")
	}

	behavior := config.Behavior
	if behavior == nil {
		behavior = &BehaviorConfig{}
	}

	appliedFile, failedFile := historyFiles(config)
	appliedIDs, err := history.AppliedJobIDs(appliedFile)
	if err != nil {
		logger.Fatal("reading application history", zap.Error(err))
	}
	logger.Info("history loaded", zap.Int("applied", len(appliedIDs)))

	memory := filtering.NewMemory(appliedIDs)
	filters := []filtering.Filter{
		filtering.NewBlacklistedCompany(memory),
		filtering.NewRejectedJob(memory),
		filtering.NewAlreadyApplied(memory),
	}
	if cmd.Flag("force").Value.String() == "true" {
		filtering.DisableByName(filters, "already_applied", "force flag is set")
	}

	gateway, aiEnabled := newGateway(ctx, config.AI, logger)

	browserCfg := config.Browser
	if browserCfg == nil {
		browserCfg = &BrowserConfig{Headless: true}
	}
	driver, err := browser.NewChrome(ctx, browser.ChromeOptions{
		Headless:    browserCfg.Headless,
		UserDataDir: browserCfg.UserDataDir,
	}, logger)
	if err != nil {
		logger.Fatal("launching browser", zap.Error(err))
	}
	defer driver.Close()

	pacer := pacing.New(paceInterval(behavior), logger)
	surface := linkedin.NewBrowserSurface(driver, pacer, logger)

	if err := surface.VerifySignedIn(ctx); err != nil {
		logger.Fatal("verifying the browser session",
			zap.Error(err),
			zap.String("hint", "sign in to LinkedIn in the configured browser profile first"),
		)
	}

	resolver := questions.NewResolver(config.Profile, questions.Config{
		OverwritePrevious: behavior.OverwritePrevious,
		AIEnabled:         aiEnabled,
	}, logger)
	handler := forms.NewHandler(resolver, gateway, aiUserInfo(config.Profile), logger)

	histLog := history.New(appliedFile, failedFile, logger)

	flow := linkedin.NewFlow(linkedin.FlowDeps{
		Surface: surface,
		Handler: handler,
		Filters: filters,
		Memory:  memory,
		Policy: filtering.ContentPolicy{
			BadWords:   config.Search.BadWords,
			AllowWords: config.Search.AllowWords,
		},
		Gateway:  gateway,
		History:  histLog,
		Pacer:    pacer,
		Prompter: consolePrompter{},
		Logger:   logger,
	}, linkedin.FlowConfig{
		ResumePath:         config.Profile.ResumePath,
		PauseBeforeSubmit:  behavior.PauseBeforeSubmit,
		ManualIntervention: behavior.ManualIntervention,
		FollowCompanies:    behavior.FollowCompanies,
		ExtractSkills:      aiEnabled && config.AI.ExtractSkills,
		ScreenshotDir:      behavior.ScreenshotDirectory,
		Speed:              behavior.Speed,
	})

	continuous := config.Search.Continuous
	if cmd.Flag("single-pass").Value.String() == "true" {
		continuous = false
	}

	orchestrator := linkedin.NewOrchestrator(surface, flow, linkedin.OrchestratorConfig{
		SearchTerms:      config.Search.Terms,
		Location:         config.Search.Location,
		RandomizeOrder:   config.Search.RandomizeOrder,
		PerTermCap:       config.Search.PerTermCap,
		EasyApplyOnly:    config.Search.EasyApplyOnly,
		Continuous:       continuous,
		RotateDatePosted: config.Search.RotateDatePosted,
		StopAtPast24h:    config.Search.StopAtPast24h,
		CycleInterval:    cycleInterval(config.Search),
	}, logger)

	stats := orchestrator.Run(ctx)
	logger.Info("exiting",
		zap.Int("applied", stats.Applied()),
		zap.Int("total", stats.Total()),
	)
}

func historyFiles(config *Config) (string, string) {
	applied, failed := defaultAppliedFile, defaultFailedFile
	if config.History != nil {
		if config.History.AppliedFile != "" {
			applied = config.History.AppliedFile
		}
		if config.History.FailedFile != "" {
			failed = config.History.FailedFile
		}
	}
	return applied, failed
}

func paceInterval(behavior *BehaviorConfig) time.Duration {
	seconds := behavior.PaceSeconds
	if seconds <= 0 {
		seconds = defaultPaceSeconds
	}
	return time.Duration(seconds) * time.Second
}

func cycleInterval(search *SearchConfig) time.Duration {
	minutes := search.CycleMinutes
	if minutes <= 0 {
		minutes = defaultCycleMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// newGateway builds the AI gateway when it is enabled and configured. A
// misconfigured gateway is fatal at startup; a failing one at runtime only
// downgrades answers to the deterministic fallback.
func newGateway(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Gateway, bool) {
	if cfg == nil || !cfg.Enabled {
		return nil, false
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		logger.Fatal("unsupported ai provider", zap.String("provider", cfg.Provider))
	}

	geminiCfg := cfg.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}
	apiKeyFile := geminiCfg.APIKeyFile
	if apiKeyFile == "" {
		apiKeyFile = viper.GetString("ai.gemini.api-key-file")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: apiKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Fatal("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, geminiCfg.Model)
	if err != nil {
		logger.Fatal("creating gemini client", zap.Error(err))
	}

	logger.Info("ai gateway enabled", zap.String("model", generator.Model()))
	return gemini.NewAnswerer(generator, logger, geminiCfg.MaxLogLength), true
}

// aiUserInfo is the profile summary handed to the AI gateway with every
// question.
func aiUserInfo(p *profile.Profile) map[string]any {
	return map[string]any{
		"name":                p.FullName(),
		"email":               p.Email,
		"phone":               p.PhoneNumber,
		"city":                p.CurrentCity,
		"country":             p.Country,
		"years_of_experience": p.YearsOfExperience,
		"notice_period_days":  p.NoticePeriodDays,
		"current_ctc":         p.CurrentCTC,
		"desired_salary":      p.DesiredSalary,
		"headline":            p.Headline,
		"summary":             p.Summary,
		"citizenship":         p.Citizenship,
		"require_visa":        p.RequireVisa,
	}
}

type consolePrompter struct{}

// Confirm blocks on an interactive yes/no prompt. Declining or interrupting
// the prompt reads as no.
func (consolePrompter) Confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return false
	}
	return true
}
