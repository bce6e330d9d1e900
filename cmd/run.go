package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/staffmatch/staffmatch/internal/geo"
	"github.com/staffmatch/staffmatch/internal/logger"
	"github.com/staffmatch/staffmatch/internal/matching"
	"github.com/staffmatch/staffmatch/internal/pipeline"
	"github.com/staffmatch/staffmatch/internal/quality"
	"github.com/staffmatch/staffmatch/internal/quality/gemini"
	"github.com/staffmatch/staffmatch/internal/roster"
	"github.com/staffmatch/staffmatch/internal/scoring"
	"github.com/staffmatch/staffmatch/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptWorklist         = "Show worklist (urgency first)"
	PromptHeadline         = "Show headline ranking (weighted score)"
	PromptReportByFacility = "Report by facility"
	PromptRedirections     = "Show redirections"
	PromptMatchesToFile    = "Dump ranked matches to file"
	PromptExit             = "Exit"

	// worklistPreview caps how many entries the interactive views print.
	worklistPreview = 20
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next action?",
	Items: []string{
		PromptWorklist, PromptHeadline, PromptReportByFacility,
		PromptRedirections, PromptMatchesToFile, PromptExit,
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the matching engine over a dataset export",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "dump the ranked matches and exit without prompting")
	runCmd.Flags().StringP("result-file", "o", "", "write ranked matches to this file instead of a temporary one")

	viper.BindPFlag("result-file", runCmd.Flags().Lookup("result-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting staffmatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if strings.TrimSpace(config.Dataset) == "" {
		logger.Fatal("dataset path is required under the 'dataset' key")
	}

	profile := config.Scoring
	if profile == nil {
		profile = scoring.DefaultProfile()
		logger.Info("no scoring profile configured, using the default weighting")
	}
	if err := profile.Validate(); err != nil {
		logger.Fatal("validating scoring profile", zap.Error(err))
	}

	dataset, err := roster.LoadDataset(config.Dataset)
	if err != nil {
		logger.Fatal("loading dataset", zap.Error(err))
	}

	logger.Info("dataset loaded",
		zap.Int("candidates", len(dataset.Candidates)),
		zap.Int("positions", len(dataset.Positions)),
		zap.Int("facilities", len(dataset.Facilities)),
	)

	extractor := buildExtractor(ctx, config, logger)

	steps := []pipeline.Step{
		pipeline.NewGeocode(),
		pipeline.NewQualify(),
		pipeline.NewQuality(),
	}
	if extractor == nil {
		pipeline.DisableByName(steps, "quality", "no quality extractor configured")
	}

	deps := pipeline.Deps{
		Resolver:  buildResolver(config, logger),
		Extractor: extractor,
		Logger:    logger,
	}

	if err := pipeline.Run(ctx, pipelineConfig(config), deps, steps, dataset); err != nil {
		logger.Fatal("enrichment pipeline failed", zap.Error(err))
	}

	matches := matching.Compute(profile, dataset.Candidates, dataset.OpenPositions())
	if len(matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no open positions to match against"))
		return
	}

	worklist := matching.RankWorklist(matches)
	headline := matching.RankByScore(matches)
	redirections := findRedirections(dataset, config)

	logger.Info("matching complete",
		zap.Int("matches", len(matches)),
		zap.Int("redirections", len(redirections)),
	)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := dumpMatches(worklist, logger, config.ResultFile); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, dataset, worklist, headline, redirections); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, dataset *roster.Dataset, worklist, headline []*matching.Match, redirections []matching.Redirection) error {
	switch action {
	case PromptWorklist:
		return printRecords(logger, "worklist", matching.Records(preview(worklist)))
	case PromptHeadline:
		return printRecords(logger, "headline ranking", matching.Records(preview(headline)))
	case PromptReportByFacility:
		pretty, _ := json.MarshalIndent(matching.ReportByFacility(worklist, dataset), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", len(worklist)))
		return nil
	case PromptRedirections:
		if len(redirections) == 0 {
			logger.Info("no redirections found")
			return nil
		}
		pretty, _ := json.MarshalIndent(redirections, "", "  ")
		logger.Info(string(pretty), zap.Int("redirections count", len(redirections)))
		return nil
	case PromptMatchesToFile:
		return dumpMatches(worklist, logger, config.ResultFile)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printRecords(logger *zap.Logger, view string, records []matching.Record) error {
	pretty, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}
	logger.Info(string(pretty), zap.String("view", view), zap.Int("shown", len(records)))
	return nil
}

func preview(matches []*matching.Match) []*matching.Match {
	if len(matches) > worklistPreview {
		return matches[:worklistPreview]
	}
	return matches
}

func dumpMatches(worklist []*matching.Match, logger *zap.Logger, resultFile string) error {
	target := strings.TrimSpace(resultFile)

	var filename string
	var err error
	if target == "" {
		filename, err = matching.DumpToTmpFile(worklist)
	} else {
		var payload []byte
		payload, err = json.MarshalIndent(matching.Records(worklist), "", "  ")
		if err == nil {
			err = os.WriteFile(target, payload, 0o644)
			filename = target
		}
	}
	if err != nil {
		return fmt.Errorf("dump results to file: %w", err)
	}

	logger.Info("dumping ranked matches to file", zap.String("filename", filename))
	return nil
}

func buildResolver(config *Config, log *zap.Logger) *geo.Resolver {
	return geo.NewResolver(buildGeocodeClient(config, log), geo.NewCache(), log)
}

func buildGeocodeClient(config *Config, log *zap.Logger) *geo.ZippopotamClient {
	var apiURL, country string
	var minInterval time.Duration
	if config.Geocoder != nil {
		apiURL = config.Geocoder.URL
		country = config.Geocoder.Country
		minInterval = time.Duration(config.Geocoder.MinIntervalMS) * time.Millisecond
	}

	client := geo.NewZippopotamClient(log, apiURL, country)
	client.MinInterval = minInterval
	return client
}

// buildExtractor wires the Gemini quality extractor when AI enrichment is
// enabled. A missing key is fatal only when the config explicitly asks for
// extraction; otherwise the engine degrades to running without a quality
// signal.
func buildExtractor(ctx context.Context, config *Config, log *zap.Logger) quality.Extractor {
	if config.AI == nil || !config.AI.Enabled {
		return nil
	}
	if config.AI.Gemini == nil {
		log.Fatal("gemini configuration is required when ai enrichment is enabled")
	}

	key, err := resolveGeminiKey(config)
	if err != nil {
		log.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'gemini-key-file' key in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, key, config.AI.Gemini.Model)
	if err != nil {
		log.Fatal("creating gemini generator", zap.Error(err))
	}

	extractorLogger := logger.WithCommonFields(log, config.AI.Provider, generator.Model())
	return gemini.NewExtractor(generator, extractorLogger, config.AI.Gemini.MaxLogLength)
}

func resolveGeminiKey(config *Config) (string, error) {
	keyFile := strings.TrimSpace(config.KeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("gemini-key-file"))
	}

	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.GeminiKey,
		File:  keyFile,
	})
}

func pipelineConfig(config *Config) *pipeline.Config {
	cfg := &pipeline.Config{}
	if config.AI != nil {
		cfg.Quality = &pipeline.QualityConfig{
			Enabled:  config.AI.Enabled,
			Provider: config.AI.Provider,
		}
		if config.AI.Gemini != nil {
			cfg.Quality.Gemini = &pipeline.GeminiConfig{
				Model:        config.AI.Gemini.Model,
				MaxLogLength: config.AI.Gemini.MaxLogLength,
			}
		}
	}
	return cfg
}

func findRedirections(dataset *roster.Dataset, config *Config) []matching.Redirection {
	placements := make([]matching.Placement, 0)
	for _, cand := range dataset.Candidates {
		if cand.AppliedPositionID == "" {
			continue
		}
		current := dataset.PositionByID(cand.AppliedPositionID)
		if current == nil || !current.Open {
			continue
		}
		placements = append(placements, matching.Placement{Candidate: cand, Position: current})
	}

	opts := matching.RedirectOptions{}
	if config.Redirect != nil {
		opts.ProximityKM = config.Redirect.ProximityKM
	}

	return matching.FindRedirections(placements, dataset.OpenPositions(), opts)
}
