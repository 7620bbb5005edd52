package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_ "go.uber.org/automaxprocs"

	"github.com/felixbrock/flowdeck/internal/app"
	"github.com/felixbrock/flowdeck/internal/persistence"
	"github.com/felixbrock/flowdeck/internal/screen"
)

const version = "0.3.0"

func config() app.Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FLOWDECK")
	v.AutomaticEnv()

	v.SetDefault("port", "8000")
	v.SetDefault("prompt_api_url", "http://localhost:9000/api/prompts")
	v.SetDefault("process_api_url", "http://localhost:9000/api/process")
	v.SetDefault("analysis_api_url", "http://localhost:9000/api/analysis")
	v.SetDefault("rate_per_second", 50.0)
	v.SetDefault("rate_burst", 100)

	v.SetConfigName("flowdeck")
	v.AddConfigPath("config")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}

	if v.GetString("backend_api_key") == "" {
		slog.Error("FLOWDECK_BACKEND_API_KEY environment variable not set")
	}

	return app.Config{
		Port:           v.GetString("port"),
		PromptApiUrl:   v.GetString("prompt_api_url"),
		ProcessApiUrl:  v.GetString("process_api_url"),
		AnalysisApiUrl: v.GetString("analysis_api_url"),
		BackendApiKey:  v.GetString("backend_api_key"),
		RatePerSecond:  v.GetFloat64("rate_per_second"),
		RateBurst:      v.GetInt("rate_burst"),
	}
}

func buildApp(config app.Config) app.App {
	baseHeaders := []string{
		fmt.Sprintf("Authorization: Bearer %s", config.BackendApiKey)}

	promptRepo := persistence.PromptRepo{BaseHeaders: baseHeaders, BaseUrl: config.PromptApiUrl}
	processRepo := persistence.ProcessRepo{BaseHeaders: baseHeaders, BaseUrl: config.ProcessApiUrl}
	analysisRepo := persistence.AnalysisRepo{BaseHeaders: baseHeaders, BaseUrl: config.AnalysisApiUrl}

	return app.App{
		Prompts:    screen.NewPromptScreen(promptRepo),
		TestDialog: screen.NewTestDialog(promptRepo),
		Processes:  screen.NewProcessScreen(processRepo),
		Analysis:   screen.NewAnalysisScreen(analysisRepo),
		Dashboard:  screen.NewDashboard(promptRepo, processRepo, analysisRepo),
		Workspace:  screen.NewWorkspaceScreen(processRepo),
		Config:     config,
	}
}

func main() {
	root := &cobra.Command{
		Use:   "flowdeck",
		Short: "Operator console for the decision-automation platform",
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildApp(config()).Start()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the console version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flowdeck %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}
}
