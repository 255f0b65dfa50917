package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/velvetlabs/velvet/internal/assistant"
	"github.com/velvetlabs/velvet/internal/catalog"
	"github.com/velvetlabs/velvet/internal/exchange"
	"github.com/velvetlabs/velvet/internal/observe"
	"github.com/velvetlabs/velvet/internal/shelf"
	"github.com/velvetlabs/velvet/internal/store"
	"github.com/velvetlabs/velvet/internal/ui/tui"
)

var (
	verbose       bool
	backendType   string
	modelName     string
	webSearch     bool
	catalogSource string
	startNew      bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "velvet",
	Short: "Cosmetics counter in your terminal",
	Long: `Velvet lets you browse a cosmetics catalog, curate a shelf of
products, and ask an assistant to turn your shelf into a personalized
skincare or haircare routine.`,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Run: func(cmd *cobra.Command, args []string) {
		runBrowse()
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the assistant a question",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runChat(strings.Join(args, " "))
	},
}

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Generate a routine from your shelf",
	Run: func(cmd *cobra.Command, args []string) {
		runRoutine()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(browseCmd)
	RootCmd.AddCommand(chatCmd)
	RootCmd.AddCommand(routineCmd)

	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().StringVarP(&backendType, "backend", "b", "", "Assistant backend (relay, openai, ollama, gemini, stub)")
	RootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model name (backend-specific)")
	RootCmd.PersistentFlags().BoolVarP(&webSearch, "web-search", "w", false, "Ask the assistant to consult live sources")
	browseCmd.Flags().StringVar(&catalogSource, "catalog", "", "Catalog file or URL (overrides config)")
	chatCmd.Flags().BoolVar(&startNew, "new", false, "Start a new conversation instead of resuming the last one")
	routineCmd.Flags().BoolVar(&startNew, "new", false, "Start a new conversation instead of resuming the last one")
}

func runBrowse() {
	// The TUI owns stdout, so logs go to stderr.
	obs := observe.New(os.Stderr, verbose)
	defer obs.Close()

	storeLayer := getStore()
	defer storeLayer.Close()

	// Restore the shelf before anything renders.
	sh := shelf.New(storeLayer, obs.Log())
	sh.Restore()

	cat, err := catalog.Load(resolveCatalogSource(storeLayer))
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to load catalog")
	}

	a, err := newAssistant(storeLayer)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to initialize assistant")
	}

	ex := exchange.NewManager(a, sh, storeLayer, obs)

	model := tui.NewModel(cat, sh, ex, webSearch)
	program := tea.NewProgram(model, tea.WithAltScreen())
	ex.SetUI(tui.NewTUI(program))

	if _, err := program.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

func runChat(message string) {
	obs := observe.New(os.Stderr, verbose)
	defer obs.Close()

	storeLayer := getStore()
	defer storeLayer.Close()

	sh := shelf.New(storeLayer, obs.Log())
	sh.Restore()

	a, err := newAssistant(storeLayer)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to initialize assistant")
	}

	ex := exchange.NewManager(a, sh, storeLayer, obs)
	if !startNew {
		if err := ex.ResumeLatest(); err != nil {
			obs.Log().Warn().Err(err).Msg("could not resume conversation")
		}
	}

	fmt.Println(ex.Send(context.Background(), message, webSearch))
}

func runRoutine() {
	obs := observe.New(os.Stderr, verbose)
	defer obs.Close()

	storeLayer := getStore()
	defer storeLayer.Close()

	sh := shelf.New(storeLayer, obs.Log())
	sh.Restore()

	a, err := newAssistant(storeLayer)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to initialize assistant")
	}

	ex := exchange.NewManager(a, sh, storeLayer, obs)
	if !startNew {
		if err := ex.ResumeLatest(); err != nil {
			obs.Log().Warn().Err(err).Msg("could not resume conversation")
		}
	}

	fmt.Println(ex.GenerateRoutine(context.Background(), webSearch))
}

func newAssistant(s store.Storage) (assistant.Assistant, error) {
	backend := backendType
	if backend == "" {
		backend, _ = s.GetConfig("assistant.backend")
	}
	if backend == "" {
		backend = "relay"
	}

	switch backend {
	case "relay":
		endpoint, _ := s.GetConfig("relay.endpoint")
		return assistant.NewRelayAssistant(endpoint)
	case "openai":
		apiKey, _ := s.GetConfig("openai.api_key")
		baseURL, _ := s.GetConfig("openai.base_url")
		return assistant.NewOpenAIAssistant(apiKey, baseURL, modelName)
	case "ollama":
		return assistant.NewOllamaAssistant(modelName)
	case "gemini":
		apiKey, _ := s.GetConfig("gemini.api_key")
		return assistant.NewGeminiAssistant(apiKey, modelName)
	case "stub":
		return assistant.NewStubAssistant(), nil
	default:
		return nil, fmt.Errorf("unknown assistant backend: %s", backend)
	}
}

func resolveCatalogSource(s store.Storage) string {
	if catalogSource != "" {
		return catalogSource
	}
	if source, _ := s.GetConfig("catalog.source"); source != "" {
		return source
	}
	return filepath.Join(velvetDir(), "catalog.json")
}
