package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Settings velvet reads. `set` accepts other keys too but warns, so a
// typo never silently configures nothing.
var knownConfigKeys = []struct {
	key  string
	desc string
}{
	{"assistant.backend", "default backend: relay, openai, ollama, gemini, or stub"},
	{"relay.endpoint", "URL of the hosted velvet assistant"},
	{"openai.api_key", "API key for the openai backend"},
	{"openai.base_url", "base URL override for OpenAI-compatible servers"},
	{"gemini.api_key", "API key for the gemini backend"},
	{"catalog.source", "catalog file or URL used by browse"},
}

func isKnownConfigKey(key string) bool {
	for _, k := range knownConfigKeys {
		if k.key == key {
			return true
		}
	}
	return false
}

func configHelp() string {
	var b strings.Builder
	b.WriteString("Store velvet settings in the local database.\n\nKnown keys:\n")
	for _, k := range knownConfigKeys {
		fmt.Fprintf(&b, "  %-18s %s\n", k.key, k.desc)
	}
	return b.String()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage velvet settings",
	Long:  configHelp(),
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		if !isKnownConfigKey(key) {
			fmt.Printf("Warning: %q is not a setting velvet reads (see 'velvet config --help')\n", key)
		}

		s := getStore()
		defer s.Close()

		if err := s.SetConfig(key, value); err != nil {
			fmt.Printf("Failed to save setting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %s\n", key)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := getStore()
		defer s.Close()

		val, err := s.GetConfig(args[0])
		if err != nil {
			fmt.Printf("Failed to read setting: %v\n", err)
			os.Exit(1)
		}
		if val == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(val)
		}
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}
