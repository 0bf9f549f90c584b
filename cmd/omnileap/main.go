package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"omnileap/internal/app"
	"omnileap/internal/identity"
	"omnileap/internal/tui"
)

const version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:     "omnileap",
		Short:   "OmniLeap - terminal client for the OmniLeap agent",
		Long:    "OmniLeap is a terminal client for the OmniLeap conversational agent.\n\nSign in, chat with the agent, dispatch a blog crew with /blog <topic>, and browse or delete your conversation history.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			if v := os.Getenv("OMNILEAP_BASE_URL"); v != "" {
				cfg.BaseURL = v
			}
			if v := os.Getenv("OMNILEAP_FIREBASE_API_KEY"); v != "" {
				cfg.FirebaseAPIKey = v
			}
			if cfg.FirebaseAPIKey == "" {
				return fmt.Errorf("no Firebase API key configured. Set firebase_api_key in %s or OMNILEAP_FIREBASE_API_KEY", app.DefaultConfigPath())
			}

			logger := app.NewLogger()
			defer logger.Sync()

			store := identity.NewCredentialStore(identity.DefaultCredentialsPath())
			auth := identity.NewClient(cfg.FirebaseAPIKey, store, logger)
			application := app.NewApplication(cfg, auth, logger)

			p := tea.NewProgram(tui.New(application, auth), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored sign-in credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := identity.NewCredentialStore(identity.DefaultCredentialsPath())
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
	root.AddCommand(logoutCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
