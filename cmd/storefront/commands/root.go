package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/linemk/storefront/internal/client"
	"github.com/linemk/storefront/internal/lib/logger"
	"github.com/linemk/storefront/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURL   string
	stateDir string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront client: catalog, checkout and orders",
	Long: `Console client for the storefront API.

Checkout goes through a hosted payment page. Before redirecting, the cart and
shipping address are stashed in the state directory; after paying, pass the
return link to "storefront resume" and the order is created from the stash.

Examples:
  storefront login --email ann@example.com --password secret
  storefront checkout --item 6f1c...:2 --name Ann --address "1 Main St" --city Springfield --state IL --zip 62701
  storefront resume "http://localhost:3000/?payment=success"`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("STOREFRONT_API", "http://localhost:5002"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", defaultStateDir(), "Directory for the session and checkout stash")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(dir, "storefront")
}

// session - то, что нужно каждой команде
type session struct {
	log   *slog.Logger
	api   *client.Client
	stash *reconcile.FileStash
}

func newSession() (*session, error) {
	stash, err := reconcile.NewFileStash(stateDir)
	if err != nil {
		return nil, err
	}

	log := logger.Discard()
	if verbose {
		log = logger.SetupLogger("local", os.Stderr)
	}

	return &session{
		log:   log,
		api:   client.New(apiURL, nil),
		stash: stash,
	}, nil
}

// auth возвращает сохранённую сессию; без логина токен пустой
func (s *session) auth() (*client.AuthResult, error) {
	var res client.AuthResult
	if _, err := s.stash.Load(reconcile.KeyAuth, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *session) token() (string, error) {
	res, err := s.auth()
	if err != nil {
		return "", err
	}
	return res.Token, nil
}

func (s *session) requireToken() (string, error) {
	token, err := s.token()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("not logged in, run: storefront login")
	}
	return token, nil
}
