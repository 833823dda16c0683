package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"techconnect/internal/backend"
	"techconnect/internal/pkg/logger"
)

var (
	backendURL string
	timeout    time.Duration
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "onboard",
	Short:         "Drive TechConnect registrations from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", os.Getenv("BACKEND_BASE_URL"), "backend base URL (default $BACKEND_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "timeout of each backend call")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log backend traffic")
	rootCmd.AddCommand(registerCmd, checkEmailCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newClient() (*backend.Client, *zap.Logger, error) {
	if backendURL == "" {
		return nil, nil, fmt.Errorf("--backend or BACKEND_BASE_URL is required")
	}
	log := zap.NewNop()
	if verbose {
		var err error
		if log, err = logger.New("dev"); err != nil {
			return nil, nil, err
		}
	}
	return backend.New(backendURL, timeout, log), log, nil
}
