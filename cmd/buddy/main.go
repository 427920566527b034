// Command buddy is the accountabilabuddy client. It talks to the API server
// or, in local mode, keeps everything in a file on this machine.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultAPIURL = "http://localhost:44000"
	configDirName = "accountabilabuddy"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "buddy",
	Short: "Todo board with friends who keep you honest",
	Long: `A client for accountabilabuddy. Todos live on the server once you log in,
or in a local file when you are a guest or run with --mode local.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return initConfig()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.config/accountabilabuddy/config.yaml)")
	flags.String("mode", "remote", "data source: remote or local")
	flags.String("api-url", defaultAPIURL, "API server base URL")
	flags.String("data", "", "path of the local data file")
	flags.String("import-url", "", "image import service URL")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	for key, name := range map[string]string{
		"mode":       "mode",
		"api_url":    "api-url",
		"data":       "data",
		"import_url": "import-url",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(listCmd, addCmd, editCmd, moveCmd, rmCmd)
	rootCmd.AddCommand(friendCmd, friendsCmd, importCmd, tuiCmd)
}

// initConfig layers the config file and BUDDY_* environment variables under
// the command-line flags.
func initConfig() error {
	viper.SetDefault("mode", "remote")
	viper.SetDefault("api_url", defaultAPIURL)
	viper.SetEnvPrefix("BUDDY")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(filepath.Join(dir, configDirName))
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	slog.Debug("loaded config", "file", viper.ConfigFileUsed())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
