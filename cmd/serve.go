package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/JobThompson/Navidrome-OBS-Plugin/config"
	"github.com/JobThompson/Navidrome-OBS-Plugin/logger"
	"github.com/JobThompson/Navidrome-OBS-Plugin/server"
	"github.com/JobThompson/Navidrome-OBS-Plugin/wizard"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the overlay HTTP server",
	Long:  `Start the HTTP server that serves the overlay page, the now-playing API, and the cover-art proxy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	registerServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

// registerServeFlags attaches the serving flags; they live on both the root
// command and the serve subcommand.
func registerServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("env-file", "", "path to a .env file (defaults to .env in the working directory)")
	cmd.Flags().String("host", "", "override overlay host (OVERLAY_HOST)")
	cmd.Flags().Int("port", 0, "override overlay port (OVERLAY_PORT)")
	cmd.Flags().Int("refresh", 0, "override refresh interval seconds (OVERLAY_REFRESH_SECONDS)")
	cmd.Flags().Bool("show-progress", false, "show progress bar + time")
	cmd.Flags().Bool("hide-progress", false, "hide progress bar + time")
	cmd.Flags().Bool("open", false, "open the overlay page in the default browser after starting")
}

func runServe(cmd *cobra.Command) error {
	flags := cmd.Flags()
	envFile, _ := flags.GetString("env-file")

	overrides := map[string]string{}
	if host, _ := flags.GetString("host"); host != "" {
		overrides["OVERLAY_HOST"] = host
	}
	if port, _ := flags.GetInt("port"); port != 0 {
		overrides["OVERLAY_PORT"] = strconv.Itoa(port)
	}
	if refresh, _ := flags.GetInt("refresh"); refresh != 0 {
		overrides["OVERLAY_REFRESH_SECONDS"] = strconv.Itoa(refresh)
	}
	if show, _ := flags.GetBool("show-progress"); show {
		overrides["OVERLAY_SHOW_PROGRESS"] = "true"
	}
	if hide, _ := flags.GetBool("hide-progress"); hide {
		overrides["OVERLAY_SHOW_PROGRESS"] = "false"
	}

	cfg, err := config.Load(envFile, overrides)
	if err != nil {
		// On an interactive terminal, missing configuration drops straight
		// into the guided setup instead of failing.
		if !isInteractive() {
			return err
		}
		fmt.Println(err)
		fmt.Println("\nStarting guided setup…")
		fmt.Println()
		path := envFile
		if path == "" {
			path = config.DefaultEnvFile
		}
		if err := wizard.Run(path); err != nil {
			return err
		}
		cfg, err = config.Load(envFile, overrides)
		if err != nil {
			return err
		}
	}

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	})

	if open, _ := flags.GetBool("open"); open {
		overlayURL := fmt.Sprintf("http://%s:%d", cfg.ServerHost, cfg.ServerPort)
		go func() {
			time.Sleep(600 * time.Millisecond)
			if err := openBrowser(overlayURL); err != nil {
				logger.Warn("failed to open browser", logger.ErrorField(err))
			}
		}()
	}

	return server.New(cfg).Run()
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// openBrowser launches the platform's default browser at the given URL.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
