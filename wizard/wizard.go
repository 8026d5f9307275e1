// Package wizard implements the interactive terminal setup that creates or
// updates the overlay's .env file.
package wizard

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JobThompson/Navidrome-OBS-Plugin/config"
	"github.com/JobThompson/Navidrome-OBS-Plugin/core/subsonic"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// Run walks the operator through the connection and overlay settings, writes
// them to envPath, and checks the Navidrome connection. Existing values in
// the file become the prompt defaults, so re-running only changes what the
// operator types.
func Run(envPath string) error {
	existing, err := godotenv.Read(envPath)
	if err != nil {
		existing = map[string]string{}
	}

	in := bufio.NewReader(os.Stdin)
	fmt.Println()
	fmt.Println("Navidrome OBS Overlay - guided setup")
	fmt.Println()

	urlDefault := valueOr(existing, "NAVIDROME_URL", "http://localhost:4533")
	navidromeURL := strings.TrimRight(prompt(in, "Navidrome URL", urlDefault), "/")
	for !strings.HasPrefix(navidromeURL, "http://") && !strings.HasPrefix(navidromeURL, "https://") {
		fmt.Println("Please enter a URL that starts with http:// or https://")
		navidromeURL = strings.TrimRight(prompt(in, "Navidrome URL", urlDefault), "/")
	}

	user := prompt(in, "Navidrome username", existing["NAVIDROME_USER"])

	password := existing["NAVIDROME_PASSWORD"]
	if password != "" {
		if promptBool(in, "Update saved Navidrome password?", false) {
			password = promptPassword("Navidrome password")
		}
	} else {
		password = promptPassword("Navidrome password")
	}

	clientName := prompt(in, "Client name (shows up in Navidrome)",
		valueOr(existing, "NAVIDROME_CLIENT_NAME", "obs-overlay"))

	timeout := promptInt(in, "Request timeout (seconds)",
		intOr(existing, "NAVIDROME_TIMEOUT", 6), 1, 120)

	version := prompt(in, "Subsonic API version ('auto' to detect)",
		valueOr(existing, "NAVIDROME_API_VERSION", "auto"))
	if strings.EqualFold(strings.TrimSpace(version), "auto") {
		fmt.Println("Detecting API version…")
		detected, err := subsonic.DetectAPIVersion(navidromeURL, user, password, clientName,
			time.Duration(timeout)*time.Second, nil)
		if err != nil {
			fmt.Printf("Version detection failed (%v); using 1.16.1.\n", err)
			version = "1.16.1"
		} else {
			fmt.Printf("Detected API version %s.\n", detected)
			version = detected
		}
	}

	host := prompt(in, "Overlay host", valueOr(existing, "OVERLAY_HOST", "127.0.0.1"))
	port := promptInt(in, "Overlay port", intOr(existing, "OVERLAY_PORT", 8080), 1, 65535)
	refresh := promptInt(in, "Refresh interval (seconds)",
		intOr(existing, "OVERLAY_REFRESH_SECONDS", 1), 1, 60)
	showProgress := promptBool(in, "Show progress bar + time",
		parseBool(existing["OVERLAY_SHOW_PROGRESS"]))

	placeholderDefault := strings.ToLower(strings.TrimSpace(valueOr(existing, "OVERLAY_NOTHING_PLAYING_PLACEHOLDER", "dark")))
	if placeholderDefault != "dark" && placeholderDefault != "light" && placeholderDefault != "off" {
		placeholderDefault = "dark"
	}
	placeholder := strings.ToLower(strings.TrimSpace(prompt(in, "Nothing playing image (dark/light/off)", placeholderDefault)))
	switch placeholder {
	case "none", "false", "0":
		placeholder = "off"
	case "dark", "light", "off":
	default:
		fmt.Println("Unknown choice; defaulting to 'dark'.")
		placeholder = "dark"
	}

	values := map[string]string{
		"NAVIDROME_URL":                       navidromeURL,
		"NAVIDROME_USER":                      user,
		"NAVIDROME_PASSWORD":                  password,
		"NAVIDROME_CLIENT_NAME":               clientName,
		"NAVIDROME_API_VERSION":               version,
		"NAVIDROME_TIMEOUT":                   strconv.Itoa(timeout),
		"OVERLAY_HOST":                        host,
		"OVERLAY_PORT":                        strconv.Itoa(port),
		"OVERLAY_REFRESH_SECONDS":             strconv.Itoa(refresh),
		"OVERLAY_SHOW_PROGRESS":               strconv.FormatBool(showProgress),
		"OVERLAY_NOTHING_PLAYING_PLACEHOLDER": placeholder,
	}

	// Keep theme and any extra keys already in the file.
	for key, value := range existing {
		if _, ok := values[key]; !ok {
			values[key] = value
		}
	}

	if err := config.WriteEnvFile(envPath, values); err != nil {
		return fmt.Errorf("writing %s: %w", envPath, err)
	}
	fmt.Printf("\nSaved configuration to %s\n\n", envPath)

	checkConnection(envPath)
	return nil
}

// checkConnection does a best-effort request so the operator learns right
// away whether the saved settings work. Failures are reported but never
// abort setup.
func checkConnection(envPath string) {
	cfg, err := config.Load(envPath, nil)
	if err != nil {
		fmt.Printf("Navidrome connection check: FAILED (%v)\n", err)
		return
	}
	if _, err := subsonic.NewClient(cfg).FetchNowPlayingEntries(); err != nil {
		fmt.Printf("Navidrome connection check: FAILED (%v)\n", err)
		fmt.Println("You can still start the overlay; verify URL/credentials if needed.")
		return
	}
	fmt.Println("Navidrome connection check: OK (request succeeded)")
}

func prompt(in *bufio.Reader, text, defaultValue string) string {
	suffix := ""
	if defaultValue != "" {
		suffix = fmt.Sprintf(" [%s]", defaultValue)
	}
	fmt.Printf("%s%s: ", text, suffix)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return defaultValue
	}
	entered := strings.TrimSpace(line)
	if entered == "" {
		return defaultValue
	}
	return entered
}

func promptInt(in *bufio.Reader, text string, defaultValue, minimum, maximum int) int {
	for {
		raw := prompt(in, text, strconv.Itoa(defaultValue))
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			fmt.Println("Please enter a whole number.")
			continue
		}
		if value < minimum || value > maximum {
			fmt.Printf("Please enter a number between %d and %d.\n", minimum, maximum)
			continue
		}
		return value
	}
}

func promptBool(in *bufio.Reader, text string, defaultValue bool) bool {
	defaultStr := "no"
	if defaultValue {
		defaultStr = "yes"
	}
	for {
		raw := strings.ToLower(prompt(in, text+" (yes/no)", defaultStr))
		switch raw {
		case "y", "yes", "true", "1":
			return true
		case "n", "no", "false", "0":
			return false
		}
		fmt.Println("Please answer yes or no.")
	}
}

// promptPassword reads without echo when stdin is a terminal, falling back
// to a plain read otherwise (e.g. piped input in tests or scripts).
func promptPassword(text string) string {
	fmt.Printf("%s: ", text)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(raw))
		}
	}
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func valueOr(values map[string]string, key, fallback string) string {
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return fallback
}

func intOr(values map[string]string, key string, fallback int) int {
	if v, ok := values[key]; ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(f)
		}
	}
	return fallback
}
