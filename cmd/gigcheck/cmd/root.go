package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theakshaypant/gigcheck/internal/adapter/google"
	"github.com/theakshaypant/gigcheck/internal/adapter/ics"
	"github.com/theakshaypant/gigcheck/internal/adapter/outlook"
	"github.com/theakshaypant/gigcheck/internal/core"
)

// CalendarAdapter extends core.Provider with login and calendar listing.
// The Google, Outlook and ICS adapters implement this interface.
type CalendarAdapter interface {
	core.Provider
	Login(ctx context.Context) error
	Calendars() map[string]string
}

// ErrUnknownProvider is returned for an unsupported provider setting.
var ErrUnknownProvider = errors.New("unknown provider")

// Commands annotated with this key run without a calendar provider.
const offlineAnnotation = "offline"

var (
	cfgFile string
	profile string
	verbose bool
	adapter CalendarAdapter
)

var rootCmd = &cobra.Command{
	Use:   "gigcheck",
	Short: "Check a live show against your calendar before you buy the ticket",
	Long: `gigcheck estimates how long a show runs from its line-up, pads the
doors-open and curtain times, and lists every calendar entry that clashes
with that window.

Calendar data comes from Google Calendar, Outlook or an iCalendar feed, or
from a JSON dump of day-bucketed entries.`,
	SilenceUsage:      true,
	PersistentPreRunE: initAdapter,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/gigcheck/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "config profile to use (e.g., work, personal)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.PersistentFlags().String("provider", "", "Calendar provider: google, outlook or ics")
	rootCmd.PersistentFlags().String("ics-url", "", "iCalendar file or URL (ics provider)")
	rootCmd.PersistentFlags().StringP("calendars", "c", "", "Comma-separated list of calendar names to check")
	rootCmd.PersistentFlags().String("timezone", "", "IANA zone the attendee's calendar days are in (default: local)")
	rootCmd.PersistentFlags().Bool("declined", false, "Also count invitations you declined")
	rootCmd.PersistentFlags().Bool("no-allday", false, "Ignore all-day events")

	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("ics_url", rootCmd.PersistentFlags().Lookup("ics-url"))
	viper.BindPFlag("calendars", rootCmd.PersistentFlags().Lookup("calendars"))
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))
	viper.BindPFlag("declined", rootCmd.PersistentFlags().Lookup("declined"))
	viper.BindPFlag("no_allday", rootCmd.PersistentFlags().Lookup("no-allday"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "gigcheck"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GIGCHECK")
	viper.AutomaticEnv()

	viper.SetDefault("provider", "google")
	viper.SetDefault("credentials_file", "credentials.json")
	viper.SetDefault("token_file", "token.json")
	viper.SetDefault("log_level", "warn")

	configErr := viper.ReadInConfig()

	applyProfile()
	initLogging()

	if configErr == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

// initLogging sends zerolog output to stderr in console format.
func initLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	level, err := zerolog.ParseLevel(viper.GetString("log_level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// profileSettings can be overridden by profiles.<name>.<key>.
var profileSettings = []string{
	"provider",
	"credentials_file",
	"token_file",
	"client_id",
	"tenant_id",
	"ics_url",
	"calendars",
	"timezone",
	"declined",
	"no_allday",
	"log_level",
}

// applyProfile merges profile-specific settings over defaults
func applyProfile() {
	activeProfile := profile
	if activeProfile == "" {
		activeProfile = viper.GetString("default_profile")
	}
	if activeProfile == "" {
		return
	}

	profileKey := "profiles." + activeProfile
	if !viper.IsSet(profileKey) {
		fmt.Fprintf(os.Stderr, "Warning: profile '%s' not found in config\n", activeProfile)
		return
	}

	// Flags set explicitly on the command line win over the profile.
	for _, key := range profileSettings {
		profileSettingKey := profileKey + "." + key
		if viper.IsSet(profileSettingKey) && !isFlagExplicitlySet(key) {
			viper.Set(key, viper.Get(profileSettingKey))
		}
	}
}

func isFlagExplicitlySet(viperKey string) bool {
	flagName := strings.ReplaceAll(viperKey, "_", "-")
	f := rootCmd.PersistentFlags().Lookup(flagName)
	return f != nil && f.Changed
}

func initAdapter(cmd *cobra.Command, args []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[offlineAnnotation] == "true" {
			return nil
		}
	}
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	// check and ui can run from a JSON dump alone
	if f := cmd.Flags().Lookup("events-file"); f != nil && f.Value.String() != "" {
		return nil
	}

	a, err := newAdapter(viper.GetString("provider"))
	if err != nil {
		return err
	}
	if err := a.Login(cmd.Context()); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	adapter = a
	return nil
}

func newAdapter(provider string) (CalendarAdapter, error) {
	switch provider {
	case "", "google":
		return newGoogleAdapter()
	case "outlook":
		return newOutlookAdapter()
	case "ics":
		source := viper.GetString("ics_url")
		if source == "" {
			return nil, fmt.Errorf("ics_url not configured\n\nSet it in your profile or pass --ics-url")
		}
		return ics.NewICSAdapter("ics", "iCalendar feed", expandPath(source), attendeeLocation()), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: google, outlook, ics)", ErrUnknownProvider, provider)
	}
}

func newGoogleAdapter() (CalendarAdapter, error) {
	credsFile := expandPath(viper.GetString("credentials_file"))
	tokenFile := expandPath(viper.GetString("token_file"))

	if _, err := os.Stat(credsFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("credentials file not found: %s", credsFile)
	}
	if _, err := os.Stat(tokenFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("token file not found: %s\n\nRun 'gigcheck auth' to authenticate", tokenFile)
	}

	return google.NewGoogleAdapter("google", "Google Calendar", credsFile, tokenFile), nil
}

func newOutlookAdapter() (CalendarAdapter, error) {
	clientID := viper.GetString("client_id")
	if clientID == "" {
		return nil, fmt.Errorf("client_id not configured for Outlook provider\n\nAdd it to your profile config:\n  client_id: \"your-azure-app-client-id\"")
	}

	tokenFile := expandPath(viper.GetString("token_file"))
	if _, err := os.Stat(tokenFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("token file not found: %s\n\nRun 'gigcheck auth' to authenticate with Microsoft", tokenFile)
	}

	return outlook.NewOutlookAdapter("outlook", "Outlook Calendar", clientID, viper.GetString("tenant_id"), tokenFile), nil
}

// buildFetchOptions turns the filter flags into provider fetch options.
// The time range is filled in per show.
func buildFetchOptions() (core.FetchOptions, error) {
	opts := core.DefaultFetchOptions(time.Time{}, time.Time{})

	if viper.GetBool("declined") {
		opts.IncludeStatuses = nil
	}
	opts.ExcludeAllDay = viper.GetBool("no_allday")

	if calendars := viper.GetString("calendars"); calendars != "" && adapter != nil {
		calendarIDs := resolveCalendarNames(strings.Split(calendars, ","), adapter.Calendars())
		if len(calendarIDs) == 0 {
			return opts, fmt.Errorf("no matching calendars found for: %s\nUse 'gigcheck calendars' to see available calendars", calendars)
		}
		opts.CalendarIDs = calendarIDs
	}
	return opts, nil
}

// attendeeLocation is the zone day buckets are keyed in.
func attendeeLocation() *time.Location {
	name := viper.GetString("timezone")
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("unknown timezone, using local time")
		return time.Local
	}
	return loc
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// resolveCalendarNames maps calendar IDs or case-insensitive name
// fragments to calendar IDs.
func resolveCalendarNames(names []string, calendars map[string]string) []string {
	var ids []string

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := calendars[name]; exists {
			ids = append(ids, name)
			continue
		}

		nameLower := strings.ToLower(name)
		for id, calName := range calendars {
			if strings.Contains(strings.ToLower(calName), nameLower) {
				ids = append(ids, id)
				break
			}
		}
	}

	return ids
}
