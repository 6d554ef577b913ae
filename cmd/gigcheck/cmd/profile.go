package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage configuration profiles",
	Long: `Manage configuration profiles for different calendar accounts.

Profiles let you switch between a Google account, a work Outlook
calendar and a shared ICS feed without retyping provider settings.`,
	Annotations: map[string]string{offlineAnnotation: "true"},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileShow,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAdd,
}

var profileSetDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSetDefault,
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a profile's settings",
	Long: `Edit a profile's settings using flags.

Example:
  gigcheck profile edit work --provider=outlook --client-id=<id>
  gigcheck profile edit band --calendars="Rehearsals,Gigs" --no-allday=true`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileEdit,
}

// profileFlag maps a profile flag to its config key.
type profileFlag struct {
	flag  string
	key   string
	usage string
	bool  bool
}

var profileFlags = []profileFlag{
	{flag: "provider", key: "provider", usage: "Calendar provider: google, outlook or ics"},
	{flag: "credentials-file", key: "credentials_file", usage: "Path to Google OAuth credentials file"},
	{flag: "token-file", key: "token_file", usage: "Path to token file"},
	{flag: "client-id", key: "client_id", usage: "Azure app client ID (outlook)"},
	{flag: "tenant-id", key: "tenant_id", usage: "Azure tenant ID (outlook, default common)"},
	{flag: "ics-url", key: "ics_url", usage: "iCalendar file or URL (ics)"},
	{flag: "calendars", key: "calendars", usage: "Calendar filter"},
	{flag: "timezone", key: "timezone", usage: "IANA timezone for day buckets"},
	{flag: "log-level", key: "log_level", usage: "Log level: debug, info, warn, error"},
	{flag: "declined", key: "declined", usage: "Count declined invitations", bool: true},
	{flag: "no-allday", key: "no_allday", usage: "Exclude all-day events", bool: true},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileSetDefaultCmd)
	profileCmd.AddCommand(profileEditCmd)

	for _, c := range []*cobra.Command{profileAddCmd, profileEditCmd} {
		// Local flags shadow the root's persistent ones with the same name.
		for _, pf := range profileFlags {
			if pf.bool {
				c.Flags().Bool(pf.flag, false, pf.usage)
			} else {
				c.Flags().String(pf.flag, "", pf.usage)
			}
		}
	}
}

func runProfileList(cmd *cobra.Command, args []string) error {
	profiles := viper.GetStringMap("profiles")
	defaultProfile := viper.GetString("default_profile")

	if len(profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("\nAdd one with: gigcheck profile add <name> --provider=google --credentials-file=<path>")
		return nil
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available profiles:")
	fmt.Println("─────────────────────────────────────────────────")

	for _, name := range names {
		marker := "  "
		if name == defaultProfile {
			marker = "* "
		}
		fmt.Printf("%s%s\n", marker, name)
	}

	fmt.Println("─────────────────────────────────────────────────")
	if defaultProfile != "" {
		fmt.Printf("Default: %s\n", defaultProfile)
	}
	fmt.Println("\nUse 'gigcheck profile show <name>' for details")

	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	var profileName string
	if len(args) > 0 {
		profileName = args[0]
	} else {
		profileName = viper.GetString("default_profile")
		if profileName == "" {
			return fmt.Errorf("no profile specified and no default profile set")
		}
	}

	profileKey := "profiles." + profileName
	if !viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' not found", profileName)
	}

	settings := viper.GetStringMap(profileKey)

	fmt.Printf("Profile: %s\n", profileName)
	if profileName == viper.GetString("default_profile") {
		fmt.Println("(default)")
	}
	fmt.Println("─────────────────────────────────────────────────")

	fmt.Println("\n📁 Provider:")
	printSetting(settings, "provider", "provider")
	printSetting(settings, "credentials_file", "credentials-file")
	printSetting(settings, "token_file", "token-file")
	printSetting(settings, "client_id", "client-id")
	printSetting(settings, "tenant_id", "tenant-id")
	printSetting(settings, "ics_url", "ics-url")

	fmt.Println("\n🔍 Filters:")
	printSetting(settings, "calendars", "calendars")
	printSetting(settings, "declined", "declined")
	printSetting(settings, "no_allday", "no-allday")

	fmt.Println("\n🕐 Other:")
	printSetting(settings, "timezone", "timezone")
	printSetting(settings, "log_level", "log-level")

	fmt.Println()
	return nil
}

func printSetting(settings map[string]interface{}, key, displayKey string) {
	if val, ok := settings[key]; ok {
		fmt.Printf("  %s: %v\n", displayKey, val)
	}
}

// applyProfileFlags copies changed flags into profile and reports
// whether anything changed.
func applyProfileFlags(flags *pflag.FlagSet, profile map[string]interface{}) bool {
	changed := false
	for _, pf := range profileFlags {
		if !flags.Changed(pf.flag) {
			continue
		}
		if pf.bool {
			val, _ := flags.GetBool(pf.flag)
			profile[pf.key] = val
		} else {
			val, _ := flags.GetString(pf.flag)
			profile[pf.key] = val
		}
		changed = true
	}
	return changed
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	profileKey := "profiles." + profileName
	if viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' already exists. Use 'gigcheck profile edit %s' to modify it", profileName, profileName)
	}

	profile := make(map[string]interface{})
	applyProfileFlags(cmd.Flags(), profile)

	if err := saveProfileToConfig(profileName, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("✓ Profile '%s' created\n", profileName)
	fmt.Printf("\nUse it with: gigcheck -p %s check ...\n", profileName)
	fmt.Printf("Set as default: gigcheck profile default %s\n", profileName)

	return nil
}

func runProfileSetDefault(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	profileKey := "profiles." + profileName
	if !viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' not found", profileName)
	}

	if err := setDefaultProfileInConfig(profileName); err != nil {
		return fmt.Errorf("failed to set default profile: %w", err)
	}

	fmt.Printf("✓ Default profile set to '%s'\n", profileName)
	return nil
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	profileKey := "profiles." + profileName
	if !viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' not found. Use 'gigcheck profile add %s' to create it", profileName, profileName)
	}

	profile := make(map[string]interface{})
	for k, v := range viper.GetStringMap(profileKey) {
		profile[k] = v
	}

	if !applyProfileFlags(cmd.Flags(), profile) {
		fmt.Println("No changes specified. Use flags to update settings:")
		fmt.Println("  gigcheck profile edit", profileName, "--calendars=Gigs --no-allday=true")
		return nil
	}

	if err := saveProfileToConfig(profileName, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("✓ Profile '%s' updated\n", profileName)
	return nil
}

// Config file manipulation functions

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gigcheck", "config.yaml")
}

func readConfigFile(configPath string) (map[string]interface{}, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]interface{}), nil
		}
		return nil, err
	}

	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	if config == nil {
		config = make(map[string]interface{})
	}

	return config, nil
}

func writeConfigFile(configPath string, config map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func saveProfileToConfig(name string, profile map[string]interface{}) error {
	return updateConfigFile(getConfigPath(), func(config map[string]interface{}) {
		profiles, ok := config["profiles"].(map[string]interface{})
		if !ok {
			profiles = make(map[string]interface{})
		}
		profiles[name] = profile
		config["profiles"] = profiles
	})
}

func setDefaultProfileInConfig(name string) error {
	return updateConfigFile(getConfigPath(), func(config map[string]interface{}) {
		config["default_profile"] = name
	})
}

func updateConfigFile(configPath string, update func(map[string]interface{})) error {
	config, err := readConfigFile(configPath)
	if err != nil {
		return err
	}
	update(config)
	return writeConfigFile(configPath, config)
}
