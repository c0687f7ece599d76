package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit focus presets and notifications",
	Long:  `Interactively configure the three focus presets, the default focus length and notifications.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		reader := bufio.NewReader(cmd.InOrStdin())

		writeConfigSummary(out, appConfig)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  What would you like to change?")
		fmt.Fprintln(out, "    [1] Edit preset 1")
		fmt.Fprintln(out, "    [2] Edit preset 2")
		fmt.Fprintln(out, "    [3] Edit preset 3")
		fmt.Fprintln(out, "    [d] Edit default focus length")
		fmt.Fprintln(out, "    [n] Toggle notifications")
		fmt.Fprintln(out, "    [q] Quit without saving")
		fmt.Fprint(out, "  Choose: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		var err error
		switch choice {
		case "1", "2", "3":
			num, _ := strconv.Atoi(choice)
			err = editPreset(reader, out, appConfig, num)
		case "d":
			err = editDefaultMinutes(reader, out, appConfig)
		case "n":
			editNotifications(out, appConfig)
		case "q", "":
			fmt.Fprintln(out, "  No changes made.")
			return nil
		default:
			return fmt.Errorf("invalid choice %q", choice)
		}
		if err != nil {
			return err
		}
		return saveConfig(appConfig)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		writeConfigSummary(cmd.OutOrStdout(), appConfig)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func saveConfig(cfg *config.Config) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func writeConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Current configuration:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Default focus:   %s (%d segments)\n",
		formatMinutes(time.Duration(cfg.Focus.Minutes())*time.Minute), domain.SegmentCount(cfg.Focus.Minutes()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Focus presets:")
	for i, p := range cfg.Focus.GetPresets() {
		fmt.Fprintf(w, "    [%d] %-8s  %s\n", i+1, p.Name, formatMinutes(p.Duration))
	}
	fmt.Fprintln(w)

	breathing := make([]string, 0, len(cfg.Breathing.Durations))
	for _, s := range cfg.Breathing.Durations {
		breathing = append(breathing, formatMinutes(time.Duration(s)*time.Second))
	}
	fmt.Fprintf(w, "  Breathing:       %s\n", strings.Join(breathing, ", "))

	prompts := "in order"
	if cfg.Visualization.RandomPrompts {
		prompts = "random"
		if cfg.Visualization.Seed != 0 {
			prompts = fmt.Sprintf("random (seed %d)", cfg.Visualization.Seed)
		}
	}
	fmt.Fprintf(w, "  Prompts:         %s\n", prompts)

	notifStatus := "off"
	if cfg.Notifications.Enabled {
		notifStatus = "on"
		if cfg.Notifications.Sound {
			notifStatus = "on (with sound)"
		}
	}
	fmt.Fprintf(w, "  Notifications:   %s\n", notifStatus)
	fmt.Fprintf(w, "  Log level:       %s\n", cfg.Logging.Level)
}

func editPreset(reader *bufio.Reader, out io.Writer, cfg *config.Config, num int) error {
	p := cfg.Focus.GetPresets()[num-1]

	fmt.Fprintf(out, "\n  Editing preset %d (currently: %s, %s)\n", num, p.Name, formatMinutes(p.Duration))

	fmt.Fprintf(out, "  Name [%s]: ", p.Name)
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		name = p.Name
	}

	fmt.Fprintf(out, "  Duration [%s]: ", formatMinutes(p.Duration))
	durInput, _ := reader.ReadString('\n')
	durInput = strings.TrimSpace(durInput)

	dur := p.Duration
	if durInput != "" {
		parsed, err := time.ParseDuration(durInput)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", durInput, err)
		}
		dur = time.Duration(domain.NormalizeFocusMinutes(parsed.Minutes())) * time.Minute
	}

	switch num {
	case 1:
		cfg.Focus.Preset1Name = name
		cfg.Focus.Preset1Duration = config.Duration(dur)
	case 2:
		cfg.Focus.Preset2Name = name
		cfg.Focus.Preset2Duration = config.Duration(dur)
	case 3:
		cfg.Focus.Preset3Name = name
		cfg.Focus.Preset3Duration = config.Duration(dur)
	}

	fmt.Fprintf(out, "\n  Saved: [%d] %s, %s\n", num, name, formatMinutes(dur))
	return nil
}

func editDefaultMinutes(reader *bufio.Reader, out io.Writer, cfg *config.Config) error {
	fmt.Fprintf(out, "  Default focus minutes [%d]: ", cfg.Focus.DefaultMinutes)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	minutes, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return fmt.Errorf("invalid minutes %q: %w", input, err)
	}
	cfg.Focus.DefaultMinutes = domain.NormalizeFocusMinutes(minutes)
	fmt.Fprintf(out, "\n  Saved: default focus %s\n", formatMinutes(time.Duration(cfg.Focus.DefaultMinutes)*time.Minute))
	return nil
}

func editNotifications(out io.Writer, cfg *config.Config) {
	cfg.Notifications.Enabled = !cfg.Notifications.Enabled
	state := "off"
	if cfg.Notifications.Enabled {
		state = "on"
	}
	fmt.Fprintf(out, "\n  Notifications turned %s\n", state)
}
