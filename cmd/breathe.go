package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/prep-cli/internal/adapters/tui"
	"github.com/xvierd/prep-cli/internal/domain"
)

var breatheDuration time.Duration

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Run the breathing exercise on its own",
	Long: `Run only the guided breathing exercise.

Without --duration you pick the length on screen; with it the exercise
starts right away.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := breathingSeconds(breathingService.Config(), breatheDuration)
		if err != nil {
			return err
		}
		return tui.RunBreathing(breathingService, seconds, &appConfig.Theme)
	},
}

func init() {
	breatheCmd.Flags().DurationVarP(&breatheDuration, "duration", "d", 0, "Start immediately with this length (e.g. 2m)")
}

// breathingSeconds validates a requested exercise length. Zero means the user
// chooses interactively.
func breathingSeconds(cfg domain.BreathingConfig, d time.Duration) (int, error) {
	if d == 0 {
		return 0, nil
	}
	seconds := int(d / time.Second)
	if !cfg.AllowsDuration(seconds) {
		options := make([]string, 0, len(cfg.Durations))
		for _, s := range cfg.Durations {
			options = append(options, formatMinutes(time.Duration(s)*time.Second))
		}
		return 0, fmt.Errorf("unsupported breathing duration %s (choose %s)", d, strings.Join(options, ", "))
	}
	return seconds, nil
}
