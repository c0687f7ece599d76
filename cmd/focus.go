package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/prep-cli/internal/adapters/tui"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/domain"
	"go.uber.org/zap"
)

var focusCmd = &cobra.Command{
	Use:   "focus [minutes]",
	Short: "Start a segmented focus session",
	Long: `Start the focus timer without the rest of the wizard.

The length is rounded to whole 5-minute segments. Without an argument
you pick one of the configured presets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFocus,
}

func runFocus(cmd *cobra.Command, args []string) error {
	minutes, ok := focusMinutes(args, &appConfig.Focus, &appConfig.Theme)
	if !ok {
		return nil
	}
	if err := focusService.Configure(minutes); err != nil {
		return err
	}

	logger.Info("focus session requested", zap.Int("minutes", minutes))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return tui.RunFocus(ctx, focusService, true, &appConfig.Theme)
}

// focusMinutes reads the length from the argument or asks with the preset picker.
func focusMinutes(args []string, cfg *config.FocusConfig, theme *config.ThemeConfig) (int, bool) {
	if len(args) == 1 {
		return domain.ParseFocusMinutes(args[0]), true
	}

	presets := cfg.GetPresets()
	footer := fmt.Sprintf("Time is split into %d-minute segments.", domain.SegmentSeconds/60)
	result := tui.RunPicker("Focus session", tui.PresetItems(presets), footer, theme)
	if result.Aborted {
		return 0, false
	}
	return domain.NormalizeFocusMinutes(presets[result.Index].Duration.Minutes()), true
}
