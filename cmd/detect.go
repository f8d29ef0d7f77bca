package cmd

import (
	"fmt"
	"runtime"

	"github.com/cute-omega/video-cut/lib"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Probe ffmpeg hardware capabilities and refresh the cache",
	Long: `Run a fresh hardware detection against the configured ffmpeg build and
print the supported encoder families, acceleration frameworks, and
hardware decoders. The result replaces the cached environment snapshot.`,
	RunE: runDetect,
}

var (
	detectFFmpeg  string
	detectConfig  string
	detectVerbose bool
)

func init() {
	detectCmd.Flags().StringVar(&detectFFmpeg, "ffmpeg", "", "Path to the ffmpeg binary (default from config)")
	detectCmd.Flags().StringVar(&detectConfig, "config", "", "Path to config file")
	detectCmd.Flags().BoolVarP(&detectVerbose, "verbose", "v", false, "Enable verbose logging")
}

func runDetect(cmd *cobra.Command, args []string) error {
	setupLogging(detectVerbose)

	settings, err := lib.LoadSettings(detectConfig)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	ffmpegPath := settings.FFmpegPath
	if detectFFmpeg != "" {
		ffmpegPath = detectFFmpeg
	}
	if !lib.EngineRunnable(ffmpegPath) {
		return fmt.Errorf("ffmpeg not found at %q", ffmpegPath)
	}

	lib.ConfigureEnvironmentCache(lib.EnvironmentCache{Path: settings.CacheFile})
	env := lib.SetEnvironment(ffmpegPath, settings.FFprobePath, nil)

	fmt.Printf("ffmpeg:  %s\n", env.FFmpegPath)
	fmt.Printf("ffprobe: %s\n", orNone(env.FFprobePath))
	fmt.Printf("system:  %s, %d threads\n", cpuModel(), runtime.NumCPU())
	fmt.Println()

	caps := env.Capabilities
	fmt.Println("Hardware encoder families:")
	printSet(caps.EncoderNames())
	fmt.Println("Acceleration frameworks:")
	printSet(caps.HWAccelNames())
	fmt.Println("Hardware decoders:")
	printSet(caps.HWDecoderNames())

	chosen := caps.ChooseEncoder()
	fmt.Printf("\nPreferred encoder: %s\n", chosen.Description())
	return nil
}

func printSet(names []string) {
	if len(names) == 0 {
		fmt.Println("  (none detected)")
		return
	}
	for _, name := range names {
		fmt.Println("  " + name)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(not found)"
	}
	return s
}

func cpuModel() string {
	info, err := cpu.Info()
	if err != nil || len(info) == 0 {
		return "unknown CPU"
	}
	return info[0].ModelName
}
