package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"corehabit-api/internal/coach"
	"corehabit-api/internal/config"
	"corehabit-api/internal/logging"
	"corehabit-api/internal/nutrition"
	"corehabit-api/internal/profile"
	"corehabit-api/internal/progression"
	"corehabit-api/internal/store"
)

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "corehabit",
	Short: "Nutrition targets and weekly plan progression",
	Long: `corehabit computes starting macro targets from an onboarding profile and
adjusts a stored plan after each weekly check-in using fixed rule tables.

Run without a subcommand to start the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var macrosCmd = &cobra.Command{
	Use:     "macros",
	Short:   "Compute starting macro targets for a profile",
	Example: `  corehabit macros --weight "180 lbs" --age 30 --sex male --height "5'10" --goal "Lose fat"`,
	RunE:    runMacros,
}

var checkInCmd = &cobra.Command{
	Use:     "checkin",
	Short:   "Preview one check-in against a plan file without storing anything",
	Example: `  corehabit checkin --plan plan.json --checkin week3.json`,
	RunE:    runCheckIn,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to YAML config")

	macrosCmd.Flags().String("weight", "", "body weight in pounds, e.g. \"180 lbs\"")
	macrosCmd.Flags().String("age", "", "age in years")
	macrosCmd.Flags().String("sex", "", "male or female")
	macrosCmd.Flags().String("height", "", "height as feet'inches or inches")
	macrosCmd.Flags().String("goal", "", "training goal, e.g. \"Lose fat\" or muscle_gain")

	checkInCmd.Flags().String("plan", "", "plan JSON file")
	checkInCmd.Flags().String("checkin", "", "check-in JSON file")
	_ = checkInCmd.MarkFlagRequired("plan")
	_ = checkInCmd.MarkFlagRequired("checkin")

	rootCmd.AddCommand(serveCmd, macrosCmd, checkInCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := coach.NewService(db, logger)
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newRouter(svc, logger, cfg.Server),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("db", cfg.Store.DatabasePath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMacros(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	weight, _ := flags.GetString("weight")
	age, _ := flags.GetString("age")
	sex, _ := flags.GetString("sex")
	heightText, _ := flags.GetString("height")
	goal, _ := flags.GetString("goal")

	height, err := profile.ParseHeight(heightText)
	if err != nil {
		return err
	}
	p := profile.UserProfile{
		Weight: profile.Quantity(weight),
		Age:    profile.Quantity(age),
		Sex:    profile.ParseSex(sex),
		Height: height,
		Goal:   profile.ParseGoal(goal),
	}

	est, ok := nutrition.Calculate(p)
	if !ok {
		return coach.ErrInsufficientData
	}
	if est.HeightAssumed {
		logger.Warn("no height given, assumed default", zap.Float64("inches", est.HeightInches))
	}
	return printJSON(cmd, MacrosResponse{Targets: est.Targets, Estimate: est})
}

func runCheckIn(cmd *cobra.Command, args []string) error {
	planPath, _ := cmd.Flags().GetString("plan")
	checkInPath, _ := cmd.Flags().GetString("checkin")

	var plan progression.Plan
	if err := readJSON(planPath, &plan); err != nil {
		return err
	}
	var c progression.CheckIn
	if err := readJSON(checkInPath, &c); err != nil {
		return err
	}

	cycle, err := coach.Preview(plan, c)
	if err != nil {
		return err
	}
	return printJSON(cmd, cycle)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
