package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaseenp24/workoutbuddy/internal/app"
	"github.com/yaseenp24/workoutbuddy/internal/config"
	"github.com/yaseenp24/workoutbuddy/internal/mcp"
	"github.com/yaseenp24/workoutbuddy/internal/models"
)

var errNotSignedIn = errors.New("not signed in (run: workoutbuddy login)")

var (
	registerName string

	onboardGoals      string
	onboardSchedule   string
	onboardEquipment  string
	onboardExperience string

	exercisesCategory string

	historyPage    int
	historyPerPage int
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoginCmd,
	}
}

func runLoginCmd(cmd *cobra.Command, args []string) error {
	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		return err
	}
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := requestContext(cmd)
	defer cancel()
	res, err := e.ctrl.Login(ctx, strings.TrimSpace(args[0]), password)
	return report(cmd, res, err)
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE:  runRegisterCmd,
	}
	cmd.Flags().StringVar(&registerName, "name", "", "display name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runRegisterCmd(cmd *cobra.Command, args []string) error {
	password, err := readPassword(cmd, "Choose a password: ")
	if err != nil {
		return err
	}
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := requestContext(cmd)
	defer cancel()
	res, err := e.ctrl.Register(ctx, strings.TrimSpace(registerName), strings.TrimSpace(args[0]), password)
	return report(cmd, res, err)
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.close()
			res, err := e.ctrl.Logout(cmd.Context())
			return report(cmd, res, err)
		},
	}
}

func newOnboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Answer the training questionnaire",
		Args:  cobra.NoArgs,
		RunE:  runOnboardCmd,
	}
	cmd.Flags().StringVar(&onboardGoals, "goals", "", "comma separated goals (e.g. strength,muscle_gain)")
	cmd.Flags().StringVar(&onboardSchedule, "schedule", "", "training days per week (e.g. 3-4 days/week)")
	cmd.Flags().StringVar(&onboardEquipment, "equipment", "", "comma separated equipment")
	cmd.Flags().StringVar(&onboardExperience, "experience", "", "beginner, intermediate or advanced")
	return cmd
}

func runOnboardCmd(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()
	if e.ctrl.State().User() == nil {
		return errNotSignedIn
	}

	answers := models.Onboarding{
		Goals:           splitList(onboardGoals),
		Schedule:        strings.TrimSpace(onboardSchedule),
		Equipment:       splitList(onboardEquipment),
		ExperienceLevel: strings.ToLower(strings.TrimSpace(onboardExperience)),
	}
	res, err := e.ctrl.SubmitOnboarding(cmd.Context(), answers)
	return report(cmd, res, err)
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show workout totals and streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := signedIn(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := requestContext(cmd)
			defer cancel()
			st, res, err := e.ctrl.RefreshDashboard(ctx)
			if err != nil {
				return report(cmd, res, err)
			}
			return printDashboard(cmd.OutOrStdout(), st, res)
		},
	}
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List workout templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := signedIn(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := requestContext(cmd)
			defer cancel()
			list, res, err := e.ctrl.Templates(ctx)
			if err != nil {
				return report(cmd, res, err)
			}
			return printTemplates(cmd.OutOrStdout(), list, res)
		},
	}
}

func newExercisesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List exercises",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := signedIn(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := requestContext(cmd)
			defer cancel()
			list, res, err := e.ctrl.Exercises(ctx, strings.TrimSpace(exercisesCategory))
			if err != nil {
				return report(cmd, res, err)
			}
			return printExercises(cmd.OutOrStdout(), list, res)
		},
	}
	cmd.Flags().StringVar(&exercisesCategory, "category", "", "only list this category (push, pull, legs, core)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed workouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if historyPage < 1 || historyPerPage < 1 {
				return fmt.Errorf("--page and --per-page must be >= 1")
			}
			e, err := signedIn(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := requestContext(cmd)
			defer cancel()
			list, res, err := e.ctrl.History(ctx, historyPage, historyPerPage)
			if err != nil {
				return report(cmd, res, err)
			}
			return printHistory(cmd.OutOrStdout(), list, historyPage, res)
		},
	}
	cmd.Flags().IntVar(&historyPage, "page", 1, "page number")
	cmd.Flags().IntVar(&historyPerPage, "per-page", 10, "workouts per page")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <workout-id>",
		Short: "Show one workout with its sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := signedIn(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := requestContext(cmd)
			defer cancel()
			w, err := e.ctrl.WorkoutDetail(ctx, models.RecordID(strings.TrimSpace(args[0])))
			if err != nil {
				return err
			}
			return printWorkout(cmd.OutOrStdout(), w)
		},
	}
}

func newTipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tips",
		Short: "Show training tips for your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := signedIn(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := requestContext(cmd)
			defer cancel()
			list, res, err := e.ctrl.ProfileTips(ctx)
			if err != nil {
				return report(cmd, res, err)
			}
			return printTips(cmd.OutOrStdout(), list, res)
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve workout data to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()
			if e.ctrl.State().User() == nil {
				return errNotSignedIn
			}
			e.log.Info("mcp server starting", "version", Version)
			return mcp.Serve(mcp.New(e.ctrl, Version, e.log))
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# workoutbuddy configuration
# Uncomment a value to enable it. CLI flags override config values.

# api_base = %q   # Backend API base URL (WORKOUTBUDDY_API_BASE overrides)
# fallback = true    # Keep working on this device when the backend is down
# data_dir = %q
`, config.DefaultAPIBase, config.DefaultDataDir())
}

// signedIn sets up the client and requires a restored session.
func signedIn(cmd *cobra.Command) (*env, error) {
	e, err := setup(cmd, false)
	if err != nil {
		return nil, err
	}
	if e.ctrl.State().User() == nil {
		e.close()
		return nil, errNotSignedIn
	}
	return e, nil
}

// report prints the outcome of a flow and turns failures into errors so the
// command exits non-zero.
func report(cmd *cobra.Command, res app.Result, err error) error {
	if err != nil {
		if res.Message != "" {
			return errors.New(res.Message)
		}
		return err
	}
	if res.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	}
	return nil
}

// readPassword prompts on the terminal without echo, or reads one line from
// piped input.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatRPE(rpe *int) string {
	if rpe == nil {
		return "-"
	}
	return strconv.Itoa(*rpe)
}
