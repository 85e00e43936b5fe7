package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studysprint/internal/bootstrap"
	storedto "studysprint/internal/modules/store/dto"
	"studysprint/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "studysprint",
		Short:         "Focus timer with reflections, achievements and statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", config.DefaultDataDir(), "directory holding state, stats database and logs")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newServeCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newTagCmd(&dataDir))
	root.AddCommand(newSettingsCmd(&dataDir))
	root.AddCommand(newProfileCmd(&dataDir))
	root.AddCommand(newAchievementsCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	return root
}

// withApp wires the app, runs fn and flushes state before returning.
func withApp(dataDir string, fn func(app *bootstrap.App) error, logOut ...io.Writer) (err error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(context.Background(), cfg, logOut...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()
	return fn(app)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal timer",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(*dataDir, bootstrap.RunTUI)
		},
	}
}

func newServeCmd(dataDir *string) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(*dataDir, func(app *bootstrap.App) error {
				listen := addr
				if listen == "" {
					listen = app.Config.HTTPAddr
				}
				return bootstrap.Serve(ctx, app, listen)
			}, cmd.OutOrStdout())
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (default from config.yaml or "+config.DefaultHTTP+")")
	return serve
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Recorded study sessions"}

	var tagID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				sessions, err := app.StoreCLI.ListSessions(cmd.Context(), tagID)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tfocus=%dm\tbreak=%dm\t%s\n",
						s.ID, s.StartedAt.Local().Format(time.DateTime), s.TagName,
						s.FocusDurationSec/60, s.BreakDurationSec/60, reflection(s.ReflectionFocused))
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&tagID, "tag", "", "only sessions of this tag id")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all session history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.StoreCLI.ClearSessions(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d sessions\n", out.Removed)
				return nil
			})
		},
	}

	var dir string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write one markdown note per session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.StoreCLI.ExportNotes(cmd.Context(), dir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\n", out.Written, out.Dir)
				return nil
			})
		},
	}
	export.Flags().StringVar(&dir, "dir", "", "target directory (default from config)")

	session.AddCommand(list, clearCmd, export)
	return session
}

func newTagCmd(dataDir *string) *cobra.Command {
	tag := &cobra.Command{Use: "tag", Short: "Manage subjects"}

	tag.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				tags, err := app.StoreCLI.ListTags(cmd.Context())
				if err != nil {
					return err
				}
				for _, t := range tags {
					mark := " "
					if t.IsDefault {
						mark = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\tfocus=%s\tbreak=%s\tsessions=%d\n",
						mark, t.ID, t.Name, minutes(t.PreferredFocusSec), minutes(t.PreferredBreakSec), t.SessionCount)
				}
				return nil
			})
		},
	})

	var icon, color string
	var focusMin, breakMin int
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.StoreCLI.AddTag(cmd.Context(), strings.Join(args, " "), icon, color,
					minutesFlag(cmd, "focus", focusMin), minutesFlag(cmd, "break", breakMin))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", out.Name, out.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&icon, "icon", "", "icon name")
	add.Flags().StringVar(&color, "color", "", "hex colour without #")
	add.Flags().IntVar(&focusMin, "focus", 0, "preferred focus minutes")
	add.Flags().IntVar(&breakMin, "break", 0, "preferred break minutes")

	durations := &cobra.Command{
		Use:   "durations <tag-id>",
		Short: "Set or clear (omit the flag) the preferred durations of a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.StoreCLI.SetTagDurations(cmd.Context(), args[0],
					minutesFlag(cmd, "focus", focusMin), minutesFlag(cmd, "break", breakMin))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s focus=%s break=%s\n",
					out.Name, minutes(out.PreferredFocusSec), minutes(out.PreferredBreakSec))
				return nil
			})
		},
	}
	durations.Flags().IntVar(&focusMin, "focus", 0, "preferred focus minutes")
	durations.Flags().IntVar(&breakMin, "break", 0, "preferred break minutes")

	tag.AddCommand(add, durations,
		&cobra.Command{
			Use:   "delete <tag-id>",
			Short: "Delete a tag; its sessions stay in history",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(*dataDir, func(app *bootstrap.App) error {
					if err := app.StoreCLI.DeleteTag(cmd.Context(), args[0]); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "default <tag-id>",
			Short: "Make a tag the default",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(*dataDir, func(app *bootstrap.App) error {
					out, err := app.StoreCLI.SetDefaultTag(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "default tag: %s\n", out.Name)
					return nil
				})
			},
		},
	)
	return tag
}

func newSettingsCmd(dataDir *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "App settings"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.StoreCLI.Settings(cmd.Context())
				if err != nil {
					return err
				}
				printSettings(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	var focusMin, breakMin int
	var theme, language string
	var textScale float64
	set := &cobra.Command{
		Use:   "set",
		Short: "Update settings; only given flags change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := storedto.UpdateSettingsInput{
				DefaultFocusSec: minutesFlag(cmd, "focus", focusMin),
				DefaultBreakSec: minutesFlag(cmd, "break", breakMin),
			}
			if cmd.Flags().Changed("theme") {
				in.Theme = &theme
			}
			if cmd.Flags().Changed("language") {
				in.LanguageCode = &language
			}
			if cmd.Flags().Changed("text-scale") {
				in.TextScale = &textScale
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.StoreCLI.UpdateSettings(cmd.Context(), in)
				if err != nil {
					return err
				}
				printSettings(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	set.Flags().IntVar(&focusMin, "focus", 0, "default focus minutes")
	set.Flags().IntVar(&breakMin, "break", 0, "default break minutes")
	set.Flags().StringVar(&theme, "theme", "", "light|dark")
	set.Flags().StringVar(&language, "language", "", "language code")
	set.Flags().Float64Var(&textScale, "text-scale", 0, "text scale 0.5-3")
	settings.AddCommand(set)
	return settings
}

func newProfileCmd(dataDir *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "User profile"}

	var name, avatar string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update name or avatar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var namePtr, avatarPtr *string
			if cmd.Flags().Changed("name") {
				namePtr = &name
			}
			if cmd.Flags().Changed("avatar") {
				avatarPtr = &avatar
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.StoreCLI.UpdateProfile(cmd.Context(), namePtr, avatarPtr)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "name: %s\navatar: %s\n", out.Name, out.Avatar)
				return nil
			})
		},
	}
	set.Flags().StringVar(&name, "name", "", "display name")
	set.Flags().StringVar(&avatar, "avatar", "", "avatar symbol")
	profile.AddCommand(set)
	return profile
}

func newAchievementsCmd(dataDir *string) *cobra.Command {
	achievements := &cobra.Command{Use: "achievements", Short: "Badge progress"}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "Show progress for every badge",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.AchievementCLI.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unlocked %d/%d\n", out.Unlocked, out.Total)
				for _, a := range out.Items {
					mark := " "
					if a.Unlocked {
						mark = "x"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %-24s %d/%d\n", mark, a.Title, a.Current, a.Target)
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Evaluate and record newly earned badges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.AchievementCLI.Refresh(cmd.Context())
				if err != nil {
					return err
				}
				newly := 0
				for _, a := range out.Items {
					if a.NewlyUnlocked {
						newly++
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unlocked: %s\n", a.Title)
					}
				}
				if newly == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no new badges")
				}
				return nil
			})
		},
	}
	achievements.AddCommand(list, refresh)
	return achievements
}

func newStatsCmd(dataDir *string) *cobra.Command {
	var tagID string
	var asJSON bool
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Session totals, focus rate and the last seven days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.StatsCLI.Summary(cmd.Context(), tagID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "sessions: %d\nfocus: %d min\nfocus rate: %d%%\n", out.TotalSessions, out.FocusMinutes, out.FocusRate)
				_, _ = fmt.Fprintln(w, "last 7 days:")
				for _, d := range out.LastSevenDays {
					_, _ = fmt.Fprintf(w, "  %s %s %s\n", d.Day, d.Label, strings.Repeat("#", d.Count))
				}
				for _, t := range out.Tags {
					_, _ = fmt.Fprintf(w, "  %-20s %d sessions %d min\n", t.Name, t.Sessions, t.FocusMinutes)
				}
				return nil
			})
		},
	}
	stats.Flags().StringVar(&tagID, "tag", "", "restrict to one tag id")
	stats.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return stats
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// minutesFlag converts a minutes flag to seconds, nil when the flag was not
// given.
func minutesFlag(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	sec := value * 60
	return &sec
}

func minutes(sec *int) string {
	if sec == nil {
		return "-"
	}
	return fmt.Sprintf("%dm", *sec/60)
}

func reflection(focused *bool) string {
	switch {
	case focused == nil:
		return "unanswered"
	case *focused:
		return "focused"
	default:
		return "distracted"
	}
}

func printSettings(w io.Writer, s storedto.SettingsOutput) {
	_, _ = fmt.Fprintf(w, "focus: %dm\nbreak: %dm\ntheme: %s\nlanguage: %s\ntext scale: %.2f\n",
		s.DefaultFocusSec/60, s.DefaultBreakSec/60, s.Theme, s.LanguageCode, s.TextScale)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
