package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/vitalflow/internal/cli"
	"github.com/julianstephens/vitalflow/internal/config"
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/errors"
	"github.com/julianstephens/vitalflow/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"YAML settings file." type:"path" placeholder:"FILE"`
	Store     string `help:"Data file path (.db or .json) or PostgreSQL connection string. Passwords must NOT be embedded; store them with 'vitalflow keyring set postgres-password'." placeholder:"LOCATION"`
	Ephemeral bool   `help:"Keep everything in memory. Nothing is saved."`
	IDScheme  string `name:"id-scheme" help:"Entry id scheme: sequence or uuid." placeholder:"SCHEME"`
	Timezone  string `help:"IANA timezone used to decide what 'today' is." placeholder:"TZ"`
	Debug     bool   `help:"Enable debug logging."`
	LogLevel  string `help:"Log level: debug, info, warn or error." placeholder:"LEVEL"`

	Init    cli.InitCmd    `cmd:"" help:"Initialize vitalflow storage."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Log     cli.LogCmd     `cmd:"" help:"Log a habit."`
	Day     cli.DayCmd     `cmd:"" help:"Show entries and goal progress for a day."`
	History cli.HistoryCmd `cmd:"" help:"List logged entries, newest first."`
	Status  cli.StatusCmd  `cmd:"" help:"Show points, badges, goals and streaks."`
	Badges  cli.BadgesCmd  `cmd:"" help:"List badges."`
	Profile struct {
		Show      cli.ProfileShowCmd      `cmd:"" help:"Show the profile." default:"1"`
		Set       cli.ProfileSetCmd       `cmd:"" help:"Change name, theme or language."`
		Goal      cli.ProfileGoalCmd      `cmd:"" help:"Set the daily goal of a habit."`
		Upgrade   cli.ProfileUpgradeCmd   `cmd:"" help:"Switch to the premium plan."`
		Downgrade cli.ProfileDowngradeCmd `cmd:"" help:"Switch back to the free plan."`
	} `cmd:"" help:"Manage the user profile."`
	Coach struct {
		Tip    cli.CoachTipCmd    `cmd:"" help:"Get a short tip based on recent activity." default:"1"`
		Weekly cli.CoachWeeklyCmd `cmd:"" help:"Analyse the past seven days."`
		Ask    cli.CoachAskCmd    `cmd:"" help:"Ask the coach a wellness question."`
		Plan   cli.CoachPlanCmd   `cmd:"" help:"Build a personalised plan (premium)."`
	} `cmd:"" help:"Talk to the AI wellness coach."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show keyring availability and stored secrets." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Doctor   cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Mcp      cli.McpCmd    `cmd:"" help:"Serve habit tools over MCP on stdio."`
	DebugCmd cli.DebugCmd  `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with points, badges and an AI wellness coach"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config, config.Flags{
		Store:    CLI.Store,
		IDScheme: CLI.IDScheme,
		Timezone: CLI.Timezone,
		Debug:    CLI.Debug,
		LogLevel: CLI.LogLevel,
	})
	errors.Fatal(err)

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	errors.Fatal(logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.ConfigDir(),
		Level:     level,
	}))
	defer logger.Close()

	appCtx, err := cli.NewContext(cfg, CLI.Ephemeral)
	errors.Fatal(err)
	appCtx.Interactive = isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())

	logger.Debug("Running command", "command", ctx.Command(), "store", appCtx.Store.GetConfigPath())
	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	if err != nil {
		logger.Close()
		errors.Fatal(err)
	}
}
