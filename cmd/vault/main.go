// Command vault is a local password vault: credential storage, an activity
// log, and a password generator over an encrypted data directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"securevault/internal/config"
	"securevault/internal/crypto/vaultcrypto"
	"securevault/internal/model"
	"securevault/internal/repository/localstore"
	"securevault/internal/service"
	"securevault/internal/storage"
	"securevault/internal/strength"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app bundles the wired services behind the subcommand switch.
type app struct {
	auth      service.AuthService
	vault     service.VaultService
	activity  service.ActivityService
	generator service.GeneratorService
	settings  service.SettingsService
	dashboard service.DashboardService
}

func usage() {
	fmt.Fprintf(os.Stderr, `vault CLI
Usage:
  vault <cmd> [args]

Commands:
  version
  register   -email <email> -p <password> -confirm <password>
  login      -email <email> -p <password>
  logout
  forgot     -email <email>
  whoami
  add        -site <name> -user <name> -p <password> -category <cat> [-notes <text>]
  edit       -id <id> -site <name> -user <name> -p <password> -category <cat> [-notes <text>]
  rm         -id <id>
  list
  search     [-q <term>] [-category <cat>]
  generate   [-length <n>] [-upper] [-lower] [-digits] [-symbols]
             [-no-similar] [-no-ambiguous] [-preset <name>]
  presets
  activity   [-q <term>] [-action <a>] [-window hour|day|week|month]
  stats
  dashboard
  settings   [-auto-lock <bool>] [-timeout <minutes>] [-history <bool>]
             [-breach <bool>] [-notify <bool>]
  export     [-o <file>]
  import     -file <backup> ('-' = stdin)

Environment: SECUREVAULT_DATA_DIR, SECUREVAULT_ENCRYPT, SECUREVAULT_AUTH_LATENCY
`)
	os.Exit(2)
}

// main loads config, wires storage and services, and dispatches the subcommand.
func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	if cmd == "version" {
		fmt.Printf("vault %s (%s)\n", version, buildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := wire(cfg, logger)
	if err != nil {
		fail(err)
	}

	switch cmd {

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		p := fs.String("p", "", "password")
		confirm := fs.String("confirm", "", "password confirmation")
		_ = fs.Parse(args)

		u, err := a.auth.Register(ctx, *email, *p, *confirm)
		if err != nil {
			fail(err)
		}
		printJSON(u)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}

		u, err := a.auth.Login(ctx, *email, *p)
		if err != nil {
			fail(err)
		}
		fmt.Printf("logged in as %s\n", u.Email)

	case "logout":
		if err := a.auth.Logout(ctx); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "forgot":
		fs := flag.NewFlagSet("forgot", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		_ = fs.Parse(args)
		if *email == "" {
			fmt.Fprintln(os.Stderr, "need -email")
			os.Exit(1)
		}

		if err := a.auth.ForgotPassword(ctx, *email); err != nil {
			fail(err)
		}
		fmt.Println("reset instructions sent (simulated)")

	case "whoami":
		u, err := a.auth.Current(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(u)

	case "add":
		requireSession(ctx, a)
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		site := fs.String("site", "", "site name")
		user := fs.String("user", "", "username")
		p := fs.String("p", "", "password")
		category := fs.String("category", "", "category")
		notes := fs.String("notes", "", "notes")
		_ = fs.Parse(args)

		creds, err := a.vault.Upsert(ctx, model.Credential{
			SiteName: *site, Username: *user, Password: *p,
			Category: *category, Notes: *notes,
		}, false)
		if err != nil {
			fail(err)
		}
		added := creds[len(creds)-1]
		fmt.Printf("added %s (id=%s, strength=%s)\n",
			added.SiteName, added.ID, strength.Label(added.Password))

	case "edit":
		requireSession(ctx, a)
		fs := flag.NewFlagSet("edit", flag.ExitOnError)
		id := fs.String("id", "", "credential id")
		site := fs.String("site", "", "site name")
		user := fs.String("user", "", "username")
		p := fs.String("p", "", "password")
		category := fs.String("category", "", "category")
		notes := fs.String("notes", "", "notes")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		if _, err := a.vault.Upsert(ctx, model.Credential{
			ID: *id, SiteName: *site, Username: *user, Password: *p,
			Category: *category, Notes: *notes,
		}, true); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "rm":
		requireSession(ctx, a)
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.String("id", "", "credential id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		creds, err := a.vault.Remove(ctx, *id)
		if err != nil {
			fail(err)
		}
		fmt.Printf("ok (%d credentials remain)\n", len(creds))

	case "list":
		requireSession(ctx, a)
		creds, err := a.vault.List(ctx)
		if err != nil {
			fail(err)
		}
		printCredentials(creds)

	case "search":
		requireSession(ctx, a)
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		q := fs.String("q", "", "search term")
		category := fs.String("category", "all", "category filter")
		_ = fs.Parse(args)

		creds, err := a.vault.Search(ctx, *q, *category)
		if err != nil {
			fail(err)
		}
		printCredentials(creds)

	case "generate":
		fs := flag.NewFlagSet("generate", flag.ExitOnError)
		length := fs.Int("length", 16, "password length")
		upper := fs.Bool("upper", true, "include uppercase")
		lower := fs.Bool("lower", true, "include lowercase")
		digits := fs.Bool("digits", true, "include digits")
		symbols := fs.Bool("symbols", true, "include symbols")
		noSimilar := fs.Bool("no-similar", false, "exclude similar characters (il1Lo0O)")
		noAmbiguous := fs.Bool("no-ambiguous", false, "exclude ambiguous punctuation")
		preset := fs.String("preset", "", "apply a named preset instead of flags")
		_ = fs.Parse(args)

		opts := model.GeneratorOptions{
			Uppercase: *upper, Lowercase: *lower, Numbers: *digits, Symbols: *symbols,
			ExcludeSimilar: *noSimilar, ExcludeAmbiguous: *noAmbiguous,
		}
		n := *length
		if *preset != "" {
			p, ok := findPreset(a.generator.Presets(), *preset)
			if !ok {
				fmt.Fprintf(os.Stderr, "unknown preset %q\n", *preset)
				os.Exit(1)
			}
			n, opts = p.Length, p.Options
		}

		pw, err := a.generator.Generate(ctx, n, opts)
		if err != nil {
			fail(err)
		}
		fmt.Println(pw)
		fmt.Fprintf(os.Stderr, "strength: %s (%d%%)\n", strength.Label(pw), strength.Percent(pw))

	case "presets":
		printJSON(a.generator.Presets())

	case "activity":
		requireSession(ctx, a)
		fs := flag.NewFlagSet("activity", flag.ExitOnError)
		q := fs.String("q", "", "search term")
		action := fs.String("action", "all", "action filter")
		window := fs.String("window", "", "recency window (hour|day|week|month)")
		_ = fs.Parse(args)

		acts, err := a.activity.List(ctx, service.ActivityFilter{
			Search: *q, Action: *action, Window: *window,
		})
		if err != nil {
			fail(err)
		}
		for _, e := range acts {
			fmt.Printf("%-12s %-20s %s\n", service.FormatRelative(e.Timestamp), e.Action, e.Details)
		}

	case "stats":
		requireSession(ctx, a)
		st, err := a.activity.Stats(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(st)

	case "dashboard":
		requireSession(ctx, a)
		st, err := a.dashboard.Stats(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(st)

	case "settings":
		requireSession(ctx, a)
		cur, err := a.settings.Get(ctx)
		if err != nil {
			fail(err)
		}
		fs := flag.NewFlagSet("settings", flag.ExitOnError)
		autoLock := fs.Bool("auto-lock", cur.AutoLockEnabled, "auto-lock the session")
		timeout := fs.Int("timeout", cur.SessionTimeout, "session timeout (minutes)")
		history := fs.Bool("history", cur.PasswordHistory, "keep password history")
		breach := fs.Bool("breach", cur.BreachMonitoring, "breach monitoring")
		notify := fs.Bool("notify", cur.SecurityNotifications, "security notifications")
		_ = fs.Parse(args)

		next := model.Settings{
			AutoLockEnabled:       *autoLock,
			SessionTimeout:        *timeout,
			PasswordHistory:       *history,
			BreachMonitoring:      *breach,
			SecurityNotifications: *notify,
		}
		if next != cur {
			if err := a.settings.Save(ctx, next); err != nil {
				fail(err)
			}
		}
		printJSON(next)

	case "export":
		requireSession(ctx, a)
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		out := fs.String("o", service.BackupFileName, "output file ('-' = stdout)")
		_ = fs.Parse(args)

		data, err := a.settings.Export(ctx)
		if err != nil {
			fail(err)
		}
		if *out == "-" {
			_, _ = os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(*out, data, 0o600); err != nil {
			fail(err)
		}
		fmt.Printf("exported to %s\n", *out)

	case "import":
		requireSession(ctx, a)
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		file := fs.String("file", "", "backup file ('-' = stdin)")
		_ = fs.Parse(args)
		if *file == "" {
			fmt.Fprintln(os.Stderr, "need -file")
			os.Exit(1)
		}

		data, err := readAll(*file)
		if err != nil {
			fail(err)
		}
		if err := a.settings.Import(ctx, data); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}

// wire builds the repository and service graph over the configured data dir.
func wire(cfg *config.Config, logger *zap.Logger) (*app, error) {
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	var box localstore.Cipher = localstore.PlainCipher{}
	if cfg.Encrypt {
		key, err := vaultcrypto.LoadOrCreateKey(cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		if box, err = vaultcrypto.NewBox(key); err != nil {
			return nil, err
		}
	}

	signKey, err := vaultcrypto.LoadOrCreateKey(filepath.Join(cfg.DataDir, "session.key"))
	if err != nil {
		return nil, err
	}

	credRepo := localstore.NewCredentialRepo(store, box)
	userRepo := localstore.NewUserRepo(store, logger)
	sessionRepo := localstore.NewSessionRepo(store)
	activityRepo := localstore.NewActivityRepo(store)
	settingsRepo := localstore.NewSettingsRepo(store)

	ua := fmt.Sprintf("vault/%s (%s; %s/%s)", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	activitySvc := service.NewActivityService(activityRepo, ua)

	return &app{
		auth: service.NewAuthService(userRepo, sessionRepo, settingsRepo,
			activitySvc, signKey, cfg.AuthLatency, logger),
		vault:     service.NewVaultService(credRepo, activitySvc, logger),
		activity:  activitySvc,
		generator: service.NewGeneratorService(activitySvc, logger),
		settings:  service.NewSettingsService(settingsRepo, credRepo),
		dashboard: service.NewDashboardService(credRepo, activityRepo),
	}, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	zc := zap.NewProductionConfig()
	if cfg.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zc.Level = lvl
	}
	logger, err := zc.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// requireSession refuses vault commands without an active, unexpired session.
func requireSession(ctx context.Context, a *app) {
	if _, err := a.auth.Current(ctx); err != nil {
		fail(fmt.Errorf("login required: %w", err))
	}
}

// ---- helpers ----

func printCredentials(creds []model.Credential) {
	type row struct {
		ID       string `json:"id"`
		SiteName string `json:"siteName"`
		Username string `json:"username"`
		Category string `json:"category"`
		Strength string `json:"strength"`
	}
	rows := make([]row, 0, len(creds))
	for _, c := range creds {
		rows = append(rows, row{
			ID:       c.ID,
			SiteName: c.SiteName,
			Username: c.Username,
			Category: c.Category,
			Strength: strength.Label(c.Password),
		})
	}
	printJSON(rows)
}

func findPreset(presets []model.Preset, name string) (model.Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return model.Preset{}, false
}

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
