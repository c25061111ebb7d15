// Command dashauthctl is the operator tool for goSession deployments.
//
//	dashauthctl gen-secret [-bytes 32]
//	dashauthctl hash-password [-memory 65536 -time 3 -parallelism 2] < password
//	dashauthctl issue -user alice [-ttl 12h]
//	dashauthctl verify TOKEN
//	dashauthctl lint
//
// issue, verify and lint read the same environment as dashauthd, including
// an optional .env file.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/internal"
	"github.com/MrEthical07/goSession/password"
	"github.com/joho/godotenv"
)

const usage = `usage: dashauthctl <command> [flags]

commands:
  gen-secret      print a random SESSION_SECRET
  hash-password   read a password from stdin and print a DASH_PASS_HASH
  issue           mint a session token for -user
  verify          check a token and print its username and expiry
  lint            report unsafe settings in the environment configuration
`

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, goSession.ConfigFromEnv))
}

// run returns the process exit code: 0 ok, 1 operation failed, 2 usage.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, loadConfig func() (goSession.Config, error)) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "gen-secret":
		err = genSecret(args[1:], stdout)
	case "hash-password":
		err = hashPassword(args[1:], stdin, stdout)
	case "issue":
		err = issue(args[1:], stdout, loadConfig)
	case "verify":
		err = verify(args[1:], stdout, loadConfig)
	case "lint":
		err = lint(stdout, loadConfig)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue), errors.Is(err, flag.ErrHelp):
		fmt.Fprintf(stderr, "dashauthctl %s: %v\n", args[0], err)
		return 2
	default:
		fmt.Fprintf(stderr, "dashauthctl %s: %v\n", args[0], err)
		return 1
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func genSecret(args []string, stdout io.Writer) error {
	fs := newFlagSet("gen-secret")
	size := fs.Int("bytes", internal.MinSecretSize, "random bytes before encoding")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *size < internal.MinSecretSize || *size > internal.MaxSecretSize {
		return usageError(fmt.Sprintf("-bytes must be within [%d, %d]", internal.MinSecretSize, internal.MaxSecretSize))
	}

	secret, err := internal.NewSecret(*size)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, secret)
	return nil
}

func hashPassword(args []string, stdin io.Reader, stdout io.Writer) error {
	def := password.DefaultParams()
	fs := newFlagSet("hash-password")
	memory := fs.Uint("memory", uint(def.Memory), "argon2id memory in KiB")
	timeCost := fs.Uint("time", uint(def.Time), "argon2id iterations")
	parallelism := fs.Uint("parallelism", uint(def.Parallelism), "argon2id lanes")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *parallelism > 255 {
		return usageError("-parallelism must be <= 255")
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	pass := strings.TrimRight(line, "\r\n")
	if pass == "" {
		return usageError("empty password on stdin")
	}

	params := def
	params.Memory = uint32(*memory)
	params.Time = uint32(*timeCost)
	params.Parallelism = uint8(*parallelism)

	encoded, err := password.Hash(pass, params)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, encoded)
	return nil
}

func issue(args []string, stdout io.Writer, loadConfig func() (goSession.Config, error)) error {
	fs := newFlagSet("issue")
	user := fs.String("user", "", "username to embed in the token")
	ttl := fs.Duration("ttl", 0, "override SESSION_TTL_SECONDS")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *user == "" {
		return usageError("-user is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *ttl > 0 {
		cfg.Session.TTL = *ttl
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	issued, err := engine.Issue(context.Background(), *user)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, issued.Token)
	return nil
}

func verify(args []string, stdout io.Writer, loadConfig func() (goSession.Config, error)) error {
	if len(args) != 1 || args[0] == "" {
		return usageError("exactly one token argument is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	p, err := engine.Verify(context.Background(), strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("%s: %w", goSession.KindOf(err), err)
	}
	fmt.Fprintf(stdout, "user=%s expires=%s\n", p.Username, time.Unix(p.ExpiresAt, 0).UTC().Format(time.RFC3339))
	return nil
}

func lint(stdout io.Writer, loadConfig func() (goSession.Config, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	warnings := cfg.Lint()
	for _, w := range warnings {
		fmt.Fprintf(stdout, "%-5s %-22s %s\n", w.Severity, w.Code, w.Message)
	}
	if len(warnings.BySeverity(goSession.LintHigh)) > 0 {
		return errors.New("high severity findings")
	}
	return nil
}

// buildEngine skips the limiter, audit and metrics; only signing is used.
func buildEngine(cfg goSession.Config) (*goSession.Engine, error) {
	cfg.RateLimit.Enabled = false
	cfg.Audit.Enabled = false
	cfg.Metrics.Enabled = false
	return goSession.New().WithConfig(cfg).Build()
}
