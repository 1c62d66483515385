//go:build mage

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

const (
	serverPkg = "./cmd/server"
	binDir    = "bin"
)

var tools = []string{
	"golang.org/x/tools/cmd/goimports@latest",
	"honnef.co/go/tools/cmd/staticcheck@latest",
	"github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	"github.com/go-delve/delve/cmd/dlv@latest",
	"golang.org/x/vuln/cmd/govulncheck@latest",
}

// run executes a command attached to the terminal. Each extra entry in env
// is a KEY=VALUE pair appended to the inherited environment.
func run(env []string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
	return cmd.Run()
}

func capture(name string, args ...string) string {
	var buf bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout, cmd.Stderr = &buf, &buf
	_ = cmd.Run()
	return strings.TrimSpace(buf.String())
}

func require(bins ...string) error {
	for _, b := range bins {
		if _, err := exec.LookPath(b); err != nil {
			return fmt.Errorf("%s not found; run 'mage tools'", b)
		}
	}
	return nil
}

func raceEnv() ([]string, []string) {
	if os.Getenv("NO_RACE") == "1" {
		return nil, nil
	}
	return []string{"CGO_ENABLED=1"}, []string{"-race"}
}

func dbPath() string {
	_ = godotenv.Load()
	if p := os.Getenv("DB_PATH"); p != "" {
		return p
	}
	return "./propmgmt.db"
}

// Bootstrap downloads modules and installs tooling.
func Bootstrap() error {
	if err := run(nil, "go", "mod", "download", "all"); err != nil {
		return err
	}
	return Tools()
}

// Tools installs the lint, debug and vulnerability tooling.
func Tools() error {
	for _, t := range tools {
		if err := run(nil, "go", "install", t); err != nil {
			return err
		}
	}
	return nil
}

// Build compiles the server into ./bin.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(binDir, "propmgmt")
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	return run(nil, "go", "build", "-trimpath", "-buildvcs=false", "-ldflags", "-s -w", "-o", out, serverPkg)
}

// Run starts the server against the local sqlite list store.
func Run() error {
	return run([]string{"LIST_STORE_BACKEND=sqlite"}, "go", "run", serverPkg)
}

// RunSharePoint starts the server against the SharePoint lists configured in .env.
func RunSharePoint() error {
	return run(nil, "go", "run", serverPkg)
}

// Debug starts the server under a headless delve.
func Debug() error {
	if err := require("dlv"); err != nil {
		return err
	}
	return run([]string{"LIST_STORE_BACKEND=sqlite"}, "dlv", "debug", serverPkg,
		"--headless", "--listen=:2345", "--api-version=2", "--accept-multiclient")
}

// ResetDB deletes the local sqlite list store so the next run starts empty.
func ResetDB() error {
	p := dbPath()
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(p + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	fmt.Println("removed", p)
	return nil
}

// Token mints a development bearer token. Set TOKEN_UPN to choose the caller
// and TOKEN_GROUPS to a comma separated group list.
func Token() error {
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "propmgmt"
	}
	upn := os.Getenv("TOKEN_UPN")
	if upn == "" {
		upn = "dev@localhost"
	}

	claims := jwt.MapClaims{
		"iss": issuer,
		"sub": upn,
		"upn": upn,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(8 * time.Hour).Unix(),
	}
	if g := os.Getenv("TOKEN_GROUPS"); g != "" {
		claims["groups"] = strings.Split(g, ",")
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}

// Test runs the unit tests, with the race detector unless NO_RACE=1.
func Test() error {
	env, flags := raceEnv()
	return run(env, "go", append(append([]string{"test"}, flags...), "./...")...)
}

// Cover writes coverage.out and coverage.html.
func Cover() error {
	env, flags := raceEnv()
	args := append(append([]string{"test"}, flags...), "-coverprofile=coverage.out", "./...")
	if err := run(env, "go", args...); err != nil {
		return err
	}
	return run(nil, "go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Lint runs go vet, staticcheck and golangci-lint.
func Lint() error {
	if err := require("staticcheck", "golangci-lint"); err != nil {
		return err
	}
	for _, c := range [][]string{{"go", "vet", "./..."}, {"staticcheck", "./..."}, {"golangci-lint", "run"}} {
		if err := run(nil, c[0], c[1:]...); err != nil {
			return err
		}
	}
	return nil
}

// Vuln checks dependencies for known vulnerabilities.
func Vuln() error {
	if err := require("govulncheck"); err != nil {
		return err
	}
	return run(nil, "govulncheck", "./...")
}

// Fmt rewrites sources with gofmt and goimports.
func Fmt() error {
	if err := run(nil, "go", "fmt", "./..."); err != nil {
		return err
	}
	return run(nil, "goimports", "-w", ".")
}

// FmtCheck fails when any file needs formatting.
func FmtCheck() error {
	var problems []string
	if l := capture("gofmt", "-l", "."); l != "" {
		problems = append(problems, "gofmt:\n"+l)
	}
	if l := capture("goimports", "-l", "."); l != "" {
		problems = append(problems, "goimports:\n"+l)
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "\n"))
	}
	return nil
}

// TidyCheck fails when go mod tidy changes go.mod or go.sum.
func TidyCheck() error {
	before := capture("git", "status", "--porcelain", "--", "go.mod", "go.sum")
	if err := run(nil, "go", "mod", "tidy"); err != nil {
		return err
	}
	if after := capture("git", "status", "--porcelain", "--", "go.mod", "go.sum"); after != before {
		return fmt.Errorf("go.mod/go.sum not tidy:\n%s", capture("git", "--no-pager", "diff", "--", "go.mod", "go.sum"))
	}
	return nil
}

// Clean removes build output and coverage files.
func Clean() error {
	for _, p := range []string{binDir, "coverage.out", "coverage.html"} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return nil
}

// Verify runs every check and the tests.
func Verify() error {
	for _, step := range []func() error{FmtCheck, TidyCheck, Lint, Vuln, Build, Test} {
		if err := step(); err != nil {
			return err
		}
	}
	fmt.Println("verify: ok")
	return nil
}
