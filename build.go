//go:build ignore

// build.go - MovieWeek build system
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	module  = "movieweek"
	binary  = "movieweek"
	distDir = "dist"
)

var (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

// releaseTargets are the GOOS/GOARCH pairs built by the release target
var releaseTargets = [][2]string{
	{"linux", "amd64"},
	{"linux", "arm64"},
	{"darwin", "arm64"},
	{"windows", "amd64"},
}

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	fmt.Println(colorCyan + "=== MovieWeek - Build System ===" + colorReset)

	startTime := time.Now()

	var err error
	switch *target {
	case "build":
		err = buildBinary("", "", *verbose)
	case "test":
		err = run(*verbose, "go", "test", "-race", "./...")
	case "clean":
		err = os.RemoveAll(distDir)
	case "release":
		for _, t := range releaseTargets {
			if err = buildBinary(t[0], t[1], *verbose); err != nil {
				break
			}
		}
	default:
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

// buildBinary compiles cmd/movieweek. Empty goos/goarch build for the host.
func buildBinary(goos, goarch string, verbose bool) error {
	name := binary
	if goos != "" {
		name = fmt.Sprintf("%s-%s-%s", binary, goos, goarch)
	}
	if goos == "windows" {
		name += ".exe"
	}
	outputPath := filepath.Join(distDir, name)

	printInfo(fmt.Sprintf("Building %s...", name))

	ldflags := fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().UTC().Format(time.RFC3339), module, gitCommit())

	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/movieweek")
	cmd.Env = os.Environ()
	if goos != "" {
		cmd.Env = append(cmd.Env, "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	}
	if verbose {
		fmt.Printf("Running: %s\n", strings.Join(cmd.Args, " "))
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", name, float64(info.Size())/1024/1024))
	}
	return nil
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func run(verbose bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if verbose {
		fmt.Printf("Running: %s %s\n", name, strings.Join(args, " "))
	}
	return cmd.Run()
}

func showHelp() {
	fmt.Println("Usage: go run build.go -target=TARGET [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  build    Build dist/movieweek for the host platform")
	fmt.Println("  test     Run all tests with the race detector")
	fmt.Println("  clean    Remove the dist directory")
	fmt.Println("  release  Cross-compile release binaries into dist/")
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}
