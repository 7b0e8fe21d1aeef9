//go:build mage

// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/magefile/mage/mg" // mg contains helpful utility functions, like Deps
	"github.com/magefile/mage/sh"
)

const (
	binaryName  = "pvcombo"
	packageName = "."
	modulePath  = "github.com/penny-vault/pvcombo"

	coverProfile = "coverage.out"
	coverHTML    = "coverage.html"
)

var ldflags = "-X " + modulePath + "/common.commitHash=$COMMIT_HASH -X " + modulePath + "/common.buildDate=$BUILD_DATE"

// allow user to override go executable by running as GOEXE=xxx mage ... on unix-like systems
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

// Build the pvcombo binary in the current directory
func Build() error {
	fmt.Println("Building pvcombo...")
	return runWith(flagEnv(), goexe, "build", "-o", binaryName, "-ldflags", ldflags, buildFlags(), tagFlags(), "-v", packageName)
}

// Install pvcombo into GOBIN
func Install() error {
	return runWith(flagEnv(), goexe, "install", "-ldflags", ldflags, buildFlags(), tagFlags(), packageName)
}

// Uninstall removes pvcombo from GOBIN
func Uninstall() error {
	return sh.Run(goexe, "clean", "-i", packageName)
}

// Tidy prunes and verifies go.mod
func Tidy() error {
	if err := sh.Run(goexe, "mod", "tidy"); err != nil {
		return err
	}
	return sh.Run(goexe, "mod", "verify")
}

// Clean removes the binary and coverage reports
func Clean() {
	fmt.Println("Cleaning...")
	for _, fn := range []string{binaryName, coverProfile, coverHTML} {
		os.RemoveAll(fn)
	}
}

// Check runs the formatter, vet and the race enabled test suite
func Check() {
	mg.Deps(Fmt, Vet)

	// the race detector already saturates the CPUs so the tests run after the linters
	mg.Deps(TestRace)
}

// Test runs the ginkgo suites of every package
func Test() error {
	fmt.Println("Go Test")
	return runCmd(nil, goexe, "test", "./...", buildFlags(), tagFlags())
}

// TestRace runs the test suites with the race detector; the rolling optimizer evaluates
// windows concurrently
func TestRace() error {
	fmt.Println("Go Test Race")
	return runCmd(nil, goexe, "test", "-race", "./...", buildFlags(), tagFlags())
}

// Fmt fails if any package file is not gofmt'ed
func Fmt() error {
	fmt.Println("Go Format")

	pkgs, err := modulePackages()
	if err != nil {
		return err
	}

	// gofmt recurses into directories so each package's files are named explicitly
	files := []string{"-l"}
	for _, pkg := range pkgs {
		matches, err := filepath.Glob(filepath.Join(pkg, "*.go"))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}

	// gofmt exits 0 even when files need formatting so the listing is the result
	out, err := sh.Output("gofmt", files...)
	if err != nil {
		return fmt.Errorf("running gofmt: %w", err)
	}

	if out != "" {
		fmt.Println("The following files are not gofmt'ed:")
		fmt.Println(out)
		return errors.New("improperly formatted go files")
	}
	return nil
}

// Lint prints golint findings without failing the build
func Lint() error {
	fmt.Println("Go Lint")

	pkgs, err := modulePackages()
	if err != nil {
		return err
	}

	failed := false
	for _, pkg := range pkgs {
		if _, err := sh.Exec(nil, os.Stderr, nil, "golint", pkg); err != nil {
			fmt.Printf("ERROR: running golint on %q: %v\n", pkg, err)
			failed = true
		}
	}
	if failed {
		return errors.New("errors running golint")
	}
	return nil
}

// Vet runs go vet over the module
func Vet() error {
	fmt.Println("Go Vet")

	if err := runWith(nil, goexe, "vet", tagFlags(), "./..."); err != nil {
		return fmt.Errorf("error running go vet: %w", err)
	}
	return nil
}

// Cover writes a module wide coverage profile and renders it as HTML
func Cover() error {
	fmt.Println("Generate Test Coverage HTML")

	if err := runCmd(nil, goexe, "test", "-coverpkg=./...", "-coverprofile="+coverProfile, "-covermode=count", "./...", tagFlags()); err != nil {
		return err
	}
	return sh.Run(goexe, "tool", "cover", "-html="+coverProfile, "-o", coverHTML)
}

// Helpers

func buildFlags() []string {
	if runtime.GOOS == "windows" {
		return []string{"-buildmode", "exe"}
	}
	return nil
}

// tagFlags passes the comma separated PVCOMBO_BUILD_TAGS to the go tool
func tagFlags() []string {
	tags := strings.TrimSpace(os.Getenv("PVCOMBO_BUILD_TAGS"))
	if tags == "" {
		return nil
	}
	return []string{"-tags", tags}
}

func flagEnv() map[string]string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().UTC().Format(time.RFC3339),
	}
}

func runCmd(env map[string]string, cmd string, args ...interface{}) error {
	if mg.Verbose() {
		return runWith(env, cmd, args...)
	}
	output, err := sh.OutputWith(env, cmd, argsToStrings(args...)...)
	if err != nil {
		fmt.Fprint(os.Stderr, output)
	}

	return err
}

func runWith(env map[string]string, cmd string, inArgs ...interface{}) error {
	return sh.RunWith(env, cmd, argsToStrings(inArgs...)...)
}

var (
	pkgs     []string
	pkgsInit sync.Once
)

// modulePackages lists the package directories of the module relative to its root
func modulePackages() ([]string, error) {
	var err error
	pkgsInit.Do(func() {
		var s string
		s, err = sh.Output(goexe, "list", "-f", "{{.Dir}}", "./...")
		if err != nil {
			return
		}

		var wd string
		if wd, err = os.Getwd(); err != nil {
			return
		}

		for _, dir := range strings.Split(strings.TrimSpace(s), "\n") {
			pkgs = append(pkgs, "."+strings.TrimPrefix(dir, wd))
		}
	})
	return pkgs, err
}

func argsToStrings(v ...interface{}) []string {
	var args []string
	for _, arg := range v {
		switch v := arg.(type) {
		case string:
			if v != "" {
				args = append(args, v)
			}
		case []string:
			args = append(args, v...)
		default:
			panic(fmt.Sprintf("unsupported argument type %T", arg))
		}
	}

	return args
}
