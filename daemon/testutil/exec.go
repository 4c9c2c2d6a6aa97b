package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/check.v1"
)

// MockCmd is a bash script standing in for a lookup backend.
type MockCmd struct {
	exeFile string
	logFile string
}

// The script first records its arguments: \0 separates arguments and
// \0\0 separates invocations, so arguments may contain newlines.
var scriptTpl = `#!/bin/bash
printf "%%s" "$(basename "$0")" >> %[1]q
printf '\0' >> %[1]q

for arg in "$@"; do
     printf "%%s" "$arg" >> %[1]q
     printf '\0'  >> %[1]q
done

printf '\0' >> %[1]q
%s
`

// MockCommand writes an executable named basename into a fresh test
// directory. Every invocation is logged; script then runs as the body
// and decides the output and exit code. An empty script prints nothing
// and exits successfully.
func MockCommand(c *check.C, basename, script string) *MockCmd {
	binDir := c.MkDir()
	exeFile := filepath.Join(binDir, basename)
	logFile := exeFile + ".log"

	var wholeScript bytes.Buffer
	fmt.Fprintf(&wholeScript, scriptTpl, logFile, script)
	err := os.WriteFile(exeFile, wholeScript.Bytes(), 0700)
	c.Assert(err, check.IsNil)

	return &MockCmd{exeFile: exeFile, logFile: logFile}
}

// Exe returns the full path of the mock binary.
func (cmd *MockCmd) Exe() string {
	return cmd.exeFile
}

// Calls returns every invocation made so far, each as
// []string{"cmd", "arg1", "arg2", ...}.
func (cmd *MockCmd) Calls() [][]string {
	raw, err := os.ReadFile(cmd.logFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		panic(err)
	}

	logContent := strings.TrimSuffix(string(raw), "\000")

	allCalls := [][]string{}
	for _, call := range strings.Split(logContent, "\000\000") {
		call = strings.TrimSuffix(call, "\000")
		allCalls = append(allCalls, strings.Split(call, "\000"))
	}
	return allCalls
}

// ForgetCalls purges the list of calls made so far.
func (cmd *MockCmd) ForgetCalls() {
	if err := os.Remove(cmd.logFile); err != nil && !os.IsNotExist(err) {
		panic(err)
	}
}

// WriteConfig writes content to name inside a fresh test directory and
// returns its path.
func WriteConfig(c *check.C, name, content string) string {
	path := filepath.Join(c.MkDir(), name)
	err := os.WriteFile(path, []byte(content), 0600)
	c.Assert(err, check.IsNil)
	return path
}
