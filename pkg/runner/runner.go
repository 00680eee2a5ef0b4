// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	utilexec "k8s.io/utils/exec"
)

// Runner invokes one external CLI with a fixed set of global arguments.
// Arguments are passed as a vector; nothing is interpreted by a shell.
type Runner struct {
	exec       utilexec.Interface
	binary     string
	globalArgs []string
}

// New returns a Runner for binary. globalArgs are appended to every invocation.
func New(e utilexec.Interface, binary string, globalArgs ...string) *Runner {
	if e == nil {
		e = utilexec.New()
	}
	return &Runner{
		exec:       e,
		binary:     binary,
		globalArgs: globalArgs,
	}
}

// Binary returns the executable name or path this runner invokes.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes the binary with args followed by the global arguments and
// returns combined stdout and stderr. Output is returned even on failure so
// callers can keep what the tool printed.
func (r *Runner) Run(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+len(r.globalArgs))
	full = append(full, args...)
	full = append(full, r.globalArgs...)

	slog.Debug("running query", "binary", r.binary, "args", full)

	out, err := r.exec.CommandContext(ctx, r.binary, full...).CombinedOutput()
	if err != nil {
		return out, newQueryError(ctx, r.binary, args, out, err)
	}
	return out, nil
}

// QueryError describes a failed invocation.
type QueryError struct {
	// Tool is the binary that was run.
	Tool string
	// Args are the command arguments without the connection flags.
	Args []string
	// ExitCode is the process exit status, or -1 when the process did not exit normally.
	ExitCode int
	// Output is the combined output captured before the failure.
	Output []byte
	// Err is the underlying error.
	Err error
}

func newQueryError(ctx context.Context, tool string, args []string, out []byte, err error) *QueryError {
	qe := &QueryError{
		Tool:     tool,
		Args:     args,
		ExitCode: -1,
		Output:   out,
		Err:      err,
	}
	var exitErr utilexec.ExitError
	if errors.As(err, &exitErr) {
		qe.ExitCode = exitErr.ExitStatus()
	}
	// A killed process reports "signal: killed"; surface the deadline instead.
	if ctxErr := ctx.Err(); ctxErr != nil {
		qe.Err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	return qe
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	cmd := strings.TrimSpace(e.Tool + " " + strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: exit status %d", cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Require checks that every tool resolves on PATH and returns the first
// one that does not.
func Require(e utilexec.Interface, tools ...string) (string, error) {
	if e == nil {
		e = utilexec.New()
	}
	for _, tool := range tools {
		if _, err := e.LookPath(tool); err != nil {
			return tool, err
		}
	}
	return "", nil
}
