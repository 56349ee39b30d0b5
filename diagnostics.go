// Copyright 2021 Airbus Defence and Space
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

package eliminate

import (
	"fmt"
	"log/slog"

	"github.com/lnorton-eliminate/eliminate/internal/vectorio"
)

// Warning is one accumulated per-feature problem. These never cause Run
// to fail.
type Warning struct {
	Op      string
	FID     vectorio.FID
	Message string
}

// Diagnostics accumulates warnings across every pipeline stage and logs
// each as it is recorded, without affecting Run's return value.
type Diagnostics struct {
	logger   *slog.Logger
	quiet    bool
	Warnings []Warning
}

// NewDiagnostics builds a collector that logs through logger. When quiet
// is true, warnings are still collected but not logged (the CLI's
// -q/-quiet flag).
func NewDiagnostics(logger *slog.Logger, quiet bool) *Diagnostics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Diagnostics{logger: logger, quiet: quiet}
}

// Warn records a per-feature problem and logs it unless quiet.
func (d *Diagnostics) Warn(op string, fid vectorio.FID, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.Warnings = append(d.Warnings, Warning{Op: op, FID: fid, Message: msg})
	if !d.quiet {
		d.logger.Warn(msg, "op", op, "fid", int64(fid))
	}
}
