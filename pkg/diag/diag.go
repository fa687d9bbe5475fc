// Copyright 2025 walteh LLC
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

// Package diag collects the diagnostic lines of a single format invocation
// until the caller hands them to an output channel.
package diag

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// 📺 OutputChannel receives drained diagnostic lines
type OutputChannel interface {
	AppendLine(line string)
}

// 📋 Collector buffers diagnostic lines for one invocation
type Collector struct {
	mu    sync.Mutex
	lines []string
	zlog  zerolog.Logger
}

// 🏭 New creates a collector that mirrors lines to the context logger
func New(ctx context.Context) *Collector {
	return &Collector{
		zlog: zerolog.Ctx(ctx).With().Str("component", "diag").Logger(),
	}
}

// 📝 Log appends a line. Multi-line messages are split.
func (c *Collector) Log(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg = strings.TrimRight(msg, "\n")
	if msg == "" {
		return
	}
	for _, line := range strings.Split(msg, "\n") {
		c.lines = append(c.lines, line)
	}
	c.zlog.Debug().Msg(msg)
}

// 📝 Logf appends a formatted line
func (c *Collector) Logf(format string, args ...interface{}) {
	c.Log(fmt.Sprintf(format, args...))
}

// 📜 Lines returns a copy of the buffered lines
func (c *Collector) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// 🚿 Drain writes every buffered line to out and clears the buffer
func (c *Collector) Drain(out OutputChannel) {
	c.mu.Lock()
	lines := c.lines
	c.lines = nil
	c.mu.Unlock()

	if out == nil {
		return
	}
	for _, line := range lines {
		out.AppendLine(line)
	}
}
