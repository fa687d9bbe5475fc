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

package diag

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recordingChannel struct {
	lines []string
}

func (r *recordingChannel) AppendLine(line string) {
	r.lines = append(r.lines, line)
}

func TestCollector(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	c := New(ctx)
	c.Log("php-cs-fixer: /usr/bin/php-cs-fixer")
	c.Logf("config: %s", "/proj/.php-cs-fixer.php")
	c.Log("line one\nline two\n")
	c.Log("")

	assert.Equal(t, []string{
		"php-cs-fixer: /usr/bin/php-cs-fixer",
		"config: /proj/.php-cs-fixer.php",
		"line one",
		"line two",
	}, c.Lines(), "lines should be buffered in order")
	assert.Contains(t, buf.String(), "php-cs-fixer: /usr/bin/php-cs-fixer", "lines should be mirrored to zerolog")

	out := &recordingChannel{}
	c.Drain(out)
	assert.Len(t, out.lines, 4, "every line should be drained")
	assert.Empty(t, c.Lines(), "drain should clear the buffer")

	c.Drain(out)
	assert.Len(t, out.lines, 4, "a second drain should add nothing")
}

func TestCollectorDrainNil(t *testing.T) {
	c := New(context.Background())
	c.Log("dropped")
	c.Drain(nil)
	assert.Empty(t, c.Lines(), "drain should clear even without a channel")
}
