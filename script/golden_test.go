// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package script_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/splice"
	"github.com/bufbuild/splice/cfamily"
	"github.com/bufbuild/splice/internal/golden"
	"github.com/bufbuild/splice/script"
)

// goldenCase is a test case in testdata: a source file and a script to run
// over it.
type goldenCase struct {
	Path   string        `yaml:"path"`
	Source string        `yaml:"source"`
	Script script.Script `yaml:"script"`
}

func TestGolden(t *testing.T) {
	t.Parallel()

	golden.Corpus{
		Root:      "testdata",
		Refresh:   "SPLICE_REFRESH",
		Extension: "yaml",
		Outputs: []golden.Output{
			{Extension: "out"},
			{Extension: "err"},
		},
		Test: func(t *testing.T, path, text string) []string {
			var tc goldenCase
			dec := yaml.NewDecoder(strings.NewReader(text))
			dec.KnownFields(true)
			require.NoError(t, dec.Decode(&tc), "decoding %q", path)

			root, err := cfamily.Parse(context.Background(), tc.Path, tc.Source)
			require.NoError(t, err)
			require.Empty(t, cfamily.Errors(root))

			rw := splice.Begin(root)
			if err := tc.Script.Apply(rw); err != nil {
				return []string{"", err.Error() + "\n"}
			}
			change, err := rw.Rewrite()
			if err != nil {
				return []string{"", err.Error() + "\n"}
			}
			return []string{change.Apply(), ""}
		},
	}.Run(t)
}
