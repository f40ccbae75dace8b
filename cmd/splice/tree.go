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
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bufbuild/splice/cfamily"
	"github.com/bufbuild/splice/tree"
)

func treeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the syntax tree of a file, for writing selectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			logger := cfg.Log.Logger(cmd.ErrOrStderr())

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, err := cfamily.Parse(cmd.Context(), args[0], string(data))
			if err != nil {
				return err
			}
			for _, n := range cfamily.Errors(root) {
				logger.Warn("syntax error", "at", n.Span().String())
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tree.Dump(root))
			return err
		},
	}
}
