// Copyright 2021 Silvio Böhler
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

package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lotcheck/lotcheck/lib/syntax"
	"github.com/lotcheck/lotcheck/lib/syntax/printer"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// CreateFormatCommand creates the command.
func CreateFormatCommand() *cobra.Command {

	var r formatRunner

	c := &cobra.Command{
		Use:   "format",
		Short: "Format the given journal files",
		Long:  `Format the given journal files in place, in canonical form.`,
		Args:  cobra.MinimumNArgs(1),
		Run:   r.run,
	}
	return c
}

const concurrency = 10

type formatRunner struct{}

func (r *formatRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *formatRunner) execute(cmd *cobra.Command, args []string) (errors error) {
	var (
		mu   sync.Mutex
		sema = make(chan bool, concurrency)
	)
	for _, arg := range args {
		arg := arg
		sema <- true
		go func() {
			defer func() { <-sema }()
			if err := formatFile(arg); err != nil {
				mu.Lock()
				defer mu.Unlock()
				errors = multierr.Append(errors, err)
			}
		}()
	}
	for i := 0; i < concurrency; i++ {
		sema <- true
	}
	return errors
}

func formatFile(target string) error {
	log.Debug().Str("file", target).Msg("formatting")
	f, err := syntax.ParseFile(target)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "format-")
	if err != nil {
		return err
	}
	dest := bufio.NewWriter(tmp)
	_, err = printer.New().PrintFile(dest, f)
	err = multierr.Combine(err, dest.Flush(), tmp.Close())
	if err != nil {
		return multierr.Append(err, os.Remove(tmp.Name()))
	}
	return atomic.ReplaceFile(tmp.Name(), target)
}
