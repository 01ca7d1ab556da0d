// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Command rvm runs a ReflectVM image to completion.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v2"

	"reflectvm/internal/rvmlog"
	"reflectvm/pkg/vm"
)

func checkErr(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	app := &cli.App{
		Name:      "rvm",
		Usage:     "execute a ReflectVM image",
		Version:   "v0.0.1",
		ArgsUsage: "<input.rvm>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "log each decode/execute diagnostic to stderr",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 1 {
				cli.ShowAppHelp(c)
				return cli.Exit("", 1)
			}

			if c.Bool("trace") {
				rvmlog.SetLogger(stderrLogger{})
				rvmlog.SetEnabled(true)
			}

			image, err := os.ReadFile(c.Args().Get(0))
			checkErr(err)

			machine := vm.New()
			if err := machine.LoadImage(image); err != nil {
				checkErr(err)
			}
			machine.Run()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		checkErr(err)
	}
}

type stderrLogger struct{}

func (stderrLogger) Log(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}
