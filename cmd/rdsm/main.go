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

// Command rdsm statically disassembles a ReflectVM image.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v2"

	"reflectvm/pkg/disasm"
)

func checkErr(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	app := &cli.App{
		Name:      "rdsm",
		Usage:     "statically disassemble a ReflectVM image",
		Version:   "v0.0.1",
		ArgsUsage: "<input.rvm> <output.rsm>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 2 {
				cli.ShowAppHelp(c)
				return cli.Exit("", 1)
			}

			image, err := os.ReadFile(c.Args().Get(0))
			checkErr(err)

			sweep, err := disasm.Sweep(image)
			checkErr(err)

			out, err := os.Create(c.Args().Get(1))
			checkErr(err)
			defer out.Close()

			checkErr(sweep.Emit(out))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		checkErr(err)
	}
}
