// Command syncheck parses one or more CIF files and reports, per file,
// how many syntax errors the parser's error callback observed.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/op/go-logging"
	"github.com/urfave/cli"

	"github.com/jbcif/cif/ciflog"
	"github.com/jbcif/cif/parser"
	"github.com/jbcif/cif/scanner"
)

type fileDecoder struct {
	f *os.File
}

func (d fileDecoder) Fill(dst []byte) (int, error) {
	return d.f.Read(dst)
}

func checkFile(path string, quiet bool, cif2 bool, maxFrameDepth int) (errCount int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cb := func(code scanner.ErrorCode, line, column int, snippet string, userData interface{}) int {
		errCount++
		if !quiet {
			fmt.Printf("%s:%d:%d: error %d: %s\n", path, line, column, code, snippet)
		}
		return 0
	}

	_, err = parser.Parse(fileDecoder{f: f}, parser.Config{
		DefaultCIF2:   cif2,
		MaxFrameDepth: maxFrameDepth,
		OnError:       cb,
	})
	return errCount, err
}

func runCheck(c *cli.Context) error {
	if c.Bool("verbose") {
		ciflog.Setup(logging.DEBUG)
	} else {
		ciflog.Setup(logging.WARNING)
	}

	cif2 := c.String("cif-version") == "2.0"
	quiet := c.Bool("quiet")
	maxFrameDepth := c.Int("max-frame-depth")

	args := c.Args()
	if len(args) == 0 {
		return cli.NewExitError("syncheck: no files given", 1)
	}

	anyErrors := false
	for _, path := range args {
		n, err := checkFile(path, quiet, cif2, maxFrameDepth)
		if err != nil {
			anyErrors = true
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		if n > 0 {
			anyErrors = true
			fmt.Println(color.RedString("%s: %d error(s)", path, n))
		} else {
			fmt.Println(color.GreenString("%s: ok", path))
		}
	}

	if anyErrors {
		return cli.NewExitError("", 1)
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "syncheck"
	app.Usage = "check CIF files for syntax errors"
	app.ArgsUsage = "FILE..."
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "suppress per-error messages, print only the per-file summary",
		},
		cli.StringFlag{
			Name:  "cif-version",
			Value: "1.1",
			Usage: "default CIF version to assume when a stream declares none (1.1 or 2.0)",
		},
		cli.IntFlag{
			Name:  "max-frame-depth",
			Value: 0,
			Usage: "maximum save-frame nesting depth, 0 for unbounded",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "raise the log level to DEBUG",
		},
	}
	app.Action = runCheck
	app.Run(os.Args)
}
