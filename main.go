package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/homonym/codegen"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/homonym", "cmd")

func reporter(debug bool) func(error) {
	return func(err error) {
		if debug {
			tracerr.PrintSourceColor(err)
			return
		}
		fmt.Fprintln(os.Stderr, tracerr.Unwrap(err))
	}
}

func setupLogging(conf Config, debug bool) {
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, debug))
	if debug {
		capnslog.SetGlobalLogLevel(capnslog.DEBUG)
		return
	}
	level, err := conf.Level()
	if err != nil {
		level = capnslog.NOTICE
	}
	capnslog.SetGlobalLogLevel(level)
}

func fileArg(c *cli.Context) (string, error) {
	file := c.Args().First()
	if file == "" {
		return "", fmt.Errorf("%s needs a file to work on", c.Command.Name)
	}
	return file, nil
}

func main() {
	var conf Config

	app := &cli.App{
		Name:  "homonym",
		Usage: "homonym interpreter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: ConfigFile,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Value: false,
			},
		},
		Before: func(c *cli.Context) (err error) {
			conf, err = LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			setupLogging(conf, c.Bool("debug"))
			plog.Debugf("loaded config %+v", conf)
			return nil
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			reporter(c.Bool("debug"))(err)
			os.Exit(1)
		},
		Action: func(c *cli.Context) error {
			return repl(conf, c.Bool("debug"))
		},
		Commands: []*cli.Command{
			{
				Name:  "repl",
				Usage: "start an interactive session",
				Action: func(c *cli.Context) error {
					return repl(conf, c.Bool("debug"))
				},
			},
			{
				Name:  "run",
				Usage: "run a file",
				Action: func(c *cli.Context) error {
					file, err := fileArg(c)
					if err != nil {
						return err
					}

					s := NewSession(conf, os.Stdout)
					v, err := s.ExecFile(file)
					if err != nil {
						return err
					}
					fmt.Println(v)
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "type check a file without running it",
				Action: func(c *cli.Context) error {
					file, err := fileArg(c)
					if err != nil {
						return err
					}

					if _, err := checkFile(conf, file); err != nil {
						return err
					}
					fmt.Printf("%s: ok\n", file)
					return nil
				},
			},
			{
				Name:  "emit",
				Usage: "compile a file to LLVM IR",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
				},
				Action: func(c *cli.Context) error {
					file, err := fileArg(c)
					if err != nil {
						return err
					}

					stmts, err := checkFile(conf, file)
					if err != nil {
						return err
					}
					module, err := codegen.Emit(stmts)
					if err != nil {
						return err
					}

					var out io.Writer = os.Stdout
					if path := c.String("output"); path != "" {
						fi, err := os.Create(path)
						if err != nil {
							return tracerr.Wrap(err)
						}
						defer fi.Close()
						out = fi
					}
					_, err = io.WriteString(out, module.String())
					return tracerr.Wrap(err)
				},
			},
			{
				Name:  "init",
				Usage: "write a default " + ConfigFile,
				Action: func(c *cli.Context) error {
					path := c.String("config")
					if err := WriteConfig(path, DefaultConfig()); err != nil {
						return err
					}
					plog.Infof("wrote %s", path)
					return nil
				},
			},
		},
	}
	app.Run(os.Args)
}

func repl(conf Config, debug bool) error {
	s := NewSession(conf, os.Stdout)
	for _, file := range conf.Preload {
		if _, err := s.ExecFile(file); err != nil {
			return err
		}
		plog.Debugf("preloaded %s", file)
	}

	s.REPL(os.Stdin, conf.Prompt, reporter(debug))
	return nil
}
