package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"roundtable/internal"
)

type checkResult struct {
	path        string
	readErr     error
	diagnostics []internal.Diagnostic
}

// check scans, parses and resolves every file without running any of them
func (c *cli) check(paths []string) int {
	if len(paths) == 0 {
		printUsage(c.stderr)
		return exitUsage
	}

	results, err := checkFiles(context.Background(), paths, c.cfg.MaxCallDepth, c.log)
	if err != nil {
		c.color.Println(c.color.Red(err))
		return exitUsage
	}

	code := exitOK
	for _, result := range results {
		switch {
		case result.readErr != nil:
			c.color.Println(c.color.Red(result.readErr))
			if code == exitOK {
				code = exitNoInput
			}
		case len(result.diagnostics) > 0:
			for _, d := range result.diagnostics {
				c.color.Println(c.color.Yellow(result.path+":"), c.color.Red(d.String()))
			}
			code = exitStatic
		default:
			fmt.Fprintf(c.stdout, "%s: ok\n", result.path)
		}
	}
	return code
}

// checkFiles checks paths concurrently, results keep the order of paths
func checkFiles(ctx context.Context, paths []string, maxDepth int, log logrus.FieldLogger) ([]checkResult, error) {
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := checkResult{path: path}
			source, err := readSource(path)
			if err != nil {
				result.readErr = err
				results[i] = result
				return nil
			}

			interp := internal.NewInterpreter(
				internal.WithLogger(log.WithField("file", path)),
				internal.WithMaxCallDepth(maxDepth),
			)
			var staticErr *internal.StaticError
			if err := interp.Check(source); errors.As(err, &staticErr) {
				result.diagnostics = staticErr.Diagnostics()
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
