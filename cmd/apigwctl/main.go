package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/krateoplatformops/provider-runtime/pkg/logging"
	"gopkg.in/alecthomas/kingpin.v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

func main() {
	app := kingpin.New("apigwctl", "Prepares OpenAPI documents for API Gateway and runs the provider handlers locally.")
	debug := app.Flag("debug", "Run with debug logging.").Short('d').Bool()

	prepareCmd := app.Command("prepare", "Prepare an OpenAPI document for the gateway.")
	prepareSource := prepareCmd.Arg("source", "Document source: path, url or any go-getter address.").Required().String()
	prepareOptions := prepareCmd.Flag("options", "JSON file with integrations, operation lookup and the other preparation options.").Required().ExistingFile()
	prepareOutput := prepareCmd.Flag("output", "Write the prepared document to this file instead of stdout.").Short('o').String()

	extractCmd := app.Command("extract", "Extract the request models of WebSocket routes.")
	extractSource := extractCmd.Arg("source", "Document source: path, url or any go-getter address.").Required().String()
	extractRoutes := extractCmd.Flag("route", "Route key to path mapping, repeatable.").Short('r').Required().StringMap()

	invokeCmd := app.Command("invoke", "Run a handler for a lifecycle request read from stdin.")
	invokeHandler := invokeCmd.Arg("handler", "Handler name.").Required().Enum(handlerNames()...)
	invokeDir := invokeCmd.Flag("dir", "Use this local directory as object storage instead of S3. Buckets are sub directories.").ExistingDir()
	invokeRegion := invokeCmd.Flag("aws-region", "Region of the gateway and of the object storage.").Envar("AWS_REGION").Default("eu-west-1").String()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	zl := zap.New(zap.UseDevMode(*debug), zap.WriteTo(os.Stderr))
	ctrl.SetLogger(zl)
	log := newLogger(zl, *debug)

	ctx := context.Background()

	var err error
	switch cmd {
	case prepareCmd.FullCommand():
		err = withOutput(*prepareOutput, func(w io.Writer) error {
			return runPrepare(ctx, *prepareSource, *prepareOptions, w)
		})
	case extractCmd.FullCommand():
		err = runExtract(ctx, *extractSource, *extractRoutes, os.Stdout)
	case invokeCmd.FullCommand():
		var env *invokeEnv
		env, err = newInvokeEnv(*invokeDir, *invokeRegion, log)
		if err == nil {
			err = runInvoke(ctx, *invokeHandler, env, os.Stdin, os.Stdout)
		}
	}
	app.FatalIfError(err, "%s", cmd)
}

func newLogger(l logr.Logger, debug bool) logging.Logger {
	if !debug {
		return logging.NewLogrLogger(logr.Discard())
	}
	return logging.NewLogrLogger(l.WithName("apigwctl"))
}

func withOutput(path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
