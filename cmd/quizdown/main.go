// Command quizdown converts markdown quizzes to HTML, Moodle XML, JSON and
// QTI packages.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		log.NewWithOptions(os.Stderr, log.Options{Prefix: "quizdown"}).Error(err.Error())
		stop()
		os.Exit(1)
	}
}
