package main

import (
	"clinic-scheduling/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize clinic scheduling service")
	}

	// Blocks until SIGINT/SIGTERM, then drains requests and closes the store
	app.Run()
}
