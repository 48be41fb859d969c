package main

import (
	stdLog "log"
	"os"

	"github.com/joho/godotenv"

	"github.com/bookwise/library-service/notifier/app"
	"github.com/bookwise/library-service/notifier/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	if err := app.Run(config.NewConfig()); err != nil {
		stdLog.Fatal(err)
	}
}
