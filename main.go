package main

import (
	"os"

	"github.com/kcprofile/kcprofile/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
